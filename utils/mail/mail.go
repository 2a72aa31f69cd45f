package mail

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"os"
	"strconv"

	"github.com/staynest/booking/logger"
	"github.com/staynest/booking/models/booking_models"
	gomail "gopkg.in/gomail.v2"
)

// Email template paths inside the embedded FS.
const (
	bookingPendingTemplate   = "templates/email/booking_pending.html"
	bookingConfirmedTemplate = "templates/email/booking_confirmed.html"
	bookingRejectedTemplate  = "templates/email/booking_rejected.html"
)

var emailTemplates embed.FS
var templatesReady bool

// InitTemplates stores the embedded template FS. Must be called from main
// before any mail is sent.
func InitTemplates(fsys embed.FS) {
	emailTemplates = fsys
	templatesReady = true
}

type bookingEmailData struct {
	BookingID    string
	RoomName     string
	CheckIn      string
	CheckOut     string
	Nights       int
	TotalPrice   int64
	NightlyPrice int64
	Status       string
}

func sendEmail(toEmail, subject, templatePath string, data interface{}) error {
	if !templatesReady {
		return fmt.Errorf("email templates not initialized")
	}

	mailer := gomail.NewMessage()
	mailer.SetHeader("From", os.Getenv("FROM_EMAIL"))
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)

	t, err := template.ParseFS(emailTemplates, templatePath)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to parse email template %s: %v", templatePath, err)
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		logger.ErrorLogger.Errorf("Failed to execute email template %s: %v", templatePath, err)
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	mailer.SetBody("text/html", body.String())

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		logger.ErrorLogger.Errorf("Invalid SMTP port: %v", err)
		return fmt.Errorf("invalid SMTP port: %w", err)
	}

	smtpHost := os.Getenv("SMTP_HOST")
	dialer := gomail.NewDialer(smtpHost, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	dialer.TLSConfig = &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         smtpHost,
	}

	if err := dialer.DialAndSend(mailer); err != nil {
		logger.ErrorLogger.Errorf("Failed to send email to %s: %v", toEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.InfoLogger.Infof("Email sent to %s (%s)", toEmail, subject)
	return nil
}

func dataFor(booking *booking_models.Booking, roomName string) bookingEmailData {
	return bookingEmailData{
		BookingID:    booking.ID.String(),
		RoomName:     roomName,
		CheckIn:      booking.CheckInDate.String(),
		CheckOut:     booking.CheckOutDate.String(),
		Nights:       booking.CheckInDate.DaysUntil(booking.CheckOutDate),
		TotalPrice:   booking.TotalPrice,
		NightlyPrice: booking.NightlyPrice,
		Status:       booking.Status,
	}
}

// SendBookingPendingAsync notifies the guest that their booking was admitted
// and awaits payment. Fire-and-forget: a delivery failure never rolls back
// the reservation.
func SendBookingPendingAsync(toEmail string, booking *booking_models.Booking, roomName string) {
	b := *booking
	go func() {
		if err := sendEmail(toEmail, "Your booking is awaiting payment", bookingPendingTemplate, dataFor(&b, roomName)); err != nil {
			logger.ErrorLogger.Errorf("Pending-booking email for %s failed: %v", b.ID, err)
		}
	}()
}

// SendBookingConfirmedAsync notifies the guest that the tenant approved
// their payment.
func SendBookingConfirmedAsync(toEmail string, booking *booking_models.Booking, roomName string) {
	b := *booking
	go func() {
		if err := sendEmail(toEmail, "Your booking is confirmed", bookingConfirmedTemplate, dataFor(&b, roomName)); err != nil {
			logger.ErrorLogger.Errorf("Confirmation email for %s failed: %v", b.ID, err)
		}
	}()
}

// SendBookingRejectedAsync notifies the guest that the tenant rejected
// their booking.
func SendBookingRejectedAsync(toEmail string, booking *booking_models.Booking, roomName string) {
	b := *booking
	go func() {
		if err := sendEmail(toEmail, "Your booking was rejected", bookingRejectedTemplate, dataFor(&b, roomName)); err != nil {
			logger.ErrorLogger.Errorf("Rejection email for %s failed: %v", b.ID, err)
		}
	}()
}
