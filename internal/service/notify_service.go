package service

import (
	"fmt"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	log "github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"fleetreserve/internal/entities"
)

// NotifyService sends best-effort reservation notifications. Delivery runs
// in the background and never affects the request outcome; unconfigured
// channels are skipped.
type NotifyService struct{}

func NewNotifyService() *NotifyService {
	return &NotifyService{}
}

func (s *NotifyService) ReservationCreated(res *entities.ReservationResponse) {
	s.send(res, "confirmed")
}

func (s *NotifyService) ReservationCancelled(res *entities.ReservationResponse) {
	s.send(res, "cancelled")
}

func (s *NotifyService) send(res *entities.ReservationResponse, status string) {
	if res.User == nil || res.Vehicle == nil {
		return
	}

	const timeLayout = "02 Jan 2006 15:04 MST"
	vehicleLabel := fmt.Sprintf("%s %s (%s)", res.Vehicle.Brand, res.Vehicle.Model, res.Vehicle.RegistrationNumber)
	subject := fmt.Sprintf("Your vehicle reservation is %s", status)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour reservation is %s.\n\n"+
			"Vehicle: %s\n"+
			"From: %s\n"+
			"To: %s\n"+
			"Reason: %s\n\n"+
			"FleetReserve",
		res.User.FirstName, status, vehicleLabel,
		res.StartDate.Format(timeLayout), res.EndDate.Format(timeLayout), res.Reason,
	)
	smsBody := fmt.Sprintf("FleetReserve: reservation for %s is %s. Pickup: %s.",
		vehicleLabel, status, res.StartDate.Format("02/01 15:04"))

	reservationID := res.ID
	user := *res.User
	go func() {
		if err := sendEmailWithSendGrid(user.Email, user.FirstName, subject, body); err != nil {
			log.Warnf("Reservation %s: email to %s failed: %v", reservationID, user.Email, err)
		}
		if user.Phone == "" {
			return
		}
		if err := sendSMS(user.Phone, smsBody); err != nil {
			log.Warnf("Reservation %s: SMS to %s failed: %v", reservationID, user.Phone, err)
		}
	}()
}

func sendEmailWithSendGrid(toEmail, toName, subject, plainTextContent string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if apiKey == "" || fromEmail == "" {
		return nil
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "FleetReserve"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, "")

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

func sendSMS(toNumber, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")
	if accountSid == "" || authToken == "" || fromNumber == "" {
		return nil
	}
	if !strings.HasPrefix(toNumber, "+") {
		log.Warnf("Destination number %q is not E.164; SMS may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})
	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	if _, err := client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}
	return nil
}
