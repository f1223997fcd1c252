// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"laundromat-backend/metrics"
	"laundromat-backend/models"
	"laundromat-backend/store"
	"laundromat-backend/utils"
)

// Sender delivers a text message and returns the provider's message id.
type Sender interface {
	Send(to, body string) (string, error)
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSid, authToken, from string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
	}
}

func (t *TwilioSender) Send(to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// ReminderOptions configures the pick-up reminder job.
type ReminderOptions struct {
	// Window is how far ahead of a pick-up the reminder goes out.
	Window      time.Duration
	CountryCode string
	Location    *time.Location
}

// ReminderService texts customers shortly before their laundry is due for
// pick-up. Each order is reminded at most once successfully.
type ReminderService struct {
	store   store.Store
	sender  Sender
	log     *logrus.Entry
	metrics *metrics.Metrics
	opts    ReminderOptions
	now     func() time.Time
}

func NewReminderService(s store.Store, sender Sender, log *logrus.Entry, m *metrics.Metrics, opts ReminderOptions) *ReminderService {
	if opts.Window <= 0 {
		opts.Window = 2 * time.Hour
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &ReminderService{
		store:   s,
		sender:  sender,
		log:     log.WithField("component", "reminder_service"),
		metrics: m,
		opts:    opts,
		now:     time.Now,
	}
}

// Schedule registers the reminder run on c.
func (s *ReminderService) Schedule(c *cron.Cron, spec string) error {
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := s.SendPickupReminders(ctx); err != nil {
			s.log.WithError(err).Error("pick-up reminder run failed")
		}
	})
	if err != nil {
		return err
	}
	s.log.WithField("schedule", spec).Info("reminder scheduler registered")
	return nil
}

// SendPickupReminders texts every customer whose order is due within the
// window and has not been reminded yet. It returns how many messages went out.
func (s *ReminderService) SendPickupReminders(ctx context.Context) (int, error) {
	now := s.now()
	orders, err := s.store.ListPickUpsBetween(ctx, now, now.Add(s.opts.Window))
	if err != nil {
		return 0, fmt.Errorf("list pick-ups: %w", err)
	}

	sent := 0
	for _, order := range orders {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		done, err := s.store.ReminderSent(ctx, order.ID)
		if err != nil {
			s.log.WithError(err).WithField("order_id", order.ID).Error("failed to check reminder log")
			continue
		}
		if done {
			continue
		}
		if s.remind(ctx, order) {
			sent++
		}
	}

	s.log.WithFields(logrus.Fields{"due": len(orders), "sent": sent}).Debug("pick-up reminder run completed")
	return sent, nil
}

func (s *ReminderService) remind(ctx context.Context, order models.LaundryOrder) bool {
	log := s.log.WithField("order_id", order.ID)
	if order.Customer == nil {
		log.Warn("order has no customer, skipping reminder")
		return false
	}

	message := PickupMessage(order, s.opts.Location)
	entry := models.ReminderLog{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Message:    message,
		Status:     models.ReminderStatusSent,
		Channel:    models.ReminderChannelSMS,
		SentAt:     s.now(),
	}

	to, ok := utils.FormatE164(s.opts.CountryCode, order.Customer.PhoneNumber)
	var err error
	if !ok {
		err = errors.New("phone number is not a valid E.164 number: " + to)
	} else {
		var sid string
		sid, err = s.sender.Send(to, message)
		if err == nil {
			log.WithField("sid", sid).Info("pick-up reminder sent")
		}
	}
	if err != nil {
		log.WithError(err).Warn("failed to send pick-up reminder")
		entry.Status = models.ReminderStatusFailed
		entry.ErrorMessage = err.Error()
	}
	s.metrics.ReminderSent(entry.Status)

	if logErr := s.store.CreateReminderLog(ctx, &entry); logErr != nil {
		log.WithError(logErr).Error("failed to log reminder")
	}
	return err == nil
}

// RecentReminders returns the latest reminder attempts, newest first.
func (s *ReminderService) RecentReminders(ctx context.Context, limit int) ([]models.ReminderLog, error) {
	logs, err := s.store.ListReminderLogs(ctx, limit)
	if err != nil {
		s.log.WithError(err).Error("failed to list reminder logs")
		return nil, &models.ServerError{Op: "services.ReminderService.RecentReminders", Err: err}
	}
	return nonNil(logs), nil
}

// PickupMessage is the text sent to a customer before pick-up.
func PickupMessage(order models.LaundryOrder, loc *time.Location) string {
	name := ""
	if order.Customer != nil {
		name = order.Customer.Name
	}
	loads := "loads"
	if order.Loads == 1 {
		loads = "load"
	}
	return fmt.Sprintf("Hi %s, your laundry (%d %s, $%s) will be ready for pick-up at %s.",
		name, order.Loads, loads, order.Price.StringFixed(2),
		order.PickUpDate.In(loc).Format("Mon Jan 2, 3:04 PM"))
}
