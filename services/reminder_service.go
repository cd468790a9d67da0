// services/reminder_service.go
package services

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"pores-backend/models"
	"pores-backend/utils"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

type ReminderService struct {
	db     *gorm.DB
	client *twilio.RestClient
}

func NewReminderService(db *gorm.DB) *ReminderService {
	// Initialize Twilio client
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &ReminderService{
		db: db,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *ReminderService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.SendDailyReminders()
	})

	c.Start()
	log.Println("Credit reminder scheduler started")
}

func (s *ReminderService) SendDailyReminders() {
	log.Println("Starting daily credit reminder processing...")

	// Get all active stores with reminders enabled
	var stores []models.Store
	if err := s.db.Find(&stores, "is_active = ? AND credit_reminders = ?", true, true).Error; err != nil {
		log.Printf("Failed to fetch stores: %v", err)
		return
	}

	for _, store := range stores {
		s.ProcessStoreReminders(store)
	}

	log.Println("Daily credit reminder processing completed")
}

// graceDays is how long a credit may sit unpaid before a reminder goes out
func (s *ReminderService) graceDays() int {
	if env := os.Getenv("CREDIT_REMINDER_GRACE_DAYS"); env != "" {
		if d, err := strconv.Atoi(env); err == nil {
			return d
		}
	}
	return 7
}

func (s *ReminderService) ProcessStoreReminders(store models.Store) {
	credits, err := s.getOverdueCredits(store.ID)
	if err != nil {
		log.Printf("Store %s: Failed to get overdue credits: %v", store.ID, err)
		return
	}

	for _, credit := range credits {
		s.sendReminder(store, credit)
	}
}

// getOverdueCredits returns open credits past the grace period with a
// reachable customer, skipping any reminded in the last 24 hours.
func (s *ReminderService) getOverdueCredits(storeID uuid.UUID) ([]models.Credit, error) {
	cutoff := time.Now().AddDate(0, 0, -s.graceDays())
	reminderCutoff := time.Now().Add(-24 * time.Hour)

	var credits []models.Credit
	err := s.db.Where(
		"store_id = ? AND remaining_balance > 0 AND customer_phone <> '' AND created_at <= ? AND (last_reminder_at IS NULL OR last_reminder_at <= ?)",
		storeID, cutoff, reminderCutoff,
	).Find(&credits).Error

	return credits, err
}

func (s *ReminderService) sendReminder(store models.Store, credit models.Credit) {
	if !utils.ValidatePhone(credit.CustomerPhone) {
		log.Printf("Store %s: skipping credit %s, invalid phone", store.ID, credit.ID)
		return
	}

	daysOutstanding := utils.DaysBetween(credit.CreatedAt, time.Now())
	message := fmt.Sprintf(
		"Hi %s, a friendly reminder from %s: you have an outstanding balance of %.2f %s (%d days). Please visit us to settle it. Thank you!",
		credit.CustomerName, store.Name, credit.RemainingBalance, store.Currency, daysOutstanding,
	)

	reminderLog := models.ReminderLog{
		StoreID:  store.ID,
		CreditID: credit.ID,
		Message:  message,
		Channel:  "sms",
		SentAt:   time.Now(),
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(credit.CustomerPhone)
	params.SetFrom(os.Getenv("TWILIO_FROM_NUMBER"))
	params.SetBody(message)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		log.Printf("Store %s: failed to send reminder for credit %s: %v", store.ID, credit.ID, err)
		reminderLog.Status = "failed"
		reminderLog.ErrorMessage = err.Error()
	} else {
		reminderLog.Status = "sent"
		now := time.Now()
		if err := s.db.Model(&models.Credit{}).Where("id = ?", credit.ID).
			Update("last_reminder_at", &now).Error; err != nil {
			log.Printf("Store %s: failed to stamp reminder time on credit %s: %v", store.ID, credit.ID, err)
		}
	}

	if err := s.db.Create(&reminderLog).Error; err != nil {
		log.Printf("Store %s: failed to log reminder for credit %s: %v", store.ID, credit.ID, err)
	}
}
