package service

import (
	"fmt"
	"log"
	"time"

	"parkscan/internal/repository"
)

// ReminderService emails customers whose reservation date is today and
// who have not checked in yet. Scheduled from main via cron.
type ReminderService struct {
	Repo     repository.JobRepository
	notifier NotificationEnqueuer
	qr       *QRCodeService
	loc      *time.Location
}

func NewReminderService(repo repository.JobRepository, notifier NotificationEnqueuer, qr *QRCodeService, loc *time.Location) *ReminderService {
	return &ReminderService{Repo: repo, notifier: notifier, qr: qr, loc: loc}
}

// SendDailyReminders queues one reminder per pending reservation due
// today. Per-recipient failures are handled downstream by the
// Notifier; this sweep never aborts part way.
func (s *ReminderService) SendDailyReminders() error {
	today := time.Now().In(s.loc)
	log.Println("Reminder job: checking for reservations due today...")

	reservations, err := s.Repo.PendingReservationsForDate(today)
	if err != nil {
		return fmt.Errorf("reminder job: failed to get pending reservations: %w", err)
	}
	if len(reservations) == 0 {
		log.Println("Reminder job: no pending reservations due today.")
		return nil
	}

	for i := range reservations {
		res := &reservations[i]
		dataURL, err := s.qr.DataURL(res.QRToken)
		if err != nil {
			log.Printf("Reminder job: error rendering QR code for reservation %s: %v", res.ID, err)
		}
		s.notifier.Enqueue(buildReminderNotification(res, dataURL))
	}

	log.Printf("Reminder job: queued %d reminders.", len(reservations))
	return nil
}
