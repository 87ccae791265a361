package service

import (
	"log"
	"sync"

	"parkscan/internal/metrics"
)

// Notification kinds, used for logging and metrics labels.
const (
	NotifyConfirmation = "confirmation"
	NotifyReminder     = "reminder"
)

// Notification is one queued delivery. Email is sent when ToEmail is
// set; SMS when ToPhone is set.
type Notification struct {
	Kind      string
	ToEmail   string
	ToName    string
	ToPhone   string
	Subject   string
	PlainBody string
	HTMLBody  string
	SMSBody   string
	Ref       string // reservation token, for the failure log
}

// Sender delivers a single message through an external provider.
type Sender interface {
	SendEmail(toEmail, toName, subject, plainBody, htmlBody string) error
	SendSMS(toNumber, body string) error
}

// NotificationEnqueuer is what the services need from the Notifier.
type NotificationEnqueuer interface {
	Enqueue(n Notification)
}

// Notifier dispatches notifications on a background worker so request
// handlers never block on, or fail because of, the email and SMS
// providers. Delivery failures are logged and counted, never
// propagated.
type Notifier struct {
	sender  Sender
	queue   chan Notification
	metrics metrics.Recorder
	wg      sync.WaitGroup
}

func NewNotifier(sender Sender, queueSize int, rec metrics.Recorder) *Notifier {
	if queueSize <= 0 {
		queueSize = 64
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Notifier{
		sender:  sender,
		queue:   make(chan Notification, queueSize),
		metrics: rec,
	}
}

// Start launches the delivery worker.
func (n *Notifier) Start() {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for msg := range n.queue {
			n.deliver(msg)
		}
	}()
}

// Enqueue hands a notification to the worker without blocking. When
// the queue is full the notification is dropped and logged; delivery
// is best effort by contract.
func (n *Notifier) Enqueue(msg Notification) {
	select {
	case n.queue <- msg:
	default:
		log.Printf("Notification queue full, dropping %s for %s", msg.Kind, msg.Ref)
		n.metrics.RecordNotification(msg.Kind, false)
	}
}

// Close drains the queue and stops the worker.
func (n *Notifier) Close() {
	close(n.queue)
	n.wg.Wait()
}

func (n *Notifier) deliver(msg Notification) {
	if msg.ToEmail != "" {
		if err := n.sender.SendEmail(msg.ToEmail, msg.ToName, msg.Subject, msg.PlainBody, msg.HTMLBody); err != nil {
			log.Printf("Failed to send %s email for %s: %v", msg.Kind, msg.Ref, err)
			n.metrics.RecordNotification(msg.Kind, false)
		} else {
			n.metrics.RecordNotification(msg.Kind, true)
		}
	}
	if msg.ToPhone != "" && msg.SMSBody != "" {
		if err := n.sender.SendSMS(msg.ToPhone, msg.SMSBody); err != nil {
			log.Printf("Failed to send %s SMS for %s: %v", msg.Kind, msg.Ref, err)
			n.metrics.RecordNotification(msg.Kind, false)
		} else {
			n.metrics.RecordNotification(msg.Kind, true)
		}
	}
}
