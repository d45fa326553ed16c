package email

import (
	"bytes"
	"context"
	"html/template"
	"sync"

	"github.com/rs/zerolog/log"
)

// Message is a rendered email ready for delivery
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Sender delivers rendered messages. Implementations: LogSender (default),
// or an SMTP/provider client supplied at deployment time.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg *Message) error {
	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("email (log sender)")
	return nil
}

// QueuedEmail represents an email in the send queue
type QueuedEmail struct {
	To           string
	ToName       string
	Subject      string
	TemplateName string
	Data         interface{}
}

// Service renders templates and sends asynchronously through a queue worker
type Service struct {
	sender    Sender
	fromName  string
	templates map[string]*template.Template
	queue     chan *QueuedEmail
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewService creates email service and starts its worker
func NewService(sender Sender, fromName string) *Service {
	s := &Service{
		sender:    sender,
		fromName:  fromName,
		templates: make(map[string]*template.Template),
		queue:     make(chan *QueuedEmail, 100),
	}

	s.loadTemplates()

	s.wg.Add(1)
	go s.worker()

	return s
}

func (s *Service) loadTemplates() {
	templates := map[string]string{
		"coupon_announcement": CouponAnnouncementTemplate,
		"reward_redeemed":     RewardRedeemedTemplate,
	}

	for name, content := range templates {
		tmpl, err := template.New(name).Parse(content)
		if err != nil {
			log.Error().Err(err).Str("template", name).Msg("Failed to parse email template")
			continue
		}
		s.templates[name] = tmpl
	}
}

// Enqueue queues an email for async delivery. Drops the message when the
// queue is full rather than blocking the caller.
func (s *Service) Enqueue(e *QueuedEmail) {
	select {
	case s.queue <- e:
	default:
		log.Warn().Str("to", e.To).Str("template", e.TemplateName).Msg("email queue full, dropping message")
	}
}

func (s *Service) worker() {
	defer s.wg.Done()
	for e := range s.queue {
		if err := s.send(context.Background(), e); err != nil {
			log.Error().Err(err).Str("to", e.To).Str("template", e.TemplateName).Msg("Failed to send email")
		}
	}
}

func (s *Service) send(ctx context.Context, e *QueuedEmail) error {
	tmpl, ok := s.templates[e.TemplateName]
	if !ok {
		log.Error().Str("template", e.TemplateName).Msg("Unknown email template")
		return nil
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, e.Data); err != nil {
		return err
	}

	return s.sender.Send(ctx, &Message{
		To:      e.To,
		ToName:  e.ToName,
		Subject: e.Subject,
		HTML:    buf.String(),
	})
}

// Close drains and stops the worker
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
}
