package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/rx0a/rayspace/internal/common"
)

func NewMailService(mb common.MessageConsumer, cfg Config, logger *slog.Logger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:         mb,
		m:          NewMailer(cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Sender, NewTemplate()),
		logger:     logger,
		ownerEmail: cfg.OwnerEmail,
		siteURL:    strings.TrimRight(cfg.SiteURL, "/"),
		baseDelay:  baseDelay,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// NotifyGuestbookSignatures starts a consumer that emails the site owner for every
// new guestbook entry.
func (s *MailService) NotifyGuestbookSignatures() error {
	msgs, err := s.mb.Consume(common.CommentSignedKey, common.GuestbookExchange, common.GuestbookSignedQueue)
	if err != nil {
		s.logger.Error("could not consume message", slog.String("error", err.Error()))
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				s.handleSignature(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping guestbook notifications due to context cancellation")
				return
			}
		}
	}()

	return nil
}

func (s *MailService) handleSignature(msg amqp.Delivery) {
	var event SignedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		msg.Nack(false, false)
		return
	}

	data := signatureData{
		Name:      event.Name,
		Comment:   event.Comment,
		Timestamp: event.Timestamp,
		SiteURL:   s.siteURL,
	}

	// exponential backoff with jitter
	var attempt int
	for attempt = 0; attempt < maxRetries; attempt++ {
		err := s.m.send(s.ownerEmail, data, signatureTemplate)
		if err == nil {
			s.logger.Info("guestbook notification sent", slog.Int64("comment_id", event.ID))
			msg.Ack(false)
			return
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay) << uint(attempt)))
		s.logger.Info("delaying guestbook notification", slog.Int64("comment_id", event.ID), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			msg.Nack(false, true)
			return
		}
	}

	s.logger.Error("could not send guestbook notification", slog.Int64("comment_id", event.ID))
	msg.Ack(false)
}

// Close stops the consumer and waits for the in-flight message to finish.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
