// Jandi - Blog Activity Tracking and Topic Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jandi

package reminder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/tomtom215/jandi/internal/config"
	"github.com/tomtom215/jandi/internal/logging"
)

// Sender delivers one mail.
type Sender interface {
	Send(ctx context.Context, m Mail) error
}

// NewSender returns an SMTP sender when mail is enabled and a log-only
// sender otherwise.
func NewSender(cfg config.MailConfig) Sender {
	if !cfg.Enabled {
		return NewLogSender()
	}
	return NewSMTPSender(cfg)
}

// SMTPSender sends through an SMTP relay with STARTTLS.
type SMTPSender struct {
	from string
	send func(msgs ...*gomail.Message) error
}

// NewSMTPSender creates a sender for cfg.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPSender{from: from, send: dialer.DialAndSend}
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, m Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.send(s.message(m)); err != nil {
		return fmt.Errorf("send mail to %s: %w", m.To, err)
	}
	return nil
}

func (s *SMTPSender) message(m Mail) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)
	msg.SetBody("text/plain", m.Body)
	return msg
}

// LogSender records mail in the log instead of sending it.
type LogSender struct {
	logger zerolog.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender() *LogSender {
	return &LogSender{logger: logging.WithComponent("mail")}
}

// Send implements Sender.
func (s *LogSender) Send(_ context.Context, m Mail) error {
	s.logger.Info().
		Str("to", m.To).
		Str("subject", m.Subject).
		Msg("mail delivery disabled, reminder logged")
	return nil
}
