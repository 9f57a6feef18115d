// Package events announces intake activity on NATS.
package events

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// SubmissionCreatedEvent is the suffix of the subject published after a submission is stored.
const SubmissionCreatedEvent = "submission.created"

// SubmissionCreated is the payload of SubmissionCreatedEvent.
type SubmissionCreated struct {
	SubmissionID uint      `json:"submission_id"`
	FormID       uint      `json:"form_id"`
	Evaluated    bool      `json:"evaluated"`
	FinalScore   *float64  `json:"final_score,omitempty"`
	ResumeStatus string    `json:"resume_status"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// Publisher writes events to NATS. A Publisher without a connection drops every event.
type Publisher struct {
	conn   *nats.Conn
	prefix string
	logger zerolog.Logger
}

// NewPublisher builds a publisher whose subjects start with prefix.
func NewPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) *Publisher {
	prefix = strings.Trim(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = "hireform"
	}
	return &Publisher{
		conn:   conn,
		prefix: prefix,
		logger: logger.With().Str("component", "event_publisher").Logger(),
	}
}

// Subject returns the full subject for event.
func (p *Publisher) Subject(event string) string {
	return p.prefix + "." + event
}

// PublishSubmissionCreated announces a stored submission.
func (p *Publisher) PublishSubmissionCreated(event SubmissionCreated) error {
	if p == nil || p.conn == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", SubmissionCreatedEvent, err)
	}

	subject := p.Subject(SubmissionCreatedEvent)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.Debug().Str("subject", subject).Uint("submission_id", event.SubmissionID).Msg("event published")
	return nil
}
