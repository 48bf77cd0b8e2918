package email

import (
	"context"
	"fmt"
	"sync"

	"github.com/pantry-ledger/backend/internal/application/adapter"
)

// RecordingSender keeps every email it is asked to send. Tests use it in place of Resend.
type RecordingSender struct {
	mu   sync.Mutex
	sent []adapter.SendEmailInput
	err  error
}

// NewRecordingSender creates an empty RecordingSender.
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{}
}

// Send records input, or returns the configured failure.
func (s *RecordingSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, input)
	return &adapter.SendEmailResult{ProviderMessageID: fmt.Sprintf("rec-%d", len(s.sent))}, nil
}

// FailWith makes every following Send return err. A nil err restores delivery.
func (s *RecordingSender) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Sent returns a copy of the recorded emails.
func (s *RecordingSender) Sent() []adapter.SendEmailInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]adapter.SendEmailInput(nil), s.sent...)
}

// Reset forgets recorded emails and failures.
func (s *RecordingSender) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = nil
	s.err = nil
}

var _ adapter.EmailSender = (*RecordingSender)(nil)
