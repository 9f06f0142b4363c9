// Package mailer is the message transport boundary: one delivery
// attempt per call, an error meaning that attempt failed.
package mailer

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// MockMailer logs sends instead of delivering them. FailRate in [0,1]
// makes a fraction of sends fail, which is handy for exercising the
// per-recipient failure paths locally.
type MockMailer struct {
	Log      zerolog.Logger
	FailRate float64
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.FailRate > 0 && rand.Float64() < m.FailRate {
		return fmt.Errorf("mock send to %s failed", to)
	}
	m.Log.Info().Str("to", to).Str("subject", subject).Msg("mock send")
	return nil
}

var _ Mailer = (*MockMailer)(nil)
