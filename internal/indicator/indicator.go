// Package indicator drives the activity LED. Requests are fire-and-forget:
// a full request buffer drops the pattern rather than stalling the caller.
package indicator

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pattern is one blink request.
type Pattern uint8

const (
	PatternReady Pattern = iota
	PatternActivity
	PatternPrompt
	PatternError
	patternCancel // internal: stop a running prompt
)

// Output is the physical LED line.
type Output interface {
	SetLED(on bool)
}

// NopOutput discards writes, for headless runs and tests.
type NopOutput struct{}

func (NopOutput) SetLED(bool) {}

type Service struct {
	log *zap.Logger
	out Output
	ch  chan Pattern
}

func New(log *zap.Logger, out Output) *Service {
	return &Service{
		log: log,
		out: out,
		ch:  make(chan Pattern, 8),
	}
}

// Request queues a one-shot pattern. Never blocks.
func (s *Service) Request(p Pattern) {
	select {
	case s.ch <- p:
	default:
	}
}

// Prompt starts the slow option-select blink; it runs until CancelPrompt.
func (s *Service) Prompt() {
	s.Request(PatternPrompt)
}

func (s *Service) CancelPrompt() {
	s.Request(patternCancel)
}

// Start runs the blink loop until the context is cancelled.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(125 * time.Millisecond)
	defer ticker.Stop()
	defer s.out.SetLED(false)

	var (
		prompting bool
		phase     bool
		burst     int // remaining half-periods of a one-shot pattern
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case p := <-s.ch:
			switch p {
			case PatternPrompt:
				prompting = true
			case patternCancel:
				prompting = false
				s.out.SetLED(false)
			case PatternError:
				burst = 10
			case PatternActivity:
				burst = 2
			case PatternReady:
				burst = 6
			}
		case <-ticker.C:
			switch {
			case burst > 0:
				burst--
				phase = !phase
				s.out.SetLED(phase)
			case prompting:
				phase = !phase
				s.out.SetLED(phase)
			}
		}
	}
}
