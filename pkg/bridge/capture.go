package bridge

import (
	"context"

	"go.uber.org/zap"

	"github.com/retrolink/x1bridge/internal/configsvc"
	"github.com/retrolink/x1bridge/internal/indicator"
)

// runCapture is the general-purpose half of the host interface: it blocks on
// HID events, maps them and enqueues the results. Between events it passes a
// yield checkpoint where deferred persistence and configuration reloads are
// drained, so neither ever runs mid-event.
func (b *Bridge) runCapture(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-b.configSvc.Ready():
	}
	if _, err := configsvc.Register(b.configSvc, b.config.ConfigPath, DefaultSettings(), func(s Settings, err error) {
		if err != nil {
			b.log.Error("config reload failed, keeping previous settings", zap.Error(err))
			return
		}
		select {
		case b.settings <- s:
		default:
		}
	}); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return nil
	case <-b.hidBus.Ready():
	}
	// Pump bus events into the capture source.
	go func() {
		for msg := range b.hidBus.Subscribe(ctx) {
			if !b.source.Push(msg.Message) {
				b.log.Warn("input buffer full, dropping event", zap.String("source", msg.Key))
			}
		}
	}()

	b.log.Info("capture loop started")
	for {
		sc, ok := b.source.ReadBlocking(ctx)
		if !ok {
			return nil
		}
		if msg, send := b.engine.Map(sc); send {
			b.kbQueue.TryPush(msg)
		}
		b.checkpoint()
	}
}

// checkpoint drains deferred work. Called only between events.
func (b *Bridge) checkpoint() {
	if b.engine.TakeDeferred() {
		sel := b.engine.Selectors()
		b.nv.Persist(selectorsKey, []byte{uint8(sel.Layout), uint8(sel.Machine)})
		if !b.nv.Commit() {
			b.log.Error("failed to persist selectors")
			b.ind.Request(indicator.PatternError)
		}
	}
	select {
	case s := <-b.settings:
		b.applySettings(s)
	default:
	}
}

func (b *Bridge) applySettings(s Settings) {
	// Queue sizes only apply to new queues; the live ones keep their bound.
	// What can change at runtime is re-read of the keymap file.
	b.engine.SetTable(b.store.Load())
	b.log.Info("settings applied", zap.Int("queueSize", s.QueueSize), zap.Bool("mouse", s.Mouse))
}
