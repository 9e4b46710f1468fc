// Package bridge wires the HID capture side to the serial transmission
// engines for one host interface.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/retrolink/x1bridge/internal/configsvc"
	"github.com/retrolink/x1bridge/internal/hid"
	"github.com/retrolink/x1bridge/internal/indicator"
	"github.com/retrolink/x1bridge/internal/keymap"
	"github.com/retrolink/x1bridge/internal/keymapstore"
	"github.com/retrolink/x1bridge/internal/mapper"
	"github.com/retrolink/x1bridge/internal/mouse"
	"github.com/retrolink/x1bridge/internal/nvstore"
	"github.com/retrolink/x1bridge/internal/txqueue"
	"github.com/retrolink/x1bridge/internal/wire"
	"github.com/retrolink/x1bridge/pkg/bus"
)

// HIDBus carries scan codes from source backends, keyed by source name.
type HIDBus = bus.Bus[string, hid.ScanCode]

const selectorsKey = "selectors"

type Bridge struct {
	config Config
	log    *zap.Logger

	db        *badger.DB
	configSvc *configsvc.Service
	nv        *nvstore.Store
	store     *keymapstore.Store
	engine    *mapper.Engine
	ind       *indicator.Service
	hidBus    *HIDBus
	source    *hid.ChanSource
	mouseSt   *mouse.State

	kbQueue    *txqueue.Queue[wire.Message]
	mouseQueue *txqueue.Queue[wire.MouseFrame]
	pulse      *wire.PulseEngine
	mouseEng   *wire.MouseEngine

	settings chan Settings
}

type options struct {
	kbLine    wire.Line
	mouseLine wire.Line
	gate      wire.Gate
	led       indicator.Output
}

type Option func(*options)

// WithKeyboardLine binds the keyboard link output.
func WithKeyboardLine(l wire.Line) Option {
	return func(o *options) { o.kbLine = l }
}

// WithMouseLink binds the mouse link output and its host gate input.
func WithMouseLink(l wire.Line, g wire.Gate) Option {
	return func(o *options) {
		o.mouseLine = l
		o.gate = g
	}
}

func WithLED(out indicator.Output) Option {
	return func(o *options) { o.led = out }
}

func NewBridge(config Config, opts ...Option) (*Bridge, error) {
	o := options{
		kbLine:    wire.NopLine{},
		mouseLine: wire.NopLine{},
		gate:      wire.StaticGate(false),
		led:       indicator.NopOutput{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	loggerConfig := zap.NewDevelopmentConfig()
	loggerConfig.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000000000")
	loggerConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, err := loggerConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	dbOptions := badger.DefaultOptions(filepath.Join(config.DataDir, "db"))
	dbOptions.Logger = &badgerLogger{l: logger.Named("badger")}
	db, err := badger.Open(dbOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	configSvc := configsvc.New(logger.Named("config"))
	nv := nvstore.New(logger.Named("nvstore"), db)
	store := keymapstore.New(logger.Named("keymap"), filepath.Join(config.DataDir, "keymap.bin"))
	ind := indicator.New(logger.Named("indicator"), o.led)

	settings := DefaultSettings()
	engine := mapper.NewEngine(logger.Named("mapper"), mapper.DefaultConfig(), store.Load(), loadSelectors(nv))
	engine.SetIndicator(ind)

	clock := wire.NewClock()
	kbQueue := txqueue.New[wire.Message](logger.Named("kbqueue"), settings.QueueSize)
	mouseQueue := txqueue.New[wire.MouseFrame](logger.Named("mousequeue"), settings.QueueSize)

	b := &Bridge{
		config:     config,
		log:        logger,
		db:         db,
		configSvc:  configSvc,
		nv:         nv,
		store:      store,
		engine:     engine,
		ind:        ind,
		hidBus:     bus.NewBus[string, hid.ScanCode](logger.Named("hidbus")),
		source:     hid.NewChanSource(settings.QueueSize),
		mouseSt:    mouse.NewState(),
		kbQueue:    kbQueue,
		mouseQueue: mouseQueue,
		pulse:      wire.NewPulseEngine(logger.Named("kb"), clock, o.kbLine, wire.ThreadSection{}, wire.DefaultPulseTiming()),
		mouseEng:   wire.NewMouseEngine(logger.Named("mouse"), clock, o.mouseLine, o.gate, wire.ThreadSection{}, wire.DefaultMouseTiming()),
		settings:   make(chan Settings, 1),
	}
	b.source.OnMouse(b.onMouse)
	return b, nil
}

type badgerLogger struct {
	l *zap.Logger
}

func (l badgerLogger) Errorf(msg string, args ...any) {
	l.l.Error(fmt.Sprintf(msg, args...))
}

func (l badgerLogger) Warningf(msg string, args ...any) {
	l.l.Warn(fmt.Sprintf(msg, args...))
}

func (l badgerLogger) Infof(msg string, args ...any) {
	l.l.Info(fmt.Sprintf(msg, args...))
}

func (l badgerLogger) Debugf(msg string, args ...any) {
	l.l.Debug(fmt.Sprintf(msg, args...))
}

// Run starts all services and blocks until the context is cancelled. The
// transmission goroutines stay pinned to their OS threads; everything else
// shares the general-purpose pool.
func (b *Bridge) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer b.db.Close()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return b.configSvc.Start(groupCtx)
	})
	group.Go(func() error {
		return b.hidBus.Start(groupCtx)
	})
	group.Go(func() error {
		return b.ind.Start(groupCtx)
	})
	group.Go(func() error {
		return b.pulse.Run(groupCtx, b.kbQueue)
	})
	group.Go(func() error {
		return b.mouseEng.Run(groupCtx, b.mouseQueue)
	})
	group.Go(func() error {
		return b.runCapture(groupCtx)
	})

	b.ind.Request(indicator.PatternReady)
	err := group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bridge failed: %w", err)
	}
	return nil
}

// HIDBus exposes the event bus so source backends can publish into the
// bridge.
func (b *Bridge) HIDBus() *HIDBus {
	return b.hidBus
}

// Keymap exposes the persistence store for the CLI surface.
func (b *Bridge) Keymap() *keymapstore.Store {
	return b.store
}

func (b *Bridge) onMouse(r hid.MouseReport) {
	b.mouseSt.Add(r)
	if frame, ok := b.mouseSt.TakeFrame(); ok {
		b.mouseQueue.TryPush(frame)
	}
}

func loadSelectors(nv *nvstore.Store) mapper.Selectors {
	sel := mapper.DefaultSelectors()
	if raw, ok := nv.Retrieve(selectorsKey); ok && len(raw) == 2 {
		sel.Layout = keymap.Layout(raw[0])
		sel.Machine = keymap.Machine(raw[1])
	}
	return sel
}
