package reactive

import (
	"fmt"
	"log/slog"
)

// Scheduler receives watchers that became dirty and decides when they run.
// Schedule is called at most once per dirtying transition; the watcher is
// eligible again after its next Run.
type Scheduler interface {
	Schedule(w *Watcher)
}

// WatcherRegistry is implemented by owners that want to know about the
// watchers created on their behalf.
type WatcherRegistry interface {
	AddWatcher(w *Watcher)
	RemoveWatcher(w *Watcher)
}

type (
	ErrorHandler func(err error, w *Watcher, info string)
	WarnHandler  func(msg string, args ...any)
)

// Runtime holds the evaluation stack and the process-wide switches consulted
// by Observe. A Runtime and every container observed through it must be used
// from a single goroutine at a time; nothing here takes locks.
type Runtime struct {
	targetStack []*Watcher
	observing   bool

	nextDepID     uint64
	nextWatcherID uint64

	scheduler Scheduler
	onError   ErrorHandler
	onWarn    WarnHandler
	logger    *slog.Logger

	paths map[uint64][]string
}

type Option func(rt *Runtime)

func WithScheduler(s Scheduler) Option {
	return func(rt *Runtime) { rt.scheduler = s }
}

func WithErrorHandler(fn ErrorHandler) Option {
	return func(rt *Runtime) { rt.onError = fn }
}

func WithWarnHandler(fn WarnHandler) Option {
	return func(rt *Runtime) { rt.onWarn = fn }
}

func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) { rt.logger = logger }
}

func CreateRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		observing: true,
		logger:    slog.Default(),
		paths:     map[uint64][]string{},
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Target is the watcher currently collecting dependencies, nil when nothing
// is evaluating or tracking was disabled by pushing nil.
func (rt *Runtime) Target() *Watcher {
	if len(rt.targetStack) == 0 {
		return nil
	}
	return rt.targetStack[len(rt.targetStack)-1]
}

func (rt *Runtime) PushTarget(w *Watcher) {
	rt.targetStack = append(rt.targetStack, w)
}

func (rt *Runtime) PopTarget() {
	lastIdx := len(rt.targetStack) - 1
	if lastIdx < 0 {
		panic("reactive: PopTarget without matching PushTarget")
	}
	rt.targetStack[lastIdx] = nil
	rt.targetStack = rt.targetStack[:lastIdx]
}

// Untracked runs fn with dependency collection suppressed.
func (rt *Runtime) Untracked(fn func()) {
	rt.PushTarget(nil)
	defer rt.PopTarget()
	fn()
}

// SetTrackingEnabled toggles whether Observe wraps new containers. Containers
// that already carry an Observer are unaffected.
func (rt *Runtime) SetTrackingEnabled(enabled bool) {
	rt.observing = enabled
}

func (rt *Runtime) TrackingEnabled() bool {
	return rt.observing
}

func (rt *Runtime) Scheduler() Scheduler {
	return rt.scheduler
}

func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

func (rt *Runtime) warn(format string, args ...any) {
	if rt.onWarn != nil {
		rt.onWarn(format, args...)
		return
	}
	rt.logger.Warn(fmt.Sprintf(format, args...))
}

// Warn reports a non-fatal diagnostic through the configured handler.
func (rt *Runtime) Warn(format string, args ...any) {
	rt.warn(format, args...)
}

// HandleError reports err through the error hook. Without a hook the error is
// logged.
func (rt *Runtime) HandleError(err error, w *Watcher, info string) {
	if rt.onError != nil {
		rt.onError(err, w, info)
		return
	}
	attrs := []any{slog.String("info", info), slog.Any("err", err)}
	if w != nil {
		attrs = append(attrs, slog.Uint64("watcher", w.id), slog.String("expression", w.expression))
	}
	rt.logger.Error("reactive: error in watcher", attrs...)
}
