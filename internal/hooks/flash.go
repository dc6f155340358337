package hooks

import (
	"context"
	"sync"
	"time"

	"github.com/conneroisu/heroglyph/internal/logging"
)

// FlashName is the registered name of the auto-dismissing notification hook.
const FlashName = "Flash"

// FlashOptions controls the dismissal sequence.
type FlashOptions struct {
	// Delay before the notification dismisses itself.
	Delay time.Duration
	// Transition is how long the fade runs; removal happens on transitionend
	// or after Transition, whichever is first.
	Transition time.Duration
	// FadeClass starts the fade.
	FadeClass string
	// CloseSelector finds the close control. Without one, clicking the
	// element itself closes it.
	CloseSelector string
}

// DefaultFlashOptions returns the standard timings.
func DefaultFlashOptions() FlashOptions {
	return FlashOptions{
		Delay:         5 * time.Second,
		Transition:    300 * time.Millisecond,
		FadeClass:     "opacity-0",
		CloseSelector: "[data-flash-close]",
	}
}

// Flash fades out and removes a transient notification after a delay, or as
// soon as its close control is clicked. The element is removed at most once.
type Flash struct {
	opts   FlashOptions
	clock  Clock
	logger logging.Logger

	mu        sync.Mutex
	el        Element
	delay     Timer
	fallback  Timer
	removers  []func()
	dismissed bool
	removed   bool
	unmounted bool
}

// NewFlash returns a factory for Flash hooks.
func NewFlash(opts FlashOptions, clock Clock, logger logging.Logger) Factory {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.WithComponent("hooks").With("hook", FlashName)
	return func() Hook {
		return &Flash{opts: opts, clock: clock, logger: logger}
	}
}

// Mount implements Hook.
func (f *Flash) Mount(el Element) error {
	target := el
	if f.opts.CloseSelector != "" {
		if closeEl := el.QuerySelector(f.opts.CloseSelector); closeEl != nil {
			target = closeEl
		}
	}

	removeClick := target.AddEventListener("click", func(*Event) { f.Dismiss() })

	f.mu.Lock()
	f.el = el
	f.removers = append(f.removers, removeClick)
	f.delay = f.clock.AfterFunc(f.opts.Delay, f.Dismiss)
	f.mu.Unlock()
	return nil
}

// Dismiss starts the fade. Only the first call has an effect.
func (f *Flash) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dismissed || f.unmounted || f.el == nil {
		return
	}
	f.dismissed = true
	if f.delay != nil {
		f.delay.Stop()
	}

	f.el.AddClass(f.opts.FadeClass)
	f.removers = append(f.removers, f.el.AddEventListener("transitionend", func(*Event) { f.remove() }))
	f.fallback = f.clock.AfterFunc(f.opts.Transition, f.remove)
	f.logger.Debug(context.Background(), "notification dismissed")
}

func (f *Flash) remove() {
	f.mu.Lock()
	if f.removed || f.unmounted {
		f.mu.Unlock()
		return
	}
	f.removed = true
	if f.fallback != nil {
		f.fallback.Stop()
	}
	el := f.el
	f.mu.Unlock()

	// Remove may unmount this hook synchronously, so the lock is released.
	el.Remove()
}

// Unmount implements Unmounter. Pending timers are stopped so nothing fires
// against a detached element.
func (f *Flash) Unmount(Element) {
	f.mu.Lock()
	f.unmounted = true
	if f.delay != nil {
		f.delay.Stop()
	}
	if f.fallback != nil {
		f.fallback.Stop()
	}
	removers := f.removers
	f.removers = nil
	f.mu.Unlock()

	for _, remove := range removers {
		remove()
	}
}
