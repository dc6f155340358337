package errors

import (
	"context"
	"sync"
)

// Severity of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal condition observed during a build.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Path     string
}

// Reporter receives diagnostics as they are observed.
type Reporter interface {
	Report(d Diagnostic)
}

// Logger is the subset of logging.Logger the collector needs.
type Logger interface {
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
}

// Diagnostics collects the non-fatal conditions of one build.
type Diagnostics struct {
	items []Diagnostic
	mutex sync.RWMutex
}

// NewDiagnostics creates an empty collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{items: make([]Diagnostic, 0)}
}

// Report implements Reporter.
func (d *Diagnostics) Report(diag Diagnostic) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.items = append(d.items, diag)
}

// All returns a copy of the collected diagnostics in report order.
func (d *Diagnostics) All() []Diagnostic {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	result := make([]Diagnostic, len(d.items))
	copy(result, d.items)
	return result
}

// Count returns how many diagnostics of the given severity were reported.
func (d *Diagnostics) Count(severity Severity) int {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	n := 0
	for _, item := range d.items {
		if item.Severity == severity {
			n++
		}
	}
	return n
}

// Flush writes every diagnostic to logger and clears the collector.
func (d *Diagnostics) Flush(ctx context.Context, logger Logger) {
	d.mutex.Lock()
	items := d.items
	d.items = make([]Diagnostic, 0)
	d.mutex.Unlock()

	for _, item := range items {
		if item.Severity >= SeverityWarning {
			logger.Warn(ctx, nil, item.Message, "code", item.Code, "path", item.Path)
		} else {
			logger.Info(ctx, item.Message, "code", item.Code, "path", item.Path)
		}
	}
}

// Discard is a Reporter that drops every diagnostic.
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}
