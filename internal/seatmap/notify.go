package seatmap

import "log"

// Severity grades a toast.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier is the toast sink. The core reports every rejected operation
// through it; how the message is shown is up to the implementation.
type Notifier interface {
	Notify(sev Severity, msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(sev Severity, msg string)

// Notify calls f.
func (f NotifierFunc) Notify(sev Severity, msg string) { f(sev, msg) }

// Toast is one transient message.
type Toast struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Recorder buffers toasts until they are drained, e.g. into an HTTP response.
type Recorder struct {
	toasts []Toast
}

// Notify appends a toast.
func (r *Recorder) Notify(sev Severity, msg string) {
	r.toasts = append(r.toasts, Toast{Severity: sev, Message: msg})
}

// Drain returns the buffered toasts and empties the buffer.
func (r *Recorder) Drain() []Toast {
	out := r.toasts
	r.toasts = nil
	return out
}

// Len returns how many toasts are buffered.
func (r *Recorder) Len() int { return len(r.toasts) }

// LogNotifier writes toasts to the standard logger.
func LogNotifier() Notifier {
	return NotifierFunc(func(sev Severity, msg string) {
		log.Printf("[seatmap] %s: %s", sev, msg)
	})
}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return NotifierFunc(func(Severity, string) {})
	}
	return n
}
