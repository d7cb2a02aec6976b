// Package trip provides categorized errors for the range slider and its
// test stage.
//
// The trip package uses stumbling metaphors: when a call or a scripted
// gesture goes wrong it "trips", and the severity says whether the caller can
// keep going (a stumble), has a real error, or has fallen (nothing usable was
// produced).
package trip

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Kind categorizes a trip. Kinds are errors themselves so they can be used
// as targets for errors.Is.
//
// Kinds:
//   - Configuration: invalid scale, geometry or gap; fatal for construction
//   - InvalidRange: inverted lesser/larger pair
//   - OutOfRange: a value outside [min, max]
//   - Assertion: a stage expectation that did not hold
//   - Visual: frame capture or rendering failures
//   - System: panics and other infrastructure failures
type Kind string

const (
	Configuration Kind = "configuration"
	InvalidRange  Kind = "invalid_range"
	OutOfRange    Kind = "out_of_range"
	Assertion     Kind = "assertion"
	Visual        Kind = "visual"
	System        Kind = "system"
)

func (k Kind) Error() string {
	return string(k)
}

// Trip represents an error with rich context.
//
// Example usage:
//
//	err := NewTrip(OutOfRange, "progress must be between min and max",
//	    Context{"value": 120.0, "min": 0.0, "max": 100.0})
//
//	if errors.Is(err, OutOfRange) {
//	    // reject the input
//	}
type Trip struct {
	Type      Kind      // Error category for systematic handling
	Message   string    // Human-readable description
	Context   Context   // Additional debugging information
	Timestamp time.Time // When the error occurred
	Severity  Severity  // How serious this error is
}

// Context provides structured debugging information for trips.
type Context map[string]interface{}

// Severity indicates how serious a trip is and how it should be handled.
type Severity int

const (
	// Stumble indicates a minor issue that doesn't affect results.
	// Examples: a frame could not be written
	Stumble Severity = iota

	// Error indicates a rejected call or failed expectation.
	// Examples: inverted range, failed assertion
	Error

	// Fall indicates nothing usable was produced.
	// Examples: invalid configuration, model panic
	Fall
)

func (s Severity) String() string {
	switch s {
	case Stumble:
		return "stumble"
	case Error:
		return "error"
	case Fall:
		return "fall"
	default:
		return "unknown"
	}
}

// NewTrip creates a new trip with Error severity.
func NewTrip(kind Kind, message string, context Context) *Trip {
	return &Trip{
		Type:      kind,
		Message:   message,
		Context:   context,
		Timestamp: time.Now(),
		Severity:  Error,
	}
}

// NewStumble creates a new trip with Stumble severity.
func NewStumble(kind Kind, message string, context Context) *Trip {
	return NewTrip(kind, message, context).WithSeverity(Stumble)
}

// NewFall creates a new trip with Fall severity.
func NewFall(kind Kind, message string, context Context) *Trip {
	return NewTrip(kind, message, context).WithSeverity(Fall)
}

// WithSeverity sets the severity level for this error.
func (t *Trip) WithSeverity(severity Severity) *Trip {
	t.Severity = severity
	return t
}

// Error implements the error interface.
func (t *Trip) Error() string {
	return fmt.Sprintf("[%s:%s] %s", t.Type, t.Severity, t.Message)
}

// Is reports whether target is this trip's Kind.
func (t *Trip) Is(target error) bool {
	kind, ok := target.(Kind)
	return ok && kind == t.Type
}

// CanRecover returns true if work can continue despite this error.
func (t *Trip) CanRecover() bool {
	return t.Severity == Stumble
}

// IsFall returns true if this error should immediately stop work.
func (t *Trip) IsFall() bool {
	return t.Severity == Fall
}

// GetContext returns a specific context value if it exists.
func (t *Trip) GetContext(key string) (interface{}, bool) {
	if t.Context == nil {
		return nil, false
	}
	val, exists := t.Context[key]
	return val, exists
}

// DetailedString returns a comprehensive error description with context.
// Context keys are listed in sorted order.
func (t *Trip) DetailedString() string {
	var details strings.Builder

	details.WriteString(t.Error())
	details.WriteString(fmt.Sprintf("\n  Time: %s", t.Timestamp.Format("15:04:05.000")))

	if len(t.Context) > 0 {
		keys := make([]string, 0, len(t.Context))
		for key := range t.Context {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		details.WriteString("\n  Context:")
		for _, key := range keys {
			details.WriteString(fmt.Sprintf("\n    %s: %v", key, t.Context[key]))
		}
	}

	return details.String()
}

// Handler collects trips for one component.
//
// Stumbles are kept apart from real trips so a stage can finish despite
// a failed frame capture while still failing on a broken assertion.
type Handler struct {
	component string
	trips     []*Trip
	stumbles  []*Trip
	policy    *Policy
}

// Policy defines how trips affect whether work should continue.
type Policy struct {
	// StopOnFall determines if work should stop immediately on fall errors
	StopOnFall bool

	// MaxStumbles sets a limit on accumulated stumbles (0 = unlimited)
	MaxStumbles int
}

// DefaultPolicy returns the default policy: stop on falls, tolerate ten
// stumbles.
func DefaultPolicy() *Policy {
	return &Policy{
		StopOnFall:  true,
		MaxStumbles: 10,
	}
}

// NewHandler creates a new handler for a specific component.
func NewHandler(component string, policy *Policy) *Handler {
	if policy == nil {
		policy = DefaultPolicy()
	}

	return &Handler{
		component: component,
		trips:     make([]*Trip, 0),
		stumbles:  make([]*Trip, 0),
		policy:    policy,
	}
}

// Record adds a trip to the handler's collection.
func (h *Handler) Record(trip *Trip) {
	if trip.Severity == Stumble {
		h.stumbles = append(h.stumbles, trip)
	} else {
		h.trips = append(h.trips, trip)
	}
}

// ShouldContinue determines if work should continue based on current trips.
func (h *Handler) ShouldContinue() bool {
	if h.policy.StopOnFall {
		for _, trip := range h.trips {
			if trip.IsFall() {
				return false
			}
		}
	}

	if h.policy.MaxStumbles > 0 && len(h.stumbles) > h.policy.MaxStumbles {
		return false
	}

	return true
}

// HasTrips returns true if any errors (non-stumbles) have been recorded.
func (h *Handler) HasTrips() bool {
	return len(h.trips) > 0
}

// HasStumbles returns true if any stumbles have been recorded.
func (h *Handler) HasStumbles() bool {
	return len(h.stumbles) > 0
}

// GetTrips returns all recorded errors.
func (h *Handler) GetTrips() []*Trip {
	return h.trips
}

// GetStumbles returns all recorded stumbles.
func (h *Handler) GetStumbles() []*Trip {
	return h.stumbles
}

// Summary provides a concise overview of all errors and stumbles.
func (h *Handler) Summary() string {
	if len(h.trips) == 0 && len(h.stumbles) == 0 {
		return fmt.Sprintf("[%s] No issues", h.component)
	}

	return fmt.Sprintf("[%s] %d trips, %d stumbles",
		h.component, len(h.trips), len(h.stumbles))
}

// DetailedReport provides a comprehensive report of all issues.
func (h *Handler) DetailedReport() string {
	var report strings.Builder

	report.WriteString(fmt.Sprintf("=== %s Component Report ===\n", h.component))
	report.WriteString(h.Summary() + "\n")

	if len(h.trips) > 0 {
		report.WriteString("\nTrips:\n")
		for i, trip := range h.trips {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, trip.DetailedString()))
		}
	}

	if len(h.stumbles) > 0 {
		report.WriteString("\nStumbles:\n")
		for i, stumble := range h.stumbles {
			report.WriteString(fmt.Sprintf("%d. %s\n", i+1, stumble.DetailedString()))
		}
	}

	return report.String()
}
