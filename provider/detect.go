package provider

import (
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/dusk-indust/aspectwrap/aspect"
)

// Detector reports which mechanisms are usable in this process.
type Detector interface {
	Detect() Availability
}

// Availability is an immutable table of usable mechanisms. The null
// mechanism is always available.
type Availability struct {
	aspect       bool
	intercepting bool
}

// NewAvailability marks ms as available.
func NewAvailability(ms ...Mechanism) Availability {
	var av Availability
	for _, m := range ms {
		switch m {
		case MechanismAspect:
			av.aspect = true
		case MechanismIntercepting:
			av.intercepting = true
		}
	}
	return av
}

// Has reports whether m is available.
func (a Availability) Has(m Mechanism) bool {
	switch m {
	case MechanismAspect:
		return a.aspect
	case MechanismIntercepting:
		return a.intercepting
	case MechanismNull:
		return true
	default:
		return false
	}
}

// Without returns a copy with ms marked unavailable.
func (a Availability) Without(ms ...Mechanism) Availability {
	for _, m := range ms {
		switch m {
		case MechanismAspect:
			a.aspect = false
		case MechanismIntercepting:
			a.intercepting = false
		}
	}
	return a
}

// Missing lists the unavailable interception mechanisms in priority order.
func (a Availability) Missing() []Mechanism {
	var out []Mechanism
	for _, m := range priority {
		if !a.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

func (a Availability) String() string {
	parts := make([]string, 0, len(priority))
	for _, m := range priority {
		mark := "-"
		if a.Has(m) {
			mark = "+"
		}
		parts = append(parts, mark+string(m))
	}
	return strings.Join(parts, " ")
}

// priority lists interception mechanisms from richest to simplest.
var priority = []Mechanism{MechanismAspect, MechanismIntercepting}

// Mechanism packages announce themselves by registering a marker type from
// an init function. Build tags decide which marker files are compiled in.
var (
	markersMu sync.Mutex
	markers   = map[Mechanism]reflect.Type{}
)

func registerMarker(m Mechanism, marker reflect.Type) {
	markersMu.Lock()
	defer markersMu.Unlock()
	markers[m] = marker
}

// Markers returns the resolved marker type name per mechanism, for
// diagnostics.
func Markers() map[Mechanism]string {
	markersMu.Lock()
	defer markersMu.Unlock()
	out := make(map[Mechanism]string, len(markers))
	for m, t := range markers {
		out[m] = aspect.TypeName(t)
	}
	return out
}

func resolveMarker(m Mechanism) bool {
	markersMu.Lock()
	defer markersMu.Unlock()
	_, ok := markers[m]
	return ok
}

// detected is computed once per process and never re-evaluated.
var detected = sync.OnceValue(func() Availability {
	var found []Mechanism
	for _, m := range priority {
		if resolveMarker(m) {
			found = append(found, m)
		}
	}
	return NewAvailability(found...)
})

// Detect returns the process-wide availability table.
func Detect() Availability { return detected() }

// DefaultDetector reads the process-wide availability table.
type DefaultDetector struct{}

// Compile-time check.
var _ Detector = DefaultDetector{}

// Detect implements Detector.
func (DefaultDetector) Detect() Availability { return Detect() }

// StaticDetector reports a fixed table. It lets callers and tests inject
// availability instead of probing the build.
type StaticDetector Availability

// Detect implements Detector.
func (s StaticDetector) Detect() Availability { return Availability(s) }

// Mechanisms lists every mechanism in selection order, null last.
func Mechanisms() []Mechanism {
	return append(slices.Clone(priority), MechanismNull)
}
