// Package progress computes phase-local and overall completion figures for a
// processing session and emits them as discrete events.
package progress

import (
	"sync"
	"time"
)

// Phase identifies the pipeline stage a progress event belongs to.
type Phase string

const (
	PhaseValidation Phase = "validation"
	PhaseTrim       Phase = "trim"
	PhaseConcat     Phase = "concat"
	PhaseMux        Phase = "mux"
	PhaseDone       Phase = "done"
	PhaseError      Phase = "error"
)

// Event types on the status channel.
const (
	TypeStatus         = "status"
	TypeProgressUpdate = "progress-update"
)

// Event is a value snapshot of pipeline progress. Time figures are seconds.
type Event struct {
	Type               string  `json:"type"`
	Message            string  `json:"message,omitempty"`
	Phase              Phase   `json:"phase,omitempty"`
	Percent            float64 `json:"percent"`
	ElapsedTime        float64 `json:"elapsedTime"`
	EstimatedTimeLeft  float64 `json:"estimatedTimeLeft"`
	OverallPercent     float64 `json:"overallPercent"`
	OverallElapsedTime float64 `json:"overallElapsedTime"`
}

// phaseShare allocates each phase a fixed slice of the overall 0-100 range.
// Policy constants, not computed: validation is the first half, the three
// processing stages share the second.
var phaseShares = map[Phase]struct{ start, end float64 }{
	PhaseValidation: {0, 50},
	PhaseTrim:       {50, 90},
	PhaseConcat:     {90, 95},
	PhaseMux:        {95, 100},
}

// assumedUnitCost is the fixed per-unit cost assumption in seconds used for
// the ETA before any real unit timing exists for the phase.
var assumedUnitCost = map[Phase]float64{
	PhaseValidation: 1.0,
	PhaseTrim:       3.0,
	PhaseConcat:     2.0,
	PhaseMux:        2.0,
}

// Reporter tracks unit completion per phase and notifies listeners. It is
// advisory telemetry only; nothing reads it back for control decisions.
type Reporter struct {
	mu        sync.Mutex
	listeners []func(Event)

	phase      Phase
	total      int
	completed  int
	phaseStart time.Time
	start      time.Time

	now func() time.Time
}

func NewReporter() *Reporter {
	r := &Reporter{now: time.Now}
	r.start = r.now()
	return r
}

// AddListener registers a callback invoked synchronously for every event.
func (r *Reporter) AddListener(listener func(Event)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, listener)
}

// Status emits a human-readable milestone message.
func (r *Reporter) Status(message string) {
	r.mu.Lock()
	event := Event{
		Type:               TypeStatus,
		Message:            message,
		Phase:              r.phase,
		OverallElapsedTime: r.now().Sub(r.start).Seconds(),
	}
	listeners := r.listeners
	r.mu.Unlock()

	notify(listeners, event)
}

// BeginPhase starts a new phase with the given number of work units and
// emits a zero-progress event. No unit has completed yet, so its ETA comes
// from the fixed per-unit cost assumption.
func (r *Reporter) BeginPhase(phase Phase, totalUnits int) {
	r.mu.Lock()
	r.phase = phase
	r.total = totalUnits
	r.completed = 0
	r.phaseStart = r.now()

	event := Event{
		Type:               TypeProgressUpdate,
		Phase:              phase,
		EstimatedTimeLeft:  assumedUnitCost[phase] * float64(totalUnits),
		OverallPercent:     overallPercent(phase, 0),
		OverallElapsedTime: r.phaseStart.Sub(r.start).Seconds(),
	}
	listeners := r.listeners
	r.mu.Unlock()

	notify(listeners, event)
}

// CompleteUnit records one finished unit of the current phase and emits a
// progress update.
func (r *Reporter) CompleteUnit(message string) {
	r.mu.Lock()

	if r.completed < r.total {
		r.completed++
	}

	now := r.now()
	elapsed := now.Sub(r.phaseStart).Seconds()
	percent := 0.0
	if r.total > 0 {
		percent = 100 * float64(r.completed) / float64(r.total)
	}

	// Linear extrapolation from real elapsed time. The fixed-cost assumption
	// only feeds the zero-unit event emitted by BeginPhase.
	remaining := r.total - r.completed
	eta := assumedUnitCost[r.phase] * float64(remaining)
	if r.completed > 0 {
		eta = elapsed / float64(r.completed) * float64(remaining)
	}

	event := Event{
		Type:               TypeProgressUpdate,
		Message:            message,
		Phase:              r.phase,
		Percent:            percent,
		ElapsedTime:        elapsed,
		EstimatedTimeLeft:  eta,
		OverallPercent:     overallPercent(r.phase, percent),
		OverallElapsedTime: now.Sub(r.start).Seconds(),
	}
	listeners := r.listeners
	r.mu.Unlock()

	notify(listeners, event)
}

// Done emits the terminal success event.
func (r *Reporter) Done(message string) {
	r.mu.Lock()
	r.phase = PhaseDone
	now := r.now()
	event := Event{
		Type:               TypeProgressUpdate,
		Message:            message,
		Phase:              PhaseDone,
		Percent:            100,
		OverallPercent:     100,
		OverallElapsedTime: now.Sub(r.start).Seconds(),
	}
	listeners := r.listeners
	r.mu.Unlock()

	notify(listeners, event)
}

// Fail emits the terminal failure event.
func (r *Reporter) Fail(err error) {
	r.mu.Lock()
	r.phase = PhaseError
	event := Event{
		Type:               TypeStatus,
		Message:            err.Error(),
		Phase:              PhaseError,
		OverallElapsedTime: r.now().Sub(r.start).Seconds(),
	}
	listeners := r.listeners
	r.mu.Unlock()

	notify(listeners, event)
}

// overallPercent maps a phase-local percentage onto the phase's share of the
// 0-100 range.
func overallPercent(phase Phase, localPercent float64) float64 {
	share, ok := phaseShares[phase]
	if !ok {
		return 0
	}
	return share.start + localPercent/100*(share.end-share.start)
}

func notify(listeners []func(Event), event Event) {
	for _, listener := range listeners {
		listener(event)
	}
}
