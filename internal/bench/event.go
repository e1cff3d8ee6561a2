package bench

// Phase distinguishes warm-up runs from measured runs
type Phase int

const (
	// PhaseWarmup runs are timed but discarded
	PhaseWarmup Phase = iota
	// PhaseMeasured runs are recorded
	PhaseMeasured
)

// String returns the phase name
func (p Phase) String() string {
	if p == PhaseWarmup {
		return "warmup"
	}
	return "measured"
}

// Event is emitted after each completed iteration.
// Iteration counts from 1 to Total within its phase.
type Event struct {
	Target    string
	Phase     Phase
	Iteration int
	Total     int
}

// Observer receives progress events synchronously
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Event)

// Observe implements Observer
func (f ObserverFunc) Observe(e Event) { f(e) }

// Observers fans one event out to several observers in order
type Observers []Observer

// Observe implements Observer
func (os Observers) Observe(e Event) {
	for _, o := range os {
		if o != nil {
			o.Observe(e)
		}
	}
}
