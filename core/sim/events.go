package sim

// Event is emitted by the engine while a week runs.
type Event interface {
	EventWeek() int
}

// Observer receives engine events synchronously, in emission order.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// Observers fans events out in slice order. Nil entries are skipped.
type Observers []Observer

func (obs Observers) OnEvent(e Event) {
	for _, o := range obs {
		if o != nil {
			o.OnEvent(e)
		}
	}
}

// RemovalEvent: a motor came off an aircraft and entered maintenance.
type RemovalEvent struct {
	Week     int
	Aircraft string
	Motor    string
	Cycles   float64
	Limit    float64
}

// ReadyEvent: a motor finished maintenance and joined the ready pool.
type ReadyEvent struct {
	Week  int
	Motor string
}

// AssignEvent: an aircraft received a motor, or stayed uncovered when
// leasing is disabled (Motor empty).
type AssignEvent struct {
	Week       int
	Aircraft   string
	Category   string
	Motor      string
	Leased     bool
	Retagged   bool
	FromFamily string
}

// WeekEndEvent closes a week.
type WeekEndEvent struct {
	Week  int
	Stats WeekStats
}

func (e RemovalEvent) EventWeek() int { return e.Week }
func (e ReadyEvent) EventWeek() int   { return e.Week }
func (e AssignEvent) EventWeek() int  { return e.Week }
func (e WeekEndEvent) EventWeek() int { return e.Week }

// WeekStats summarises one week.
type WeekStats struct {
	Removed       int     `json:"removed"`
	InMaintenance int     `json:"in_maintenance"`
	Ready         int     `json:"ready"`
	Spares        int     `json:"spares_assigned"`
	Leased        int     `json:"leased"`
	Uncovered     int     `json:"uncovered"`
	Retagged      int     `json:"retagged"`
	LeaseCost     float64 `json:"lease_cost"`
}
