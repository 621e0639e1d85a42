package sim

import "github.com/kilianp07/enginepool/core/schedule"

// emit records one row per aircraft in fleet order.
func (e *Engine) emit(week int) []schedule.Row {
	rows := make([]schedule.Row, 0, e.store.Len())
	for i := 0; i < e.store.Len(); i++ {
		ac := e.store.AircraftAt(i)
		row := schedule.Row{Week: week, Aircraft: ac.ID, Motor: schedule.NoMotor}
		if m, ok := e.store.InstalledMotor(ac.ID); ok {
			row.Motor = m.ID
			row.Leased = m.Leased
			row.Cycles = schedule.RoundCycles(m.Cycles)
		}
		rows = append(rows, row)
	}
	e.log.AppendWeek(week, rows)
	return rows
}

// returnLeases hands every leased motor back at the end of the week. Leased
// units never enter the inventory.
func (e *Engine) returnLeases() error {
	for i := 0; i < e.store.Len(); i++ {
		ac := e.store.AircraftAt(i)
		m, ok := e.store.InstalledMotor(ac.ID)
		if !ok || !m.Leased {
			continue
		}
		if _, err := e.store.Detach(ac.ID); err != nil {
			return err
		}
		if err := e.store.Discard(m.ID); err != nil {
			return err
		}
	}
	return nil
}
