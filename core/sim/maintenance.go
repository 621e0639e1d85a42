package sim

// progressMaintenance sends removed motors to the shop and rebuilds the ready
// pool. Every inventory motor ticks once per week, including the ones removed
// this week. A motor with no weeks left restarts its life at zero cycles.
func (e *Engine) progressMaintenance(week int, removed []string) error {
	for _, id := range removed {
		if err := e.store.StartMaintenance(id, e.cfg.MaintenanceWeeks); err != nil {
			return err
		}
		if err := e.store.AddToInventory(id); err != nil {
			return err
		}
	}
	e.ready = e.ready[:0]
	for _, id := range e.store.Inventory() {
		before, _ := e.store.Motor(id)
		left, err := e.store.TickMaintenance(id)
		if err != nil {
			return err
		}
		if left > 0 {
			e.stats.InMaintenance++
			continue
		}
		if before.Installed() {
			continue
		}
		if err := e.store.ResetCycles(id); err != nil {
			return err
		}
		if before.InMaintenance() {
			e.publish(ReadyEvent{Week: week, Motor: id})
		}
		e.ready = append(e.ready, id)
	}
	e.stats.Ready = len(e.ready)
	return nil
}
