package sim

import "fmt"

// dueForRemoval reports whether a motor must come off before flying another
// week. The check runs on the pre-accrual count.
func dueForRemoval(cycles, perWeek, limit, margin float64) bool {
	threshold := limit - margin
	return cycles >= threshold || cycles+perWeek >= threshold
}

// accrue removes motors that would cross their ceiling this week and adds a
// week of wear to the others. It returns removed motor ids in fleet order.
func (e *Engine) accrue(week int) ([]string, error) {
	var removed []string
	for i := 0; i < e.store.Len(); i++ {
		ac := e.store.AircraftAt(i)
		if !ac.HasMotor() {
			continue
		}
		m, ok := e.store.Motor(ac.MotorID)
		if !ok {
			return nil, fmt.Errorf("week %d: aircraft %s references missing motor %s", week, ac.ID, ac.MotorID)
		}
		limit, err := e.cfg.Limits.Limit(ac.Family)
		if err != nil {
			return nil, &ConfigError{Key: "family_limits", Err: err}
		}
		if dueForRemoval(m.Cycles, ac.CyclesPerWeek, limit, e.cfg.SafetyMargin) {
			if _, err := e.store.Detach(ac.ID); err != nil {
				return nil, err
			}
			removed = append(removed, m.ID)
			e.logger.Debugw("motor removed", map[string]any{
				"week": week, "aircraft": ac.ID, "motor": m.ID, "cycles": m.Cycles, "limit": limit,
			})
			e.publish(RemovalEvent{Week: week, Aircraft: ac.ID, Motor: m.ID, Cycles: m.Cycles, Limit: limit})
			continue
		}
		if err := e.store.AddCycles(m.ID, ac.CyclesPerWeek); err != nil {
			return nil, err
		}
	}
	e.stats.Removed = len(removed)
	return removed, nil
}
