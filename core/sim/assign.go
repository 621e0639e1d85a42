package sim

import (
	"fmt"

	"github.com/kilianp07/enginepool/core/ledger"
	"github.com/kilianp07/enginepool/core/model"
)

// LeaseID names the n-th lease of a week. n starts at 0 every week.
func LeaseID(week, n int) string { return fmt.Sprintf("LEASE-%d-%d", week, n) }

// assign gives every motorless aircraft the first compatible ready spare, or a
// fresh lease when none is left.
func (e *Engine) assign(week int) error {
	leases := 0
	for i := 0; i < e.store.Len(); i++ {
		ac := e.store.AircraftAt(i)
		if ac.HasMotor() {
			continue
		}
		id, spare := e.takeSpare(ac)
		if !spare {
			if e.cfg.LeasingDisabled {
				e.stats.Uncovered++
				e.publish(AssignEvent{Week: week, Aircraft: ac.ID, Category: ac.Category.String()})
				continue
			}
			id = LeaseID(week, leases)
			leases++
			if err := e.lease(week, id, ac); err != nil {
				return err
			}
		}
		m, _ := e.store.Motor(id)
		retag := !model.SameBaseFamily(m.Family, ac.Family)
		if retag {
			if err := e.store.ResetCycles(id); err != nil {
				return err
			}
			if err := e.store.Retag(id, ac.Family); err != nil {
				return err
			}
			e.stats.Retagged++
		}
		if err := e.store.Install(ac.ID, id); err != nil {
			return fmt.Errorf("week %d: %w", week, err)
		}
		if spare {
			e.stats.Spares++
		}
		ev := AssignEvent{Week: week, Aircraft: ac.ID, Category: ac.Category.String(), Motor: id, Leased: !spare, Retagged: retag}
		if retag {
			ev.FromFamily = m.Family
		}
		e.publish(ev)
	}
	return nil
}

// takeSpare removes the first category-compatible motor from the ready pool
// and from inventory.
func (e *Engine) takeSpare(ac model.Aircraft) (string, bool) {
	for i, id := range e.ready {
		m, ok := e.store.Motor(id)
		if !ok || !m.Compatible(ac) {
			continue
		}
		e.ready = append(e.ready[:i], e.ready[i+1:]...)
		e.store.RemoveFromInventory(id)
		return id, true
	}
	return "", false
}

func (e *Engine) lease(week int, id string, ac model.Aircraft) error {
	m := model.Motor{
		ID:       id,
		Family:   ac.Family,
		Category: ac.Category,
		Leased:   true,
	}
	if err := e.store.AddMotor(m); err != nil {
		return err
	}
	e.ledger.Charge(ledger.KindLease, week, id, e.cfg.LeasePrice)
	e.stats.Leased++
	e.logger.Debugw("motor leased", map[string]any{"week": week, "aircraft": ac.ID, "motor": id})
	return nil
}
