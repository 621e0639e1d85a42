package fleet

import "fmt"

// Verify re-derives the relation invariants from both indices. It returns an
// *InvariantError listing every problem, or nil.
func (s *Store) Verify() error {
	var problems []string
	holders := make(map[string]string, len(s.aircraft))
	for _, a := range s.aircraft {
		if a.MotorID == "" {
			continue
		}
		if prev, ok := holders[a.MotorID]; ok {
			problems = append(problems, fmt.Sprintf("motor %s installed on %s and %s", a.MotorID, prev, a.ID))
			continue
		}
		holders[a.MotorID] = a.ID
		m, ok := s.motors[a.MotorID]
		if !ok {
			problems = append(problems, fmt.Sprintf("aircraft %s holds unknown motor %s", a.ID, a.MotorID))
			continue
		}
		if m.InstalledOn != a.ID {
			problems = append(problems, fmt.Sprintf("aircraft %s holds %s but motor points to %q", a.ID, m.ID, m.InstalledOn))
		}
		if m.Category != a.Category {
			problems = append(problems, fmt.Sprintf("motor %s (%s) on aircraft %s (%s)", m.ID, m.Category, a.ID, a.Category))
		}
	}
	for id, m := range s.motors {
		if m.InstalledOn != "" && holders[id] != m.InstalledOn {
			problems = append(problems, fmt.Sprintf("motor %s points to %s which does not hold it", id, m.InstalledOn))
		}
	}
	if len(s.inventory) != len(s.inInventory) {
		problems = append(problems, fmt.Sprintf("inventory index size %d != set size %d", len(s.inventory), len(s.inInventory)))
	}
	seen := make(map[string]struct{}, len(s.inventory))
	for _, id := range s.inventory {
		if _, dup := seen[id]; dup {
			problems = append(problems, fmt.Sprintf("motor %s appears twice in inventory", id))
		}
		seen[id] = struct{}{}
		m, ok := s.motors[id]
		if !ok {
			problems = append(problems, fmt.Sprintf("inventory holds unknown motor %s", id))
			continue
		}
		if m.Installed() {
			problems = append(problems, fmt.Sprintf("motor %s is in inventory while installed on %s", id, m.InstalledOn))
		}
		if m.Leased {
			problems = append(problems, fmt.Sprintf("leased motor %s is in inventory", id))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return &InvariantError{Problems: problems}
}
