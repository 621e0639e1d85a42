// Package mqtt defines the messages a run publishes on the broker and the
// topics they go to.
package mqtt

import (
	"fmt"
	"strings"

	"github.com/kilianp07/enginepool/core/schedule"
)

// DefaultPrefix is the root of every topic.
const DefaultPrefix = "enginepool"

// WeekMessage carries the schedule rows of one week.
type WeekMessage struct {
	RunID string         `json:"run_id"`
	Week  int            `json:"week"`
	Rows  []schedule.Row `json:"rows"`
}

// SummaryMessage is published once, retained, when a run ends.
type SummaryMessage struct {
	RunID       string             `json:"run_id"`
	Weeks       int                `json:"weeks"`
	FleetSize   int                `json:"fleet_size"`
	LeasedWeeks int                `json:"leased_weeks"`
	Costs       map[string]float64 `json:"costs"`
	Completed   bool               `json:"completed"`
}

// Topics builds the topic names of a run.
type Topics struct {
	Prefix string
	RunID  string
}

func (t Topics) root() string {
	p := strings.TrimSuffix(t.Prefix, "/")
	if p == "" {
		p = DefaultPrefix
	}
	return p
}

// Week is <prefix>/<run>/schedule/<week>.
func (t Topics) Week(w int) string { return fmt.Sprintf("%s/%s/schedule/%d", t.root(), t.RunID, w) }

// Summary is <prefix>/<run>/summary.
func (t Topics) Summary() string { return fmt.Sprintf("%s/%s/summary", t.root(), t.RunID) }

// Status is <prefix>/status, used for the will message.
func (t Topics) Status() string { return t.root() + "/status" }
