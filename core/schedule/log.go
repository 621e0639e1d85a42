package schedule

// Log is the append-only schedule of a run. Rows are kept in emission order:
// week by week, aircraft enumeration order within a week.
type Log struct {
	rows   []Row
	byWeek map[int][2]int // week -> [start, end) into rows
	leased int
}

// NewLog returns an empty log sized for weeks × fleet rows.
func NewLog(capacity int) *Log {
	return &Log{rows: make([]Row, 0, capacity), byWeek: map[int][2]int{}}
}

// AppendWeek appends the rows of one week. Weeks must be appended in order
// and only once.
func (l *Log) AppendWeek(week int, rows []Row) {
	start := len(l.rows)
	for _, r := range rows {
		r.Week = week
		l.rows = append(l.rows, r)
		if r.Leased {
			l.leased++
		}
	}
	l.byWeek[week] = [2]int{start, len(l.rows)}
}

// Rows returns a copy of every row.
func (l *Log) Rows() []Row {
	out := make([]Row, len(l.rows))
	copy(out, l.rows)
	return out
}

// Week returns the rows of week w, nil when it was never logged.
func (l *Log) Week(w int) []Row {
	span, ok := l.byWeek[w]
	if !ok {
		return nil
	}
	out := make([]Row, span[1]-span[0])
	copy(out, l.rows[span[0]:span[1]])
	return out
}

// Weeks returns the number of logged weeks.
func (l *Log) Weeks() int { return len(l.byWeek) }

// Len returns the number of rows.
func (l *Log) Len() int { return len(l.rows) }

// LeasedRows counts rows covered by a leased engine.
func (l *Log) LeasedRows() int { return l.leased }
