package database

import "time"

// Run is a row of the runs table.
type Run struct {
	ID         int64     `db:"id,omitempty"`
	UUID       string    `db:"run_uuid"`
	StartedAt  time.Time `db:"started_at"`
	Hosts      int64     `db:"hosts"`
	Candidates int64     `db:"candidates"`
	Reachable  int64     `db:"reachable"`
}

// Selection is a row of the selections table.
type Selection struct {
	ID        int64   `db:"id,omitempty"`
	RunID     int64   `db:"run_id"`
	Hostname  string  `db:"hostname"`
	IP        string  `db:"ip"`
	LatencyMs float64 `db:"latency_ms"`
}
