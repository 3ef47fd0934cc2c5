package models

import "time"

// RunResult aggregates one owner's orchestration run. Per-candidate failures
// are collected into Errors rather than aborting the run.
type RunResult struct {
	OwnerID              string    `json:"owner_id"`
	Alerts               []Alert   `json:"alerts"`
	NotificationsCreated int       `json:"notifications_created"`
	PushDispatched       int       `json:"push_dispatched"`
	EmailsSent           int       `json:"emails_sent"`
	Errors               []string  `json:"errors,omitempty"`
	RanAt                time.Time `json:"ran_at"`
}

// GlobalRunResult maps every processed owner to its run outcome. Owners whose
// run failed outright (snapshot unreadable, timeout) land in Failures instead.
type GlobalRunResult struct {
	RunID      string                `json:"run_id"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
	Results    map[string]*RunResult `json:"results"`
	Failures   map[string]string     `json:"failures,omitempty"`
}
