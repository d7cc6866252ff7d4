package monitor

import "time"

// ComponentStatus is the last probe result of one dependency.
type ComponentStatus struct {
	Online  bool          `json:"online"`
	Latency time.Duration `json:"latency_ns"`
	Error   string        `json:"error,omitempty"`
}

type Status struct {
	Healthy    bool                       `json:"healthy"`
	Components map[string]ComponentStatus `json:"components"`
	LastCheck  time.Time                  `json:"last_check"`
}
