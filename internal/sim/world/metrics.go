package world

// WorldMetrics is a point-in-time snapshot published after every step.
type WorldMetrics struct {
	Tick       uint64  `json:"tick"`
	Agents     int     `json:"agents"`
	Clients    int     `json:"clients"`
	Resources  int     `json:"resources"`
	QueueDepth int     `json:"queue_depth"`
	StepMS     float64 `json:"step_ms"`
}

// Metrics returns the latest snapshot; safe from any goroutine.
func (w *World) Metrics() WorldMetrics {
	v := w.metrics.Load()
	if v == nil {
		return WorldMetrics{}
	}
	return v.(WorldMetrics)
}
