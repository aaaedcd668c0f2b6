package model

// TaskEvaluation is the engine's answer for one condition (or the AND-fold
// of a condition set). Progress is always clamped to [0,1]. CanComplete is
// the condition's own completion predicate and is deliberately NOT the same
// statement as Progress == 1: the weekly window conditions require every
// day in the window to qualify, which is stricter than an averaged progress
// reaching 1.
type TaskEvaluation struct {
	CanComplete bool    `json:"canComplete"`
	Progress    float64 `json:"progress"`
	Current     float64 `json:"current,omitempty"`
	Target      float64 `json:"target,omitempty"`
	Details     string  `json:"details,omitempty"`
}

// ClampProgress bounds p to [0,1] and flushes NaN to 0 so callers never see
// an out-of-range or non-finite fraction.
func ClampProgress(p float64) float64 {
	if p != p { // NaN
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
