package progress

import "strings"

// Ceiling is the highest value the estimator or creep will ever report.
// Only a confirmed response moves progress to 100.
const Ceiling = 95

// Estimate is the estimator's answer for one log line
type Estimate struct {
	Progress float64
	Label    string
}

// Estimator infers processing progress from free-text log lines. It is a
// heuristic; nothing guarantees the backend is really at that stage.
type Estimator struct {
	stages []Stage
}

// NewEstimator creates an estimator over stages (DefaultStages when empty)
func NewEstimator(stages []Stage) *Estimator {
	if len(stages) == 0 {
		stages = DefaultStages
	}
	return &Estimator{stages: stages}
}

// Estimate maps message onto the table. When several keywords match, the
// most advanced stage wins. The result never drops below current, and Label
// is empty when the message does not advance progress.
func (e *Estimator) Estimate(message string, current float64) Estimate {
	lower := strings.ToLower(message)

	best := -1
	for i, s := range e.stages {
		if !strings.Contains(lower, s.Keyword) {
			continue
		}
		if best < 0 || s.Progress > e.stages[best].Progress {
			best = i
		}
	}

	if best < 0 {
		return Estimate{Progress: current}
	}
	p := e.stages[best].Progress
	if p > Ceiling {
		p = Ceiling
	}
	if p <= current {
		return Estimate{Progress: current}
	}
	return Estimate{Progress: p, Label: e.stages[best].Label}
}
