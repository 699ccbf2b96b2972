package domain

import "math"

// integerSnap is the distance from a whole number under which a percentage is
// reported as that whole number. The small epsilon keeps values such as 99.9
// (which is 0.0999... away from 100 in floating point) at one decimal.
const integerSnap = 0.1 - 1e-9

// Progress returns the completion percentage of p's task tree: 0 for a project
// without tasks, otherwise completed/total*100 rounded to an integer when it is
// within 0.1 of one and to one decimal place otherwise.
func Progress(p Project) float64 {
	var total, done int
	for _, m := range p.Milestones {
		for _, t := range m.Tasks {
			total++
			if t.Status == StatusCompleted {
				done++
			}
		}
	}
	if total == 0 {
		return 0
	}
	pct := float64(done) / float64(total) * 100
	if whole := math.Round(pct); math.Abs(pct-whole) < integerSnap {
		return whole
	}
	return math.Round(pct*10) / 10
}

// MilestoneCompleted reports whether m has at least one task and every task is completed.
func MilestoneCompleted(m Milestone) bool {
	if len(m.Tasks) == 0 {
		return false
	}
	for _, t := range m.Tasks {
		if t.Status != StatusCompleted {
			return false
		}
	}
	return true
}
