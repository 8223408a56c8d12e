package activity

import (
	"fmt"
	"math"
	"time"

	"github.com/gavraq/location-timeline/internal/models"
)

// likelihoodFor grades by how many criteria passed: all is HIGH, all but one is MEDIUM
func likelihoodFor(passed, total int) models.Likelihood {
	switch {
	case total > 0 && passed == total:
		return models.LikelihoodHigh
	case total > 1 && passed == total-1:
		return models.LikelihoodMedium
	default:
		return models.LikelihoodLow
	}
}

// likelihoodOf grades a confidence value
func likelihoodOf(confidence float64) models.Likelihood {
	switch {
	case confidence >= 0.7:
		return models.LikelihoodHigh
	case confidence >= 0.4:
		return models.LikelihoodMedium
	default:
		return models.LikelihoodLow
	}
}

// confidenceFor places a fit in [0,1] inside the likelihood's confidence band
func confidenceFor(l models.Likelihood, fit float64) float64 {
	fit = clamp01(fit)
	switch l {
	case models.LikelihoodHigh:
		return 0.7 + 0.3*fit
	case models.LikelihoodMedium:
		return 0.4 + 0.2*fit
	default:
		return 0.1 + 0.2*fit
	}
}

// centrality is 1 at the middle of [lo, hi], falling to 0.5 at the edges
// and 0 outside. An open upper bound (hi <= lo) counts as central.
func centrality(v, lo, hi float64) float64 {
	if v < lo {
		return 0
	}
	if hi <= lo {
		return 1
	}
	if v > hi {
		return 0
	}
	mid := (lo + hi) / 2
	half := (hi - lo) / 2
	return 1 - 0.5*math.Abs(v-mid)/half
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func mean(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func countPassed(criteria []models.Criterion) int {
	n := 0
	for _, c := range criteria {
		if c.Passed {
			n++
		}
	}
	return n
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && (hi <= lo || v <= hi)
}

func durationCriterion(name string, d, lo, hi time.Duration) models.Criterion {
	expected := fmt.Sprintf(">= %s", fmtDuration(lo))
	if hi > 0 {
		expected = fmt.Sprintf("%s - %s", fmtDuration(lo), fmtDuration(hi))
	}
	return models.Criterion{
		Name:     name,
		Passed:   inRange(d.Seconds(), lo.Seconds(), hi.Seconds()),
		Observed: fmtDuration(d),
		Expected: expected,
	}
}

func rangeCriterion(name string, v, lo, hi float64, unit string) models.Criterion {
	return models.Criterion{
		Name:     name,
		Passed:   inRange(v, lo, hi),
		Observed: fmt.Sprintf("%.2f %s", v, unit),
		Expected: fmt.Sprintf("%.2f - %.2f %s", lo, hi, unit),
	}
}

func boolCriterion(name string, passed bool, observed, expected string) models.Criterion {
	return models.Criterion{Name: name, Passed: passed, Observed: observed, Expected: expected}
}

func fmtDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}

// boundsWidth is the specificity of a duration range, a full day when open-ended
func boundsWidth(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return 24 * time.Hour
	}
	return hi - lo
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sessionIDs(sessions ...models.Session) []string {
	ids := make([]string, len(sessions))
	for i, s := range sessions {
		ids[i] = s.ID
	}
	return ids
}
