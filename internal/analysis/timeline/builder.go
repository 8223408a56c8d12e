package timeline

import (
	"sort"
	"time"

	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/params"
)

// Input is everything the builder paints onto a span
type Input struct {
	Date       string
	Start, End time.Time
	Sessions   []models.Session
	Candidates []models.ActivityCandidate
	Registry   models.Registry
}

// Builder assembles an exhaustive, non-overlapping timeline.
// Each instant takes the highest-priority source covering it:
// detected activity, then known location, then travel mode, then Unclassified.
type Builder struct {
	AbsorbGap   time.Duration
	SuppressLow bool
}

// NewBuilder creates a builder from timeline thresholds
func NewBuilder(cfg params.TimelineConfig) *Builder {
	return &Builder{
		AbsorbGap:   params.Seconds(cfg.AbsorbGapS),
		SuppressLow: cfg.SuppressLow,
	}
}

type cover struct {
	id         int
	start, end time.Time
	entry      models.TimelineEntry
	candidate  *models.ActivityCandidate
}

// outranks reports whether a should be painted over b
func outranks(a, b *cover) bool {
	pa, pb := a.entry.Kind.Priority(), b.entry.Kind.Priority()
	if pa != pb {
		return pa > pb
	}
	if a.candidate != nil && b.candidate != nil {
		ca, cb := a.candidate, b.candidate
		if ca.Confidence != cb.Confidence {
			return ca.Confidence > cb.Confidence
		}
		if ca.Specificity != cb.Specificity {
			return ca.Specificity < cb.Specificity
		}
		if ca.ActivityType != cb.ActivityType {
			return ca.ActivityType < cb.ActivityType
		}
	}
	if !a.start.Equal(b.start) {
		return a.start.Before(b.start)
	}
	return a.id < b.id
}

// Build paints the span
func (b *Builder) Build(in Input) models.Timeline {
	tl := models.Timeline{Date: in.Date, Start: in.Start, End: in.End}
	if !in.End.After(in.Start) {
		return tl
	}

	covers := b.covers(in)
	cuts := []time.Time{in.Start, in.End}
	for _, c := range covers {
		cuts = append(cuts, c.start, c.end)
	}
	sort.Slice(cuts, func(i, j int) bool { return cuts[i].Before(cuts[j]) })

	type slice struct {
		start, end time.Time
		winner     *cover
	}
	var slices []slice
	for i := 0; i+1 < len(cuts); i++ {
		lo, hi := cuts[i], cuts[i+1]
		if !hi.After(lo) {
			continue
		}
		var winner *cover
		for j := range covers {
			c := &covers[j]
			if c.start.After(lo) || c.end.Before(hi) {
				continue
			}
			if winner == nil || outranks(c, winner) {
				winner = c
			}
		}
		slices = append(slices, slice{start: lo, end: hi, winner: winner})
	}

	entries := make([]models.TimelineEntry, 0, len(slices))
	for _, s := range slices {
		e := unclassified(s.start, s.end)
		if s.winner != nil {
			e = s.winner.entry
			e.Start, e.End = s.start, s.end
		}
		entries = append(entries, e)
	}

	entries = coalesce(entries)
	entries = b.absorb(entries)
	tl.Entries = coalesce(entries)
	tl.Shares = Shares(tl.Entries, in.End.Sub(in.Start))
	return tl
}

// covers converts sessions and candidates into paintable intervals clipped to the span
func (b *Builder) covers(in Input) []cover {
	var out []cover
	add := func(start, end time.Time, entry models.TimelineEntry, cand *models.ActivityCandidate) {
		if start.Before(in.Start) {
			start = in.Start
		}
		if end.After(in.End) {
			end = in.End
		}
		if !end.After(start) {
			return
		}
		out = append(out, cover{id: len(out), start: start, end: end, entry: entry, candidate: cand})
	}

	for i := range in.Candidates {
		c := &in.Candidates[i]
		if b.SuppressLow && c.Likelihood == models.LikelihoodLow {
			continue
		}
		add(c.Start, c.End, models.TimelineEntry{
			Label:        c.ActivityType,
			Kind:         models.KindDetectedActivity,
			Confidence:   c.Confidence,
			LocationID:   c.LocationID,
			ActivityType: c.ActivityType,
			Likelihood:   c.Likelihood,
			Evidence:     c.Evidence,
		}, c)
	}

	for _, s := range in.Sessions {
		switch s.Label.Kind {
		case models.KindKnownLocation:
			label := s.LocationID
			if loc, ok := in.Registry.Lookup(s.LocationID); ok && loc.Name != "" {
				label = loc.Name
			}
			add(s.Start, s.End, models.TimelineEntry{
				Label:      label,
				Kind:       models.KindKnownLocation,
				Confidence: locationConfidence(s),
				LocationID: s.LocationID,
				Category:   s.Category,
			}, nil)
		case models.KindTravelMode:
			add(s.Start, s.End, models.TimelineEntry{
				Label:      s.Label.Value,
				Kind:       models.KindTravelMode,
				Confidence: travelConfidence(s),
			}, nil)
		}
	}
	return out
}

// locationConfidence falls from 1 at the center to 0.5 at the fence edge
func locationConfidence(s models.Session) float64 {
	var sum float64
	n := 0
	for _, p := range s.Points {
		if p.Radius <= 0 {
			continue
		}
		sum += p.Distance / p.Radius
		n++
	}
	if n == 0 {
		return 1
	}
	c := 1 - 0.5*(sum/float64(n))
	if c < 0.5 {
		return 0.5
	}
	return c
}

// travelConfidence is the share of points with a measured velocity
func travelConfidence(s models.Session) float64 {
	if len(s.Points) == 0 {
		return 0
	}
	n := 0
	for _, p := range s.Points {
		if p.HasVelocity {
			n++
		}
	}
	return float64(n) / float64(len(s.Points))
}

func unclassified(start, end time.Time) models.TimelineEntry {
	return models.TimelineEntry{
		Start: start,
		End:   end,
		Label: models.UnclassifiedLabel.Value,
		Kind:  models.KindUnclassified,
	}
}

func sameEntry(a, b models.TimelineEntry) bool {
	return a.Kind == b.Kind && a.Label == b.Label && a.Confidence == b.Confidence &&
		a.LocationID == b.LocationID && a.ActivityType == b.ActivityType
}

// coalesce merges contiguous entries carrying the same label
func coalesce(entries []models.TimelineEntry) []models.TimelineEntry {
	if len(entries) == 0 {
		return entries
	}
	out := []models.TimelineEntry{entries[0]}
	for _, e := range entries[1:] {
		last := &out[len(out)-1]
		if sameEntry(*last, e) && last.End.Equal(e.Start) {
			last.End = e.End
			continue
		}
		out = append(out, e)
	}
	return out
}

// absorb folds short interior Unclassified holes into the preceding entry
func (b *Builder) absorb(entries []models.TimelineEntry) []models.TimelineEntry {
	if b.AbsorbGap <= 0 || len(entries) < 3 {
		return entries
	}
	out := []models.TimelineEntry{entries[0]}
	for i := 1; i < len(entries); i++ {
		e := entries[i]
		interior := i < len(entries)-1
		prev := &out[len(out)-1]
		if interior && e.Kind == models.KindUnclassified && prev.Kind != models.KindUnclassified &&
			entries[i+1].Kind != models.KindUnclassified && e.Duration() < b.AbsorbGap {
			prev.End = e.End
			continue
		}
		out = append(out, e)
	}
	return out
}

// Shares computes the percentage of span spent under each label
func Shares(entries []models.TimelineEntry, span time.Duration) []models.LabelShare {
	type key struct {
		kind  models.LabelKind
		label string
	}
	totals := make(map[key]float64)
	var order []key
	for _, e := range entries {
		k := key{e.Kind, e.Label}
		if _, ok := totals[k]; !ok {
			order = append(order, k)
		}
		totals[k] += e.Duration().Seconds()
	}

	shares := make([]models.LabelShare, 0, len(order))
	for _, k := range order {
		share := models.LabelShare{Kind: k.kind, Label: k.label, Seconds: totals[k]}
		if span > 0 {
			share.Percent = totals[k] / span.Seconds() * 100
		}
		shares = append(shares, share)
	}
	sort.SliceStable(shares, func(i, j int) bool {
		if shares[i].Seconds != shares[j].Seconds {
			return shares[i].Seconds > shares[j].Seconds
		}
		return shares[i].Label < shares[j].Label
	})
	return shares
}
