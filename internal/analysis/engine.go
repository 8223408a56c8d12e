package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/gavraq/location-timeline/internal/models"
	"github.com/gavraq/location-timeline/internal/params"
)

// DetectionInput is the read-only view of one day handed to every detector
type DetectionInput struct {
	Date     string // YYYY-MM-DD
	Location *time.Location
	Points   []models.ClassifiedPoint
	Sessions []models.Session
	Registry models.Registry
	Params   params.Params
}

// Detector is the interface that all activity detectors must implement
type Detector interface {
	// Name identifies the configured instance, usually the definition ID
	Name() string

	// ActivityType is the label the detector emits on the timeline
	ActivityType() string

	// Specificity is the width of the detector's duration bounds.
	// Narrower detectors win ties between equally confident candidates.
	Specificity() time.Duration

	// Detect returns zero or more candidates. It must not modify the input.
	Detect(in DetectionInput) []models.ActivityCandidate
}

// BaseDetector provides common functionality for all detectors
type BaseDetector struct {
	name         string
	activityType string
	specificity  time.Duration
}

// NewBaseDetector creates a new base detector
func NewBaseDetector(name, activityType string, specificity time.Duration) BaseDetector {
	return BaseDetector{
		name:         name,
		activityType: activityType,
		specificity:  specificity,
	}
}

// Name returns the detector name
func (d BaseDetector) Name() string {
	return d.name
}

// ActivityType returns the emitted activity label
func (d BaseDetector) ActivityType() string {
	return d.activityType
}

// Specificity returns the duration-bounds width
func (d BaseDetector) Specificity() time.Duration {
	return d.specificity
}

// DetectorFactory is a function that creates a detector from its definition
type DetectorFactory func(def models.ActivityDefinition, p params.Params) (Detector, error)

// DetectorRegistry maps definition kinds to detector factories
var DetectorRegistry = make(map[string]DetectorFactory)

// DefaultDefinitions are run when no definition of the same kind is supplied
var DefaultDefinitions = make(map[string]models.ActivityDefinition)

// RegisterDetector registers a detector factory for a definition kind
func RegisterDetector(kind string, factory DetectorFactory) {
	DetectorRegistry[kind] = factory
}

// RegisterDefaultDefinition registers a definition used when a kind is not configured
func RegisterDefaultDefinition(def models.ActivityDefinition) {
	DefaultDefinitions[def.Kind] = def
}

// GetDetector builds a detector for a definition
func GetDetector(def models.ActivityDefinition, p params.Params) (Detector, error) {
	factory, ok := DetectorRegistry[def.Kind]
	if !ok {
		return nil, fmt.Errorf("no detector registered for kind %q", def.Kind)
	}
	return factory(def, p)
}

// Kinds lists the registered detector kinds in order
func Kinds() []string {
	kinds := make([]string, 0, len(DetectorRegistry))
	for k := range DetectorRegistry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Set is an ordered collection of configured detectors
type Set struct {
	detectors []Detector
}

// NewSet builds one detector per definition, plus a default instance of
// every registered kind that no definition configured. Definitions that
// cannot be built are reported and skipped.
func NewSet(defs []models.ActivityDefinition, p params.Params, diags *models.Diagnostics) *Set {
	s := &Set{}
	configured := make(map[string]bool)

	for _, def := range defs {
		d, err := GetDetector(def, p)
		if err != nil {
			diags.Add(models.SeverityWarning, models.DiagUnknownDetector,
				fmt.Sprintf("definition %s: %v", def.ID, err))
			continue
		}
		configured[def.Kind] = true
		s.detectors = append(s.detectors, d)
	}

	for _, kind := range Kinds() {
		def, ok := DefaultDefinitions[kind]
		if !ok || configured[kind] {
			continue
		}
		d, err := GetDetector(def, p)
		if err != nil {
			diags.Add(models.SeverityWarning, models.DiagUnknownDetector,
				fmt.Sprintf("default %s: %v", kind, err))
			continue
		}
		s.detectors = append(s.detectors, d)
	}

	return s
}

// NewSetOf wraps already-built detectors
func NewSetOf(detectors ...Detector) *Set {
	return &Set{detectors: detectors}
}

// Detectors returns the configured detectors
func (s *Set) Detectors() []Detector {
	return s.detectors
}

// Run executes every detector over the input. A detector that panics is
// reported as a diagnostic and the remaining detectors still run.
// Candidates are returned ordered by start, then activity type.
func (s *Set) Run(in DetectionInput, diags *models.Diagnostics) []models.ActivityCandidate {
	var out []models.ActivityCandidate
	for _, d := range s.detectors {
		candidates, err := runDetector(d, in)
		if err != nil {
			diags.Add(models.SeverityError, models.DiagDetectorFailure, err.Error())
			continue
		}
		for _, c := range candidates {
			if c.Detector == "" {
				c.Detector = d.Name()
			}
			if c.Specificity == 0 {
				c.Specificity = d.Specificity()
			}
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ActivityType < out[j].ActivityType
	})
	return out
}

func runDetector(d Detector, in DetectionInput) (candidates []models.ActivityCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("detector %s failed: %v", d.Name(), r)
		}
	}()

	// Each detector gets its own top-level slices
	view := in
	view.Points = append([]models.ClassifiedPoint(nil), in.Points...)
	view.Sessions = append([]models.Session(nil), in.Sessions...)
	return d.Detect(view), nil
}
