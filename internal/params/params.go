package params

import (
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"

	"github.com/gavraq/location-timeline/internal/models"
)

// Seconds converts a whole-second threshold into a duration
func Seconds(s int64) time.Duration {
	return time.Duration(s) * time.Second
}

// VelocityBandThresholds are the upper bounds of each band, closed-open.
// A velocity exactly on a bound belongs to the higher band.
type VelocityBandThresholds struct {
	StationaryMaxMPS float64 `json:"stationaryMaxMps"` // 0.5 m/s
	WalkingMaxMPS    float64 `json:"walkingMaxMps"`    // 2 m/s
	RunningMaxMPS    float64 `json:"runningMaxMps"`    // 4 m/s
	CyclingMaxMPS    float64 `json:"cyclingMaxMps"`    // 8 m/s
}

// ClusterConfig controls how consecutive points become sessions
type ClusterConfig struct {
	GapToleranceS int64 `json:"gapToleranceS"` // 300 s
	MinPoints     int   `json:"minPoints"`     // 2
	MinDurationS  int64 `json:"minDurationS"`  // 0 s
}

// TimelineConfig controls timeline assembly
type TimelineConfig struct {
	AbsorbGapS  int64 `json:"absorbGapS"`  // 300 s
	SuppressLow bool  `json:"suppressLow"` // LOW candidates stay out of the timeline
}

// CommuteConfig drives office-day and WFH detection
type CommuteConfig struct {
	OutboundWindow models.ScheduleWindow `json:"outboundWindow"`
	ReturnWindow   models.ScheduleWindow `json:"returnWindow"`
	MaxTravelS     int64                 `json:"maxTravelS"` // 3 h
	WFHWindow      models.ScheduleWindow `json:"wfhWindow"`
	MinWFHHomeS    int64                 `json:"minWfhHomeS"`  // 3 h
	FullDayHomeS   int64                 `json:"fullDayHomeS"` // 8 h, confidence saturates here
}

// VisitConfig holds fallbacks for location visit definitions
type VisitConfig struct {
	DefaultMinDurationS int64 `json:"defaultMinDurationS"` // 5 min
	DefaultMaxDurationS int64 `json:"defaultMaxDurationS"` // 3 h
}

// ParkrunConfig drives parkrun detection
type ParkrunConfig struct {
	Window          models.ScheduleWindow `json:"window"`
	MinDurationS    int64                 `json:"minDurationS"`    // 15 min
	MaxDurationS    int64                 `json:"maxDurationS"`    // 2 h
	ApproachRadiusM float64               `json:"approachRadiusM"` // 250 m beyond the venue radius
	ApproachGapS    int64                 `json:"approachGapS"`    // 5 min
	BaseConfidence  float64               `json:"baseConfidence"`  // 0.5
	CycledToBonus   float64               `json:"cycledToBonus"`   // 0.2
	CycledFromBonus float64               `json:"cycledFromBonus"` // 0.15
	WindowBonus     float64               `json:"windowBonus"`     // 0.15
}

// GolfConfig drives golf detection
type GolfConfig struct {
	MaxPointVelocityMPS float64 `json:"maxPointVelocityMps"` // 2.5 m/s, faster points are carts or cars
	GapToleranceS       int64   `json:"gapToleranceS"`       // 15 min between shots
	MinDurationS        int64   `json:"minDurationS"`        // 20 min
	MaxDurationS        int64   `json:"maxDurationS"`        // 3 h
	MinMeanVelocityMPS  float64 `json:"minMeanVelocityMps"`  // 0.8 m/s
	MaxMeanVelocityMPS  float64 `json:"maxMeanVelocityMps"`  // 2.0 m/s
	MinDistanceM        float64 `json:"minDistanceM"`        // 500 m
	MaxDistanceM        float64 `json:"maxDistanceM"`        // 3000 m
}

// Params aggregates the thresholds of every pipeline stage
type Params struct {
	Velocity VelocityBandThresholds `json:"velocity"`
	Cluster  ClusterConfig          `json:"cluster"`
	Timeline TimelineConfig         `json:"timeline"`
	Commute  CommuteConfig          `json:"commute"`
	Visit    VisitConfig            `json:"visit"`
	Parkrun  ParkrunConfig          `json:"parkrun"`
	Golf     GolfConfig             `json:"golf"`
}

var weekdays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// DefaultVelocityBands are the walking/running/cycling/driving cut-offs
var DefaultVelocityBands = VelocityBandThresholds{
	StationaryMaxMPS: 0.5,
	WalkingMaxMPS:    2.0,
	RunningMaxMPS:    4.0,
	CyclingMaxMPS:    8.0,
}

// DefaultCluster joins points up to 5 minutes apart
var DefaultCluster = ClusterConfig{
	GapToleranceS: 300,
	MinPoints:     2,
	MinDurationS:  0,
}

var DefaultTimeline = TimelineConfig{
	AbsorbGapS:  300,
	SuppressLow: true,
}

var DefaultCommute = CommuteConfig{
	OutboundWindow: models.ScheduleWindow{Weekdays: weekdays, Start: "05:00", End: "11:00"},
	ReturnWindow:   models.ScheduleWindow{Weekdays: weekdays, Start: "15:00", End: "22:00"},
	MaxTravelS:     3 * 3600,
	WFHWindow:      models.ScheduleWindow{Weekdays: weekdays, Start: "09:00", End: "17:00"},
	MinWFHHomeS:    3 * 3600,
	FullDayHomeS:   8 * 3600,
}

var DefaultVisit = VisitConfig{
	DefaultMinDurationS: 5 * 60,
	DefaultMaxDurationS: 3 * 3600,
}

var DefaultParkrun = ParkrunConfig{
	Window:          models.ScheduleWindow{Weekdays: []time.Weekday{time.Saturday}, Start: "07:00", End: "11:00"},
	MinDurationS:    15 * 60,
	MaxDurationS:    2 * 3600,
	ApproachRadiusM: 250,
	ApproachGapS:    5 * 60,
	BaseConfidence:  0.5,
	CycledToBonus:   0.2,
	CycledFromBonus: 0.15,
	WindowBonus:     0.15,
}

// DefaultGolf holds the tuned golf thresholds; they are adjustable, not fixed truths
var DefaultGolf = GolfConfig{
	MaxPointVelocityMPS: 2.5,
	GapToleranceS:       15 * 60,
	MinDurationS:        20 * 60,
	MaxDurationS:        3 * 3600,
	MinMeanVelocityMPS:  0.8,
	MaxMeanVelocityMPS:  2.0,
	MinDistanceM:        500,
	MaxDistanceM:        3000,
}

// Default returns a fresh copy of all default thresholds
func Default() Params {
	p := Params{
		Velocity: DefaultVelocityBands,
		Cluster:  DefaultCluster,
		Timeline: DefaultTimeline,
		Commute:  DefaultCommute,
		Visit:    DefaultVisit,
		Parkrun:  DefaultParkrun,
		Golf:     DefaultGolf,
	}
	p.Commute.OutboundWindow.Weekdays = append([]time.Weekday(nil), weekdays...)
	p.Commute.ReturnWindow.Weekdays = append([]time.Weekday(nil), weekdays...)
	p.Commute.WFHWindow.Weekdays = append([]time.Weekday(nil), weekdays...)
	p.Parkrun.Window.Weekdays = []time.Weekday{time.Saturday}
	return p
}

// LoadFile reads a JSON document and merges it over the defaults.
// Fields absent from the file keep their default value.
func LoadFile(path string) (Params, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read params file: %w", err)
	}
	if err := sonic.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse params file %s: %w", path, err)
	}
	return p, p.Validate()
}

// ApplyProfile merges a stored threshold profile over one stage
func (p Params) ApplyProfile(profile models.ThresholdProfile) (Params, error) {
	p = p.clone()
	var target interface{}
	switch profile.SkillName {
	case models.SkillVelocity:
		target = &p.Velocity
	case models.SkillCluster:
		target = &p.Cluster
	case models.SkillTimeline:
		target = &p.Timeline
	case models.SkillCommute:
		target = &p.Commute
	case models.SkillVisit:
		target = &p.Visit
	case models.SkillParkrun:
		target = &p.Parkrun
	case models.SkillGolf:
		target = &p.Golf
	default:
		return p, fmt.Errorf("unknown threshold skill: %s", profile.SkillName)
	}
	if err := sonic.UnmarshalString(profile.ParamsJSON, target); err != nil {
		return p, fmt.Errorf("failed to parse profile %s: %w", profile.Name, err)
	}
	return p, p.Validate()
}

// clone detaches the weekday slices from the receiver
func (p Params) clone() Params {
	p.Commute.OutboundWindow.Weekdays = append([]time.Weekday(nil), p.Commute.OutboundWindow.Weekdays...)
	p.Commute.ReturnWindow.Weekdays = append([]time.Weekday(nil), p.Commute.ReturnWindow.Weekdays...)
	p.Commute.WFHWindow.Weekdays = append([]time.Weekday(nil), p.Commute.WFHWindow.Weekdays...)
	p.Parkrun.Window.Weekdays = append([]time.Weekday(nil), p.Parkrun.Window.Weekdays...)
	return p
}

// Validate checks the ordering constraints between thresholds
func (p Params) Validate() error {
	v := p.Velocity
	if !(v.StationaryMaxMPS > 0 && v.StationaryMaxMPS < v.WalkingMaxMPS &&
		v.WalkingMaxMPS < v.RunningMaxMPS && v.RunningMaxMPS < v.CyclingMaxMPS) {
		return fmt.Errorf("velocity bands must be positive and strictly increasing")
	}
	if p.Cluster.GapToleranceS < 0 || p.Cluster.MinDurationS < 0 {
		return fmt.Errorf("cluster tolerances must not be negative")
	}
	if p.Golf.MinDurationS > p.Golf.MaxDurationS ||
		p.Golf.MinMeanVelocityMPS > p.Golf.MaxMeanVelocityMPS ||
		p.Golf.MinDistanceM > p.Golf.MaxDistanceM {
		return fmt.Errorf("golf ranges must have min <= max")
	}
	if p.Parkrun.MinDurationS > p.Parkrun.MaxDurationS {
		return fmt.Errorf("parkrun duration range must have min <= max")
	}
	return nil
}
