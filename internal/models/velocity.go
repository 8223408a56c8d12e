package models

// VelocityBand is a coarse travel-mode label derived from speed
type VelocityBand int

const (
	BandUnknown VelocityBand = iota
	BandStationary
	BandWalking
	BandRunning
	BandCycling
	BandDriving
)

var bandNames = map[VelocityBand]string{
	BandUnknown:    "unknown",
	BandStationary: "stationary",
	BandWalking:    "walking",
	BandRunning:    "running",
	BandCycling:    "cycling",
	BandDriving:    "driving",
}

func (b VelocityBand) String() string {
	if name, ok := bandNames[b]; ok {
		return name
	}
	return "unknown"
}

// ParseVelocityBand maps a band name back to its value
func ParseVelocityBand(name string) VelocityBand {
	for b, n := range bandNames {
		if n == name {
			return b
		}
	}
	return BandUnknown
}

// IsMoving reports whether the band represents travel
func (b VelocityBand) IsMoving() bool {
	return b >= BandWalking
}

func (b VelocityBand) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *VelocityBand) UnmarshalText(text []byte) error {
	*b = ParseVelocityBand(string(text))
	return nil
}
