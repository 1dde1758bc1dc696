package omr

// Region is a rectangle expressed as fractions of the page dimensions,
// so the same configuration works at any render resolution.
type Region struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Config holds the tunable parameters for one decode call. Thresholds are
// expressed against darkness scores in [0,1] as returned by SampleDarkness.
// MultiThreshold is expected to be at or below FillThreshold.
type Config struct {
	// Choices are the answer symbols in printed order, e.g. A-D.
	Choices []string
	// SampleRadiusFraction sizes the sampling circle relative to a grid cell.
	SampleRadiusFraction float64
	// FillThreshold is the minimum darkness for a bubble to count as filled.
	FillThreshold float64
	// MultiThreshold is the darkness above which a bubble counts as a
	// candidate mark when checking for multiple fills.
	MultiThreshold float64
	// IDBlockRegion locates the student-number digit grid.
	IDBlockRegion Region
	// AnswersBlockRegion locates the answer bubble area.
	AnswersBlockRegion Region
	// Debug enables diagnostic logging during decoding.
	Debug bool
}

// DefaultConfig returns the tuned defaults for standard sheets rendered at
// scale 2.0 (roughly 144 DPI).
func DefaultConfig() Config {
	return Config{
		Choices:              []string{"A", "B", "C", "D"},
		SampleRadiusFraction: 0.08,
		FillThreshold:        0.45,
		MultiThreshold:       0.30,
		IDBlockRegion:        Region{X: 0.06, Y: 0.06, W: 0.42, H: 0.22},
		AnswersBlockRegion:   Region{X: 0.06, Y: 0.32, W: 0.88, H: 0.62},
	}
}

// withDefaults fills zero-valued fields so a partially specified Config
// behaves like DefaultConfig for the fields the caller left out.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if len(c.Choices) == 0 {
		c.Choices = def.Choices
	}
	if c.SampleRadiusFraction <= 0 {
		c.SampleRadiusFraction = def.SampleRadiusFraction
	}
	if c.FillThreshold <= 0 {
		c.FillThreshold = def.FillThreshold
	}
	if c.MultiThreshold <= 0 {
		c.MultiThreshold = def.MultiThreshold
	}
	if c.IDBlockRegion == (Region{}) {
		c.IDBlockRegion = def.IDBlockRegion
	}
	if c.AnswersBlockRegion == (Region{}) {
		c.AnswersBlockRegion = def.AnswersBlockRegion
	}
	return c
}
