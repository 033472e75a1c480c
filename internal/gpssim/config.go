package gpssim

import "time"

// Config is the receiver state the serve loop reads on every tick. A nil
// pointer field is unset and renders as an empty NMEA field.
type Config struct {
	Output   []string
	Fix      string
	Solution string
	NumSats  int
	Manual2D bool

	DGPSStation *int
	LastDGPS    *float64 // seconds since last DGPS update
	DateTime    *time.Time
	TimeDP      int

	Lat      *float64 // degrees, north positive
	Lon      *float64 // degrees, east positive
	Altitude *float64 // metres above mean sea level
	GeoidSep *float64 // metres

	HorizontalDP int
	VerticalDP   int

	KPH        *float64
	Heading    *float64 // degrees true
	MagHeading *float64 // degrees magnetic
	MagVar     *float64 // degrees, east positive

	// HeadingVariation jitters the heading by up to this many degrees per
	// tick. It drives the simulation, not a sentence field.
	HeadingVariation *float64

	SpeedDP int
	AngleDP int

	HDOP *float64
	VDOP *float64
	PDOP *float64
}

// DefaultConfig is the receiver state before the first commit.
func DefaultConfig() Config {
	return Config{
		Output:       SupportedOutput(),
		Fix:          "GPS_SPS_FIX",
		Solution:     "GPS_AUTONOMOUS_SOLUTION",
		NumSats:      15,
		TimeDP:       3,
		HorizontalDP: 3,
		VerticalDP:   1,
		SpeedDP:      1,
		AngleDP:      1,
	}
}

// Clone returns a copy that shares no mutable state with c.
func (c Config) Clone() Config {
	out := c
	out.Output = append([]string(nil), c.Output...)
	return out
}

// valid reports whether the receiver has a usable position fix.
func (c *Config) valid() bool {
	code, ok := lookup(fixTypes, c.Fix)
	return ok && code != "0" && c.Lat != nil && c.Lon != nil
}

func floatPtr(v float64) *float64 { return &v }
