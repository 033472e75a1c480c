package form

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gpssim.weilijiang.com/internal/gpssim"
)

// Kind is the target type of a field.
type Kind int

const (
	KindList      Kind = iota // comma-separated strings
	KindChoice                // one of Options
	KindIntChoice             // one of Options, stored as int
	KindBool
	KindInt
	KindFloat
	KindTimestamp
)

// Selection reports whether the field is picked from Options rather than
// typed.
func (k Kind) Selection() bool {
	return k == KindChoice || k == KindIntChoice || k == KindBool
}

// Fallback is what a field falls back to when its raw value is rejected.
type Fallback int

const (
	// FallbackClear writes unset and blanks the display.
	FallbackClear Fallback = iota
	// FallbackDefault recomputes the default, writes it and shows it.
	FallbackDefault
)

func (f Fallback) String() string {
	if f == FallbackDefault {
		return "default"
	}
	return "clear"
}

var (
	ErrBlank     = errors.New("value is blank")
	ErrNotOption = errors.New("value is not one of the offered options")
	ErrNotFinite = errors.New("value is not a finite number")
)

// Field describes one form field and how it lands in gpssim.Config.
type Field struct {
	Key      string
	Label    string
	Kind     Kind
	Options  []string
	Fallback Fallback

	defaultValue func() string
	set          func(cfg *gpssim.Config, raw string) error
	clear        func(cfg *gpssim.Config)
}

// Default returns the value shown before the first edit. Some fields start
// blank.
func (f Field) Default() string {
	if f.defaultValue == nil {
		return ""
	}
	return f.defaultValue()
}

func fixed(v string) func() string { return func() string { return v } }

// optional builds a free-text field whose rejected input leaves the
// configuration unset. Blank input is accepted as unset.
func optional[T any](key, label string, kind Kind, def string,
	parse func(string) (T, error), slot func(*gpssim.Config) **T) Field {
	f := Field{
		Key:      key,
		Label:    label,
		Kind:     kind,
		Fallback: FallbackClear,
		set: func(cfg *gpssim.Config, raw string) error {
			if strings.TrimSpace(raw) == "" {
				*slot(cfg) = nil
				return nil
			}
			v, err := parse(raw)
			if err != nil {
				return err
			}
			*slot(cfg) = &v
			return nil
		},
		clear: func(cfg *gpssim.Config) { *slot(cfg) = nil },
	}
	if def != "" {
		f.defaultValue = fixed(def)
	}
	return f
}

// required builds a field that always holds a value; rejected input is
// replaced by the default.
func required[T any](key, label string, kind Kind, options []string, def func() string,
	parse func(string) (T, error), slot func(*gpssim.Config) *T) Field {
	return Field{
		Key:          key,
		Label:        label,
		Kind:         kind,
		Options:      options,
		Fallback:     FallbackDefault,
		defaultValue: def,
		set: func(cfg *gpssim.Config, raw string) error {
			v, err := parse(raw)
			if err != nil {
				return err
			}
			*slot(cfg) = v
			return nil
		},
	}
}

func parseFloat(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotFinite, raw)
	}
	return v, nil
}

func parseInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

func parseBool(raw string) (bool, error) {
	return strconv.ParseBool(raw)
}

// parseList splits on commas and trims each token. Only wholly blank input
// is rejected.
func parseList(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrBlank
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

func choice(options []string) func(string) (string, error) {
	return func(raw string) (string, error) {
		for _, o := range options {
			if o == raw {
				return raw, nil
			}
		}
		return "", fmt.Errorf("%w: %q", ErrNotOption, raw)
	}
}

func intChoice(options []string) func(string) (int, error) {
	pick := choice(options)
	return func(raw string) (int, error) {
		v, err := pick(raw)
		if err != nil {
			return 0, err
		}
		return strconv.Atoi(v)
	}
}

func intRange(lo, hi int) []string {
	out := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, strconv.Itoa(i))
	}
	return out
}

// DefaultOutput is the supported output set, sorted and joined with ", ".
func DefaultOutput() string {
	return strings.Join(gpssim.SupportedOutput(), ", ")
}

// buildSchema returns the fields in commit order. now seeds the timestamp
// field and its fallback.
func buildSchema(now func() time.Time) []Field {
	sats := intRange(0, 32)
	dp3 := intRange(0, 3)
	bools := []string{"false", "true"}
	fixTypes := gpssim.FixTypes()
	modes := gpssim.SolutionModes()
	nowText := func() string { return FormatTimestamp(now()) }

	return []Field{
		required("output", "Formats (ordered):", KindList, nil, DefaultOutput,
			parseList, func(c *gpssim.Config) *[]string { return &c.Output }),
		required("fix", "Fix type:", KindChoice, fixTypes, fixed("GPS_SPS_FIX"),
			choice(fixTypes), func(c *gpssim.Config) *string { return &c.Fix }),
		required("solution", "FAA solution mode:", KindChoice, modes, fixed("GPS_AUTONOMOUS_SOLUTION"),
			choice(modes), func(c *gpssim.Config) *string { return &c.Solution }),
		required("num_sats", "Visible satellites:", KindIntChoice, sats, fixed("15"),
			intChoice(sats), func(c *gpssim.Config) *int { return &c.NumSats }),
		required("manual_2d", "Manual 2-D mode:", KindBool, bools, fixed("false"),
			parseBool, func(c *gpssim.Config) *bool { return &c.Manual2D }),
		optional("dgps_station", "DGPS Station ID:", KindInt, "",
			parseInt, func(c *gpssim.Config) **int { return &c.DGPSStation }),
		optional("last_dgps", "Time since DGPS update (s):", KindFloat, "",
			parseFloat, func(c *gpssim.Config) **float64 { return &c.LastDGPS }),
		// The timestamp resets to "now" rather than clearing, matching the
		// field's initial value. The typed value holds that same instant
		// rather than nil, so display and config agree.
		{
			Key:          "date_time",
			Label:        "Initial ISO 8601 date/time/offset:",
			Kind:         KindTimestamp,
			Fallback:     FallbackDefault,
			defaultValue: nowText,
			set: func(cfg *gpssim.Config, raw string) error {
				t, err := ParseTimestamp(raw)
				if err != nil {
					return err
				}
				cfg.DateTime = &t
				return nil
			},
			clear: func(cfg *gpssim.Config) { cfg.DateTime = nil },
		},
		required("time_dp", "Time precision (d.p.):", KindIntChoice, dp3, fixed("3"),
			intChoice(dp3), func(c *gpssim.Config) *int { return &c.TimeDP }),
		optional("lat", "Latitude (deg):", KindFloat, "-45.352354",
			parseFloat, func(c *gpssim.Config) **float64 { return &c.Lat }),
		optional("lon", "Longitude (deg):", KindFloat, "-134.687995",
			parseFloat, func(c *gpssim.Config) **float64 { return &c.Lon }),
		optional("altitude", "Altitude (m):", KindFloat, "-11.442",
			parseFloat, func(c *gpssim.Config) **float64 { return &c.Altitude }),
		optional("geoid_sep", "Geoid separation (m):", KindFloat, "-42.55",
			parseFloat, func(c *gpssim.Config) **float64 { return &c.GeoidSep }),
		required("horizontal_dp", "Horizontal precision (d.p.):", KindIntChoice, intRange(1, 5), fixed("3"),
			intChoice(intRange(1, 5)), func(c *gpssim.Config) *int { return &c.HorizontalDP }),
		required("vertical_dp", "Vertical precision (d.p.):", KindIntChoice, dp3, fixed("1"),
			intChoice(dp3), func(c *gpssim.Config) *int { return &c.VerticalDP }),
		optional("kph", "Speed (km/hr):", KindFloat, "45.61",
			parseFloat, func(c *gpssim.Config) **float64 { return &c.KPH }),
		optional("heading", "Heading (deg True):", KindFloat, "123.56",
			parseFloat, func(c *gpssim.Config) **float64 { return &c.Heading }),
		optional("heading_variation", "Simulated heading variation (deg):", KindFloat, "",
			parseFloat, func(c *gpssim.Config) **float64 { return &c.HeadingVariation }),
		optional("mag_heading", "Magnetic heading (deg True):", KindFloat, "124.67",
			parseFloat, func(c *gpssim.Config) **float64 { return &c.MagHeading }),
		optional("mag_var", "Magnetic Variation (deg):", KindFloat, "-12.33",
			parseFloat, func(c *gpssim.Config) **float64 { return &c.MagVar }),
		required("speed_dp", "Speed precision (d.p.):", KindIntChoice, dp3, fixed("1"),
			intChoice(dp3), func(c *gpssim.Config) *int { return &c.SpeedDP }),
		required("angle_dp", "Angular precision (d.p.):", KindIntChoice, dp3, fixed("1"),
			intChoice(dp3), func(c *gpssim.Config) *int { return &c.AngleDP }),
		optional("hdop", "HDOP:", KindFloat, "3.0",
			parseFloat, func(c *gpssim.Config) **float64 { return &c.HDOP }),
		optional("vdop", "VDOP:", KindFloat, "",
			parseFloat, func(c *gpssim.Config) **float64 { return &c.VDOP }),
		optional("pdop", "PDOP:", KindFloat, "",
			parseFloat, func(c *gpssim.Config) **float64 { return &c.PDOP }),
	}
}
