package gpssim

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Checksum is the XOR of every byte between '$' and '*'.
func Checksum(body string) byte {
	var cs byte
	for i := 0; i < len(body); i++ {
		cs ^= body[i]
	}
	return cs
}

// frame wraps comma-joined fields into a complete sentence with checksum
// and CRLF terminator.
func frame(fields ...string) string {
	body := strings.Join(fields, ",")
	return fmt.Sprintf("$%s*%02X\r\n", body, Checksum(body))
}

func fmtFloat(v *float64, dp int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', dp, 64)
}

// fmtTime renders hhmmss with dp fractional digits of seconds.
func fmtTime(t time.Time, dp int) string {
	s := t.Format("150405")
	if dp <= 0 {
		return s
	}
	frac := float64(t.Nanosecond()) / 1e9
	digits := strconv.FormatFloat(frac, 'f', dp, 64)
	// Rounding 0.9995 up to "1.000" must not roll the seconds field.
	if strings.HasPrefix(digits, "1") {
		digits = "0." + strings.Repeat("9", dp)
	}
	return s + digits[1:]
}

// fmtAngle renders degrees as (d)ddmm.mmm plus hemisphere.
func fmtAngle(v *float64, degDigits, dp int, pos, neg string) (string, string) {
	if v == nil {
		return "", ""
	}
	hemi := pos
	abs := *v
	if abs < 0 {
		hemi = neg
		abs = -abs
	}
	deg := math.Floor(abs)
	minutes := (abs - deg) * 60
	mins := strconv.FormatFloat(minutes, 'f', dp, 64)
	if m, _ := strconv.ParseFloat(mins, 64); m >= 60 {
		deg++
		mins = strconv.FormatFloat(0, 'f', dp, 64)
	}
	if dp > 0 && len(mins) < dp+3 || dp == 0 && len(mins) < 2 {
		mins = "0" + mins
	}
	return fmt.Sprintf("%0*d%s", degDigits, int(deg), mins), hemi
}

func knots(kph *float64) *float64 {
	if kph == nil {
		return nil
	}
	return floatPtr(*kph / 1.852)
}

func (c *Config) status() string {
	if c.valid() {
		return "A"
	}
	return "V"
}

func (c *Config) mode() string {
	code, _ := lookup(solutionModes, c.Solution)
	return code
}

func (c *Config) gga(now time.Time) string {
	lat, ns := fmtAngle(c.Lat, 2, c.HorizontalDP, "N", "S")
	lon, ew := fmtAngle(c.Lon, 3, c.HorizontalDP, "E", "W")
	fix, _ := lookup(fixTypes, c.Fix)
	station := ""
	if c.DGPSStation != nil {
		station = fmt.Sprintf("%04d", *c.DGPSStation)
	}
	altUnit, sepUnit := "", ""
	if c.Altitude != nil {
		altUnit = "M"
	}
	if c.GeoidSep != nil {
		sepUnit = "M"
	}
	return frame("GPGGA", fmtTime(now, c.TimeDP), lat, ns, lon, ew, fix,
		fmt.Sprintf("%02d", c.NumSats), fmtFloat(c.HDOP, 1),
		fmtFloat(c.Altitude, c.VerticalDP), altUnit,
		fmtFloat(c.GeoidSep, c.VerticalDP), sepUnit,
		fmtFloat(c.LastDGPS, 1), station)
}

func (c *Config) gll(now time.Time) string {
	lat, ns := fmtAngle(c.Lat, 2, c.HorizontalDP, "N", "S")
	lon, ew := fmtAngle(c.Lon, 3, c.HorizontalDP, "E", "W")
	return frame("GPGLL", lat, ns, lon, ew, fmtTime(now, c.TimeDP), c.status(), c.mode())
}

func (c *Config) gsa(sats []satellite) string {
	sel := "A"
	dim := "1"
	if c.valid() {
		dim = "3"
		if c.Manual2D {
			dim = "2"
		}
	}
	if c.Manual2D {
		sel = "M"
	}
	fields := []string{"GPGSA", sel, dim}
	used := 0
	for _, s := range sats {
		if used == 12 {
			break
		}
		if s.inUse {
			fields = append(fields, fmt.Sprintf("%02d", s.prn))
			used++
		}
	}
	for ; used < 12; used++ {
		fields = append(fields, "")
	}
	fields = append(fields, fmtFloat(c.PDOP, 1), fmtFloat(c.HDOP, 1), fmtFloat(c.VDOP, 1))
	return frame(fields...)
}

func (c *Config) gsv(sats []satellite) []string {
	if len(sats) == 0 {
		return []string{frame("GPGSV", "1", "1", "00")}
	}
	total := (len(sats) + 3) / 4
	out := make([]string, 0, total)
	for i := 0; i < total; i++ {
		fields := []string{"GPGSV", strconv.Itoa(total), strconv.Itoa(i + 1), fmt.Sprintf("%02d", len(sats))}
		end := (i + 1) * 4
		if end > len(sats) {
			end = len(sats)
		}
		for _, s := range sats[i*4 : end] {
			snr := ""
			if s.inUse {
				snr = fmt.Sprintf("%02d", s.snr)
			}
			fields = append(fields, fmt.Sprintf("%02d", s.prn), fmt.Sprintf("%02d", s.elevation),
				fmt.Sprintf("%03d", s.azimuth), snr)
		}
		out = append(out, frame(fields...))
	}
	return out
}

func (c *Config) rmc(now time.Time) string {
	lat, ns := fmtAngle(c.Lat, 2, c.HorizontalDP, "N", "S")
	lon, ew := fmtAngle(c.Lon, 3, c.HorizontalDP, "E", "W")
	magVar, magDir := "", ""
	if c.MagVar != nil {
		v := math.Abs(*c.MagVar)
		magVar = strconv.FormatFloat(v, 'f', c.AngleDP, 64)
		magDir = "E"
		if *c.MagVar < 0 {
			magDir = "W"
		}
	}
	return frame("GPRMC", fmtTime(now, c.TimeDP), c.status(), lat, ns, lon, ew,
		fmtFloat(knots(c.KPH), c.SpeedDP), fmtFloat(c.Heading, c.AngleDP),
		now.Format("020106"), magVar, magDir, c.mode())
}

func (c *Config) vtg() string {
	return frame("GPVTG", fmtFloat(c.Heading, c.AngleDP), "T",
		fmtFloat(c.MagHeading, c.AngleDP), "M",
		fmtFloat(knots(c.KPH), c.SpeedDP), "N",
		fmtFloat(c.KPH, c.SpeedDP), "K", c.mode())
}

func zda(now time.Time, dp int) string {
	_, offset := now.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	utc := now.UTC()
	return frame("GPZDA", fmtTime(utc, dp), utc.Format("02"), utc.Format("01"), utc.Format("2006"),
		fmt.Sprintf("%s%02d", sign, offset/3600), fmt.Sprintf("%02d", offset%3600/60))
}

// sentences renders the configured output formats, in order, for the
// instant now. Unknown formats are skipped.
func (c *Config) sentences(now time.Time, sats []satellite) []string {
	utc := now.UTC()
	var out []string
	for _, format := range c.Output {
		switch format {
		case FormatGGA:
			out = append(out, c.gga(utc))
		case FormatGLL:
			out = append(out, c.gll(utc))
		case FormatGSA:
			out = append(out, c.gsa(sats))
		case FormatGSV:
			out = append(out, c.gsv(sats)...)
		case FormatRMC:
			out = append(out, c.rmc(utc))
		case FormatVTG:
			out = append(out, c.vtg())
		case FormatZDA:
			out = append(out, zda(now, c.TimeDP))
		}
	}
	return out
}
