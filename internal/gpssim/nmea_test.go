package gpssim

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestChecksumKnownSentence(t *testing.T) {
	t.Parallel()

	body := "GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,"
	if got := Checksum(body); got != 0x47 {
		t.Fatalf("checksum: got %02X want 47", got)
	}
}

func TestFmtAngle(t *testing.T) {
	t.Parallel()

	lat, ns := fmtAngle(floatPtr(48.1173), 2, 3, "N", "S")
	if lat != "4807.038" || ns != "N" {
		t.Fatalf("lat: got %s %s", lat, ns)
	}
	lon, ew := fmtAngle(floatPtr(-11.516666667), 3, 3, "E", "W")
	if lon != "01131.000" || ew != "W" {
		t.Fatalf("lon: got %s %s", lon, ew)
	}
	empty, hemi := fmtAngle(nil, 2, 3, "N", "S")
	if empty != "" || hemi != "" {
		t.Fatalf("unset angle should render empty, got %q %q", empty, hemi)
	}
}

func TestFmtTimeDoesNotRollSeconds(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 1, 10, 15, 30, 999_900_000, time.UTC)
	if got := fmtTime(ts, 3); got != "101530.999" {
		t.Fatalf("got %q", got)
	}
	if got := fmtTime(ts, 0); got != "101530" {
		t.Fatalf("got %q", got)
	}
}

func verifyFrame(t *testing.T, line string) []string {
	t.Helper()
	if !strings.HasPrefix(line, "$") || !strings.HasSuffix(line, "\r\n") {
		t.Fatalf("bad framing: %q", line)
	}
	star := strings.LastIndexByte(line, '*')
	body := line[1:star]
	want := fmt.Sprintf("%02X", Checksum(body))
	if got := line[star+1 : star+3]; got != want {
		t.Fatalf("checksum mismatch in %q: got %s want %s", line, got, want)
	}
	return strings.Split(body, ",")
}

func TestSentencesFollowOutputOrder(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Output = []string{FormatRMC, "BOGUS", FormatGGA}
	cfg.Lat = floatPtr(-45.352354)
	cfg.Lon = floatPtr(-134.687995)
	cfg.KPH = floatPtr(45.61)
	cfg.Heading = floatPtr(123.56)

	now := time.Date(2024, 3, 1, 10, 15, 30, 250_000_000, time.UTC)
	lines := cfg.sentences(now, nil)
	if len(lines) != 2 {
		t.Fatalf("got %d sentences, want 2: %q", len(lines), lines)
	}
	rmc := verifyFrame(t, lines[0])
	if rmc[0] != "GPRMC" || rmc[1] != "101530.250" || rmc[2] != "A" || rmc[4] != "S" || rmc[6] != "W" {
		t.Fatalf("unexpected RMC fields: %q", rmc)
	}
	if rmc[9] != "010324" {
		t.Fatalf("RMC date: got %q", rmc[9])
	}
	gga := verifyFrame(t, lines[1])
	if gga[0] != "GPGGA" || gga[6] != "1" || gga[7] != "15" {
		t.Fatalf("unexpected GGA fields: %q", gga)
	}
}

func TestUnsetFieldsRenderEmpty(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Output = []string{FormatVTG, FormatGLL}
	lines := cfg.sentences(time.Now(), nil)
	vtg := verifyFrame(t, lines[0])
	if vtg[1] != "" || vtg[5] != "" || vtg[7] != "" {
		t.Fatalf("unset VTG values should be empty: %q", vtg)
	}
	gll := verifyFrame(t, lines[1])
	if gll[6] != "V" {
		t.Fatalf("GLL without position should be void, got %q", gll[6])
	}
}

func TestGSVSplitsFourPerMessage(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	sats := constellation(rand.New(rand.NewSource(1)), 15)
	lines := cfg.gsv(sats)
	if len(lines) != 4 {
		t.Fatalf("got %d GSV messages, want 4", len(lines))
	}
	last := verifyFrame(t, lines[3])
	if last[1] != "4" || last[2] != "4" || last[3] != "15" {
		t.Fatalf("unexpected GSV header: %q", last[:4])
	}
	if len(last) != 4+3*4 {
		t.Fatalf("last GSV should carry 3 satellites, got %d fields", len(last))
	}
}

func TestZDAOffset(t *testing.T) {
	t.Parallel()

	zone := time.FixedZone("", 5*3600+30*60)
	now := time.Date(2024, 3, 1, 10, 15, 30, 0, zone)
	fields := verifyFrame(t, zda(now, 0))
	if fields[1] != "044530" || fields[5] != "+05" || fields[6] != "30" {
		t.Fatalf("unexpected ZDA: %q", fields)
	}
}

func TestStepMovesAlongHeading(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	cfg.DateTime = &start
	cfg.Lat = floatPtr(0)
	cfg.Lon = floatPtr(0)
	cfg.KPH = floatPtr(36) // 10 m/s
	cfg.Heading = floatPtr(0)
	before := cfg.Lat

	cfg.step(time.Second, rand.New(rand.NewSource(1)))
	if !cfg.DateTime.Equal(start.Add(time.Second)) {
		t.Fatalf("clock did not advance: %s", cfg.DateTime)
	}
	if *cfg.Lat <= 0 || *cfg.Lon != 0 {
		t.Fatalf("expected northward move, got lat=%f lon=%f", *cfg.Lat, *cfg.Lon)
	}
	if *before != 0 {
		t.Fatalf("step must not write through an existing pointer")
	}
}
