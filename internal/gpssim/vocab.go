package gpssim

import "sort"

// Sentence formats the receiver model can emit.
const (
	FormatGGA = "GPGGA"
	FormatGLL = "GPGLL"
	FormatGSA = "GPGSA"
	FormatGSV = "GPGSV"
	FormatRMC = "GPRMC"
	FormatVTG = "GPVTG"
	FormatZDA = "GPZDA"
)

var supportedOutput = []string{
	FormatGGA, FormatGLL, FormatGSA, FormatGSV, FormatRMC, FormatVTG, FormatZDA,
}

// SupportedOutput returns the sentence formats the model can emit, sorted.
func SupportedOutput() []string {
	out := append([]string(nil), supportedOutput...)
	sort.Strings(out)
	return out
}

// IsSupported reports whether format can be emitted.
func IsSupported(format string) bool {
	for _, f := range supportedOutput {
		if f == format {
			return true
		}
	}
	return false
}

type namedCode struct {
	name string
	code string
}

// GGA fix quality indicators.
var fixTypes = []namedCode{
	{"INVALID_FIX", "0"},
	{"GPS_SPS_FIX", "1"},
	{"DGPS_FIX", "2"},
	{"PPS_FIX", "3"},
	{"RTK_FIX", "4"},
	{"FLOAT_RTK_FIX", "5"},
	{"DEAD_RECKONING_FIX", "6"},
	{"MANUAL_INPUT_FIX", "7"},
	{"SIMULATED_FIX", "8"},
}

// FAA mode indicators appended to RMC, GLL and VTG.
var solutionModes = []namedCode{
	{"GPS_AUTONOMOUS_SOLUTION", "A"},
	{"GPS_DIFFERENTIAL_SOLUTION", "D"},
	{"GPS_ESTIMATED_SOLUTION", "E"},
	{"GPS_INVALID_SOLUTION", "N"},
	{"GPS_SIMULATOR_SOLUTION", "S"},
	{"GPS_MANUAL_SOLUTION", "M"},
}

// FixTypes returns the fix type names in indicator order.
func FixTypes() []string { return names(fixTypes) }

// SolutionModes returns the FAA solution mode names.
func SolutionModes() []string { return names(solutionModes) }

func names(v []namedCode) []string {
	out := make([]string, len(v))
	for i, nc := range v {
		out[i] = nc.name
	}
	return out
}

func lookup(v []namedCode, name string) (string, bool) {
	for _, nc := range v {
		if nc.name == name {
			return nc.code, true
		}
	}
	return "", false
}
