package config

import "strconv"

// BaudRates are the standard serial rates offered to the operator, starting
// at the NMEA 0183 rate.
var BaudRates = []int{
	4800, 9600, 19200, 38400, 57600, 115200, 230400, 460800, 500000,
	576000, 921600, 1000000, 1152000, 1500000, 2000000, 2500000,
	3000000, 3500000, 4000000,
}

// IsStandardBaudRate reports whether rate is one of BaudRates.
func IsStandardBaudRate(rate int) bool {
	for _, r := range BaudRates {
		if r == rate {
			return true
		}
	}
	return false
}

// BaudRateOptions renders BaudRates for a selection field.
func BaudRateOptions() []string {
	out := make([]string, len(BaudRates))
	for i, r := range BaudRates {
		out[i] = strconv.Itoa(r)
	}
	return out
}
