package gpssim

import (
	"math"
	"math/rand"
	"time"
)

const earthRadius = 6378137.0 // WGS-84 equatorial radius, metres

type satellite struct {
	prn       int
	elevation int
	azimuth   int
	snr       int
	inUse     bool
}

// constellation places n distinct GPS PRNs at random positions. The first
// twelve are marked as used in the solution.
func constellation(rng *rand.Rand, n int) []satellite {
	if n > 32 {
		n = 32
	}
	if n < 0 {
		n = 0
	}
	prns := rng.Perm(32)[:n]
	sats := make([]satellite, n)
	for i, p := range prns {
		sats[i] = satellite{
			prn:       p + 1,
			elevation: rng.Intn(90),
			azimuth:   rng.Intn(360),
			snr:       30 + rng.Intn(21),
			inUse:     i < 12,
		}
	}
	return sats
}

func wrapDegrees(v float64) float64 {
	v = math.Mod(v, 360)
	if v < 0 {
		v += 360
	}
	return v
}

// step advances the receiver by dt: the clock moves forward, the position
// follows speed and heading, and the heading wanders by up to
// HeadingVariation degrees. Pointer fields are replaced, never written
// through, so snapshots taken earlier stay intact.
func (c *Config) step(dt time.Duration, rng *rand.Rand) {
	if c.DateTime != nil {
		next := c.DateTime.Add(dt)
		c.DateTime = &next
	}
	if c.LastDGPS != nil {
		c.LastDGPS = floatPtr(*c.LastDGPS + dt.Seconds())
	}

	if c.HeadingVariation != nil && c.Heading != nil {
		delta := (rng.Float64()*2 - 1) * *c.HeadingVariation
		c.Heading = floatPtr(wrapDegrees(*c.Heading + delta))
		if c.MagHeading != nil {
			c.MagHeading = floatPtr(wrapDegrees(*c.MagHeading + delta))
		}
	}

	if c.KPH == nil || c.Heading == nil || c.Lat == nil || c.Lon == nil {
		return
	}
	dist := *c.KPH / 3.6 * dt.Seconds()
	h := *c.Heading * math.Pi / 180
	lat := *c.Lat * math.Pi / 180
	dLat := dist * math.Cos(h) / earthRadius
	dLon := 0.0
	if cos := math.Cos(lat); math.Abs(cos) > 1e-9 {
		dLon = dist * math.Sin(h) / (earthRadius * cos)
	}
	newLat := *c.Lat + dLat*180/math.Pi
	newLon := *c.Lon + dLon*180/math.Pi
	if newLat > 90 {
		newLat = 180 - newLat
		newLon += 180
	} else if newLat < -90 {
		newLat = -180 - newLat
		newLon += 180
	}
	newLon = wrapDegrees(newLon+180) - 180
	c.Lat = &newLat
	c.Lon = &newLon
}
