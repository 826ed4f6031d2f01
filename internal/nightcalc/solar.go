package nightcalc

import (
	"fmt"
	"math"
	"time"

	"github.com/crewlog/crewlog/internal/airports"
)

// Solar estimates night time by sampling solar elevation along the
// great-circle track between the two airports. A sample counts as night
// when the sun sits below civil twilight (-6 degrees). Unknown airport
// codes return ErrNoPosition so callers can fall back to the heuristic.
type Solar struct {
	// Samples along the track, endpoints included. More samples cost
	// proportionally more trig; 32 keeps the error under a minute on
	// long-haul spans.
	Samples int
}

// NewSolar returns a Solar estimator with the default sampling density.
func NewSolar() Solar {
	return Solar{Samples: 32}
}

const civilTwilightDeg = -6.0

// NightSeconds samples the track from out to in and attributes the night
// fraction of the elapsed time.
func (s Solar) NightSeconds(origin, dest string, out, in time.Time) (int64, error) {
	if out.IsZero() || in.IsZero() {
		return 0, fmt.Errorf("nightcalc: missing out/in times")
	}
	if !in.After(out) {
		return 0, fmt.Errorf("nightcalc: in %v not after out %v", in, out)
	}
	lat1, lon1, ok := airports.Coordinates(origin)
	if !ok {
		return 0, fmt.Errorf("%w: unknown origin %q", ErrNoPosition, origin)
	}
	lat2, lon2, ok := airports.Coordinates(dest)
	if !ok {
		return 0, fmt.Errorf("%w: unknown destination %q", ErrNoPosition, dest)
	}

	n := s.Samples
	if n < 2 {
		n = 2
	}
	total := in.Sub(out)
	night := 0
	for k := 0; k < n; k++ {
		f := float64(k) / float64(n-1)
		lat, lon := interpolateGreatCircle(lat1, lon1, lat2, lon2, f)
		at := out.Add(time.Duration(f * float64(total)))
		if solarElevation(lat, lon, at) < civilTwilightDeg {
			night++
		}
	}
	return int64(float64(total/time.Second) * float64(night) / float64(n)), nil
}

// interpolateGreatCircle returns the point a fraction f along the great
// circle between two coordinates, degrees in and out.
func interpolateGreatCircle(lat1, lon1, lat2, lon2, f float64) (float64, float64) {
	p1, l1 := rad(lat1), rad(lon1)
	p2, l2 := rad(lat2), rad(lon2)

	// Angular distance via haversine.
	dp, dl := p2-p1, l2-l1
	a := math.Sin(dp/2)*math.Sin(dp/2) + math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)
	d := 2 * math.Asin(math.Min(1, math.Sqrt(a)))
	if d == 0 {
		return lat1, lon1
	}

	A := math.Sin((1-f)*d) / math.Sin(d)
	B := math.Sin(f*d) / math.Sin(d)
	x := A*math.Cos(p1)*math.Cos(l1) + B*math.Cos(p2)*math.Cos(l2)
	y := A*math.Cos(p1)*math.Sin(l1) + B*math.Cos(p2)*math.Sin(l2)
	z := A*math.Sin(p1) + B*math.Sin(p2)
	return deg(math.Atan2(z, math.Sqrt(x*x+y*y))), deg(math.Atan2(y, x))
}

// solarElevation returns the sun's elevation in degrees at a coordinate
// and instant, using the standard low-precision ephemeris (accurate to a
// fraction of a degree, far inside this estimator's needs).
func solarElevation(latDeg, lonDeg float64, at time.Time) float64 {
	at = at.UTC()
	// Days since J2000.0.
	n := float64(at.Unix()-946728000)/86400.0 + float64(at.Nanosecond())/86400e9

	meanLon := math.Mod(280.460+0.9856474*n, 360)
	meanAnom := rad(math.Mod(357.528+0.9856003*n, 360))
	eclipticLon := rad(meanLon + 1.915*math.Sin(meanAnom) + 0.020*math.Sin(2*meanAnom))
	obliquity := rad(23.439 - 0.0000004*n)

	decl := math.Asin(math.Sin(obliquity) * math.Sin(eclipticLon))
	ra := math.Atan2(math.Cos(obliquity)*math.Sin(eclipticLon), math.Cos(eclipticLon))

	gmstDeg := math.Mod(280.46061837+360.98564736629*n, 360)
	hourAngle := rad(gmstDeg+lonDeg) - ra

	lat := rad(latDeg)
	sinEl := math.Sin(lat)*math.Sin(decl) + math.Cos(lat)*math.Cos(decl)*math.Cos(hourAngle)
	return deg(math.Asin(sinEl))
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }
