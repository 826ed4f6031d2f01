// Package airports provides a small embedded reference table of airports
// keyed by IATA code. It backs the precise night estimator (coordinates)
// and home-base display (fixed standard-time UTC offset). Codes not in
// the table degrade callers to their heuristic paths.
package airports

import "strings"

// Airport is one reference row.
type Airport struct {
	IATA      string
	Name      string
	Latitude  float64
	Longitude float64
	// Standard-time offset from UTC in minutes. No DST handling; the
	// calculators that need precision work in UTC throughout.
	UTCOffsetMinutes int
}

// Lookup returns the airport for an IATA code, case-insensitive.
func Lookup(code string) (Airport, bool) {
	a, ok := table[strings.ToUpper(strings.TrimSpace(code))]
	return a, ok
}

// Coordinates returns latitude/longitude for an IATA code.
func Coordinates(code string) (lat, lon float64, ok bool) {
	a, found := Lookup(code)
	if !found {
		return 0, 0, false
	}
	return a.Latitude, a.Longitude, true
}

// Known reports whether the code resolves in the table.
func Known(code string) bool {
	_, ok := Lookup(code)
	return ok
}

var table = map[string]Airport{
	"AMS": {"AMS", "Amsterdam Schiphol", 52.3086, 4.7639, 60},
	"ARN": {"ARN", "Stockholm Arlanda", 59.6519, 17.9186, 60},
	"ATH": {"ATH", "Athens", 37.9364, 23.9445, 120},
	"ATL": {"ATL", "Atlanta Hartsfield-Jackson", 33.6367, -84.4281, -300},
	"BCN": {"BCN", "Barcelona El Prat", 41.2971, 2.0785, 60},
	"BKK": {"BKK", "Bangkok Suvarnabhumi", 13.6811, 100.7473, 420},
	"BOS": {"BOS", "Boston Logan", 42.3643, -71.0052, -300},
	"BRU": {"BRU", "Brussels", 50.9014, 4.4844, 60},
	"CAI": {"CAI", "Cairo", 30.1219, 31.4056, 120},
	"CDG": {"CDG", "Paris Charles de Gaulle", 49.0097, 2.5479, 60},
	"CPH": {"CPH", "Copenhagen Kastrup", 55.6181, 12.6561, 60},
	"CPT": {"CPT", "Cape Town", -33.9649, 18.6017, 120},
	"DEL": {"DEL", "Delhi Indira Gandhi", 28.5665, 77.1031, 330},
	"DFW": {"DFW", "Dallas/Fort Worth", 32.8968, -97.0380, -360},
	"DOH": {"DOH", "Doha Hamad", 25.2731, 51.6081, 180},
	"DUB": {"DUB", "Dublin", 53.4213, -6.2701, 0},
	"DXB": {"DXB", "Dubai", 25.2528, 55.3644, 240},
	"EZE": {"EZE", "Buenos Aires Ezeiza", -34.8222, -58.5358, -180},
	"FCO": {"FCO", "Rome Fiumicino", 41.8003, 12.2389, 60},
	"FRA": {"FRA", "Frankfurt", 50.0333, 8.5706, 60},
	"GIG": {"GIG", "Rio de Janeiro Galeao", -22.8100, -43.2506, -180},
	"GRU": {"GRU", "Sao Paulo Guarulhos", -23.4356, -46.4731, -180},
	"HEL": {"HEL", "Helsinki Vantaa", 60.3172, 24.9633, 120},
	"HKG": {"HKG", "Hong Kong", 22.3089, 113.9146, 480},
	"HND": {"HND", "Tokyo Haneda", 35.5523, 139.7798, 540},
	"IST": {"IST", "Istanbul", 41.2753, 28.7519, 180},
	"JFK": {"JFK", "New York John F. Kennedy", 40.6398, -73.7789, -300},
	"JNB": {"JNB", "Johannesburg O.R. Tambo", -26.1392, 28.2460, 120},
	"KEF": {"KEF", "Keflavik", 63.9850, -22.6056, 0},
	"LAX": {"LAX", "Los Angeles", 33.9425, -118.4081, -480},
	"LHR": {"LHR", "London Heathrow", 51.4775, -0.4614, 0},
	"LIS": {"LIS", "Lisbon", 38.7813, -9.1359, 0},
	"MAD": {"MAD", "Madrid Barajas", 40.4936, -3.5668, 60},
	"MEX": {"MEX", "Mexico City", 19.4363, -99.0721, -360},
	"MIA": {"MIA", "Miami", 25.7932, -80.2906, -300},
	"MUC": {"MUC", "Munich", 48.3538, 11.7861, 60},
	"NBO": {"NBO", "Nairobi Jomo Kenyatta", -1.3192, 36.9278, 180},
	"ORD": {"ORD", "Chicago O'Hare", 41.9786, -87.9048, -360},
	"OSL": {"OSL", "Oslo Gardermoen", 60.1939, 11.1004, 60},
	"PRG": {"PRG", "Prague", 50.1008, 14.2600, 60},
	"SEA": {"SEA", "Seattle-Tacoma", 47.4490, -122.3093, -480},
	"SFO": {"SFO", "San Francisco", 37.6190, -122.3748, -480},
	"SIN": {"SIN", "Singapore Changi", 1.3502, 103.9944, 480},
	"SYD": {"SYD", "Sydney Kingsford Smith", -33.9461, 151.1772, 600},
	"VIE": {"VIE", "Vienna Schwechat", 48.1103, 16.5697, 60},
	"WAW": {"WAW", "Warsaw Chopin", 52.1657, 20.9671, 60},
	"YYZ": {"YYZ", "Toronto Pearson", 43.6772, -79.6306, -300},
	"ZRH": {"ZRH", "Zurich", 47.4647, 8.5492, 60},
}
