package typecheck

import (
	"regexp"
	"strings"
	"unicode"
)

var usStates = set(
	"alabama", "alaska", "arizona", "arkansas", "california", "colorado", "connecticut",
	"delaware", "florida", "georgia", "hawaii", "idaho", "illinois", "indiana", "iowa",
	"kansas", "kentucky", "louisiana", "maine", "maryland", "massachusetts", "michigan",
	"minnesota", "mississippi", "missouri", "montana", "nebraska", "nevada", "new hampshire",
	"new jersey", "new mexico", "new york", "north carolina", "north dakota", "ohio",
	"oklahoma", "oregon", "pennsylvania", "rhode island", "south carolina", "south dakota",
	"tennessee", "texas", "utah", "vermont", "virginia", "washington", "west virginia",
	"wisconsin", "wyoming", "district of columbia",
)

var stateAbbreviations = set(
	"al", "ak", "az", "ar", "ca", "co", "ct", "de", "fl", "ga", "hi", "id", "il", "in", "ia",
	"ks", "ky", "la", "me", "md", "ma", "mi", "mn", "ms", "mo", "mt", "ne", "nv", "nh", "nj",
	"nm", "ny", "nc", "nd", "oh", "ok", "or", "pa", "ri", "sc", "sd", "tn", "tx", "ut", "vt",
	"va", "wa", "wv", "wi", "wy", "dc",
)

var usCities = set(
	"new york", "los angeles", "chicago", "houston", "phoenix", "philadelphia", "san antonio",
	"san diego", "dallas", "san jose", "austin", "jacksonville", "fort worth", "columbus",
	"charlotte", "san francisco", "indianapolis", "seattle", "denver", "washington", "boston",
	"el paso", "nashville", "detroit", "oklahoma city", "portland", "las vegas", "memphis",
	"louisville", "baltimore", "milwaukee", "albuquerque", "tucson", "fresno", "sacramento",
	"kansas city", "mesa", "atlanta", "omaha", "colorado springs", "raleigh", "miami",
	"long beach", "virginia beach", "oakland", "minneapolis", "tulsa", "tampa", "arlington",
	"new orleans", "cleveland", "honolulu", "pittsburgh", "cincinnati", "st. louis",
	"salt lake city", "orlando", "buffalo", "anchorage", "madison", "richmond", "boise",
	"london", "paris", "tokyo", "toronto", "berlin", "sydney", "mumbai", "beijing",
)

var countries = set(
	"united states", "united states of america", "usa", "us", "u.s.", "u.s.a.", "canada",
	"mexico", "brazil", "argentina", "chile", "colombia", "peru", "united kingdom", "uk",
	"england", "scotland", "ireland", "france", "germany", "spain", "portugal", "italy",
	"netherlands", "belgium", "switzerland", "austria", "sweden", "norway", "denmark",
	"finland", "poland", "greece", "turkey", "russia", "ukraine", "china", "japan",
	"south korea", "korea", "india", "pakistan", "bangladesh", "indonesia", "vietnam",
	"thailand", "philippines", "malaysia", "singapore", "australia", "new zealand",
	"south africa", "nigeria", "egypt", "kenya", "morocco", "israel", "saudi arabia",
	"united arab emirates", "uae", "iran", "iraq",
)

var (
	streetShape = regexp.MustCompile(`(?i)^\d+[a-z]?\s+([a-z0-9.'\-]+\s+)*[a-z0-9.'\-]+\s+` +
		`(st|street|ave|avenue|rd|road|blvd|boulevard|ln|lane|dr|drive|ct|court|way|pl|place|` +
		`pkwy|parkway|hwy|highway|cir|circle|ter|terrace|sq|square|trl|trail)\.?` +
		`(\s+(apt|suite|ste|unit|#)\.?\s*[a-z0-9\-]+)?$`)
	zip5    = regexp.MustCompile(`^\d{5}$`)
	zipPlus = regexp.MustCompile(`^\d{5}-\d{4}$`)
)

var (
	streetHeaders  = set("street", "street_address", "address1", "address_line_1")
	stateHeaders   = set("state", "province")
	zipHeaders     = set("zip", "zipcode", "zip_code", "postal_code", "postcode")
	addressHeaders = []string{"address", "location", "geo"}
)

func isCity(s string) bool { return usCities[strings.ToLower(strings.TrimSpace(s))] }

func isState(s string) bool {
	low := strings.ToLower(strings.TrimSpace(s))
	return usStates[low] || stateAbbreviations[low]
}

func addressContains(cell any, s *Scan) bool {
	str := cellString(cell)
	if !strings.ContainsFunc(str, unicode.IsDigit) {
		return false
	}
	parts := strings.Split(str, ",")
	if len(parts) < 2 || !streetShape.MatchString(strings.TrimSpace(parts[0])) {
		return false
	}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if isCity(p) || isState(p) {
			return true
		}
		// "CA 94103" style tails.
		if f := strings.Fields(p); len(f) > 0 && (isState(f[0]) || isState(strings.Join(f[:len(f)-1], " "))) {
			return true
		}
	}
	return false
}

func streetContains(cell any, s *Scan) bool {
	if streetHeaders[s.Header] {
		return cellString(cell) != ""
	}
	return streetShape.MatchString(cellString(cell))
}

func cityContains(cell any, s *Scan) bool {
	if s.Header == "city" {
		return cellString(cell) != ""
	}
	return isCity(cellString(cell))
}

func stateContains(cell any, s *Scan) bool {
	if stateHeaders[s.Header] {
		return cellString(cell) != ""
	}
	return isState(cellString(cell))
}

func zipContains(cell any, s *Scan) bool {
	str := cellString(cell)
	if zipHeaders[s.Header] {
		return str != ""
	}
	if zipPlus.MatchString(str) {
		return true
	}
	return containsAny(s.Header, "zip", "postal") && zip5.MatchString(str)
}

func countryContains(cell any, s *Scan) bool {
	if s.Header == "country" {
		return cellString(cell) != ""
	}
	return countries[strings.ToLower(cellString(cell))]
}

var locationDetectors = []Detector{
	detector{SubAddress, TypeLocation, []string{"address"}, addressContains},
	detector{SubStreet, TypeLocation, []string{"street"}, streetContains},
	detector{SubCity, TypeLocation, []string{"city", "town"}, cityContains},
	detector{SubState, TypeLocation, []string{"state", "province"}, stateContains},
	detector{SubZip, TypeLocation, []string{"zip", "postal"}, zipContains},
	detector{SubCountry, TypeLocation, []string{"country", "nation"}, countryContains},
}
