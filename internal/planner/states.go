package planner

import "strings"

// usStates maps state abbreviations to full names, DC included.
var usStates = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "IA": "Iowa", "KS": "Kansas",
	"KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi",
	"MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma",
	"OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah",
	"VT": "Vermont", "VA": "Virginia", "WA": "Washington", "WV": "West Virginia",
	"WI": "Wisconsin", "WY": "Wyoming", "DC": "District of Columbia",
}

// majorCities is a per-state fallback when the manager doesn't generate
// enough cities on its own.
var majorCities = map[string][]string{
	"TX": {"Houston", "Dallas", "Austin", "San Antonio", "Fort Worth", "El Paso", "Arlington", "Plano"},
	"CA": {"Los Angeles", "San Francisco", "San Diego", "San Jose", "Sacramento", "Fresno", "Oakland", "Long Beach"},
	"FL": {"Miami", "Orlando", "Tampa", "Jacksonville", "Fort Lauderdale", "Tallahassee", "St. Petersburg", "Hialeah"},
	"NY": {"New York City", "Buffalo", "Rochester", "Albany", "Syracuse", "Yonkers"},
	"IL": {"Chicago", "Aurora", "Naperville", "Rockford", "Springfield", "Peoria"},
	"PA": {"Philadelphia", "Pittsburgh", "Allentown", "Reading", "Erie", "Scranton"},
	"OH": {"Columbus", "Cleveland", "Cincinnati", "Toledo", "Akron", "Dayton"},
	"GA": {"Atlanta", "Augusta", "Savannah", "Columbus", "Macon", "Athens"},
	"NC": {"Charlotte", "Raleigh", "Greensboro", "Durham", "Winston-Salem", "Fayetteville"},
	"MI": {"Detroit", "Grand Rapids", "Warren", "Sterling Heights", "Ann Arbor", "Lansing"},
}

// IsValidState reports whether code is a recognized state abbreviation.
func IsValidState(code string) bool {
	_, ok := usStates[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// StateName returns the full name for a state abbreviation.
func StateName(code string) string {
	return usStates[strings.ToUpper(strings.TrimSpace(code))]
}

// MajorCitiesFor returns the fallback city list for a state, which may be
// empty.
func MajorCitiesFor(state string) []string {
	cities := majorCities[strings.ToUpper(strings.TrimSpace(state))]
	return append([]string(nil), cities...)
}
