package codemap

// DefaultVariables maps a variable id to generic metadata. It is consulted only
// for codes missing from the mapping file, and only when fallback is enabled.
var DefaultVariables = map[string]Meta{
	"1":  {Label: "PM10", Unit: "µg/m3"},
	"2":  {Label: "Temperatura", Unit: "°C"},
	"4":  {Label: "Presion Baro", Unit: "mmHg"},
	"5":  {Label: "HR", Unit: "%"},
	"6":  {Label: "Vel Viento", Unit: "m/s"},
	"7":  {Label: "Dir Viento", Unit: "Grados"},
	"8":  {Label: "Precipitacion", Unit: "mm"},
	"10": {Label: "Rad Solar", Unit: "W/m²"},
	"13": {Label: "PM2.5", Unit: "µg/m3"},
	"14": {Label: "NO", Unit: "ppb"},
	"15": {Label: "NO2", Unit: "ppb"},
	"16": {Label: "NOX", Unit: "ppb"},
	"18": {Label: "CO", Unit: "ppm"},
	"19": {Label: "OZONO", Unit: "ppb"},
}

// DefaultVariable returns the generic metadata for varID.
func DefaultVariable(varID string) (Meta, bool) {
	m, ok := DefaultVariables[varID]
	return m, ok
}
