package domain

import "fmt"

// Symbol is a bare identifier in the station module. It is written unquoted
// and resolved by the consumer's own symbol table at load time.
type Symbol string

const (
	WaterLevelEndpoint Symbol = "USGS_WL_ENDPOINT"
	WaterLevelCallback Symbol = "USGS_WL_CALLBACK"
)

// outputFileSuffix follows the YYYY-MM-DD run date in the output file name.
const outputFileSuffix = "_usgs-stations.js"

// Record is one entry of the station module. ID and Name are string literals;
// Endpoint and Callback are symbols.
type Record struct {
	ID       string
	Name     string
	Endpoint Symbol
	Callback Symbol
}

// NewRecord binds a station to the USGS water level endpoint and callback.
func NewRecord(s Station) Record {
	return Record{
		ID:       s.ID,
		Name:     s.Name,
		Endpoint: WaterLevelEndpoint,
		Callback: WaterLevelCallback,
	}
}

// Line renders the record as a comma-terminated line. ID and Name are not escaped.
func (r Record) Line() string {
	return fmt.Sprintf(
		"{id:\"%s\", name:\"%s\", \"water_level_endpoint\":%s, \"water_level_callback\":%s },\n",
		r.ID, r.Name, r.Endpoint, r.Callback,
	)
}

// OutputFileName returns the station module file name for the current run date.
func OutputFileName() string {
	return RunDate() + outputFileSuffix
}
