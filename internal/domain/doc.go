// Package domain models the USGS water-monitoring station list and the
// station module consumed by the Nav-O voice assistant.
//
// # Data Source
//
// Stations come from the USGS NWIS "current conditions" site file, requested
// as tab-delimited rdb text. The request is fixed at build time (see
// [StationListURL]) and selects:
//
//	site types:  OC (ocean), ES (estuary), ST (stream)
//	columns:     station name, date/time, gage height (00065),
//	             water surface elevation above NAVD 1988 (62620)
//	site file:   agency_cd, site_no, station_nm
//
// An rdb file starts with "#" comment lines, then a header row of column
// names, then a row of column formats (e.g. "5s\t15s\t50s"), then one row
// per site:
//
//	USGS	01646500	POTOMAC RIVER NEAR WASH, DC LITTLE FALLS PUMP STA
//
// # Acceptance
//
// A row is a station only when it has exactly three fields and the first is
// the agency code "USGS" (case-sensitive). Comments, the header, the format
// row, other agencies, and rows with any other arity are dropped without
// being treated as errors. Rows carrying a fourth column are dropped too,
// even though the request names four parameters; see [Evaluate].
//
// # Station Module Format
//
// Each accepted station becomes one line of a JavaScript fragment:
//
//	{id:"01646500", name:"POTOMAC RIVER ...", "water_level_endpoint":USGS_WL_ENDPOINT, "water_level_callback":USGS_WL_CALLBACK },
//
// The two trailing values are bare identifiers ([Symbol]) resolved by the
// assistant when it loads the module. Site ids and names are written
// verbatim: a name containing a double quote produces an invalid line.
// Every line ends with a comma, including the last one; the enclosing array
// is supplied by the consumer.
package domain
