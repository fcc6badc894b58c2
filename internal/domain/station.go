package domain

// StationListURL requests the USGS ocean, estuary and stream sites that report
// station name, date/time, gage height and NAVD88 water surface elevation, as
// an uncompressed rdb site file.
const StationListURL = "https://waterdata.usgs.gov/nwis/current?site_tp_cd=OC&site_tp_cd=ES&site_tp_cd=ST&index_pmcode_STATION_NM=1&index_pmcode_DATETIME=2&index_pmcode_00065=3&index_pmcode_62620=4&group_key=NONE&format=sitefile_output&sitefile_output_format=rdb&column_name=agency_cd&column_name=site_no&column_name=station_nm&sort_key_2=site_no&html_table_group_key=NONE&rdb_compression=file&list_of_search_criteria=site_tp_cd%2Crealtime_parameter_selection"

// AgencyUSGS is the agency code an accepted row must carry in its first field.
const AgencyUSGS = "USGS"

// stationFieldCount is the exact arity of an accepted row: agency, site number, name.
const stationFieldCount = 3

// RawRow is one tab-split line of the source. Its arity is untrusted.
type RawRow []string

// Station is a monitoring site accepted from the source.
type Station struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Verdict is the outcome of evaluating a RawRow.
type Verdict int

const (
	Accepted Verdict = iota
	RejectedFieldCount
	RejectedAgency
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedFieldCount:
		return "field_count"
	case RejectedAgency:
		return "agency"
	default:
		return "unknown"
	}
}

// Evaluate applies the acceptance predicate to a row. It is total: every row
// yields either (station, Accepted) or (zero Station, a rejection verdict).
//
// The arity check is exact. The source request names four parameters, so a
// row that carries a trailing value column is rejected as well.
func Evaluate(row RawRow) (Station, Verdict) {
	if len(row) != stationFieldCount {
		return Station{}, RejectedFieldCount
	}
	if row[0] != AgencyUSGS {
		return Station{}, RejectedAgency
	}
	return Station{ID: row[1], Name: row[2]}, Accepted
}

// RowStream yields raw rows from the source, one at a time, until io.EOF.
type RowStream interface {
	Next() (RawRow, error)
	Close() error
}
