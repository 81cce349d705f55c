// Package model holds the county health data shapes shared by the
// repository, service and handler layers.
package model

import "time"

// Canonical measure names. Matching is exact: case and whitespace matter.
const (
	MeasureViolentCrimeRate              = "Violent crime rate"
	MeasureUnemployment                  = "Unemployment"
	MeasureChildrenInPoverty             = "Children in poverty"
	MeasureDiabeticScreening             = "Diabetic screening"
	MeasureMammographyScreening          = "Mammography screening"
	MeasurePreventableHospitalStays      = "Preventable hospital stays"
	MeasureUninsured                     = "Uninsured"
	MeasureSexuallyTransmittedInfections = "Sexually transmitted infections"
	MeasurePhysicalInactivity            = "Physical inactivity"
	MeasureAdultObesity                  = "Adult obesity"
	MeasurePrematureDeath                = "Premature Death"
	MeasureDailyFineParticulateMatter    = "Daily fine particulate matter"
)

// Measures lists the twelve accepted measure names in documentation order.
var Measures = []string{
	MeasureViolentCrimeRate,
	MeasureUnemployment,
	MeasureChildrenInPoverty,
	MeasureDiabeticScreening,
	MeasureMammographyScreening,
	MeasurePreventableHospitalStays,
	MeasureUninsured,
	MeasureSexuallyTransmittedInfections,
	MeasurePhysicalInactivity,
	MeasureAdultObesity,
	MeasurePrematureDeath,
	MeasureDailyFineParticulateMatter,
}

var measureSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Measures))
	for _, m := range Measures {
		set[m] = struct{}{}
	}
	return set
}()

// IsMeasure reports whether name is one of the canonical measure names.
func IsMeasure(name string) bool {
	_, ok := measureSet[name]
	return ok
}

// Table names produced by the importer from the two source files.
const (
	TableZipCounty            = "zip_county"
	TableCountyHealthRankings = "county_health_rankings"
)

// CountyHealthRecord is one row of the ZIP → county → measure join.
//
// Every value is text, exactly as it appeared in the source CSV. Numeric
// looking fields are never coerced and blanks stay blank.
type CountyHealthRecord struct {
	FIPSCode                     string `json:"fipscode"`
	State                        string `json:"state"`
	County                       string `json:"county"`
	StateCode                    string `json:"state_code"`
	CountyCode                   string `json:"county_code"`
	YearSpan                     string `json:"year_span"`
	MeasureID                    string `json:"measure_id"`
	MeasureName                  string `json:"measure_name"`
	Numerator                    string `json:"numerator"`
	Denominator                  string `json:"denominator"`
	RawValue                     string `json:"raw_value"`
	ConfidenceIntervalLowerBound string `json:"confidence_interval_lower_bound"`
	ConfidenceIntervalUpperBound string `json:"confidence_interval_upper_bound"`
	DataReleaseYear              string `json:"data_release_year"`
}

// DataImport is one entry of the import ledger written by the importer.
type DataImport struct {
	TableName   string    `json:"table_name"`
	SourceFile  string    `json:"source_file"`
	ColumnCount int       `json:"column_count"`
	RowCount    int64     `json:"row_count"`
	ImportedAt  time.Time `json:"imported_at"`
}
