// Package crime loads incident exports for the crime dashboard. Loading is
// fail-soft: a file that cannot be cleaned yields nil, never a partial dataset.
package crime

import (
	"errors"
	"time"

	"github.com/KaramelBytes/tabloom-cli/internal/category"
)

// Source column names.
const (
	ColOccurredOn         = "OCCURRED_ON_DATE"
	ColDistrict           = "DISTRICT"
	ColOffenseCodeGroup   = "OFFENSE_CODE_GROUP"
	ColUCRPart            = "UCR_PART"
	ColDayOfWeek          = "DAY_OF_WEEK"
	ColShooting           = "SHOOTING"
	ColHour               = "HOUR"
	ColLat                = "Lat"
	ColLong               = "Long"
	ColOffenseDescription = "OFFENSE_DESCRIPTION"

	// ColIsShooting is derived at load time.
	ColIsShooting = "Is_Shooting"
)

// CategoryColumns are stored as constrained label sets.
var CategoryColumns = []string{ColDistrict, ColOffenseCodeGroup, ColUCRPart, ColDayOfWeek, ColShooting}

const (
	ShootingYes = "Y"
	ShootingNo  = "N"

	// PartOne is the UCR label counted by the dashboard KPIs.
	PartOne = "Part One"

	DefaultDescription = "Unknown"
)

var (
	// ErrMissingColumn is returned by Parse when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoData is what callers surface when the loader yields nothing.
	ErrNoData = errors.New("please upload a CSV file to begin analysis")
)

// Incident is one cleaned row.
type Incident struct {
	OccurredOn         time.Time      `json:"occurredOn"`
	District           category.Value `json:"district"`
	OffenseCodeGroup   category.Value `json:"offenseCodeGroup"`
	UCRPart            category.Value `json:"ucrPart"`
	DayOfWeek          category.Value `json:"dayOfWeek"`
	Shooting           category.Value `json:"shooting"`
	IsShooting         int            `json:"isShooting"`
	Hour               int            `json:"hour"`
	Lat                float64        `json:"lat"`
	Long               float64        `json:"long"`
	OffenseDescription string         `json:"offenseDescription"`
}

// Dated reports whether the incident has an OCCURRED_ON_DATE.
func (i Incident) Dated() bool { return !i.OccurredOn.IsZero() }

// Dataset is a cleaned incident file.
type Dataset struct {
	Name       string                   `json:"name"`
	Columns    []string                 `json:"columns"`
	Categories map[string]*category.Set `json:"-"`
	Incidents  []Incident               `json:"incidents"`
	Dropped    int                      `json:"dropped"`
}

// Len returns the number of retained incidents.
func (d *Dataset) Len() int { return len(d.Incidents) }

// Labels returns the allowed labels of a categorical column, or nil when the
// column was not in the file.
func (d *Dataset) Labels(col string) []string {
	if s, ok := d.Categories[col]; ok {
		return s.Labels()
	}
	return nil
}

// Has reports whether col is part of the cleaned dataset.
func (d *Dataset) Has(col string) bool {
	for _, c := range d.Columns {
		if c == col {
			return true
		}
	}
	return false
}
