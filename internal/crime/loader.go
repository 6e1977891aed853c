package crime

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/KaramelBytes/tabloom-cli/internal/category"
	"github.com/KaramelBytes/tabloom-cli/internal/logging"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
)

// Options tunes loading. The zero value is usable.
type Options struct {
	Logger hclog.Logger
	// DefaultDescription fills OFFENSE_DESCRIPTION when the column is absent.
	DefaultDescription string
}

func (o Options) description() string {
	if o.DefaultDescription == "" {
		return DefaultDescription
	}
	return o.DefaultDescription
}

// Load runs Parse and reports failure as nil. The cause is logged at warn.
func Load(name string, r io.Reader, opt Options) *Dataset {
	log := logging.OrNull(opt.Logger)
	d, err := Parse(name, r, opt)
	if err != nil {
		log.Warn("crime load failed", "file", name, "error", err)
		return nil
	}
	return d
}

// LoadFile is Load for a path on disk.
func LoadFile(path string, opt Options) *Dataset {
	log := logging.OrNull(opt.Logger)
	f, err := os.Open(path)
	if err != nil {
		log.Warn("crime load failed", "file", path, "error", err)
		return nil
	}
	defer f.Close()
	return Load(path, f, opt)
}

// Parse reads and cleans an incident CSV. Rows without a usable coordinate
// are dropped; every other problem is returned as an error.
func Parse(name string, r io.Reader, opt Options) (*Dataset, error) {
	log := logging.OrNull(opt.Logger)
	f, err := table.ReadCSV(name, r, table.CSVOptions{Delimiter: ','})
	if err != nil {
		return nil, fmt.Errorf("read incidents: %w", err)
	}
	if !f.Has(ColOccurredOn) {
		return nil, fmt.Errorf("read incidents: %w: %s", ErrMissingColumn, ColOccurredOn)
	}

	n := f.Len()
	rows := make([]Incident, n)
	hasHour := f.Has(ColHour)

	for i := 0; i < n; i++ {
		ts, ok, err := table.AsTime(f.Cell(i, ColOccurredOn))
		if err != nil {
			return nil, parseErr(i, ColOccurredOn, err)
		}
		if !ok {
			// A missing date is kept as the zero time unless the hour has to come from it.
			if !hasHour {
				return nil, parseErr(i, ColOccurredOn, fmt.Errorf("%w: empty and no %s column", table.ErrNotTime, ColHour))
			}
			continue
		}
		rows[i].OccurredOn = ts
	}

	cats, err := categorize(f, rows)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].IsShooting = 0
		if rows[i].Shooting.Is(ShootingYes) {
			rows[i].IsShooting = 1
		}
	}

	for i := range rows {
		if !hasHour {
			rows[i].Hour = rows[i].OccurredOn.Hour()
			continue
		}
		h, _, err := table.AsInt(f.Cell(i, ColHour), table.USNumbers)
		if err != nil {
			log.Debug("unparseable hour, using 0", "row", i+1, "value", f.Cell(i, ColHour))
			h = 0
		}
		rows[i].Hour = h
	}

	hasDesc := f.Has(ColOffenseDescription)
	kept := rows[:0]
	dropped := 0
	for i := range rows {
		lat, latOK := coordinate(f.Cell(i, ColLat))
		long, longOK := coordinate(f.Cell(i, ColLong))
		if !latOK || !longOK || lat == 0 || lat == -1 {
			dropped++
			continue
		}
		inc := rows[i]
		inc.Lat, inc.Long = lat, long
		if hasDesc {
			inc.OffenseDescription, _ = table.AsString(f.Cell(i, ColOffenseDescription))
		} else {
			inc.OffenseDescription = opt.description()
		}
		kept = append(kept, inc)
	}

	d := &Dataset{
		Name:       f.Name,
		Columns:    outputColumns(f.Columns),
		Categories: cats,
		Incidents:  kept,
		Dropped:    dropped,
	}
	log.Debug("incidents loaded", "file", d.Name, "rows", d.Len(), "dropped", dropped)
	return d, nil
}

// categorize binds the categorical columns of every row and returns the
// label set of each column present. SHOOTING is always present afterwards,
// with missing cells read as "N".
func categorize(f *table.Frame, rows []Incident) (map[string]*category.Set, error) {
	cats := make(map[string]*category.Set, len(CategoryColumns))
	for _, col := range CategoryColumns {
		var raw []string
		if f.Has(col) {
			raw = make([]string, len(rows))
			for i := range rows {
				raw[i], _ = table.AsString(f.Cell(i, col))
				raw[i] = strings.TrimSpace(raw[i])
			}
		}
		if raw == nil && col != ColShooting {
			continue
		}

		set := category.FromValues(raw)
		if col == ColShooting {
			set.Add(ShootingNo)
			if raw == nil {
				raw = make([]string, len(rows))
			}
			for i, v := range raw {
				if v == "" {
					raw[i] = ShootingNo
				}
			}
		}
		vals, err := set.Values(raw)
		if err != nil {
			return nil, fmt.Errorf("categorize %s: %w", col, err)
		}
		cats[col] = set
		for i, v := range vals {
			switch col {
			case ColDistrict:
				rows[i].District = v
			case ColOffenseCodeGroup:
				rows[i].OffenseCodeGroup = v
			case ColUCRPart:
				rows[i].UCRPart = v
			case ColDayOfWeek:
				rows[i].DayOfWeek = v
			case ColShooting:
				rows[i].Shooting = v
			}
		}
	}
	return cats, nil
}

// coordinate reads a Lat or Long cell. Unparseable text counts as missing.
func coordinate(v table.Value) (float64, bool) {
	f, ok, err := table.AsFloat(v, table.USNumbers)
	if err != nil || !ok {
		return 0, false
	}
	return f, true
}

func outputColumns(src []string) []string {
	out := append([]string(nil), src...)
	seen := make(map[string]bool, len(out))
	for _, c := range out {
		seen[c] = true
	}
	for _, c := range []string{ColShooting, ColIsShooting, ColHour, ColOffenseDescription} {
		if !seen[c] {
			out = append(out, c)
		}
	}
	return out
}

func parseErr(row int, col string, err error) error {
	return &table.ParseError{Format: "csv", Line: row + 2, Column: col, Err: err}
}
