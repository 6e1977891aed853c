package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabloom-cli/internal/crime"
	"github.com/KaramelBytes/tabloom-cli/internal/session"
)

var (
	crOutputPath string
	crJSON       bool
	crFrom       string
	crTo         string
	crDistricts  []string
)

var crimeCmd = &cobra.Command{
	Use:   "crime [file.csv]",
	Short: "Load an incident export and print the operations dashboard",
	Long: `Load an incident export and print the operations dashboard.

Without a file argument the configured crime_fallback_path is used when it exists.
Files that cannot be cleaned produce no report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		var u *session.Upload
		if len(args) == 1 {
			var err error
			if u, err = session.OpenUpload(args[0]); err != nil {
				return err
			}
		}
		d, err := newSession().Crime(u)
		if err != nil {
			return err
		}

		v := crime.View{Districts: crDistricts}
		if v.From, err = parseDay("from", crFrom); err != nil {
			return err
		}
		if v.To, err = parseDay("to", crTo); err != nil {
			return err
		}
		if !v.From.IsZero() && !v.To.IsZero() && v.To.Before(v.From) {
			return fmt.Errorf("--to %s is before --from %s", crTo, crFrom)
		}
		for _, name := range crDistricts {
			if s, ok := d.Categories[crime.ColDistrict]; ok && !s.Contains(name) {
				logger.Warn("district not in dataset", "district", name)
			}
		}

		rep := crime.BuildReport(d, v, c.OffenseTopN)
		out, err := render(crJSON, rep, rep.Markdown)
		if err != nil {
			return err
		}
		return emit(cmd, crOutputPath, out, "crime report")
	},
}

func parseDay(flag, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %s (use YYYY-MM-DD)", flag, s)
	}
	return t, nil
}

func init() {
	rootCmd.AddCommand(crimeCmd)
	crimeCmd.Flags().StringVarP(&crOutputPath, "output", "o", "", "optional path to write the report")
	crimeCmd.Flags().BoolVar(&crJSON, "json", false, "emit JSON instead of Markdown")
	crimeCmd.Flags().StringVar(&crFrom, "from", "", "first day to include (YYYY-MM-DD)")
	crimeCmd.Flags().StringVar(&crTo, "to", "", "last day to include (YYYY-MM-DD)")
	crimeCmd.Flags().StringSliceVar(&crDistricts, "district", nil, "districts to include (repeatable, default all)")
}
