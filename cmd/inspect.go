package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

var (
	insOutputPath string
	insSampleRows int
	insMaxRows    int
	insDelimiter  string
	insDecimal    string
	insThousands  string
	insQuiet      bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <files...>",
	Short: "Profile the columns of CSV/TSV/JSON files",
	Long: `Profile the columns of CSV/TSV/JSON files.

Arguments may be glob patterns. With several inputs, --output names a directory and
each profile is written as <name>.profile.md inside it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		opt, delim, err := profileOptions()
		if err != nil {
			return err
		}

		total := len(files)
		for i, path := range files {
			if total > 1 && !insQuiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			md, err := profileFile(path, delim, opt)
			if err != nil {
				return err
			}
			out := insOutputPath
			if out != "" && total > 1 {
				base := filepath.Base(path)
				out = uniqueOutPath(insOutputPath, strings.TrimSuffix(base, filepath.Ext(base)))
			}
			if err := emit(cmd, out, md, "profile"); err != nil {
				return err
			}
		}
		return nil
	},
}

// expandInputs resolves glob patterns, keeping literal paths that exist.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 && utils.FileExists(arg) {
			matches = []string{arg}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// uniqueOutPath picks <base>.profile.md in dir, suffixing __2, __3... when taken.
func uniqueOutPath(dir, base string) string {
	out := filepath.Join(dir, base+".profile.md")
	if !utils.FileExists(out) {
		return out
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d.profile.md", base, idx))
		if !utils.FileExists(cand) {
			return cand
		}
	}
}

func profileOptions() (table.ProfileOptions, rune, error) {
	opt := table.DefaultProfileOptions()
	if insSampleRows >= 0 {
		opt.SampleRows = insSampleRows
	}
	opt.MaxRows = insMaxRows

	var delim rune
	switch insDelimiter {
	case "":
	case ",":
		delim = ','
	case "\t", "tab":
		delim = '\t'
	case ";":
		delim = ';'
	default:
		return opt, 0, fmt.Errorf("unsupported --delimiter: %s", insDelimiter)
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(insDecimal)) {
	case ",", "comma":
		opt.Numbers.DecimalSeparator = ','
	case ".", "dot":
		opt.Numbers.DecimalSeparator = '.'
	case "":
	default:
		return opt, 0, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", insDecimal)
	}
	switch strings.ToLower(strings.TrimSpace(insThousands)) {
	case ",":
		opt.Numbers.ThousandsSeparator = ','
	case ".":
		opt.Numbers.ThousandsSeparator = '.'
	case "space", " ":
		opt.Numbers.ThousandsSeparator = ' '
	case "":
	default:
		return opt, 0, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", insThousands)
	}
	return opt, delim, nil
}

func profileFile(path string, delim rune, opt table.ProfileOptions) (string, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open dataset: %w", err)
	}
	defer fh.Close()

	var f *table.Frame
	if delim != 0 {
		f, err = table.ReadCSV(path, fh, table.CSVOptions{Delimiter: delim})
	} else {
		f, err = table.Read(path, fh)
	}
	if err != nil {
		return "", err
	}
	logger.Debug("profiling", "file", f.Name, "rows", f.Len(), "columns", len(f.Columns))
	return table.Profile(f, opt).Markdown(), nil
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path (or directory, for several inputs) to write profiles")
	inspectCmd.Flags().IntVar(&insSampleRows, "sample-rows", 5, "number of sample rows to include (0 disables samples)")
	inspectCmd.Flags().IntVar(&insMaxRows, "max-rows", 100000, "maximum rows to profile (0 = unlimited)")
	inspectCmd.Flags().StringVar(&insDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default by extension)")
	inspectCmd.Flags().StringVar(&insDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	inspectCmd.Flags().StringVar(&insThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	inspectCmd.Flags().BoolVar(&insQuiet, "quiet", false, "suppress progress output")
}
