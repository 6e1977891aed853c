package cmd

import (
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tabloom-cli/internal/movies"
	"github.com/KaramelBytes/tabloom-cli/internal/session"
)

var (
	movOutputPath  string
	movJSON        bool
	movDirector    string
	movEpicMin     int
	movTop         int
	movRecommend   bool
	movMinRating   float64
	movYearFrom    int
	movYearTo      int
	movMaxDuration int
	movGenres      []string
	movSeed        int64
)

var moviesCmd = &cobra.Command{
	Use:   "movies <file.csv|file.json>",
	Short: "Load a movie dataset and print the explorer report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		u, err := session.OpenUpload(args[0])
		if err != nil {
			return err
		}
		d, err := newSession().Movies(u)
		if err != nil {
			return err
		}

		opt := movies.ReportOptions{
			EpicMinDuration: c.EpicMinDuration,
			Director:        c.SpotlightDirector,
			TopN:            c.TopN,
			GenreTopN:       c.GenreTopN,
		}
		if movDirector != "" {
			opt.Director = movDirector
		}
		if movEpicMin > 0 {
			opt.EpicMinDuration = movEpicMin
		}
		if movTop > 0 {
			opt.TopN = movTop
		}
		f := cmd.Flags()
		if movRecommend || f.Changed("min-rating") || f.Changed("year-from") || f.Changed("year-to") ||
			f.Changed("max-duration") || f.Changed("genre") {
			opt.Filter = &movies.Filter{
				MinRating:   movMinRating,
				YearFrom:    movYearFrom,
				YearTo:      movYearTo,
				MaxDuration: movMaxDuration,
				Genres:      movGenres,
			}
			seed := movSeed
			if !f.Changed("seed") {
				seed = time.Now().UnixNano()
			}
			opt.Rand = rand.New(rand.NewSource(seed))
		}

		rep := movies.BuildReport(d, opt)
		out, err := render(movJSON, rep, rep.Markdown)
		if err != nil {
			return err
		}
		return emit(cmd, movOutputPath, out, "movie report")
	},
}

func init() {
	rootCmd.AddCommand(moviesCmd)
	moviesCmd.Flags().StringVarP(&movOutputPath, "output", "o", "", "optional path to write the report")
	moviesCmd.Flags().BoolVar(&movJSON, "json", false, "emit JSON instead of Markdown")
	moviesCmd.Flags().StringVar(&movDirector, "director", "", "director for the marathon section (overrides config)")
	moviesCmd.Flags().IntVar(&movEpicMin, "epic-min", 0, "minimum minutes for epic films (overrides config)")
	moviesCmd.Flags().IntVar(&movTop, "top", 0, "size of actor rankings (overrides config)")
	moviesCmd.Flags().BoolVar(&movRecommend, "recommend", false, "pick a random film from the filtered set")
	moviesCmd.Flags().Float64Var(&movMinRating, "min-rating", 0, "recommender: minimum rating")
	moviesCmd.Flags().IntVar(&movYearFrom, "year-from", 0, "recommender: earliest release year")
	moviesCmd.Flags().IntVar(&movYearTo, "year-to", 0, "recommender: latest release year (0 = no limit)")
	moviesCmd.Flags().IntVar(&movMaxDuration, "max-duration", 0, "recommender: longest runtime in minutes (0 = no limit)")
	moviesCmd.Flags().StringSliceVar(&movGenres, "genre", nil, "recommender: genres, any match (repeatable)")
	moviesCmd.Flags().Int64Var(&movSeed, "seed", 0, "recommender: random seed for a reproducible pick")
}
