// Package session ties uploads to the dataset loaders. Each session memoizes
// the cleaned datasets by upload identity so repeated interactions with the
// same file reuse one parse.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/KaramelBytes/tabloom-cli/internal/crime"
	"github.com/KaramelBytes/tabloom-cli/internal/logging"
	"github.com/KaramelBytes/tabloom-cli/internal/movies"
	"github.com/KaramelBytes/tabloom-cli/internal/utils"
)

// Config holds the session settings.
type Config struct {
	// CrimeFallbackPath is loaded when no crime upload is given and the file exists.
	CrimeFallbackPath string
	// MaxEntries bounds each memo. 1 keeps only the latest upload.
	MaxEntries int
	// DefaultDescription fills a missing OFFENSE_DESCRIPTION column.
	DefaultDescription string
}

// Session owns the cached datasets of one user.
type Session struct {
	ID      uuid.UUID
	cfg     Config
	log     hclog.Logger
	metrics *Metrics
	movies  *Memo[*movies.Dataset]
	crime   *Memo[*crime.Dataset]
}

// NewSession creates an empty session. log and metrics may be nil.
func NewSession(cfg Config, log hclog.Logger, metrics *Metrics) *Session {
	log = logging.OrNull(log)
	id := uuid.New()
	log = log.With("session", id.String())
	return &Session{
		ID:      id,
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		movies:  NewMemo[*movies.Dataset]("movies", cfg.MaxEntries, log, metrics),
		crime:   NewMemo[*crime.Dataset]("crime", cfg.MaxEntries, log, metrics),
	}
}

// Movies returns the movie dataset for u. Load failures are returned as-is
// and are not cached.
func (s *Session) Movies(u *Upload) (*movies.Dataset, error) {
	if u == nil {
		return nil, fmt.Errorf("load movies: no file given")
	}
	return s.movies.Get(u.ID.String(), func() (*movies.Dataset, error) {
		start := time.Now()
		d, err := movies.Load(u.Name, u.Reader(), s.log.Named("movies"))
		if err != nil {
			s.metrics.recordLoad("movies", OutcomeError, time.Since(start))
			return nil, err
		}
		s.metrics.recordLoad("movies", OutcomeOK, time.Since(start))
		return d, nil
	})
}

// Crime returns the incident dataset for u. With a nil upload the configured
// fallback file is used when it exists. A nil load result, or no input at
// all, is reported as crime.ErrNoData.
func (s *Session) Crime(u *Upload) (*crime.Dataset, error) {
	if u == nil {
		path := s.cfg.CrimeFallbackPath
		if path == "" || !utils.FileExists(path) {
			return nil, crime.ErrNoData
		}
		var err error
		u, err = OpenUpload(path)
		if err != nil {
			s.log.Warn("fallback file unreadable", "file", path, "error", err)
			return nil, crime.ErrNoData
		}
		s.log.Debug("using fallback crime file", "file", path)
	}
	d, _ := s.crime.Get(u.ID.String(), func() (*crime.Dataset, error) {
		start := time.Now()
		d := crime.Load(u.Name, u.Reader(), crime.Options{
			Logger:             s.log.Named("crime"),
			DefaultDescription: s.cfg.DefaultDescription,
		})
		outcome := OutcomeOK
		if d == nil {
			outcome = OutcomeNil
		}
		s.metrics.recordLoad("crime", outcome, time.Since(start))
		return d, nil
	})
	if d == nil {
		return nil, crime.ErrNoData
	}
	return d, nil
}
