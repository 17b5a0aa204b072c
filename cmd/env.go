package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/readingrally/readingrally/internal/archive"
	"github.com/readingrally/readingrally/internal/config"
	"github.com/readingrally/readingrally/internal/llm"
	"github.com/readingrally/readingrally/internal/logging"
	"github.com/readingrally/readingrally/internal/passages"
	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/reading"
	"github.com/readingrally/readingrally/internal/scoring"
	"github.com/readingrally/readingrally/internal/store"
)

// errNoProvider is returned when scoring is requested without an API key.
var errNoProvider = errors.New("no LLM provider configured; set an API key (see readingrally --help)")

// env is what every command needs: settings, a logger and the store.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
	flush func()
}

// setup loads .env and the config file, starts the logger and opens the
// store. Callers must Close the result.
func setup(cmd *cobra.Command) (*env, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log, flush, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("start logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		flush()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		flush()
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", zap.String("path", dbPath))
	return &env{cfg: cfg, log: log, store: st, flush: flush}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("close store", zap.Error(err))
	}
	e.flush()
}

// resolveDBPath returns the database path using --db (highest priority),
// then the db setting, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// service loads the saved profile and wraps it in the single writer.
func (e *env) service(ctx context.Context) (*reading.Service, error) {
	repo := profile.NewRepo(e.store.SnapshotRepo(), profile.WithKeep(e.cfg.Session.Keep))
	p, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	opts := []reading.ServiceOption{
		reading.WithEventRepo(e.store.EventRepo()),
		reading.WithLogger(e.log),
	}
	arc, err := archive.New(ctx, e.cfg.Archive)
	if err != nil {
		// Recordings are a convenience; reading still works without them.
		e.log.Warn("archive unavailable", zap.Error(err))
	} else if arc != nil {
		opts = append(opts, reading.WithArchive(arc))
	}
	return reading.NewService(p, repo, opts...), nil
}

func (e *env) catalog() (*passages.Catalog, error) {
	c, err := passages.Load(e.cfg.Passages)
	if err != nil {
		return nil, fmt.Errorf("load passages: %w", err)
	}
	return c, nil
}

// analyzer builds the transcription and grading pipeline. The mock
// provider pairs the echoing transcriber with the local grader so the app
// runs without network access.
func (e *env) analyzer(ctx context.Context) (reading.Analyzer, error) {
	if !e.cfg.LLMConfigured() {
		return nil, errNoProvider
	}
	lc := e.cfg.LLM
	events := e.store.EventRepo()

	var grader scoring.Grader
	if lc.Provider == "mock" {
		lc.Transcription.Provider = "mock"
		grader = scoring.LocalGrader{}
	} else {
		if err := lc.Validate(); err != nil {
			return nil, err
		}
		provider, err := llm.NewProvider(ctx, lc, events, e.log)
		if err != nil {
			return nil, err
		}
		grader = scoring.NewLLMGrader(provider, scoring.DefaultGraderConfig())
	}

	tr, err := llm.NewTranscriber(lc, events, e.log)
	if err != nil {
		return nil, err
	}
	svc := scoring.NewService(tr, grader, lc.Transcription.Language, e.log)
	return withTimeout(svc, lc.Timeout), nil
}

// timeoutAnalyzer bounds one analysis, retries included.
type timeoutAnalyzer struct {
	next    reading.Analyzer
	timeout time.Duration
}

func withTimeout(an reading.Analyzer, d time.Duration) reading.Analyzer {
	if d <= 0 {
		return an
	}
	return &timeoutAnalyzer{next: an, timeout: d}
}

func (a *timeoutAnalyzer) Analyze(ctx context.Context, req scoring.Request) (*scoring.Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.next.Analyze(ctx, req)
}
