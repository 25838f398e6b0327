package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/crypto-etl/internal/config"
	"github.com/rickgao/crypto-etl/internal/model"
	"github.com/rickgao/crypto-etl/internal/normalize"
	"github.com/rickgao/crypto-etl/internal/snapshot"
	"github.com/rickgao/crypto-etl/internal/table"
)

// Summary describes a completed run.
type Summary struct {
	RunID         uuid.UUID
	Variant       string
	RawFiles      []string
	ProcessedFile string
	RowCount      int
	Table         *model.Table
	Duration      time.Duration
}

// Pipeline runs one variant against the configured upstreams.
type Pipeline struct {
	cfg     *config.Config
	variant Variant
	sources *Sources
	builder *table.Builder
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithClock overrides the time source used for extraction timestamps and
// processed file names.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithSources overrides the upstream clients.
func WithSources(src *Sources) Option {
	return func(p *Pipeline) {
		p.sources = src
	}
}

// New creates a Pipeline for variant.
func New(cfg *config.Config, variant Variant, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		variant: variant,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.sources == nil {
		p.sources = NewSources(cfg, p.logger)
	}
	p.builder = table.NewBuilder(p.logger)
	return p
}

// Run extracts every unit, then builds and writes the processed table.
// The first error aborts the run.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	runID := uuid.New()
	logger := p.logger.With("run_id", runID.String(), "variant", p.variant.Name)

	logger.Info("pipeline started",
		"raw_dir", p.cfg.Storage.RawDir,
		"processed_dir", p.cfg.Storage.ProcessedDir,
	)

	rawFiles, err := p.extract(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	t, processed, err := p.Transform(rawFiles)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}

	summary := &Summary{
		RunID:         runID,
		Variant:       p.variant.Name,
		RawFiles:      rawFiles,
		ProcessedFile: processed,
		RowCount:      t.Len(),
		Table:         t,
		Duration:      time.Since(start),
	}

	logger.Info("pipeline completed",
		"raw_files", len(rawFiles),
		"processed_file", processed,
		"rows", summary.RowCount,
		"duration", summary.Duration,
	)

	return summary, nil
}

// Extract fetches and normalizes every unit in order, writing one raw
// snapshot per unit. All snapshots of one call share the same extraction
// timestamp. Returns the snapshot paths.
func (p *Pipeline) Extract(ctx context.Context) ([]string, error) {
	return p.extract(ctx, p.logger)
}

func (p *Pipeline) extract(ctx context.Context, logger *slog.Logger) ([]string, error) {
	units := p.variant.Units(p.sources.Extract)
	paths := make([]string, 0, len(units))
	extractedAt := normalize.FormatCompact(p.now())

	for i, unit := range units {
		if i > 0 {
			if err := sleep(ctx, p.cfg.HTTP.RequestDelay); err != nil {
				return nil, err
			}
		}

		path, err := p.extractUnit(ctx, unit, extractedAt)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)

		logger.Info("unit extracted",
			"unit", unit.String(),
			"path", path,
			"progress", fmt.Sprintf("%d/%d", i+1, len(units)),
		)
	}

	return paths, nil
}

func (p *Pipeline) extractUnit(ctx context.Context, unit model.FetchUnit, extractedAt string) (string, error) {
	raw, err := p.variant.Fetch(ctx, p.sources, unit)
	if err != nil {
		return "", err
	}

	payload, err := p.variant.Normalize(raw, unit)
	if err != nil {
		return "", err
	}

	snap, err := snapshot.New(
		extractedAt,
		unit.CanonicalID,
		p.sources.Extract.VsCurrency,
		p.variant.Provenance,
		payload,
	)
	if err != nil {
		return "", err
	}

	return snapshot.Write(snap, p.cfg.Storage.RawDir)
}

// Transform reads the given snapshots, builds the variant's table and
// writes it to the processed directory. Payloads must match the variant's shape.
func (p *Pipeline) Transform(rawFiles []string) (*model.Table, string, error) {
	snaps, err := snapshot.ReadAll(rawFiles)
	if err != nil {
		return nil, "", err
	}

	t, err := p.builder.Build(snaps, p.variant.Columns, p.variant.Shape)
	if err != nil {
		return nil, "", err
	}

	path, err := table.WriteCSV(t, p.cfg.Storage.ProcessedDir, p.variant.FilePrefix, p.now())
	if err != nil {
		return nil, "", err
	}
	return t, path, nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
