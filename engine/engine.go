package engine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/sonido-tajweed/audio"
	"github.com/RyanBlaney/sonido-tajweed/comparison"
	"github.com/RyanBlaney/sonido-tajweed/config"
	"github.com/RyanBlaney/sonido-tajweed/features"
	"github.com/RyanBlaney/sonido-tajweed/logging"
	"github.com/RyanBlaney/sonido-tajweed/tajweed"
)

// Engine runs the extract / compare / analyze pipeline.
// It keeps no state between calls and is safe for concurrent use.
type Engine struct {
	cfg        *config.Config
	extractor  *features.Extractor
	comparator *comparison.Comparator
	analyzer   *tajweed.Analyzer
	logger     logging.Logger
}

// New creates an engine. A nil cfg selects config.Default and a nil logger
// the global logger.
func New(cfg *config.Config, logger logging.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	extractor, err := features.NewExtractor(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create feature extractor: %w", err)
	}

	return &Engine{
		cfg:        cfg,
		extractor:  extractor.WithLogger(logger),
		comparator: comparison.NewComparator(cfg.Comparison),
		analyzer:   tajweed.NewAnalyzer(cfg.Rules),
		logger: logger.WithFields(logging.Fields{
			"component": "engine",
		}),
	}, nil
}

// WithEstimator returns a copy of the engine using estimator for formants
// and cepstral coefficients
func (e *Engine) WithEstimator(estimator features.SpectralFeatureEstimator) *Engine {
	clone := *e
	clone.extractor = e.extractor.WithEstimator(estimator)
	return &clone
}

// Config returns the configuration the engine was built with
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// ExtractFeatures builds the feature record of one buffer
func (e *Engine) ExtractFeatures(buf *audio.Buffer) (*features.Record, error) {
	record, err := e.extractor.Extract(buf)
	if err != nil {
		return nil, fmt.Errorf("feature extraction failed: %w", err)
	}
	return record, nil
}

// Compare extracts both buffers and aligns their cepstral sequences
func (e *Engine) Compare(a, b *audio.Buffer) (*comparison.Result, error) {
	recordA, err := e.ExtractFeatures(a)
	if err != nil {
		return nil, fmt.Errorf("first buffer: %w", err)
	}
	recordB, err := e.ExtractFeatures(b)
	if err != nil {
		return nil, fmt.Errorf("second buffer: %w", err)
	}

	result := e.CompareRecords(recordA, recordB)

	e.logger.Info("Compared recordings", logging.Fields{
		"similarity": result.Similarity,
		"score":      result.Score,
	})

	return result, nil
}

// CompareRecords aligns two already extracted records
func (e *Engine) CompareRecords(a, b *features.Record) *comparison.Result {
	return e.comparator.Compare(a, b)
}

// Analyze extracts both buffers and judges the user's recitation against
// the reference
func (e *Engine) Analyze(user, reference *audio.Buffer) (*tajweed.Report, error) {
	userRecord, err := e.ExtractFeatures(user)
	if err != nil {
		return nil, fmt.Errorf("user recording: %w", err)
	}
	refRecord, err := e.ExtractFeatures(reference)
	if err != nil {
		return nil, fmt.Errorf("reference recording: %w", err)
	}

	report := e.AnalyzeRecords(userRecord, refRecord)

	e.logger.Info("Analyzed recitation", logging.Fields{
		"overall_score": report.OverallScore,
		"errors":        len(report.Errors),
	})

	return report, nil
}

// AnalyzeRecords judges two already extracted records
func (e *Engine) AnalyzeRecords(user, reference *features.Record) *tajweed.Report {
	return e.analyzer.Analyze(user, reference)
}

// DetectRules reports which rules are present in a single recording
func (e *Engine) DetectRules(buf *audio.Buffer, rules ...tajweed.Rule) (*tajweed.Detection, error) {
	record, err := e.ExtractFeatures(buf)
	if err != nil {
		return nil, err
	}
	return e.analyzer.Detect(record, rules...), nil
}

// ExtractBatch extracts every buffer concurrently, bounded by
// engine.max_concurrency. Results keep the input order. The first failure
// cancels the remaining work.
func (e *Engine) ExtractBatch(ctx context.Context, bufs []*audio.Buffer) ([]*features.Record, error) {
	records := make([]*features.Record, len(bufs))

	limit := e.cfg.Engine.MaxConcurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, buf := range bufs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			record, err := e.ExtractFeatures(buf)
			if err != nil {
				return fmt.Errorf("buffer %d: %w", i, err)
			}
			records[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Debug("Extracted batch", logging.Fields{
		"buffers":     len(bufs),
		"concurrency": limit,
	})

	return records, nil
}
