// Package engine runs the translation pipeline: correction-table lookup,
// backend translation, history recording, optional review and the
// improvement policy, with per-item fault isolation across a batch.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/locforge/locforge/internal/backend"
	"github.com/locforge/locforge/internal/store"
)

// Item is one unit of work: a position in the source document plus the text
// to translate. Immutable once extracted.
type Item struct {
	Row  int
	Col  int
	Text string
}

// ReviewConfig controls the optional second pass.
type ReviewConfig struct {
	// Enabled turns the review stage on.
	Enabled bool
	// Threshold is the quality score below which a reviewed translation is
	// eligible for automatic improvement.
	Threshold int
	// AutoImprove allows the engine to swap in the reviewer's improved
	// translation. Without it review results are informational only.
	AutoImprove bool
}

// DefaultReviewThreshold matches the scale's "good enough" midpoint; scores
// are backend-supplied and intentionally treated as opaque.
const DefaultReviewThreshold = 7

// Outcome is the per-item result of a batch run.
type Outcome struct {
	Row                int
	Col                int
	OriginalText       string
	InitialTranslation string
	FinalTranslation   string
	Review             *backend.ReviewResult
	UsedImprovement    bool
	FromCorrection     bool
}

// BatchStats summarizes one batch. AvgScore covers only reviews that
// genuinely came from the model (no degraded error results).
type BatchStats struct {
	Translated int
	Reviewed   int
	Improved   int
	AvgScore   float64
}

// Corrections is the lookup half of the correction store the engine needs.
type Corrections interface {
	LookupCorrection(ctx context.Context, text, sourceLang, targetLang string) (string, bool, error)
}

// History is the append-only sink for AI translation events.
type History interface {
	AppendHistory(ctx context.Context, rec store.HistoryRecord) error
}

// Verifier sanity-checks that an AI translation is written in the target
// language. A failed check is logged, never fatal: short strings and mixed
// text make detection advisory at best.
type Verifier interface {
	IsValid(translatedText, targetLang string) (bool, error)
}

// cloudRequestDelay is the cooperative pause between consecutive cloud
// calls in a tight batch loop. Local backends do not need it.
const cloudRequestDelay = 100 * time.Millisecond

// Config wires the engine's collaborators. Corrections and History may be
// nil, disabling the respective stage.
type Config struct {
	Corrections Corrections
	History     History
	Verifier    Verifier
	Logger      *slog.Logger
	// FileName, when set, is recorded on every history entry of the batch.
	FileName string
	// RequestDelay overrides the inter-request courtesy delay. Negative
	// disables it; zero selects the default for the backend kind.
	RequestDelay time.Duration
}

// Engine drives batches through one configured backend. It is an explicit
// handle: multiple engines with different backends can coexist without
// cross-talk.
type Engine struct {
	backend     backend.Backend
	corrections Corrections
	history     History
	verifier    Verifier
	logger      *slog.Logger
	fileName    string
	delay       time.Duration
}

var errNoBackend = errors.New("no translation backend configured")

// New builds an engine around a backend.
func New(b backend.Backend, cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	delay := cfg.RequestDelay
	if delay == 0 && b != nil && b.Name() != "ollama" {
		delay = cloudRequestDelay
	}
	if delay < 0 {
		delay = 0
	}

	return &Engine{
		backend:     b,
		corrections: cfg.Corrections,
		history:     cfg.History,
		verifier:    cfg.Verifier,
		logger:      logger,
		fileName:    cfg.FileName,
		delay:       delay,
	}
}

// RunBatch translates items sequentially and returns one Outcome per input
// item, in input order, plus aggregate stats. No item's failure affects any
// other item; the only errors returned are a missing backend (checked
// before any work) and context cancellation, which stops between items and
// keeps the outcomes completed so far.
func (e *Engine) RunBatch(ctx context.Context, items []Item, sourceLang, targetLang string, rc ReviewConfig) ([]Outcome, BatchStats, error) {
	if e.backend == nil {
		return nil, BatchStats{}, errNoBackend
	}
	if rc.Threshold <= 0 {
		rc.Threshold = DefaultReviewThreshold
	}

	results := make([]Outcome, 0, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return results, e.stats(results), err
		}

		out, usedBackend := e.processItem(ctx, item, sourceLang, targetLang, rc)
		results = append(results, out)

		if usedBackend && e.delay > 0 && i < len(items)-1 {
			select {
			case <-time.After(e.delay):
			case <-ctx.Done():
				return results, e.stats(results), ctx.Err()
			}
		}
	}
	return results, e.stats(results), nil
}

// processItem runs the per-item state machine. usedBackend reports whether
// a network call was attempted, which drives the courtesy delay.
func (e *Engine) processItem(ctx context.Context, item Item, sourceLang, targetLang string, rc ReviewConfig) (Outcome, bool) {
	out := Outcome{Row: item.Row, Col: item.Col, OriginalText: item.Text}

	// Fast path: the curated table overrides AI translation entirely. No
	// history record, no review.
	if e.corrections != nil {
		match, found, err := e.corrections.LookupCorrection(ctx, item.Text, sourceLang, targetLang)
		if err != nil {
			e.logger.Warn("correction lookup failed", "row", item.Row, "col", item.Col, "error", err)
		} else if found {
			e.logger.Debug("correction table hit", "text", item.Text, "translation", match)
			out.InitialTranslation = match
			out.FinalTranslation = match
			out.FromCorrection = true
			return out, false
		}
	}

	start := time.Now()
	translated, err := e.backend.TranslateText(ctx, item.Text, sourceLang, targetLang)
	if err != nil {
		// Never leave a hole in the output: the original text stands in and
		// the batch moves on.
		e.logger.Error("translation failed", "row", item.Row, "col", item.Col, "error", err)
		out.InitialTranslation = item.Text
		out.FinalTranslation = item.Text
		return out, true
	}
	elapsed := time.Since(start)

	out.InitialTranslation = translated
	out.FinalTranslation = translated

	if e.verifier != nil {
		if ok, verr := e.verifier.IsValid(translated, targetLang); !ok {
			e.logger.Warn("translation language check failed",
				"row", item.Row, "col", item.Col, "reason", verr)
		}
	}

	if e.history != nil {
		rec := store.HistoryRecord{
			OriginalText:   item.Text,
			TranslatedText: translated,
			SourceLang:     sourceLang,
			TargetLang:     targetLang,
			Provider:       e.backend.Name(),
			Model:          e.backend.ModelName(),
			FileName:       e.fileName,
			Seconds:        elapsed.Seconds(),
		}
		if err := e.history.AppendHistory(ctx, rec); err != nil {
			e.logger.Warn("history append failed", "row", item.Row, "col", item.Col, "error", err)
		}
	}

	if !rc.Enabled {
		return out, true
	}

	review, err := e.backend.ReviewTranslation(ctx, item.Text, translated, sourceLang, targetLang)
	if err != nil {
		// A broken review never fails the item; it is recorded as a
		// degraded result and the initial translation stands.
		e.logger.Warn("review failed", "row", item.Row, "col", item.Col, "error", err)
		out.Review = backend.FailedReview(translated, err)
		return out, true
	}
	out.Review = review

	// Strict conjunction: all three conditions, or the initial translation
	// stands.
	if !review.Degraded() &&
		review.QualityScore < rc.Threshold &&
		rc.AutoImprove &&
		review.ImprovedTranslation != translated {
		out.FinalTranslation = review.ImprovedTranslation
		out.UsedImprovement = true
	}
	return out, true
}

func (e *Engine) stats(results []Outcome) BatchStats {
	stats := BatchStats{Translated: len(results)}
	scoreSum := 0
	for _, out := range results {
		if out.UsedImprovement {
			stats.Improved++
		}
		if out.Review != nil && !out.Review.Degraded() {
			stats.Reviewed++
			scoreSum += out.Review.QualityScore
		}
	}
	if stats.Reviewed > 0 {
		stats.AvgScore = float64(scoreSum) / float64(stats.Reviewed)
	}
	return stats
}

// TranslateOne runs the single-string path: correction lookup, then the
// backend, with a history record on the AI path. Unlike a batch item, a
// failure here surfaces as an error.
func (e *Engine) TranslateOne(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if e.backend == nil {
		return "", errNoBackend
	}

	if e.corrections != nil {
		match, found, err := e.corrections.LookupCorrection(ctx, text, sourceLang, targetLang)
		if err != nil {
			e.logger.Warn("correction lookup failed", "error", err)
		} else if found {
			return match, nil
		}
	}

	start := time.Now()
	translated, err := e.backend.TranslateText(ctx, text, sourceLang, targetLang)
	if err != nil {
		return "", err
	}

	if e.history != nil {
		rec := store.HistoryRecord{
			OriginalText:   text,
			TranslatedText: translated,
			SourceLang:     sourceLang,
			TargetLang:     targetLang,
			Provider:       e.backend.Name(),
			Model:          e.backend.ModelName(),
			Seconds:        time.Since(start).Seconds(),
		}
		if err := e.history.AppendHistory(ctx, rec); err != nil {
			e.logger.Warn("history append failed", "error", err)
		}
	}
	return translated, nil
}

// TestBackend performs one smoke-test translation against a backend and
// reports whether it succeeded. No history or correction data is touched.
func TestBackend(ctx context.Context, b backend.Backend) bool {
	if b == nil {
		return false
	}
	result, err := b.TranslateText(ctx, "Hello", "en", "zh")
	if err != nil {
		slog.Warn("backend test failed", "provider", b.Name(), "error", err)
		return false
	}
	return result != ""
}
