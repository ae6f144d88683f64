package triage

import (
	"context"
	"errors"
	"time"

	"github.com/careconnect/careconnect-api/internal/observability/metrics"
	"github.com/careconnect/careconnect-api/pkg/logging"
)

// ErrMissingSymptoms indicates an analysis request without symptom text.
var ErrMissingSymptoms = errors.New("triage: symptoms are required")

// Service runs the two-stage triage strategy: the AI analyzer first,
// bounded by a timeout, with the deterministic fallback behind it. An
// analysis request never fails because the AI did.
type Service struct {
	analyzer Analyzer
	cache    *Cache
	timeout  time.Duration
	metrics  *metrics.TriageMetrics
	logger   *logging.Logger
}

// NewService creates a triage service. analyzer, cache and triageMetrics
// may each be nil; with a nil analyzer every request uses the fallback.
func NewService(analyzer Analyzer, cache *Cache, timeout time.Duration, triageMetrics *metrics.TriageMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{
		analyzer: analyzer,
		cache:    cache,
		timeout:  timeout,
		metrics:  triageMetrics,
		logger:   logger,
	}
}

// Analyze classifies the symptoms. Cached results are returned as-is;
// otherwise the AI analyzer runs under the timeout and any failure falls
// through to the keyword fallback.
func (s *Service) Analyze(ctx context.Context, symptoms string) (*Result, error) {
	if symptoms == "" {
		return nil, ErrMissingSymptoms
	}

	if cached, err := s.cache.Get(ctx, symptoms); err != nil {
		s.logger.Warn("triage cache lookup failed", "error", err)
	} else if cached != nil {
		s.metrics.ObserveCache("hit")
		return cached, nil
	}
	s.metrics.ObserveCache("miss")

	result := s.analyze(ctx, symptoms)

	if err := s.cache.Set(ctx, symptoms, result); err != nil {
		s.logger.Warn("triage cache store failed", "error", err)
	}
	return result, nil
}

func (s *Service) analyze(ctx context.Context, symptoms string) *Result {
	if s.analyzer != nil {
		aiCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		result, err := s.analyzer.Analyze(aiCtx, symptoms)
		if err == nil {
			s.metrics.ObserveAnalysis("ai", result.IsEmergency)
			return result
		}
		s.logger.Warn("ai analysis failed, using fallback", "error", err)
	}

	result := AnalyzeFallback(symptoms)
	s.metrics.ObserveAnalysis("fallback", result.IsEmergency)
	return result
}
