package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/guru03-coder/SlideSense/internal/dto"
	"github.com/guru03-coder/SlideSense/internal/models"
	"github.com/guru03-coder/SlideSense/internal/observability"
	"github.com/guru03-coder/SlideSense/internal/repository"
)

const (
	statsCacheKey     = "staff:stats:v1"
	analyticsCacheKey = "staff:analytics:v1"
)

// StaffAnalyticsService aggregates pipeline counters and score analytics for
// the staff dashboard. Aggregates are cached in Redis and dropped whenever a
// submission is created, scored or reviewed.
type StaffAnalyticsService interface {
	Stats(ctx context.Context) (dto.StatsResponse, error)
	Analytics(ctx context.Context) (dto.AnalyticsResponse, error)
	InvalidateStats(ctx context.Context)
}

type staffAnalyticsService struct {
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewStaffAnalyticsService constructs the analytics service. The cache client
// may be nil, in which case every call recomputes from the store.
func NewStaffAnalyticsService(subRepo repository.SubmissionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StaffAnalyticsService {
	return &staffAnalyticsService{
		submissions: subRepo,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "staff_analytics_service").Logger(),
		tracer:      otel.Tracer("github.com/guru03-coder/SlideSense/internal/service/analytics"),
	}
}

func (s *staffAnalyticsService) Stats(ctx context.Context) (dto.StatsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.stats")
	span.SetAttributes(attribute.String("analytics.cache_key", statsCacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, statsCacheKey).Result()
		if err == nil {
			var response dto.StatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				observability.AnalyticsCache().WithLabelValues("hit").Inc()
				span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read stats cache")
			span.RecordError(err)
		}
	}
	observability.AnalyticsCache().WithLabelValues("miss").Inc()

	items, err := s.submissions.List(ctx, repository.SubmissionFilter{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_failed")
		return dto.StatsResponse{}, err
	}

	stats := dto.StatsResponse{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case models.StatusPending:
			stats.Pending++
		case models.StatusApproved:
			stats.Approved++
		case models.StatusRejected:
			stats.Rejected++
		}
	}

	s.storeCache(ctx, statsCacheKey, stats)
	span.SetAttributes(attribute.Int("analytics.total", stats.Total))
	return stats, nil
}

func (s *staffAnalyticsService) Analytics(ctx context.Context) (dto.AnalyticsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.aggregate")
	span.SetAttributes(attribute.String("analytics.cache_key", analyticsCacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, analyticsCacheKey).Result()
		if err == nil {
			var response dto.AnalyticsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				observability.AnalyticsCache().WithLabelValues("hit").Inc()
				span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read analytics cache")
			span.RecordError(err)
		}
	}
	observability.AnalyticsCache().WithLabelValues("miss").Inc()

	items, err := s.submissions.List(ctx, repository.SubmissionFilter{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_failed")
		return dto.AnalyticsResponse{}, err
	}

	summary := buildScoreSummary(items)
	span.SetAttributes(
		attribute.Int("analytics.submission_count", len(items)),
		attribute.Int("analytics.analyzed_count", summary.AnalyzedCount),
	)

	s.storeCache(ctx, analyticsCacheKey, summary)
	return summary, nil
}

func (s *staffAnalyticsService) InvalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey, analyticsCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate analytics cache")
		return
	}
	s.logger.Debug().Msg("analytics cache invalidated")
}

func (s *staffAnalyticsService) storeCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to store analytics cache")
	}
}

type departmentAccumulator struct {
	count    int
	scoreSum int
	scored   int
}

func buildScoreSummary(items []models.Submission) dto.AnalyticsResponse {
	summary := dto.AnalyticsResponse{
		ByDepartment: map[string]dto.DepartmentAnalytics{},
	}

	byDept := map[string]*departmentAccumulator{}
	scoreSum := 0
	for _, item := range items {
		dept := strings.TrimSpace(item.Department)
		if dept == "" {
			dept = "Unknown"
		}
		acc, ok := byDept[dept]
		if !ok {
			acc = &departmentAccumulator{}
			byDept[dept] = acc
		}
		acc.count++

		if item.Analysis == nil {
			continue
		}
		score := item.Analysis.Score
		scoreSum += score
		acc.scoreSum += score
		acc.scored++

		if summary.AnalyzedCount == 0 || score > summary.MaxScore {
			summary.MaxScore = score
		}
		if summary.AnalyzedCount == 0 || score < summary.MinScore {
			summary.MinScore = score
		}
		summary.AnalyzedCount++
	}

	if summary.AnalyzedCount > 0 {
		summary.AverageScore = roundTo1(float64(scoreSum) / float64(summary.AnalyzedCount))
	}

	for dept, acc := range byDept {
		entry := dto.DepartmentAnalytics{Count: acc.count}
		if acc.scored > 0 {
			avg := roundTo1(float64(acc.scoreSum) / float64(acc.scored))
			entry.AverageScore = &avg
		}
		summary.ByDepartment[dept] = entry
	}

	return summary
}
