package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thenromanov/stats-service/internal/domain"
	"github.com/thenromanov/stats-service/internal/dto"
	"github.com/thenromanov/stats-service/internal/repository"
)

// ErrInvalidArgument marks caller mistakes the transport layer should report
// as a bad request rather than an internal error.
var ErrInvalidArgument = errors.New("invalid argument")

const defaultTopLimit = 10

// StatsService answers aggregate queries over the analytical store. It holds
// no state of its own; all state lives in the store.
type StatsService struct {
	repo repository.StatsRepository
	log  *zap.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(repo repository.StatsRepository, log *zap.Logger) *StatsService {
	return &StatsService{
		repo: repo,
		log:  log,
	}
}

// GetPostStats runs three independent counts scoped to the post. Any store
// error aborts the whole call; partial results are never returned.
func (s *StatsService) GetPostStats(ctx context.Context, postID string) (*dto.PostStatsResponse, error) {
	views, err := s.repo.CountForPost(ctx, domain.MetricViews, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post stats: %w", err)
	}

	likes, err := s.repo.CountForPost(ctx, domain.MetricLikes, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post stats: %w", err)
	}

	comments, err := s.repo.CountForPost(ctx, domain.MetricComments, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post stats: %w", err)
	}

	s.log.Info("Retrieved post stats",
		zap.String("post_id", postID),
		zap.Uint64("views", views),
		zap.Uint64("likes", likes),
		zap.Uint64("comments", comments))

	return &dto.PostStatsResponse{
		PostID:   postID,
		Views:    views,
		Likes:    likes,
		Comments: comments,
	}, nil
}

// GetPostTimeline returns the post's day-bucketed counts of one metric,
// ascending by date.
func (s *StatsService) GetPostTimeline(ctx context.Context, req *dto.TimelineRequest) (*dto.PostTimelineResponse, error) {
	metric, err := domain.ParseMetric(req.Metric)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	query := repository.TimelineQuery{
		PostID: req.PostID,
		Metric: metric,
		Start:  s.parseDateBound("start_date", req.StartDate),
		End:    s.parseDateBound("end_date", req.EndDate),
	}

	buckets, err := s.repo.Timeline(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s timeline: %w", metric, err)
	}

	entries := make([]dto.TimelineEntry, 0, len(buckets))
	for _, bucket := range buckets {
		entries = append(entries, dto.TimelineEntry{
			Date:  bucket.Date.Format(domain.DateLayout),
			Count: bucket.Count,
		})
	}

	s.log.Info("Retrieved post timeline",
		zap.String("post_id", req.PostID),
		zap.String("metric", metric.String()),
		zap.Int("entries", len(entries)))

	return &dto.PostTimelineResponse{Entries: entries}, nil
}

// GetTopPosts returns the highest-counted posts of one metric.
func (s *StatsService) GetTopPosts(ctx context.Context, req *dto.TopRequest) (*dto.TopPostsResponse, error) {
	entries, err := s.topEntities(ctx, domain.DimensionPost, req)
	if err != nil {
		return nil, err
	}

	posts := make([]dto.TopPostEntry, 0, len(entries))
	for _, entry := range entries {
		posts = append(posts, dto.TopPostEntry{PostID: entry.Key, Count: entry.Count})
	}
	return &dto.TopPostsResponse{Posts: posts}, nil
}

// GetTopUsers returns the highest-counted users of one metric.
func (s *StatsService) GetTopUsers(ctx context.Context, req *dto.TopRequest) (*dto.TopUsersResponse, error) {
	entries, err := s.topEntities(ctx, domain.DimensionUser, req)
	if err != nil {
		return nil, err
	}

	users := make([]dto.TopUserEntry, 0, len(entries))
	for _, entry := range entries {
		users = append(users, dto.TopUserEntry{UserID: entry.Key, Count: entry.Count})
	}
	return &dto.TopUsersResponse{Users: users}, nil
}

func (s *StatsService) topEntities(ctx context.Context, dimension domain.Dimension, req *dto.TopRequest) ([]repository.TopEntry, error) {
	metric := domain.MetricViews
	if req.Metric != "" {
		var err error
		metric, err = domain.ParseMetric(req.Metric)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultTopLimit
	}

	entries, err := s.repo.TopEntities(ctx, repository.TopQuery{
		Metric:    metric,
		Dimension: dimension,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get top %ss by %s: %w", dimension, metric, err)
	}

	s.log.Info("Retrieved top entities",
		zap.String("dimension", dimension.String()),
		zap.String("metric", metric.String()),
		zap.Int("limit", limit),
		zap.Int("entries", len(entries)))

	return entries, nil
}

// parseDateBound interprets an optional date filter. A malformed value is
// skipped rather than rejected; existing callers rely on this leniency.
func (s *StatsService) parseDateBound(name, value string) *time.Time {
	if value == "" {
		return nil
	}

	parsed, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		s.log.Warn("Invalid date filter, treating as absent",
			zap.String("param", name),
			zap.String("value", value))
		return nil
	}
	return &parsed
}
