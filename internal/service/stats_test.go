package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/thenromanov/stats-service/internal/domain"
	"github.com/thenromanov/stats-service/internal/dto"
	"github.com/thenromanov/stats-service/internal/repository"
)

// MockStatsRepository is a mock implementation of repository.StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStatsRepository) InsertView(ctx context.Context, event *domain.ViewEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStatsRepository) InsertLike(ctx context.Context, event *domain.LikeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStatsRepository) InsertComment(ctx context.Context, event *domain.CommentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockStatsRepository) CountForPost(ctx context.Context, metric domain.Metric, postID string) (uint64, error) {
	args := m.Called(ctx, metric, postID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockStatsRepository) Timeline(ctx context.Context, query repository.TimelineQuery) ([]repository.TimelineBucket, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TimelineBucket), args.Error(1)
}

func (m *MockStatsRepository) TopEntities(ctx context.Context, query repository.TopQuery) ([]repository.TopEntry, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.TopEntry), args.Error(1)
}

func (m *MockStatsRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStatsRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestStatsService_GetPostStats_Success(t *testing.T) {
	mockRepo := new(MockStatsRepository)
	svc := NewStatsService(mockRepo, zap.NewNop())

	mockRepo.On("CountForPost", mock.Anything, domain.MetricViews, "p1").Return(uint64(150), nil)
	mockRepo.On("CountForPost", mock.Anything, domain.MetricLikes, "p1").Return(uint64(12), nil)
	mockRepo.On("CountForPost", mock.Anything, domain.MetricComments, "p1").Return(uint64(3), nil)

	response, err := svc.GetPostStats(context.Background(), "p1")

	assert.NoError(t, err)
	assert.Equal(t, &dto.PostStatsResponse{
		PostID:   "p1",
		Views:    150,
		Likes:    12,
		Comments: 3,
	}, response)
	mockRepo.AssertExpectations(t)
}

func TestStatsService_GetPostStats_StoreErrorAborts(t *testing.T) {
	mockRepo := new(MockStatsRepository)
	svc := NewStatsService(mockRepo, zap.NewNop())

	mockRepo.On("CountForPost", mock.Anything, domain.MetricViews, "p1").Return(uint64(150), nil)
	mockRepo.On("CountForPost", mock.Anything, domain.MetricLikes, "p1").Return(uint64(0), errors.New("connection refused"))

	response, err := svc.GetPostStats(context.Background(), "p1")

	// No partial results: a single failing count aborts the whole call.
	assert.Error(t, err)
	assert.Nil(t, response)
	mockRepo.AssertNotCalled(t, "CountForPost", mock.Anything, domain.MetricComments, "p1")
}

func TestStatsService_GetPostTimeline_Success(t *testing.T) {
	mockRepo := new(MockStatsRepository)
	svc := NewStatsService(mockRepo, zap.NewNop())

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)

	mockRepo.On("Timeline", mock.Anything, mock.MatchedBy(func(q repository.TimelineQuery) bool {
		return q.PostID == "p1" && q.Metric == domain.MetricViews &&
			q.Start != nil && q.Start.Equal(start) &&
			q.End != nil && q.End.Equal(end)
	})).Return([]repository.TimelineBucket{
		{Date: start, Count: 5},
		{Date: start.AddDate(0, 0, 1), Count: 3},
	}, nil)

	response, err := svc.GetPostTimeline(context.Background(), &dto.TimelineRequest{
		PostID:    "p1",
		Metric:    "views",
		StartDate: "2025-01-01",
		EndDate:   "2025-01-07",
	})

	assert.NoError(t, err)
	assert.Equal(t, []dto.TimelineEntry{
		{Date: "2025-01-01", Count: 5},
		{Date: "2025-01-02", Count: 3},
	}, response.Entries)
}

func TestStatsService_GetPostTimeline_MalformedStartDateSkipped(t *testing.T) {
	mockRepo := new(MockStatsRepository)
	svc := NewStatsService(mockRepo, zap.NewNop())

	mockRepo.On("Timeline", mock.Anything, mock.MatchedBy(func(q repository.TimelineQuery) bool {
		return q.Start == nil && q.End != nil
	})).Return([]repository.TimelineBucket{}, nil)

	// Deliberate leniency: a malformed bound behaves as if absent.
	response, err := svc.GetPostTimeline(context.Background(), &dto.TimelineRequest{
		PostID:    "p1",
		Metric:    "likes",
		StartDate: "not-a-date",
		EndDate:   "2025-01-07",
	})

	assert.NoError(t, err)
	assert.Empty(t, response.Entries)
	mockRepo.AssertExpectations(t)
}

func TestStatsService_GetPostTimeline_UnknownMetric(t *testing.T) {
	mockRepo := new(MockStatsRepository)
	svc := NewStatsService(mockRepo, zap.NewNop())

	_, err := svc.GetPostTimeline(context.Background(), &dto.TimelineRequest{
		PostID: "p1",
		Metric: "reposts",
	})

	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	mockRepo.AssertNotCalled(t, "Timeline")
}

func TestStatsService_GetTopPosts_Success(t *testing.T) {
	mockRepo := new(MockStatsRepository)
	svc := NewStatsService(mockRepo, zap.NewNop())

	mockRepo.On("TopEntities", mock.Anything, repository.TopQuery{
		Metric:    domain.MetricLikes,
		Dimension: domain.DimensionPost,
		Limit:     1,
	}).Return([]repository.TopEntry{{Key: "p1", Count: 2}}, nil)

	response, err := svc.GetTopPosts(context.Background(), &dto.TopRequest{Metric: "likes", Limit: 1})

	assert.NoError(t, err)
	assert.Equal(t, []dto.TopPostEntry{{PostID: "p1", Count: 2}}, response.Posts)
}

func TestStatsService_GetTopPosts_DefaultLimitAndMetric(t *testing.T) {
	mockRepo := new(MockStatsRepository)
	svc := NewStatsService(mockRepo, zap.NewNop())

	mockRepo.On("TopEntities", mock.Anything, repository.TopQuery{
		Metric:    domain.MetricViews,
		Dimension: domain.DimensionPost,
		Limit:     10,
	}).Return([]repository.TopEntry{}, nil)

	// limit <= 0 falls back to 10, empty metric falls back to views.
	_, err := svc.GetTopPosts(context.Background(), &dto.TopRequest{Limit: -3})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestStatsService_GetTopUsers_Success(t *testing.T) {
	mockRepo := new(MockStatsRepository)
	svc := NewStatsService(mockRepo, zap.NewNop())

	mockRepo.On("TopEntities", mock.Anything, repository.TopQuery{
		Metric:    domain.MetricComments,
		Dimension: domain.DimensionUser,
		Limit:     2,
	}).Return([]repository.TopEntry{
		{Key: "u1", Count: 9},
		{Key: "u2", Count: 4},
	}, nil)

	response, err := svc.GetTopUsers(context.Background(), &dto.TopRequest{Metric: "comments", Limit: 2})

	assert.NoError(t, err)
	assert.Equal(t, []dto.TopUserEntry{
		{UserID: "u1", Count: 9},
		{UserID: "u2", Count: 4},
	}, response.Users)
}

func TestStatsService_GetTopUsers_StoreError(t *testing.T) {
	mockRepo := new(MockStatsRepository)
	svc := NewStatsService(mockRepo, zap.NewNop())

	mockRepo.On("TopEntities", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	response, err := svc.GetTopUsers(context.Background(), &dto.TopRequest{})

	assert.Error(t, err)
	assert.Nil(t, response)
	assert.NotErrorIs(t, err, ErrInvalidArgument)
}
