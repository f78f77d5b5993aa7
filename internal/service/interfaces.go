package service

import (
	"context"

	"github.com/thenromanov/stats-service/internal/dto"
)

// StatsServicer defines the read operations served to the gateway. All four
// are pure functions of the current store state and safe for concurrent use.
type StatsServicer interface {
	GetPostStats(ctx context.Context, postID string) (*dto.PostStatsResponse, error)
	GetPostTimeline(ctx context.Context, req *dto.TimelineRequest) (*dto.PostTimelineResponse, error)
	GetTopPosts(ctx context.Context, req *dto.TopRequest) (*dto.TopPostsResponse, error)
	GetTopUsers(ctx context.Context, req *dto.TopRequest) (*dto.TopUsersResponse, error)
}
