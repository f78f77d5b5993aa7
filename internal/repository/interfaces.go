package repository

import (
	"context"
	"time"

	"github.com/thenromanov/stats-service/internal/domain"
)

// TimelineQuery selects rows of one metric for a post, bucketed by event
// date. Nil bounds mean the filter is absent; set bounds are inclusive.
type TimelineQuery struct {
	PostID string
	Metric domain.Metric
	Start  *time.Time
	End    *time.Time
}

// TimelineBucket is one day of a timeline, ascending by date in results.
type TimelineBucket struct {
	Date  time.Time
	Count uint64
}

// TopQuery ranks the dimension's keys by row count of one metric.
type TopQuery struct {
	Metric    domain.Metric
	Dimension domain.Dimension
	Limit     int
}

// TopEntry is one ranked key. Tie order between equal counts is undefined.
type TopEntry struct {
	Key   string
	Count uint64
}

// StatsRepository defines storage operations over the append-only analytical
// tables. Inserts are single-row; reads aggregate the full row set at query
// time.
type StatsRepository interface {
	// InitSchema creates the three action tables if they don't exist.
	InitSchema(ctx context.Context) error

	// InsertView appends one view row.
	InsertView(ctx context.Context, event *domain.ViewEvent) error

	// InsertLike appends one like row. Duplicate delivery produces a
	// duplicate row; the store does not deduplicate.
	InsertLike(ctx context.Context, event *domain.LikeEvent) error

	// InsertComment appends one comment row.
	InsertComment(ctx context.Context, event *domain.CommentEvent) error

	// CountForPost counts rows of the metric scoped to one post.
	CountForPost(ctx context.Context, metric domain.Metric, postID string) (uint64, error)

	// Timeline counts the post's rows per event date, ascending.
	Timeline(ctx context.Context, query TimelineQuery) ([]TimelineBucket, error)

	// TopEntities groups all rows of the metric's table by the dimension
	// key and returns the highest counts first.
	TopEntities(ctx context.Context, query TopQuery) ([]TopEntry, error)

	// Ping checks if the store connection is alive.
	Ping(ctx context.Context) error

	// Close releases the store connection.
	Close() error
}
