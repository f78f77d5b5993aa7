package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/thenromanov/stats-service/internal/domain"
	"github.com/thenromanov/stats-service/internal/repository"
)

// Repository implements repository.StatsRepository over ClickHouse.
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse stats repository.
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// schemaStatements bootstrap the three append-only action tables. Month
// partitioning on event_date bounds range scans; the sort key serves per-post
// point lookups and date-range scans alike.
var schemaStatements = []string{
	`
	CREATE TABLE IF NOT EXISTS post_views (
		view_id String,
		post_id String,
		user_id String,
		viewed_at DateTime,
		event_date Date DEFAULT toDate(viewed_at)
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(event_date)
	ORDER BY (event_date, post_id, user_id)
	`,
	`
	CREATE TABLE IF NOT EXISTS post_likes (
		like_id String,
		post_id String,
		user_id String,
		liked_at DateTime,
		event_date Date DEFAULT toDate(liked_at)
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(event_date)
	ORDER BY (event_date, post_id, user_id)
	`,
	`
	CREATE TABLE IF NOT EXISTS post_comments (
		comment_id String,
		post_id String,
		user_id String,
		text String,
		created_at DateTime,
		event_date Date DEFAULT toDate(created_at)
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(event_date)
	ORDER BY (event_date, post_id, user_id)
	`,
}

// InitSchema creates the action tables if they don't exist.
func (r *Repository) InitSchema(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if err := r.client.Exec(ctx, statement); err != nil {
			return fmt.Errorf("failed to create stats tables: %w", err)
		}
	}

	r.log.Info("ClickHouse schema initialized")
	return nil
}

// InsertView appends one view row.
func (r *Repository) InsertView(ctx context.Context, event *domain.ViewEvent) error {
	const query = `INSERT INTO post_views (view_id, post_id, user_id, viewed_at, event_date) VALUES (?, ?, ?, ?, ?)`

	err := r.client.Exec(ctx, query,
		event.ViewID,
		event.PostID,
		event.UserID,
		event.ViewedAt.Time,
		event.ViewedAt.EventDate(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert view row: %w", err)
	}
	return nil
}

// InsertLike appends one like row.
func (r *Repository) InsertLike(ctx context.Context, event *domain.LikeEvent) error {
	const query = `INSERT INTO post_likes (like_id, post_id, user_id, liked_at, event_date) VALUES (?, ?, ?, ?, ?)`

	err := r.client.Exec(ctx, query,
		event.LikeID,
		event.PostID,
		event.UserID,
		event.LikedAt.Time,
		event.LikedAt.EventDate(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert like row: %w", err)
	}
	return nil
}

// InsertComment appends one comment row.
func (r *Repository) InsertComment(ctx context.Context, event *domain.CommentEvent) error {
	const query = `INSERT INTO post_comments (comment_id, post_id, user_id, text, created_at, event_date) VALUES (?, ?, ?, ?, ?, ?)`

	err := r.client.Exec(ctx, query,
		event.CommentID,
		event.PostID,
		event.UserID,
		event.Text,
		event.CreatedAt.Time,
		event.CreatedAt.EventDate(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment row: %w", err)
	}
	return nil
}

// CountForPost counts rows of the metric scoped to one post.
func (r *Repository) CountForPost(ctx context.Context, metric domain.Metric, postID string) (uint64, error) {
	query := countQuery(metric)

	var count uint64
	if err := r.client.QueryRow(ctx, query, postID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s for post: %w", metric, err)
	}
	return count, nil
}

// Timeline counts the post's rows per event date, ascending by date.
func (r *Repository) Timeline(ctx context.Context, query repository.TimelineQuery) ([]repository.TimelineBucket, error) {
	statement, args := timelineQuery(query)

	rows, err := r.client.Query(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s timeline: %w", query.Metric, err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close timeline rows", zap.Error(err))
		}
	}(rows)

	var buckets []repository.TimelineBucket
	for rows.Next() {
		var bucket repository.TimelineBucket
		if err := rows.Scan(&bucket.Date, &bucket.Count); err != nil {
			return nil, fmt.Errorf("failed to scan timeline row: %w", err)
		}
		buckets = append(buckets, bucket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating timeline rows: %w", err)
	}

	return buckets, nil
}

// TopEntities ranks the dimension's keys by row count of the metric,
// descending. Tie order between equal counts is store-dependent and left
// undefined.
func (r *Repository) TopEntities(ctx context.Context, query repository.TopQuery) ([]repository.TopEntry, error) {
	statement := topQuery(query)

	rows, err := r.client.Query(ctx, statement, uint64(query.Limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query top %ss by %s: %w", query.Dimension, query.Metric, err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close top entities rows", zap.Error(err))
		}
	}(rows)

	var entries []repository.TopEntry
	for rows.Next() {
		var entry repository.TopEntry
		if err := rows.Scan(&entry.Key, &entry.Count); err != nil {
			return nil, fmt.Errorf("failed to scan top entities row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top entities rows: %w", err)
	}

	return entries, nil
}

// Ping checks if the ClickHouse connection is alive.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}

// Close closes the ClickHouse connection.
func (r *Repository) Close() error {
	return r.client.Close()
}

// countQuery builds the per-post count statement. The table name comes from
// the closed Metric set, never from request values.
func countQuery(metric domain.Metric) string {
	return fmt.Sprintf(`SELECT count() FROM %s WHERE post_id = ?`, metric.Table())
}

// timelineQuery builds the date-bucketed statement with optional inclusive
// bounds. Absent bounds contribute no condition.
func timelineQuery(query repository.TimelineQuery) (string, []any) {
	statement := fmt.Sprintf(`SELECT event_date, count() AS cnt FROM %s WHERE post_id = ?`, query.Metric.Table())
	args := []any{query.PostID}

	if query.Start != nil {
		statement += " AND event_date >= ?"
		args = append(args, *query.Start)
	}
	if query.End != nil {
		statement += " AND event_date <= ?"
		args = append(args, *query.End)
	}

	statement += " GROUP BY event_date ORDER BY event_date"
	return statement, args
}

// topQuery builds the group-count-order statement from the closed Metric and
// Dimension sets.
func topQuery(query repository.TopQuery) string {
	return fmt.Sprintf(
		`SELECT %s AS entity, count() AS cnt FROM %s GROUP BY entity ORDER BY cnt DESC LIMIT ?`,
		query.Dimension.Column(), query.Metric.Table(),
	)
}
