package dto

// TimelineRequest selects a day-bucketed timeline of one metric for a post.
// Both bounds are optional and inclusive; a malformed date is treated as an
// absent bound, not an error.
type TimelineRequest struct {
	PostID    string
	Metric    string
	StartDate string `form:"start_date" example:"2025-01-01"`
	EndDate   string `form:"end_date" example:"2025-01-07"`
}

// TopRequest selects a leaderboard of posts or users by one metric.
// Metric defaults to views, limit defaults to 10.
type TopRequest struct {
	Metric string `form:"metric" example:"likes"`
	Limit  int    `form:"limit" example:"10"`
}
