package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"unknown metric"`
}

// PostStatsResponse carries the point-in-time counters of one post.
type PostStatsResponse struct {
	PostID   string `json:"post_id" example:"5f6a"`
	Views    uint64 `json:"views" example:"150"`
	Likes    uint64 `json:"likes" example:"12"`
	Comments uint64 `json:"comments" example:"3"`
}

// TimelineEntry is one day bucket of a post timeline.
type TimelineEntry struct {
	Date  string `json:"date" example:"2025-01-01"`
	Count uint64 `json:"count" example:"42"`
}

// PostTimelineResponse carries a date-ascending timeline for one post.
type PostTimelineResponse struct {
	Entries []TimelineEntry `json:"entries"`
}

// TopPostEntry is one ranked post of a leaderboard.
type TopPostEntry struct {
	PostID string `json:"post_id" example:"5f6a"`
	Count  uint64 `json:"count" example:"1500"`
}

// TopPostsResponse carries a post leaderboard, highest counts first.
type TopPostsResponse struct {
	Posts []TopPostEntry `json:"posts"`
}

// TopUserEntry is one ranked user of a leaderboard.
type TopUserEntry struct {
	UserID string `json:"user_id" example:"u-17"`
	Count  uint64 `json:"count" example:"900"`
}

// TopUsersResponse carries a user leaderboard, highest counts first.
type TopUsersResponse struct {
	Users []TopUserEntry `json:"users"`
}
