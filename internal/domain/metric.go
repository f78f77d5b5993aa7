package domain

import "fmt"

// Metric identifies one of the counted post actions. It is a closed set:
// each value maps to exactly one analytical table.
type Metric int

const (
	MetricViews Metric = iota
	MetricLikes
	MetricComments
)

// ParseMetric maps the external metric name to its Metric value.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "views":
		return MetricViews, nil
	case "likes":
		return MetricLikes, nil
	case "comments":
		return MetricComments, nil
	default:
		return 0, fmt.Errorf("unknown metric %q (supported: views, likes, comments)", s)
	}
}

func (m Metric) String() string {
	switch m {
	case MetricViews:
		return "views"
	case MetricLikes:
		return "likes"
	case MetricComments:
		return "comments"
	default:
		return "unknown"
	}
}

// Table returns the analytical table holding the metric's rows. Identifiers
// interpolated into queries come only from this closed set.
func (m Metric) Table() string {
	switch m {
	case MetricLikes:
		return "post_likes"
	case MetricComments:
		return "post_comments"
	default:
		return "post_views"
	}
}

// Dimension is the grouping key of a top-K query.
type Dimension int

const (
	DimensionPost Dimension = iota
	DimensionUser
)

// Column returns the grouping column for the dimension.
func (d Dimension) Column() string {
	if d == DimensionUser {
		return "user_id"
	}
	return "post_id"
}

func (d Dimension) String() string {
	if d == DimensionUser {
		return "user"
	}
	return "post"
}
