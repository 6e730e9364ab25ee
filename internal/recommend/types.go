package recommend

import "github.com/abhisek/examlens/internal/catalog"

// DefaultMaxCourses bounds the final recommendation list.
const DefaultMaxCourses = 5

// CourseScore is a scored association between one course and one weakness.
// Score is in (0,1]: 1 means an exact match, falling toward 0 as the
// search distance grows.
type CourseScore struct {
	Course     catalog.Course `json:"course"`
	WeaknessID string         `json:"weakness_id"`
	Score      float64        `json:"score"`
	Reason     string         `json:"reason,omitempty"`
}
