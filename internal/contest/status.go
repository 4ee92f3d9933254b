package contest

import (
	"time"

	"github.com/leetarena/arena/internal/database/models"
)

// ResolveStatus derives the lifecycle state of the window [start, end) at now.
func ResolveStatus(now, start, end time.Time) models.ContestStatus {
	switch {
	case now.Before(start):
		return models.ContestUpcoming
	case now.Before(end):
		return models.ContestOngoing
	default:
		return models.ContestEnded
	}
}

// withStatus returns c with its status recomputed; the stored value is never trusted.
func withStatus(c *models.Contest, now time.Time) *models.Contest {
	c.Status = ResolveStatus(now, c.StartTime, c.EndTime)
	return c
}
