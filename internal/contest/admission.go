package contest

import (
	"context"

	"github.com/google/uuid"
	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/database"
	"github.com/leetarena/arena/internal/database/models"
	"go.uber.org/zap"
)

// Register admits userID into a contest that has not ended.
//
// Checks run in a fixed order: existence, window, duplicate registration, capacity. The capacity
// check here only produces an early error; the seat itself is taken by a conditional increment
// in the store, which is what keeps the cap under concurrent registrations.
func (e *Engine) Register(ctx context.Context, contestID, userID string) (*models.ContestParticipation, error) {
	db := e.tx(ctx)
	c, err := database.GetContest(db, contestID)
	if err != nil {
		return nil, err
	}
	now := e.clock()
	status := ResolveStatus(now, c.StartTime, c.EndTime)
	if status == models.ContestEnded {
		return nil, apperr.InvalidState("cannot register for a contest that has ended")
	}

	registered, err := database.IsUserRegisteredForContest(db, userID, contestID)
	if err != nil {
		return nil, err
	}
	if registered {
		return nil, apperr.Duplicate("already registered for this contest")
	}
	if c.MaxParticipants != nil && c.CurrentParticipants >= *c.MaxParticipants {
		return nil, apperr.CapacityExceeded("contest has reached its maximum number of participants")
	}

	p := &models.ContestParticipation{
		ID:        uuid.NewString(),
		ContestID: contestID,
		UserID:    userID,
		JoinedAt:  now,
	}
	if err := database.AdmitParticipant(db, p, status); err != nil {
		if apperr.CodeOf(err) == apperr.CodeDuplicate {
			return nil, apperr.Duplicate("already registered for this contest")
		}
		return nil, err
	}
	e.invalidate(ctx, contestID)
	zap.S().Infof("user %s registered for contest '%s'", userID, contestID)
	return p, nil
}
