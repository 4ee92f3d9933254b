package contest

import (
	"context"

	"github.com/leetarena/arena/internal/database"
	"github.com/leetarena/arena/internal/database/models"
	"go.uber.org/zap"
)

// Reconcile rebuilds one participation's rollup from the submission log. It is idempotent.
func (e *Engine) Reconcile(ctx context.Context, contestID, userID string) (*models.ContestParticipation, error) {
	db := e.tx(ctx)
	c, err := database.GetContest(db, contestID)
	if err != nil {
		return nil, err
	}
	p, err := database.ReconcileParticipation(db, contestID, userID, c.StartTime)
	if err != nil {
		return nil, err
	}
	e.invalidate(ctx, contestID)
	zap.S().Infof("reconciled participation of user %s in contest '%s': score %d over %d submissions",
		userID, contestID, p.Score, p.SolutionsSubmitted)
	return p, nil
}

// ReconcileContest rebuilds every participation of a contest and returns how many were processed.
func (e *Engine) ReconcileContest(ctx context.Context, contestID string) (int, error) {
	db := e.tx(ctx)
	c, err := database.GetContest(db, contestID)
	if err != nil {
		return 0, err
	}
	userIDs, err := database.ListParticipantIDs(db, contestID)
	if err != nil {
		return 0, err
	}
	for i, userID := range userIDs {
		if _, err := database.ReconcileParticipation(db, contestID, userID, c.StartTime); err != nil {
			zap.S().Errorf("reconciliation of contest '%s' stopped at user %s: %v", contestID, userID, err)
			e.invalidate(ctx, contestID)
			return i, err
		}
	}
	e.invalidate(ctx, contestID)
	zap.S().Infof("reconciled %d participations in contest '%s'", len(userIDs), contestID)
	return len(userIDs), nil
}
