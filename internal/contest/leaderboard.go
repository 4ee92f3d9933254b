package contest

import (
	"context"
	"encoding/json"

	"github.com/leetarena/arena/internal/cache"
	"github.com/leetarena/arena/internal/database"
	"go.uber.org/zap"
)

type Leaderboard struct {
	Leaderboard []database.LeaderboardEntry `json:"leaderboard"`
	Pagination  Pagination                  `json:"pagination"`
}

// Leaderboard returns one page of the ranking. Pages are cached under the contest's current
// cache version; every ranking-relevant write bumps the version.
func (e *Engine) Leaderboard(ctx context.Context, contestID string, limit, offset int) (*Leaderboard, error) {
	db := e.tx(ctx)
	if _, err := database.GetContest(db, contestID); err != nil {
		return nil, err
	}
	limit, offset = e.page(limit, offset)

	// Read the version before querying: a write that lands in between bumps it, so the page
	// stored below can never be served as current.
	version, err := e.cache.Version(ctx, contestID)
	if err != nil {
		zap.S().Warnf("leaderboard cache unavailable for contest %s: %v", contestID, err)
		return e.loadLeaderboard(ctx, contestID, limit, offset)
	}
	key := cache.PageKey(contestID, version, limit, offset)
	if raw, ok, err := e.cache.Get(ctx, key); err == nil && ok {
		var board Leaderboard
		if err := json.Unmarshal(raw, &board); err == nil {
			return &board, nil
		}
	}

	board, err := e.loadLeaderboard(ctx, contestID, limit, offset)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(board); err == nil {
		if err := e.cache.Set(ctx, key, raw); err != nil {
			zap.S().Warnf("failed to cache leaderboard page for contest %s: %v", contestID, err)
		}
	}
	return board, nil
}

func (e *Engine) loadLeaderboard(ctx context.Context, contestID string, limit, offset int) (*Leaderboard, error) {
	rows, total, err := database.GetLeaderboard(e.tx(ctx), contestID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &Leaderboard{
		Leaderboard: rows,
		Pagination:  newPagination(total, limit, offset, len(rows)),
	}, nil
}
