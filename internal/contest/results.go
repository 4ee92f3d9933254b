package contest

import (
	"context"
	"math"
	"time"

	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/database"
	"github.com/leetarena/arena/internal/database/models"
	"golang.org/x/sync/errgroup"
)

type Results struct {
	ContestID     string                       `json:"contest_id"`
	Status        models.ContestStatus         `json:"status"`
	Participation *models.ContestParticipation `json:"participation"`
	Submissions   []models.ContestSubmission   `json:"submissions"`
}

// Results returns the caller's participation, rank and submissions in one contest.
func (e *Engine) Results(ctx context.Context, contestID, userID string) (*Results, error) {
	db := e.tx(ctx)
	c, err := database.GetContest(db, contestID)
	if err != nil {
		return nil, err
	}
	p, err := database.GetParticipation(db, contestID, userID)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeNotFound {
			return nil, apperr.NotFound("you are not registered for this contest")
		}
		return nil, err
	}
	if p.Rank, err = database.GetParticipantRank(db, p); err != nil {
		return nil, err
	}
	subs, err := database.GetContestSubmissions(db, contestID, userID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []models.ContestSubmission{}
	}
	return &Results{
		ContestID:     contestID,
		Status:        ResolveStatus(e.clock(), c.StartTime, c.EndTime),
		Participation: p,
		Submissions:   subs,
	}, nil
}

type ContestRecord struct {
	ContestID          string               `json:"contest_id"`
	Title              string               `json:"title"`
	Status             models.ContestStatus `json:"status"`
	StartTime          time.Time            `json:"start_time"`
	EndTime            time.Time            `json:"end_time"`
	JoinedAt           time.Time            `json:"joined_at"`
	Score              int                  `json:"score"`
	SolutionsSubmitted int                  `json:"solutions_submitted"`
	TimeSpent          int64                `json:"time_spent"`
	Rank               int                  `json:"rank"`
}

type UserStats struct {
	ContestsJoined      int             `json:"contests_joined"`
	TotalScore          int             `json:"total_score"`
	AverageScore        float64         `json:"average_score"`
	BestScore           int             `json:"best_score"`
	BestRank            *int            `json:"best_rank"`
	TotalSubmissions    int64           `json:"total_submissions"`
	AcceptedSubmissions int64           `json:"accepted_submissions"`
	History             []ContestRecord `json:"history"`
}

// UserStats aggregates a user's contest history. BestRank is nil until the user has joined a contest.
func (e *Engine) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	var (
		records         []database.UserContestRecord
		total, accepted int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = database.GetUserContestRecords(e.tx(gctx), userID)
		return err
	})
	g.Go(func() error {
		var err error
		total, accepted, err = database.CountUserSubmissions(e.tx(gctx), userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	history := make([]ContestRecord, len(records))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range records {
		rec := &records[i]
		g.Go(func() error {
			rank, err := database.GetParticipantRank(e.tx(gctx), &rec.ContestParticipation)
			if err != nil {
				return err
			}
			history[i] = ContestRecord{
				ContestID:          rec.ContestID,
				Title:              rec.Title,
				StartTime:          rec.StartTime,
				EndTime:            rec.EndTime,
				JoinedAt:           rec.JoinedAt,
				Score:              rec.Score,
				SolutionsSubmitted: rec.SolutionsSubmitted,
				TimeSpent:          rec.TimeSpent,
				Rank:               rank,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := e.clock()
	stats := &UserStats{
		ContestsJoined:      len(history),
		TotalSubmissions:    total,
		AcceptedSubmissions: accepted,
		History:             history,
	}
	for i := range history {
		h := &history[i]
		h.Status = ResolveStatus(now, h.StartTime, h.EndTime)
		stats.TotalScore += h.Score
		if h.Score > stats.BestScore {
			stats.BestScore = h.Score
		}
		if stats.BestRank == nil || h.Rank < *stats.BestRank {
			rank := h.Rank
			stats.BestRank = &rank
		}
	}
	if len(history) > 0 {
		avg := float64(stats.TotalScore) / float64(len(history))
		stats.AverageScore = math.Round(avg*100) / 100
	}
	return stats, nil
}
