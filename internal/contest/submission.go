package contest

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/database"
	"github.com/leetarena/arena/internal/database/models"
	"go.uber.org/zap"
)

// SubmitInput carries a judged solution. Judging happens elsewhere; the engine only scores it.
type SubmitInput struct {
	ProblemID       string                  `json:"problem_id" validate:"required"`
	Code            string                  `json:"code" validate:"required"`
	Language        string                  `json:"language" validate:"required,max=32"`
	TestCasesPassed int                     `json:"test_cases_passed" validate:"min=0"`
	TotalTestCases  int                     `json:"total_test_cases" validate:"min=1"`
	ExecutionTimeMs int64                   `json:"execution_time_ms" validate:"min=0"`
	MemoryUsedKB    int64                   `json:"memory_used_kb" validate:"min=0"`
	Status          models.SubmissionStatus `json:"status"`
}

// Submit records a scored submission and folds it into the caller's participation.
func (e *Engine) Submit(ctx context.Context, contestID, userID string, in SubmitInput) (*models.ContestSubmission, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.TestCasesPassed > in.TotalTestCases {
		return nil, apperr.Validation("test_cases_passed (%d) cannot exceed total_test_cases (%d)", in.TestCasesPassed, in.TotalTestCases)
	}
	verdict, err := Outcome(in.TestCasesPassed, in.TotalTestCases, in.Status)
	if err != nil {
		return nil, err
	}

	db := e.tx(ctx)
	c, err := database.GetContest(db, contestID)
	if err != nil {
		return nil, err
	}
	missing, err := e.problems.Missing(ctx, []string{in.ProblemID})
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, apperr.NotFound("problem not found")
	}

	now := e.clock()
	if ResolveStatus(now, c.StartTime, c.EndTime) != models.ContestOngoing {
		return nil, apperr.InvalidState("submissions are only accepted while the contest is ongoing")
	}
	registered, err := database.IsUserRegisteredForContest(db, userID, contestID)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, apperr.Forbidden("you must register for the contest before submitting")
	}
	if !mapset.NewThreadUnsafeSet([]string(c.ProblemIDs)...).Contains(in.ProblemID) {
		return nil, apperr.InvalidState("problem is not part of this contest")
	}

	sub := &models.ContestSubmission{
		ID:              uuid.NewString(),
		ContestID:       contestID,
		UserID:          userID,
		ProblemID:       in.ProblemID,
		Code:            in.Code,
		Language:        in.Language,
		Status:          verdict,
		Score:           Score(in.TestCasesPassed, in.TotalTestCases, in.ExecutionTimeMs),
		TestCasesPassed: in.TestCasesPassed,
		TotalTestCases:  in.TotalTestCases,
		ExecutionTimeMs: in.ExecutionTimeMs,
		MemoryUsedKB:    in.MemoryUsedKB,
		SubmittedAt:     now,
	}
	if err := database.RecordSubmission(db, sub, database.ElapsedSeconds(c.StartTime, now)); err != nil {
		return nil, err
	}
	e.invalidate(ctx, contestID)
	zap.S().Infof("user %s submitted problem %s in contest '%s': %s, score %d", userID, in.ProblemID, contestID, verdict, sub.Score)
	return sub, nil
}

// Submissions lists the caller's own submissions in a contest, newest first.
func (e *Engine) Submissions(ctx context.Context, contestID, userID string) ([]models.ContestSubmission, error) {
	db := e.tx(ctx)
	if _, err := database.GetContest(db, contestID); err != nil {
		return nil, err
	}
	subs, err := database.GetContestSubmissions(db, contestID, userID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []models.ContestSubmission{}
	}
	return subs, nil
}
