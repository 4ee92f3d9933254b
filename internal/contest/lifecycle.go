package contest

import (
	"context"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/database"
	"github.com/leetarena/arena/internal/database/models"
	"go.uber.org/zap"
)

type CreateInput struct {
	Title           string            `json:"title" validate:"required,notblank,max=200"`
	Description     string            `json:"description" validate:"required,notblank"`
	StartTime       time.Time         `json:"start_time" validate:"required"`
	EndTime         time.Time         `json:"end_time" validate:"required"`
	Difficulty      models.Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard mixed"`
	ProblemIDs      []string          `json:"problem_ids" validate:"required,min=1,dive,required"`
	TotalProblems   int               `json:"total_problems" validate:"required,min=1"`
	MaxParticipants *int              `json:"max_participants" validate:"omitempty,min=1"`
	Rules           string            `json:"rules"`
	Rewards         string            `json:"rewards"`
}

// UpdateInput is a patch: nil fields are left untouched.
type UpdateInput struct {
	Title           *string            `json:"title" validate:"omitempty,notblank,max=200"`
	Description     *string            `json:"description" validate:"omitempty,notblank"`
	StartTime       *time.Time         `json:"start_time"`
	EndTime         *time.Time         `json:"end_time"`
	Difficulty      *models.Difficulty `json:"difficulty" validate:"omitempty,oneof=easy medium hard mixed"`
	ProblemIDs      []string           `json:"problem_ids" validate:"omitempty,min=1,dive,required"`
	TotalProblems   *int               `json:"total_problems" validate:"omitempty,min=1"`
	MaxParticipants *int               `json:"max_participants" validate:"omitempty,min=1"`
	Rules           *string            `json:"rules"`
	Rewards         *string            `json:"rewards"`
}

type Pagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

func newPagination(total int64, limit, offset, returned int) Pagination {
	return Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+returned) < total,
	}
}

// ListPagination is Pagination for contest listings, which page with skip.
type ListPagination struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Skip    int   `json:"skip"`
	HasMore bool  `json:"has_more"`
}

type ContestDetail struct {
	*models.Contest
	ParticipantCount int64 `json:"participant_count"`
}

type ContestList struct {
	Contests   []models.Contest `json:"contests"`
	Pagination ListPagination   `json:"pagination"`
}

type ListFilter struct {
	Status     string
	Difficulty string
	Search     string
	Limit      int
	Skip       int
}

// Create validates the contest against the clock and the problem catalog, then persists it.
func (e *Engine) Create(ctx context.Context, creatorID string, in CreateInput) (*models.Contest, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	now := e.clock()
	start, end := in.StartTime.UTC(), in.EndTime.UTC()
	if !start.Before(end) {
		return nil, apperr.Validation("start_time must be before end_time")
	}
	if start.Before(now) {
		return nil, apperr.Validation("start_time must not be in the past")
	}
	if err := e.checkProblems(ctx, in.ProblemIDs, in.TotalProblems); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	c := &models.Contest{
		ID:                  id,
		Slug:                contestSlug(in.Title, id),
		Title:               strings.TrimSpace(in.Title),
		Description:         in.Description,
		CreatorID:           creatorID,
		StartTime:           start,
		EndTime:             end,
		Difficulty:          in.Difficulty,
		ProblemIDs:          models.StringList(in.ProblemIDs),
		TotalProblems:       in.TotalProblems,
		MaxParticipants:     in.MaxParticipants,
		CurrentParticipants: 0,
		Rules:               in.Rules,
		Rewards:             in.Rewards,
	}
	withStatus(c, now)

	if err := database.CreateContest(e.tx(ctx), c); err != nil {
		if apperr.CodeOf(err) == apperr.CodeDuplicate {
			return nil, apperr.Duplicate("a contest with slug %q already exists", c.Slug)
		}
		return nil, err
	}
	zap.S().Infof("user %s created contest '%s' (%s)", creatorID, c.Title, c.ID)
	return c, nil
}

// contestSlug derives the slug from the title, falling back to a prefix of the contest id
// for titles with no letters or digits.
func contestSlug(title, id string) string {
	if s := slug.Make(title); s != "" {
		return s
	}
	return "contest-" + id[:8]
}

// checkProblems enforces total == len(ids), no duplicates, and that every id resolves.
func (e *Engine) checkProblems(ctx context.Context, ids []string, total int) error {
	if len(ids) != total {
		return apperr.Validation("total_problems (%d) must equal the number of problem_ids (%d)", total, len(ids))
	}
	if mapset.NewThreadUnsafeSet(ids...).Cardinality() != len(ids) {
		return apperr.Validation("problem_ids must not contain duplicates")
	}
	missing, err := e.problems.Missing(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return apperr.Validation("unknown problems: %s", strings.Join(missing, ", ")).
			WithDetails(map[string][]string{"missing_problem_ids": missing})
	}
	return nil
}

func (e *Engine) Get(ctx context.Context, contestID string) (*ContestDetail, error) {
	c, err := database.GetContest(e.tx(ctx), contestID)
	if err != nil {
		return nil, err
	}
	count, err := database.CountParticipations(e.tx(ctx), contestID)
	if err != nil {
		return nil, err
	}
	return &ContestDetail{Contest: withStatus(c, e.clock()), ParticipantCount: count}, nil
}

func (e *Engine) List(ctx context.Context, f ListFilter) (*ContestList, error) {
	filter := database.ContestFilter{Search: f.Search}
	switch s := models.ContestStatus(f.Status); s {
	case "", models.ContestUpcoming, models.ContestOngoing, models.ContestEnded:
		filter.Status = s
	default:
		return nil, apperr.Validation("status must be one of upcoming, ongoing, ended")
	}
	switch d := models.Difficulty(f.Difficulty); d {
	case "", models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard, models.DifficultyMixed:
		filter.Difficulty = d
	default:
		return nil, apperr.Validation("difficulty must be one of easy, medium, hard, mixed")
	}
	filter.Limit, filter.Skip = e.page(f.Limit, f.Skip)

	now := e.clock()
	contests, total, err := database.ListContests(e.tx(ctx), filter, now)
	if err != nil {
		return nil, err
	}
	for i := range contests {
		withStatus(&contests[i], now)
	}
	if contests == nil {
		contests = []models.Contest{}
	}
	return &ContestList{
		Contests:   contests,
		Pagination: ListPagination{
			Total:   total,
			Limit:   filter.Limit,
			Skip:    filter.Skip,
			HasMore: int64(filter.Skip+len(contests)) < total,
		},
	}, nil
}

// All returns every contest with its resolved status, newest first.
func (e *Engine) All(ctx context.Context) ([]models.Contest, error) {
	contests, err := database.GetAllContests(e.tx(ctx))
	if err != nil {
		return nil, err
	}
	now := e.clock()
	for i := range contests {
		withStatus(&contests[i], now)
	}
	return contests, nil
}

// Update applies a patch. Only the creator may update, and only while the contest is upcoming.
func (e *Engine) Update(ctx context.Context, contestID, requesterID string, in UpdateInput) (*models.Contest, error) {
	db := e.tx(ctx)
	c, err := database.GetContest(db, contestID)
	if err != nil {
		return nil, err
	}
	if c.CreatorID != requesterID {
		return nil, apperr.Forbidden("only the contest creator can update this contest")
	}
	now := e.clock()
	if ResolveStatus(now, c.StartTime, c.EndTime) != models.ContestUpcoming {
		return nil, apperr.InvalidState("contest can only be modified before it starts")
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	start, end := c.StartTime, c.EndTime
	if in.StartTime != nil {
		start = in.StartTime.UTC()
		if start.Before(now) {
			return nil, apperr.Validation("start_time must not be in the past")
		}
		updates["start_time"] = start
	}
	if in.EndTime != nil {
		end = in.EndTime.UTC()
		updates["end_time"] = end
	}
	if !start.Before(end) {
		return nil, apperr.Validation("start_time must be before end_time")
	}

	if in.ProblemIDs != nil || in.TotalProblems != nil {
		ids := []string(c.ProblemIDs)
		if in.ProblemIDs != nil {
			ids = in.ProblemIDs
		}
		total := len(ids)
		if in.TotalProblems != nil {
			total = *in.TotalProblems
		}
		if err := e.checkProblems(ctx, ids, total); err != nil {
			return nil, err
		}
		updates["problem_ids"] = models.StringList(ids)
		updates["total_problems"] = total
	}

	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
		updates["slug"] = contestSlug(*in.Title, c.ID)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Difficulty != nil {
		updates["difficulty"] = *in.Difficulty
	}
	if in.MaxParticipants != nil {
		updates["max_participants"] = *in.MaxParticipants
	}
	if in.Rules != nil {
		updates["rules"] = *in.Rules
	}
	if in.Rewards != nil {
		updates["rewards"] = *in.Rewards
	}
	updates["status"] = ResolveStatus(now, start, end)

	if err := database.UpdateUpcomingContest(db, contestID, now, updates); err != nil {
		return nil, err
	}
	e.invalidate(ctx, contestID)
	updated, err := database.GetContest(db, contestID)
	if err != nil {
		return nil, err
	}
	zap.S().Infof("user %s updated contest '%s'", requesterID, contestID)
	return withStatus(updated, now), nil
}

// Delete removes a contest and everything recorded against it. Only the creator may delete.
func (e *Engine) Delete(ctx context.Context, contestID, requesterID string) error {
	db := e.tx(ctx)
	c, err := database.GetContest(db, contestID)
	if err != nil {
		return err
	}
	if c.CreatorID != requesterID {
		return apperr.Forbidden("only the contest creator can delete this contest")
	}
	if err := database.DeleteContestCascade(db, contestID); err != nil {
		return err
	}
	e.invalidate(ctx, contestID)
	zap.S().Warnf("user %s deleted contest '%s'", requesterID, contestID)
	return nil
}
