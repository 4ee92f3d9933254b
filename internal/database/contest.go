package database

import (
	"strings"
	"time"

	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// Contest CRUD
func CreateContest(db *gorm.DB, contest *models.Contest) error {
	return translate(db.Create(contest).Error, "contest")
}

func GetContest(db *gorm.DB, id string) (*models.Contest, error) {
	var contest models.Contest
	if err := db.Where("id = ?", id).First(&contest).Error; err != nil {
		return nil, translate(err, "contest")
	}
	return &contest, nil
}

// ContestFilter narrows a contest listing. Status is matched against the time window, not the stored column.
type ContestFilter struct {
	Status     models.ContestStatus
	Difficulty models.Difficulty
	Search     string
	Limit      int
	Skip       int
}

func ListContests(db *gorm.DB, filter ContestFilter, now time.Time) ([]models.Contest, int64, error) {
	q := db.Model(&models.Contest{})
	switch filter.Status {
	case models.ContestUpcoming:
		q = q.Where("start_time > ?", now)
	case models.ContestOngoing:
		q = q.Where("start_time <= ? AND end_time > ?", now, now)
	case models.ContestEnded:
		q = q.Where("end_time <= ?", now)
	}
	if filter.Difficulty != "" {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err, "contests")
	}

	var contests []models.Contest
	if err := q.Order("start_time asc, id asc").Limit(filter.Limit).Offset(filter.Skip).Find(&contests).Error; err != nil {
		return nil, 0, translate(err, "contests")
	}
	return contests, total, nil
}

func GetAllContests(db *gorm.DB) ([]models.Contest, error) {
	var contests []models.Contest
	if err := db.Order("start_time desc").Find(&contests).Error; err != nil {
		return nil, translate(err, "contests")
	}
	return contests, nil
}

// UpdateUpcomingContest applies updates only while the contest has not started at now and,
// when the cap changes, only if the cap still covers the admitted participants.
func UpdateUpcomingContest(db *gorm.DB, id string, now time.Time, updates map[string]interface{}) error {
	q := db.Model(&models.Contest{}).Where("id = ? AND start_time > ?", id, now)
	if limit, ok := updates["max_participants"]; ok && limit != nil {
		q = q.Where("current_participants <= ?", limit)
	}
	result := q.Updates(updates)
	if result.Error != nil {
		return translate(result.Error, "contest")
	}
	if result.RowsAffected == 1 {
		return nil
	}

	// Nothing matched: find out which guard rejected the write.
	current, err := GetContest(db, id)
	if err != nil {
		return err
	}
	if !current.StartTime.After(now) {
		return apperr.InvalidState("contest can only be modified before it starts")
	}
	return apperr.Validation("max_participants cannot be lower than the %d registered participants", current.CurrentParticipants)
}

// DeleteContestCascade removes the contest together with its submissions and participations.
func DeleteContestCascade(db *gorm.DB, id string) error {
	return translate(db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contest_id = ?", id).Delete(&models.ContestSubmission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contest_id = ?", id).Delete(&models.ContestParticipation{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Contest{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}), "contest")
}

// Participations

func GetParticipation(db *gorm.DB, contestID, userID string) (*models.ContestParticipation, error) {
	var p models.ContestParticipation
	if err := db.Where("contest_id = ? AND user_id = ?", contestID, userID).First(&p).Error; err != nil {
		return nil, translate(err, "participation")
	}
	return &p, nil
}

func IsUserRegisteredForContest(db *gorm.DB, userID, contestID string) (bool, error) {
	var count int64
	err := db.Model(&models.ContestParticipation{}).
		Where("contest_id = ? AND user_id = ?", contestID, userID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "participation")
	}
	return count > 0, nil
}

func CountParticipations(db *gorm.DB, contestID string) (int64, error) {
	var count int64
	if err := db.Model(&models.ContestParticipation{}).Where("contest_id = ?", contestID).Count(&count).Error; err != nil {
		return 0, translate(err, "participations")
	}
	return count, nil
}

// AdmitParticipant takes a seat and inserts the participation in one transaction.
// The seat is taken with a conditional increment, so the cap holds under concurrent registrations.
func AdmitParticipant(db *gorm.DB, p *models.ContestParticipation, status models.ContestStatus) error {
	return translate(db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Contest{}).
			Where("id = ? AND (max_participants IS NULL OR current_participants < max_participants)", p.ContestID).
			Updates(map[string]interface{}{
				"current_participants": gorm.Expr("current_participants + 1"),
				"status":               status,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&models.Contest{}).Where("id = ?", p.ContestID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return apperr.NotFound("contest not found")
			}
			return apperr.CapacityExceeded("contest has reached its maximum number of participants")
		}

		if err := tx.Create(p).Error; err != nil {
			return translate(err, "participation")
		}
		return nil
	}), "participation")
}

// RecordSubmission appends the submission to the log and folds it into the participation rollup.
// Both writes commit together or not at all.
func RecordSubmission(db *gorm.DB, sub *models.ContestSubmission, elapsedSeconds int64) error {
	return translate(db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sub).Error; err != nil {
			return translate(err, "submission")
		}

		updates := map[string]interface{}{
			"score":               gorm.Expr("score + ?", sub.Score),
			"total_score":         gorm.Expr("total_score + ?", sub.Score),
			"solutions_submitted": gorm.Expr("solutions_submitted + 1"),
		}
		if sub.Score > 0 {
			updates["time_spent"] = gorm.Expr("CASE WHEN time_spent < ? THEN ? ELSE time_spent END", elapsedSeconds, elapsedSeconds)
		}
		result := tx.Model(&models.ContestParticipation{}).
			Where("contest_id = ? AND user_id = ?", sub.ContestID, sub.UserID).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.Forbidden("you must register for the contest before submitting")
		}
		return nil
	}), "submission")
}

func GetContestSubmissions(db *gorm.DB, contestID, userID string) ([]models.ContestSubmission, error) {
	var subs []models.ContestSubmission
	if err := db.Where("contest_id = ? AND user_id = ?", contestID, userID).
		Order("submitted_at desc, id desc").
		Find(&subs).Error; err != nil {
		return nil, translate(err, "submissions")
	}
	return subs, nil
}

// ReconcileParticipation rebuilds a participation rollup from the submission log.
// startTime is the contest start, used to derive time_spent.
func ReconcileParticipation(db *gorm.DB, contestID, userID string, startTime time.Time) (*models.ContestParticipation, error) {
	var reconciled models.ContestParticipation
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("contest_id = ? AND user_id = ?", contestID, userID).
			First(&reconciled).Error; err != nil {
			return translate(err, "participation")
		}

		var subs []models.ContestSubmission
		if err := tx.Select("score", "submitted_at").
			Where("contest_id = ? AND user_id = ?", contestID, userID).
			Find(&subs).Error; err != nil {
			return err
		}

		score, timeSpent := 0, int64(0)
		for _, s := range subs {
			score += s.Score
			if s.Score > 0 {
				if elapsed := ElapsedSeconds(startTime, s.SubmittedAt); elapsed > timeSpent {
					timeSpent = elapsed
				}
			}
		}

		reconciled.Score = score
		reconciled.TotalScore = score
		reconciled.SolutionsSubmitted = len(subs)
		reconciled.TimeSpent = timeSpent
		return tx.Model(&models.ContestParticipation{}).
			Where("id = ?", reconciled.ID).
			Updates(map[string]interface{}{
				"score":               score,
				"total_score":         score,
				"solutions_submitted": len(subs),
				"time_spent":          timeSpent,
			}).Error
	})
	if err != nil {
		return nil, translate(err, "participation")
	}
	return &reconciled, nil
}

// ListParticipantIDs returns the user ids registered for a contest.
func ListParticipantIDs(db *gorm.DB, contestID string) ([]string, error) {
	var ids []string
	if err := db.Model(&models.ContestParticipation{}).
		Where("contest_id = ?", contestID).
		Order("joined_at asc").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, translate(err, "participations")
	}
	return ids, nil
}

// ElapsedSeconds is the whole seconds between the contest start and t, never negative.
func ElapsedSeconds(start, t time.Time) int64 {
	d := t.Sub(start)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
