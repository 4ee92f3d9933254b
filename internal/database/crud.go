package database

import (
	"errors"

	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/database/models"
	"gorm.io/gorm"
)

// translate maps storage failures onto the error taxonomy so gorm errors never leave this package.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		e := apperr.NotFound("%s not found", what)
		e.Err = err
		return e
	case errors.Is(err, gorm.ErrDuplicatedKey):
		e := apperr.Duplicate("%s already exists", what)
		e.Err = err
		return e
	default:
		return apperr.Internal(err, "failed to access %s", what)
	}
}

// User CRUD
func CreateUser(db *gorm.DB, user *models.User) error {
	return translate(db.Create(user).Error, "user")
}

func GetUserByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func GetUserByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func GetAllUsers(db *gorm.DB, query string) ([]models.User, error) {
	var users []models.User
	q := db.Order("created_at asc")
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("id = ? OR username LIKE ? OR nickname LIKE ?", query, like, like)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, translate(err, "users")
	}
	return users, nil
}

func UpdateUserRole(db *gorm.DB, userID string, role models.Role) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		return translate(result.Error, "user")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// Problem catalog
func CreateProblem(db *gorm.DB, problem *models.Problem) error {
	return translate(db.Create(problem).Error, "problem")
}

func GetProblem(db *gorm.DB, id string) (*models.Problem, error) {
	var problem models.Problem
	if err := db.Where("id = ?", id).First(&problem).Error; err != nil {
		return nil, translate(err, "problem")
	}
	return &problem, nil
}

func GetAllProblems(db *gorm.DB) ([]models.Problem, error) {
	var problems []models.Problem
	if err := db.Order("created_at asc").Find(&problems).Error; err != nil {
		return nil, translate(err, "problems")
	}
	return problems, nil
}

// FindExistingProblemIDs returns the subset of ids present in the catalog.
func FindExistingProblemIDs(db *gorm.DB, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	var found []string
	if err := db.Model(&models.Problem{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, translate(err, "problems")
	}
	return found, nil
}

func UpdateUserNickname(db *gorm.DB, userID, nickname string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("nickname", nickname)
	if result.Error != nil {
		return translate(result.Error, "user")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func UpdateUserPassword(db *gorm.DB, userID, passwordHash string) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("password_hash", passwordHash)
	if result.Error != nil {
		return translate(result.Error, "user")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
