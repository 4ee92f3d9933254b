package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/auth"
	"github.com/leetarena/arena/internal/contest"
	"github.com/leetarena/arena/internal/database"
	"github.com/leetarena/arena/internal/database/models"
	"github.com/leetarena/arena/internal/util"
	"go.uber.org/zap"
)

func (h *Handler) getAllUsers(c *gin.Context) {
	users, err := database.GetAllUsers(h.db.WithContext(c.Request.Context()), c.Query("query"))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, users, "Users retrieved successfully")
}

func (h *Handler) getUser(c *gin.Context) {
	user, err := database.GetUserByID(h.db.WithContext(c.Request.Context()), c.Param("id"))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, user, "User retrieved successfully")
}

func (h *Handler) createUser(c *gin.Context) {
	var req struct {
		Username string      `json:"username" binding:"required,min=3,max=32"`
		Password string      `json:"password" binding:"required,min=6"`
		Nickname string      `json:"nickname" binding:"max=64"`
		Role     models.Role `json:"role" binding:"omitempty,oneof=user admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, contest.ValidationError(err))
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		util.Error(c, apperr.Internal(err, "failed to hash password"))
		return
	}
	user := models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hashedPassword,
		Nickname:     req.Nickname,
		Role:         req.Role,
	}
	if user.Nickname == "" {
		user.Nickname = user.Username
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	if err := database.CreateUser(h.db.WithContext(c.Request.Context()), &user); err != nil {
		util.Error(c, err)
		return
	}
	zap.S().Infof("admin created user %s (%s) with role %s", user.Username, user.ID, user.Role)
	util.Created(c, user, "User created successfully")
}

func (h *Handler) updateUserRole(c *gin.Context) {
	var req struct {
		Role models.Role `json:"role" binding:"required,oneof=user admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, contest.ValidationError(err))
		return
	}

	userID := c.Param("id")
	db := h.db.WithContext(c.Request.Context())
	if err := database.UpdateUserRole(db, userID, req.Role); err != nil {
		util.Error(c, err)
		return
	}
	user, err := database.GetUserByID(db, userID)
	if err != nil {
		util.Error(c, err)
		return
	}
	zap.S().Warnf("admin changed role of user %s (%s) to %s", user.Username, user.ID, user.Role)
	util.Success(c, user, "User role updated successfully")
}

func (h *Handler) resetUserPassword(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, contest.ValidationError(err))
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		util.Error(c, apperr.Internal(err, "failed to hash new password"))
		return
	}
	userID := c.Param("id")
	if err := database.UpdateUserPassword(h.db.WithContext(c.Request.Context()), userID, hashedPassword); err != nil {
		util.Error(c, err)
		return
	}

	zap.S().Warnf("admin reset password for user %s", userID)
	util.Success(c, nil, "User password reset successfully")
}

func (h *Handler) registerUserForContest(c *gin.Context) {
	var req struct {
		ContestID string `json:"contest_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, contest.ValidationError(err))
		return
	}

	userID := c.Param("id")
	if _, err := database.GetUserByID(h.db.WithContext(c.Request.Context()), userID); err != nil {
		util.Error(c, err)
		return
	}
	p, err := h.engine.Register(c.Request.Context(), req.ContestID, userID)
	if err != nil {
		util.Error(c, err)
		return
	}

	zap.S().Infof("admin registered user %s for contest %s", userID, req.ContestID)
	util.Created(c, p, "Successfully registered user for contest")
}

func (h *Handler) getUserContestStats(c *gin.Context) {
	userID := c.Param("id")
	if _, err := database.GetUserByID(h.db.WithContext(c.Request.Context()), userID); err != nil {
		util.Error(c, err)
		return
	}
	stats, err := h.engine.UserStats(c.Request.Context(), userID)
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, stats, "User contest stats retrieved successfully")
}
