package user

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

func (h *Handler) getAuthStatus(c *gin.Context) {
	util.Success(c, gin.H{
		"local_auth_enabled": h.cfg.Auth.Local.Enabled,
	}, "Auth status retrieved")
}

func (h *Handler) localRegister(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=32"`
		Password string `json:"password" binding:"required,min=6"`
		Nickname string `json:"nickname" binding:"max=64"`
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

	newUser := models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hashedPassword,
		Nickname:     req.Nickname,
		Role:         models.RoleUser,
	}
	if newUser.Nickname == "" {
		newUser.Nickname = newUser.Username
	}

	if err := database.CreateUser(h.db.WithContext(c.Request.Context()), &newUser); err != nil {
		if apperr.CodeOf(err) == apperr.CodeDuplicate {
			util.Error(c, apperr.Duplicate("username already exists"))
			return
		}
		util.Error(c, err)
		return
	}

	zap.S().Infof("new local user registered: %s", newUser.Username)
	util.Created(c, gin.H{"id": newUser.ID, "username": newUser.Username}, "User registered successfully")
}

func (h *Handler) localLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, contest.ValidationError(err))
		return
	}

	user, err := database.GetUserByUsername(h.db.WithContext(c.Request.Context()), req.Username)
	if err != nil {
		if apperr.CodeOf(err) == apperr.CodeNotFound {
			util.Error(c, apperr.Unauthenticated("invalid username or password"))
		} else {
			util.Error(c, err)
		}
		return
	}

	if user.PasswordHash == "" || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		util.Error(c, apperr.Unauthenticated("invalid username or password"))
		return
	}

	jwtToken, err := auth.GenerateJWT(user.ID, user.Role, h.cfg.Auth.JWT.Secret, h.cfg.Auth.JWT.ExpireHours)
	if err != nil {
		util.Error(c, apperr.Internal(err, "failed to generate JWT"))
		return
	}
	util.Success(c, gin.H{"token": jwtToken}, "Login successful")
}
