package user

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/leetarena/arena/internal/contest"
	"github.com/leetarena/arena/internal/database"
	"github.com/leetarena/arena/internal/util"
)

func (h *Handler) getUserProfile(c *gin.Context) {
	user, err := database.GetUserByID(h.db.WithContext(c.Request.Context()), currentUser(c))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, user, "ok")
}

func (h *Handler) updateUserProfile(c *gin.Context) {
	var reqBody struct {
		Nickname string `json:"nickname" binding:"required,max=64"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		util.Error(c, contest.ValidationError(err))
		return
	}

	db := h.db.WithContext(c.Request.Context())
	if err := database.UpdateUserNickname(db, currentUser(c), strings.TrimSpace(reqBody.Nickname)); err != nil {
		util.Error(c, err)
		return
	}
	user, err := database.GetUserByID(db, currentUser(c))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, user, "Profile updated")
}
