package admin

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leetarena/arena/internal/apperr"
	"github.com/leetarena/arena/internal/util"
)

// getAllContests returns every contest, regardless of its window, newest first.
func (h *Handler) getAllContests(c *gin.Context) {
	contests, err := h.engine.All(c.Request.Context())
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, contests, "All contests retrieved")
}

func (h *Handler) getContest(c *gin.Context) {
	detail, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, detail, "Contest details retrieved")
}

func (h *Handler) getContestLeaderboard(c *gin.Context) {
	limit, err1 := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, err2 := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err1 != nil || err2 != nil {
		util.Error(c, apperr.Validation("limit and offset must be integers"))
		return
	}
	board, err := h.engine.Leaderboard(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, board, "Leaderboard retrieved successfully")
}
