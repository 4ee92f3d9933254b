package user

import (
	"github.com/gin-gonic/gin"
	"github.com/leetarena/arena/internal/contest"
	"github.com/leetarena/arena/internal/util"
)

func (h *Handler) getAllContests(c *gin.Context) {
	var q struct {
		Status     string `form:"status"`
		Difficulty string `form:"difficulty"`
		Search     string `form:"search"`
		Limit      int    `form:"limit" binding:"min=0"`
		Skip       int    `form:"skip" binding:"min=0"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		util.Error(c, contest.ValidationError(err))
		return
	}

	list, err := h.engine.List(c.Request.Context(), contest.ListFilter{
		Status:     q.Status,
		Difficulty: q.Difficulty,
		Search:     q.Search,
		Limit:      q.Limit,
		Skip:       q.Skip,
	})
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, list, "Contests loaded")
}

func (h *Handler) getContest(c *gin.Context) {
	detail, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, detail, "Contest found")
}

func (h *Handler) createContest(c *gin.Context) {
	var in contest.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.Error(c, contest.ValidationError(err))
		return
	}
	created, err := h.engine.Create(c.Request.Context(), currentUser(c), in)
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Created(c, created, "Contest created successfully")
}

func (h *Handler) updateContest(c *gin.Context) {
	var in contest.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.Error(c, contest.ValidationError(err))
		return
	}
	updated, err := h.engine.Update(c.Request.Context(), c.Param("id"), currentUser(c), in)
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, updated, "Contest updated successfully")
}

func (h *Handler) deleteContest(c *gin.Context) {
	if err := h.engine.Delete(c.Request.Context(), c.Param("id"), currentUser(c)); err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, nil, "Contest deleted successfully")
}

func (h *Handler) registerForContest(c *gin.Context) {
	p, err := h.engine.Register(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Created(c, p, "Successfully registered for contest")
}

func (h *Handler) submitToContest(c *gin.Context) {
	var in contest.SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		util.Error(c, contest.ValidationError(err))
		return
	}
	sub, err := h.engine.Submit(c.Request.Context(), c.Param("id"), currentUser(c), in)
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Created(c, sub, "Submission recorded")
}

func (h *Handler) getContestSubmissions(c *gin.Context) {
	subs, err := h.engine.Submissions(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, subs, "Submissions retrieved successfully")
}

func (h *Handler) getContestLeaderboard(c *gin.Context) {
	var q struct {
		Limit  int `form:"limit" binding:"min=0"`
		Offset int `form:"offset" binding:"min=0"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		util.Error(c, contest.ValidationError(err))
		return
	}
	board, err := h.engine.Leaderboard(c.Request.Context(), c.Param("id"), q.Limit, q.Offset)
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, board, "Leaderboard retrieved successfully")
}

func (h *Handler) getContestResults(c *gin.Context) {
	res, err := h.engine.Results(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, res, "Results retrieved successfully")
}

func (h *Handler) getUserContestStats(c *gin.Context) {
	stats, err := h.engine.UserStats(c.Request.Context(), currentUser(c))
	if err != nil {
		util.Error(c, err)
		return
	}
	util.Success(c, stats, "Contest stats retrieved successfully")
}
