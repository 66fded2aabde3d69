package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Tiliavir/ponto/internal/apperr"
	"github.com/Tiliavir/ponto/internal/model"
	"github.com/Tiliavir/ponto/internal/timecalc"
)

type moveRequest struct {
	ColumnID string `json:"column_id" binding:"required"`
	Version  int64  `json:"version"`
}

// statusOf maps an error to its HTTP status and wire code.
func statusOf(err error) (int, string) {
	code := apperr.CodeOf(err)
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindBusinessRule:
		return http.StatusBadRequest, code
	case apperr.KindNotFound:
		return http.StatusNotFound, code
	case apperr.KindConflict:
		return http.StatusConflict, code
	}
	return http.StatusInternalServerError, "internal"
}

func (h *handler) fail(c *gin.Context, err error) {
	status, code := statusOf(err)
	if status == http.StatusInternalServerError {
		h.log.Errorw("request failed", "requestID", c.GetString("requestID"), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": code})
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "bad_request"})
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func parseDay(c *gin.Context, key string) (time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, errors.New(key + " is required")
	}
	d, err := time.Parse(timecalc.DateLayout, v)
	if err != nil {
		return time.Time{}, errors.New(key + " must be YYYY-MM-DD")
	}
	return d, nil
}

func (h *handler) listEntries(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		badRequest(c, errors.New("user_id is required"))
		return
	}
	from, err := parseDay(c, "from")
	if err != nil {
		badRequest(c, err)
		return
	}
	to, err := parseDay(c, "to")
	if err != nil {
		badRequest(c, err)
		return
	}
	entries, err := h.entries.ListEntries(c.Request.Context(), userID, from, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, entries)
}

func (h *handler) createEntry(c *gin.Context) {
	var in model.NewEntry
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.entries.CreateEntry(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, e)
}

func (h *handler) updateEntry(c *gin.Context) {
	var patch model.EntryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.entries.UpdateEntry(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, e)
}

func (h *handler) fetchBoards(c *gin.Context) {
	boards, err := h.boards.FetchBoards(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, boards)
}

func (h *handler) createCard(c *gin.Context) {
	var card model.Card
	if err := c.ShouldBindJSON(&card); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.boards.CreateCard(c.Request.Context(), c.Param("id"), card)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, created)
}

func (h *handler) moveCard(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	card, err := h.boards.MoveCard(c.Request.Context(), c.Param("id"), req.ColumnID, req.Version)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, card)
}

func (h *handler) updateCard(c *gin.Context) {
	var patch model.CardPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	card, err := h.boards.UpdateCard(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, http.StatusOK, card)
}

func (h *handler) deleteCard(c *gin.Context) {
	if err := h.boards.DeleteCard(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
