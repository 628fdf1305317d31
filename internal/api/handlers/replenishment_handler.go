package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/w4l-ops/fba-replenish/internal/repository/postgres"
	"github.com/w4l-ops/fba-replenish/internal/service"
)

type ReplenishmentHandler struct {
	svc *service.ReplenishmentService
}

func NewReplenishmentHandler(svc *service.ReplenishmentService) *ReplenishmentHandler {
	return &ReplenishmentHandler{svc: svc}
}

func (h *ReplenishmentHandler) GetLatest(c *gin.Context) {
	snapshot, err := h.svc.LatestSnapshot(c.Request.Context())
	if errors.Is(err, postgres.ErrNoSnapshots) {
		errorResponse(c, http.StatusNotFound, "no snapshots available")
		return
	}
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *ReplenishmentHandler) GetSnapshot(c *gin.Context) {
	runDate, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid or missing date, expected YYYY-MM-DD")
		return
	}

	rows, err := h.svc.Snapshot(c.Request.Context(), runDate)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"run_date": runDate.Format("2006-01-02"),
		"rows":     rows,
	})
}

func (h *ReplenishmentHandler) GetAvailableDates(c *gin.Context) {
	limit := 30
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			errorResponse(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	dates, err := h.svc.AvailableDates(c.Request.Context(), limit)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.Format("2006-01-02"))
	}
	c.JSON(http.StatusOK, gin.H{"dates": formatted})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}
