package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/klaxon-core/internal/models"
	"github.com/platformbuilds/klaxon-core/internal/services"
	"github.com/platformbuilds/klaxon-core/pkg/logger"
)

type AlarmsHandler struct {
	catalog *services.DefinitionsService
	search  *services.SearchService
	logger  logger.Logger
}

// NewAlarmsHandler serves catalog reads. search may be nil when the search
// index is disabled.
func NewAlarmsHandler(catalog *services.DefinitionsService, search *services.SearchService, logger logger.Logger) *AlarmsHandler {
	return &AlarmsHandler{
		catalog: catalog,
		search:  search,
		logger:  logger,
	}
}

type alarmSummary struct {
	Name       string   `json:"name"`
	Index      int      `json:"index"`
	Cause      string   `json:"cause"`
	Severities []string `json:"severities"`
}

type levelDetail struct {
	Severity    string `json:"severity"`
	ITUCode     int    `json:"itu_code"`
	ModelState  int    `json:"model_state"`
	OID         string `json:"oid"`
	Description string `json:"description"`
	Details     string `json:"details"`
	Cause       string `json:"cause"`
	Effect      string `json:"effect"`
	Action      string `json:"action"`
}

type alarmDetail struct {
	Name   string        `json:"name"`
	Index  int           `json:"index"`
	Cause  string        `json:"cause"`
	Levels []levelDetail `json:"levels"`
}

// List returns one summary per catalog alarm, in catalog order.
func (h *AlarmsHandler) List(c *gin.Context) {
	alarms := h.catalog.Alarms()
	summaries := make([]alarmSummary, 0, len(alarms))
	for _, a := range alarms {
		summaries = append(summaries, summarizeAlarm(a))
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"count":  len(summaries),
		"alarms": summaries,
	})
}

// Get returns one alarm with all of its severity levels.
func (h *AlarmsHandler) Get(c *gin.Context) {
	name := c.Param("name")
	alarm, ok := h.catalog.Alarm(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error",
			"error":  "alarm not found",
			"name":   name,
		})
		return
	}

	detail := alarmDetail{
		Name:   alarm.Name,
		Index:  alarm.Index,
		Cause:  alarm.CauseText,
		Levels: make([]levelDetail, 0, len(alarm.Levels)),
	}
	for _, l := range alarm.Levels {
		detail.Levels = append(detail.Levels, levelDetail{
			Severity:    string(l.Severity),
			ITUCode:     l.ITUCode,
			ModelState:  l.ModelState,
			OID:         l.FullOID(),
			Description: l.Description,
			Details:     l.Details,
			Cause:       l.Cause,
			Effect:      l.Effect,
			Action:      l.Action,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"alarm":  detail,
	})
}

// Search answers full-text queries against the alarm index.
func (h *AlarmsHandler) Search(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"error":  "search is disabled",
		})
		return
	}

	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "query parameter 'q' is required",
		})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"status": "error",
				"error":  "limit must be a non-negative integer",
			})
			return
		}
		limit = n
	}

	resp, err := h.search.Search(c.Request.Context(), q, limit)
	if err != nil {
		h.logger.Error("alarm search failed", "query", q, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "search failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"query":   resp.Query,
		"total":   resp.Total,
		"took_ms": resp.TookMs,
		"results": resp.Results,
	})
}

func summarizeAlarm(a *models.Alarm) alarmSummary {
	severities := make([]string, 0, len(a.Levels))
	for _, l := range a.Levels {
		severities = append(severities, string(l.Severity))
	}
	return alarmSummary{
		Name:       a.Name,
		Index:      a.Index,
		Cause:      a.CauseText,
		Severities: severities,
	}
}
