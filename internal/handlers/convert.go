package handlers

import (
	"errors"
	"net/http"

	"irforge/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusStarted = "started"

	errStartRun    = "failed to start conversion run"
	errGetRunState = "failed to load run state"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and include the current run state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, httpCode int, status string) {
	ctx := c.Request.Context()
	resp := gin.H{"status": status}
	st, err := h.services.RunStatus.GetState(ctx)
	if err == nil {
		resp["state"] = st
	}
	c.JSON(httpCode, resp)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Start conversion run
// @Description  Launches a conversion of the whole source corpus in the background. Only one run may be active at a time.
// @Tags         convert
// @Produce      json
// @Success      202  {object}  map[string]interface{}  "status, state"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/convert/run [post]
// @Security     BearerAuth
func (h *Handler) startConversion(c *gin.Context) {
	if err := h.services.Converter.Start(service.TriggerAPI); err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errStartRun, "convert_start_failed", err)
		return
	}
	h.respondWithStatusAndState(c, http.StatusAccepted, statusStarted)
}

// @Summary      Get conversion run state
// @Description  Current or last finished run with its counters.
// @Tags         convert
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/convert/state [get]
// @Security     BearerAuth
func (h *Handler) getRunState(c *gin.Context) {
	ctx := c.Request.Context()
	st, err := h.services.RunStatus.GetState(ctx)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetRunState, "run_state_failed", err)
		return
	}
	c.JSON(http.StatusOK, st)
}
