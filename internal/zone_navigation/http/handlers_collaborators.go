package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
)

// AgentToolCall applies an open_door, close_door or mark_zone call from the voice agent
func (h *Handler) AgentToolCall(c *gin.Context) {
	var call domain.ToolCall
	if err := c.ShouldBindJSON(&call); err != nil || call.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.nav.ApplyToolCall(c.Request.Context(), call)
	if err != nil {
		writeError(c, err)
		return
	}

	out := gin.H{"result": res}
	if res.Route != nil {
		out["route"] = toRouteResponse(*call.Location, nil, *res.Route)
	}
	c.JSON(http.StatusOK, out)
}

// AudioEvent receives a classified segment from the scream detector
func (h *Handler) AudioEvent(c *gin.Context) {
	var body audioEventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	applied, zone, err := h.nav.HandleAudioEvent(c.Request.Context(), domain.AudioEvent{
		ZoneID:      domain.ZoneID(*body.ZoneID),
		Label:       body.Label,
		Probability: *body.Probability,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"applied": applied, "zone": zone})
}
