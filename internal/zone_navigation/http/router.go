package http

import "github.com/gin-gonic/gin"

// Register registers the read-only routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/zones", h.ListZones)
	rg.GET("/zones/:id", h.GetZone)
	rg.GET("/zones/:id/neighbors", h.GetNeighbors)
	rg.GET("/doors", h.ListDoors)

	rg.GET("/route", h.GetRoute)

	rg.GET("/events/recent", h.RecentEvents)
	rg.GET("/incidents", h.ListIncidents)

	rg.GET("/graph.dot", h.GraphDOT)
	rg.GET("/graph.json", h.GraphJSON)
}

// RegisterOperatorRoutes registers the routes that change building state from the
// control room. Callers wrap rg with auth.
func (h *Handler) RegisterOperatorRoutes(rg *gin.RouterGroup) {
	rg.PUT("/zones/:id/status", h.SetZoneStatus)
	rg.PUT("/zones/:id/classification", h.SetZoneClassification)
	rg.PUT("/doors/:id/status", h.SetDoorStatus)
}

// RegisterCollaboratorRoutes registers routes called by the voice agent and the
// audio detector, not by end users. Callers wrap rg with auth and rate limits.
func (h *Handler) RegisterCollaboratorRoutes(rg *gin.RouterGroup) {
	rg.POST("/agent/tools", h.AgentToolCall)
	rg.POST("/events/audio", h.AudioEvent)
}
