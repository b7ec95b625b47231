package http

import "github.com/sentinelai/sentinel-backend/internal/zone_navigation/service"

// Handler handles HTTP requests for building navigation
type Handler struct {
	nav   *service.NavigationService
	title string
}

func New(nav *service.NavigationService, title string) *Handler {
	return &Handler{nav: nav, title: title}
}

type statusBody struct {
	Status string `json:"status" binding:"required"`
}

type classificationBody struct {
	Classification string `json:"classification" binding:"required"`
}

type audioEventBody struct {
	ZoneID      *int     `json:"zone_id" binding:"required"`
	Label       string   `json:"label" binding:"required"`
	Probability *float64 `json:"probability" binding:"required"`
}

// routeResponse keeps NoRoute distinct from errors: found=false with a 200.
type routeResponse struct {
	Found     bool   `json:"found"`
	From      int    `json:"from"`
	To        *int   `json:"to,omitempty"`
	Path      []int  `json:"path"`
	Hops      int    `json:"hops"`
	Admission string `json:"admission,omitempty"`
}
