package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/graph/export"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/service"
)

// ListZones returns every zone with its live state
func (h *Handler) ListZones(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"zones": h.nav.Zones()})
}

// GetZone returns a single zone
func (h *Handler) GetZone(c *gin.Context) {
	id, ok := zoneParam(c)
	if !ok {
		return
	}
	zone, err := h.nav.Zone(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"zone": zone})
}

func (h *Handler) GetNeighbors(c *gin.Context) {
	id, ok := zoneParam(c)
	if !ok {
		return
	}
	nbrs, err := h.nav.Neighbors(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"zone_id": id, "neighbors": nbrs})
}

// SetZoneStatus opens or closes a zone
func (h *Handler) SetZoneStatus(c *gin.Context) {
	id, ok := zoneParam(c)
	if !ok {
		return
	}
	var body statusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	st, err := domain.ParseStatus(body.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	zone, err := h.nav.SetZoneStatus(c.Request.Context(), id, st, domain.SourceOperator)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"zone": zone})
}

// SetZoneClassification marks a zone safe, cautious or dangerous
func (h *Handler) SetZoneClassification(c *gin.Context) {
	id, ok := zoneParam(c)
	if !ok {
		return
	}
	var body classificationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	cl, err := domain.ParseClassification(body.Classification)
	if err != nil {
		writeError(c, err)
		return
	}
	zone, err := h.nav.MarkZone(c.Request.Context(), id, cl, domain.SourceOperator)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"zone": zone})
}

func (h *Handler) ListDoors(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"doors": h.nav.Doors()})
}

// SetDoorStatus locks or unlocks a door
func (h *Handler) SetDoorStatus(c *gin.Context) {
	raw, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "door ID must be an integer"})
		return
	}
	var body statusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	st, err := domain.ParseStatus(body.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	door, err := h.nav.SetDoorStatus(c.Request.Context(), domain.DoorID(raw), st, domain.SourceOperator)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"door": door})
}

// GetRoute plans a route. Without "to" it targets the nearest exit.
func (h *Handler) GetRoute(c *gin.Context) {
	from, err := strconv.Atoi(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'from' must be an integer"})
		return
	}

	var to *domain.ZoneID
	if s := c.Query("to"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'to' must be an integer"})
			return
		}
		z := domain.ZoneID(v)
		to = &z
	}

	route, err := h.nav.Route(c.Request.Context(), domain.ZoneID(from), to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRouteResponse(domain.ZoneID(from), to, route))
}

func (h *Handler) RecentEvents(c *gin.Context) {
	n, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	events, err := h.nav.RecentEvents(c.Request.Context(), n)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *Handler) ListIncidents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	var zone *domain.ZoneID
	if s := c.Query("zone_id"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'zone_id' must be an integer"})
			return
		}
		z := domain.ZoneID(v)
		zone = &z
	}

	incidents, err := h.nav.Incidents(c.Request.Context(), zone, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"incidents": incidents})
}

// GraphDOT renders the building, highlighting the route when "from" is given.
func (h *Handler) GraphDOT(c *gin.Context) {
	route := domain.NoRoute
	if s := c.Query("from"); s != "" {
		from, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'from' must be an integer"})
			return
		}
		route, err = h.nav.Route(c.Request.Context(), domain.ZoneID(from), nil)
		if err != nil {
			writeError(c, err)
			return
		}
	}
	c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", []byte(export.ToDOT(h.nav.Graph(), h.title, route)))
}

func (h *Handler) GraphJSON(c *gin.Context) {
	c.JSON(http.StatusOK, export.ToSnapshot(h.nav.Graph()))
}

func zoneParam(c *gin.Context) (domain.ZoneID, bool) {
	v, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "zone ID must be an integer"})
		return 0, false
	}
	return domain.ZoneID(v), true
}

func toRouteResponse(from domain.ZoneID, to *domain.ZoneID, r domain.Route) routeResponse {
	resp := routeResponse{
		Found:     r.Found(),
		From:      int(from),
		Path:      make([]int, 0, len(r.Path)),
		Hops:      r.Hops(),
		Admission: string(r.Admission),
	}
	if to != nil {
		v := int(*to)
		resp.To = &v
	}
	for _, z := range r.Path {
		resp.Path = append(resp.Path, int(z))
	}
	return resp
}

// writeError maps domain and service errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownZone), errors.Is(err, domain.ErrUnknownDoor):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidClassification),
		errors.Is(err, service.ErrUnknownTool),
		errors.Is(err, service.ErrInvalidArguments):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrFeatureDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Printf("[nav] request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
