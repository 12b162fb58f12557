package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adboard/internal/domain"
	"adboard/internal/service"
)

type LocationResponse struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	UserID int64    `json:"user_id"`
}

type locationRequest struct {
	UserID *int64   `json:"user_id"`
	Name   *string  `json:"name"`
	Lat    *float64 `json:"lat" binding:"omitempty,min=-90,max=90"`
	Lng    *float64 `json:"lng" binding:"omitempty,min=-180,max=180"`
}

func (r locationRequest) input() service.LocationInput {
	return service.LocationInput{
		UserID: r.UserID,
		Name:   r.Name,
		Lat:    r.Lat,
		Lng:    r.Lng,
	}
}

func (h *Handler) listLocations(c *gin.Context) {
	locations, err := h.locations.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]LocationResponse, len(locations))
	for i := range locations {
		resp[i] = locationToResponse(&locations[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getLocation(c *gin.Context) {
	id, err := pathID(c, "location")
	if err != nil {
		h.writeError(c, err)
		return
	}

	loc, err := h.locations.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, locationToResponse(loc))
}

func (h *Handler) createLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	loc, err := h.locations.Create(c.Request.Context(), req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, locationToResponse(loc))
}

func (h *Handler) updateLocation(c *gin.Context) {
	id, err := pathID(c, "location")
	if err != nil {
		h.writeError(c, err)
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	loc, err := h.locations.Update(c.Request.Context(), id, req.input())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, locationToResponse(loc))
}

func (h *Handler) deleteLocation(c *gin.Context) {
	id, err := pathID(c, "location")
	if err != nil {
		h.writeError(c, err)
		return
	}

	if err := h.locations.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusOK)
}

func locationToResponse(loc *domain.Location) LocationResponse {
	return LocationResponse{
		ID:     loc.ID,
		Name:   loc.Name,
		Lat:    loc.Lat,
		Lng:    loc.Lng,
		UserID: loc.UserID,
	}
}
