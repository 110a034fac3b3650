package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medcert-dashboard-go/internal/middleware"
	"medcert-dashboard-go/internal/region"
	"medcert-dashboard-go/pkg/model"
)

// RegionHandler handles region provisioning HTTP requests
type RegionHandler struct {
	regionService *region.RegionService
}

// NewRegionHandler creates a new region handler
func NewRegionHandler(regionService *region.RegionService) *RegionHandler {
	return &RegionHandler{
		regionService: regionService,
	}
}

// ListRegions handles GET /api/regions
func (h *RegionHandler) ListRegions(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	regions, err := h.regionService.ListRegions(actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, regions)
}

// CreateRegion handles POST /api/regions (admin only)
func (h *RegionHandler) CreateRegion(c *gin.Context) {
	var req model.RegionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and brigade_count are required"})
		return
	}

	created, err := h.regionService.CreateRegion(req.Name, req.BrigadeCount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ResizeRegion handles PATCH /api/regions/:id (admin only)
func (h *RegionHandler) ResizeRegion(c *gin.Context) {
	regionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid region ID"})
		return
	}

	var req model.RegionResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brigade_count is required"})
		return
	}

	updated, err := h.regionService.ResizeRegion(regionID, req.BrigadeCount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteRegion handles DELETE /api/regions/:id (admin only)
func (h *RegionHandler) DeleteRegion(c *gin.Context) {
	regionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid region ID"})
		return
	}

	if err := h.regionService.DeleteRegion(regionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
