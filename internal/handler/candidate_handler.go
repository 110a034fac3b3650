package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medcert-dashboard-go/internal/candidate"
	"medcert-dashboard-go/internal/middleware"
	"medcert-dashboard-go/pkg/model"
)

// CandidateHandler handles candidate slot HTTP requests
type CandidateHandler struct {
	candidateService *candidate.CandidateService
}

// NewCandidateHandler creates a new candidate handler
func NewCandidateHandler(candidateService *candidate.CandidateService) *CandidateHandler {
	return &CandidateHandler{
		candidateService: candidateService,
	}
}

// ListCandidates handles GET /api/candidates
func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var filter candidate.ListFilter
	if v := c.Query("region_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid region_id"})
			return
		}
		filter.RegionID = &id
	}
	if v := c.Query("brigade_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brigade_id"})
			return
		}
		filter.BrigadeID = &id
	}
	filter.Profession = c.Query("profession")
	filter.Search = c.Query("search")

	candidates, err := h.candidateService.ListCandidates(actor, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// UpdateCandidate handles PATCH /api/candidates/:id
func (h *CandidateHandler) UpdateCandidate(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	candidateID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid candidate ID"})
		return
	}

	var req model.CandidateUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updated, err := h.candidateService.UpdateCandidate(actor, candidateID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ImportCandidates handles POST /api/candidates/import. The roster arrives
// as a multipart CSV file with profession, mode and (for admins) region_id
// form fields.
func (h *CandidateHandler) ImportCandidates(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	profession := c.PostForm("profession")
	mode := c.PostForm("mode")
	if profession == "" || mode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profession and mode are required"})
		return
	}

	regionID := 0
	if v := c.PostForm("region_id"); v != "" {
		regionID, err = strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid region_id"})
			return
		}
	}

	rows, err := candidate.ParseRows(file)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.candidateService.Import(actor, regionID, profession, mode, rows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
