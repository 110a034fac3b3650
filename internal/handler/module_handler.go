package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medcert-dashboard-go/internal/middleware"
	"medcert-dashboard-go/internal/module"
	"medcert-dashboard-go/pkg/model"
)

// ModuleHandler handles module exam HTTP requests
type ModuleHandler struct {
	moduleService *module.ModuleService
}

// NewModuleHandler creates a new module handler
func NewModuleHandler(moduleService *module.ModuleService) *ModuleHandler {
	return &ModuleHandler{
		moduleService: moduleService,
	}
}

// ListModuleCandidates handles GET /api/modules?module_number=N
func (h *ModuleHandler) ListModuleCandidates(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	moduleNumber, err := strconv.Atoi(c.Query("module_number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid module_number"})
		return
	}

	list, err := h.moduleService.ListModuleCandidates(actor, moduleNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// SubmitResult handles POST /api/modules
func (h *ModuleHandler) SubmitResult(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req model.ModuleSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidate_id, module_number and status are required"})
		return
	}

	result, err := h.moduleService.SubmitResult(actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
