package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"medcert-dashboard-go/internal/auth"
	"medcert-dashboard-go/pkg/model"
)

// UserHandler handles administrator user-management HTTP requests. The
// routes are mounted behind the admin middleware.
type UserHandler struct {
	authService *auth.AuthService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *auth.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// ListUsers handles GET /api/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /api/admin/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "login, password and region_id are required"})
		return
	}

	user, err := h.authService.CreateRegionUser(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PATCH /api/admin/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req model.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.authService.UpdateUser(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
