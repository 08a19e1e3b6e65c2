package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projecthub/project-hub-backend/internal/api/middleware"
	"github.com/projecthub/project-hub-backend/internal/models"
	"github.com/projecthub/project-hub-backend/internal/service"
)

// ============================================
// User Handler
// ============================================

type UserHandler struct {
	userService service.UserService
}

// List - Users of the caller's company
// GET /users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch users")
		return
	}

	response := make([]models.UserResponse, len(users))
	for i, u := range users {
		response[i] = toUserResponse(u)
	}
	c.JSON(http.StatusOK, response)
}

// Create - Add a user to the caller's company (admin only)
// POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.Create(c.Request.Context(), middleware.GetTenantID(c), middleware.GetRole(c), service.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Get - Get a user by ID
// GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// ============================================
// Company Handler
// ============================================

type CompanyHandler struct {
	companyService service.CompanyService
}

// List - The caller's company
// GET /companies
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.companyService.List(c.Request.Context(), middleware.GetTenantID(c))
	if err != nil {
		respondError(c, err, "Failed to fetch companies")
		return
	}

	response := make([]models.CompanyResponse, len(companies))
	for i, co := range companies {
		response[i] = toCompanyResponse(co)
	}
	c.JSON(http.StatusOK, response)
}

// Get - Get a company by ID
// GET /companies/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.Get(c.Request.Context(), middleware.GetTenantID(c), id)
	if err != nil {
		respondError(c, err, "Failed to fetch company")
		return
	}

	c.JSON(http.StatusOK, toCompanyResponse(company))
}
