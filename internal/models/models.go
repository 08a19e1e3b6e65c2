package models

import "time"

// ============================================
// Auth DTOs
// ============================================

type RegisterCompanyRequest struct {
	CompanyName string  `json:"companyName" binding:"required,min=2,max=255"`
	Website     *string `json:"website" binding:"omitempty,url"`
	FirstName   string  `json:"firstName" binding:"required,max=100"`
	LastName    string  `json:"lastName" binding:"required,max=100"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse keeps the token field names clients of the original API use.
type AuthResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	TokenType    string           `json:"token_type"`
	ExpiresIn    int64            `json:"expires_in"`
	User         UserResponse     `json:"user"`
	Company      *CompanyResponse `json:"company,omitempty"`
	Message      string           `json:"message"`
}

// ============================================
// User DTOs
// ============================================

type UserResponse struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenantId"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Role      string `json:"role" binding:"omitempty,oneof=admin developer client"`
}

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   *string   `json:"website,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ============================================
// Common Response Types
// ============================================

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// PageQuery binds ?page=&limit= with the defaults applied by Normalize.
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

const (
	DefaultPageSize = 20
)

// Normalize fills in defaults and returns the SQL offset.
func (q *PageQuery) Normalize() (limit, offset int) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	return q.Limit, (q.Page - 1) * q.Limit
}

type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type PaginatedResponse struct {
	Data interface{} `json:"data"`
	Meta PageMeta    `json:"meta"`
}

// ============================================
// Utility Functions
// ============================================

func NewPaginatedResponse(data interface{}, total, page, perPage int) PaginatedResponse {
	totalPages := 0
	if perPage > 0 {
		totalPages = total / perPage
		if total%perPage > 0 {
			totalPages++
		}
	}
	return PaginatedResponse{
		Data: data,
		Meta: PageMeta{
			Total:      total,
			Page:       page,
			Limit:      perPage,
			TotalPages: totalPages,
		},
	}
}
