package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"conduit-backend/internal/domains/user"
	"conduit-backend/internal/shared/middleware"
	"conduit-backend/internal/shared/response"
)

// UserHandler xử lý HTTP requests cho user domain
// Stateless - chỉ chứa dependencies
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register xử lý POST /user/register
func (h *UserHandler) Register(c *gin.Context) {
	// STEP 1: PARSE REQUEST BODY
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// STEP 2: CALL SERVICE LAYER
	// Service validate, hash password, persist, issue tokens
	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// STEP 3: SUCCESS RESPONSE - 201 Created
	c.Header("Location", "/api/profile/"+res.User.Username)
	response.Success(c, http.StatusCreated, res)
}

// Login xử lý POST /user/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// RefreshToken xử lý POST /user/refresh
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req user.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	res, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// ========================================
// SELF-SERVICE ENDPOINTS
// ========================================

// GetCurrentUser xử lý GET /user
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	dto, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// UpdateUser xử lý PUT /user
// Chỉ các fields {email, username, password, image, bio} được phép update
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if req.IsEmpty() {
		response.BadRequest(c, "No updatable fields provided")
		return
	}

	dto, err := h.service.UpdateUser(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// ========================================
// PROFILE & FOLLOW ENDPOINTS
// ========================================

// GetProfile xử lý GET /profile/:username (public, personalized khi có token)
func (h *UserHandler) GetProfile(c *gin.Context) {
	username := c.Param("username")
	viewerID := middleware.GetUserID(c) // uuid.Nil cho anonymous

	profile, err := h.service.GetProfile(c.Request.Context(), username, viewerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": profile})
}

// FollowUser xử lý POST /profile/:username/follow
// 201 khi follow mới được tạo, 200 khi đã follow từ trước (idempotent)
func (h *UserHandler) FollowUser(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	username := c.Param("username")

	created, profile, err := h.service.FollowUser(c.Request.Context(), userID, username)
	if err != nil {
		h.handleError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	response.Success(c, status, gin.H{"profile": profile})
}

// UnfollowUser xử lý DELETE /profile/:username/follow
// 204 khi xóa thành công, 404 khi không follow
func (h *UserHandler) UnfollowUser(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	username := c.Param("username")

	if err := h.service.UnfollowUser(c.Request.Context(), userID, username); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ========================================
// ERROR MAPPING
// ========================================

// handleError map domain errors thành HTTP status codes
func (h *UserHandler) handleError(c *gin.Context, err error) {
	// ozzo validation errors marshal thành field→message map
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.ValidationFailed(c, vErrs)
		return
	}

	switch {
	case errors.Is(err, user.ErrUsernameAlreadyExists):
		response.ValidationFailed(c, gin.H{"username": "username already exists"})
	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.ValidationFailed(c, gin.H{"email": "email already exists"})
	case errors.Is(err, user.ErrSelfFollow):
		response.BadRequest(c, err.Error())
	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrInvalidToken),
		errors.Is(err, user.ErrUserInactive),
		errors.Is(err, user.ErrUnauthorized):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, user.ErrNotFollowing):
		response.NotFound(c, err.Error())
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
