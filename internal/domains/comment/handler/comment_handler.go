package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"conduit-backend/internal/domains/article"
	"conduit-backend/internal/domains/comment"
	"conduit-backend/internal/shared/middleware"
	"conduit-backend/internal/shared/response"
)

// CommentHandler xử lý HTTP requests cho comment domain
type CommentHandler struct {
	service comment.Service
}

func NewCommentHandler(service comment.Service) *CommentHandler {
	return &CommentHandler{
		service: service,
	}
}

// pathUUID parse path param; invalid UUID đối xử như not found
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.NotFound(c, "Resource not found")
		return uuid.Nil, false
	}
	return id, true
}

// ListComments xử lý GET /articles/:id/comments (public)
func (h *CommentHandler) ListComments(c *gin.Context) {
	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req comment.ListCommentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	req.SetDefaults()

	viewerID := middleware.GetUserID(c)

	dtos, total, err := h.service.ListComments(c.Request.Context(), articleID, viewerID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{"comments": dtos}, &response.Meta{
		Limit:  req.Limit,
		Offset: req.Offset,
		Total:  total,
	})
}

// CreateComment xử lý POST /articles/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req comment.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	dto, err := h.service.CreateComment(c.Request.Context(), userID, articleID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"comment": dto})
}

// UpdateComment xử lý PUT /articles/:id/comments/:commentId (author only)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathUUID(c, "commentId")
	if !ok {
		return
	}

	var req comment.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	dto, err := h.service.UpdateComment(c.Request.Context(), userID, articleID, commentID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"comment": dto})
}

// DeleteComment xử lý DELETE /articles/:id/comments/:commentId (author only)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	articleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathUUID(c, "commentId")
	if !ok {
		return
	}

	if err := h.service.DeleteComment(c.Request.Context(), userID, articleID, commentID); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) handleError(c *gin.Context, err error) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.ValidationFailed(c, vErrs)
		return
	}

	switch {
	case errors.Is(err, comment.ErrNotCommentAuthor):
		response.Forbidden(c, err.Error())
	case errors.Is(err, comment.ErrCommentNotFound),
		errors.Is(err, article.ErrArticleNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
