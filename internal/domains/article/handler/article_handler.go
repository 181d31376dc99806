package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"conduit-backend/internal/domains/article"
	"conduit-backend/internal/shared/middleware"
	"conduit-backend/internal/shared/response"
)

// ArticleHandler xử lý HTTP requests cho article domain
type ArticleHandler struct {
	service article.Service
}

func NewArticleHandler(service article.Service) *ArticleHandler {
	return &ArticleHandler{
		service: service,
	}
}

// articleIDParam parse :id path param; invalid UUID đối xử như not found
func articleIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.NotFound(c, "Article not found")
		return uuid.Nil, false
	}
	return id, true
}

// ========================================
// CRUD ENDPOINTS
// ========================================

// CreateArticle xử lý POST /articles
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req article.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	dto, err := h.service.CreateArticle(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/api/articles/"+dto.ID.String())
	response.Success(c, http.StatusCreated, gin.H{"article": dto})
}

// GetArticle xử lý GET /articles/:id (public, view counter increment)
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := articleIDParam(c)
	if !ok {
		return
	}

	viewerID := middleware.GetUserID(c) // uuid.Nil cho anonymous

	dto, err := h.service.GetArticle(c.Request.Context(), id, viewerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"article": dto})
}

// UpdateArticle xử lý PUT /articles/:id (author only)
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := articleIDParam(c)
	if !ok {
		return
	}

	var req article.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if req.IsEmpty() {
		response.BadRequest(c, "No updatable fields provided")
		return
	}

	dto, err := h.service.UpdateArticle(c.Request.Context(), userID, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"article": dto})
}

// DeleteArticle xử lý DELETE /articles/:id (author only)
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := articleIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteArticle(c.Request.Context(), userID, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ========================================
// LISTING ENDPOINTS
// ========================================

// ListArticles xử lý GET /articles (public, filters conjunctive)
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	var filter article.ListArticlesRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	filter.SetDefaults()

	viewerID := middleware.GetUserID(c)

	dtos, total, err := h.service.ListArticles(c.Request.Context(), filter, viewerID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{"articles": dtos}, &response.Meta{
		Limit:  filter.Limit,
		Offset: filter.Offset,
		Total:  total,
	})
}

// Feed xử lý GET /articles/feed (auth required)
func (h *ArticleHandler) Feed(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req article.FeedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	req.SetDefaults()

	dtos, total, err := h.service.Feed(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, gin.H{"articles": dtos}, &response.Meta{
		Limit:  req.Limit,
		Offset: req.Offset,
		Total:  total,
	})
}

// ========================================
// FAVORITE ENDPOINTS
// ========================================

// FavoriteArticle xử lý POST /articles/:id/favorite
// 201 khi favorite mới, 200 khi đã favorite từ trước (idempotent)
func (h *ArticleHandler) FavoriteArticle(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := articleIDParam(c)
	if !ok {
		return
	}

	created, dto, err := h.service.FavoriteArticle(c.Request.Context(), userID, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	response.Success(c, status, gin.H{"article": dto})
}

// UnfavoriteArticle xử lý DELETE /articles/:id/favorite
// 204 khi xóa thành công, 404 khi không có favorite
func (h *ArticleHandler) UnfavoriteArticle(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := articleIDParam(c)
	if !ok {
		return
	}

	if err := h.service.UnfavoriteArticle(c.Request.Context(), userID, id); err != nil {
		h.handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ========================================
// HISTORY ENDPOINT
// ========================================

// GetArticleHistory xử lý GET /articles/:id/history (author only)
func (h *ArticleHandler) GetArticleHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		response.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := articleIDParam(c)
	if !ok {
		return
	}

	entries, err := h.service.GetArticleHistory(c.Request.Context(), userID, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if entries == nil {
		entries = []article.ArticleHistory{}
	}

	response.Success(c, http.StatusOK, gin.H{"history": entries})
}

// ========================================
// ERROR MAPPING
// ========================================

func (h *ArticleHandler) handleError(c *gin.Context, err error) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		response.ValidationFailed(c, vErrs)
		return
	}

	switch {
	case errors.Is(err, article.ErrSlugAlreadyTaken):
		response.ValidationFailed(c, gin.H{"title": "slug already taken"})
	case errors.Is(err, article.ErrNotArticleAuthor):
		response.Forbidden(c, err.Error())
	case errors.Is(err, article.ErrArticleNotFound),
		errors.Is(err, article.ErrFavoriteNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalServerError(c, "Internal server error")
	}
}
