package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"conduit-backend/internal/domains/tag"
	"conduit-backend/internal/shared/response"
)

// TagHandler xử lý HTTP requests cho tag domain
type TagHandler struct {
	service tag.Service
}

func NewTagHandler(service tag.Service) *TagHandler {
	return &TagHandler{
		service: service,
	}
}

// ListTags xử lý GET /tags - flat name list, cached
func (h *TagHandler) ListTags(c *gin.Context) {
	names, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Internal server error")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tags": names})
}
