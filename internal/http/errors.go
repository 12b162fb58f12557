package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"adboard/internal/domain"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Field  string `json:"field,omitempty"`
}

// writeError maps domain errors to status codes. Unknown errors are logged
// and reported without detail.
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Error: "internal error"}

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		resp.Detail = domainErr.Message
		resp.Field = domainErr.Field
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		resp.Error = domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
		resp.Error = domain.ErrValidation.Error()
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
		resp.Error = domain.ErrConflict.Error()
	default:
		resp.Detail = ""
		resp.Field = ""
		h.logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Errorf("handler error: %v", err)
	}

	c.JSON(status, resp)
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	h.writeError(c, domain.Invalid("", err.Error()))
}

// pathID parses the :id route parameter. Anything that is not a positive
// integer cannot name a row, so it is reported as not found.
func pathID(c *gin.Context, resource string) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.Error{
			Kind:     domain.ErrNotFound,
			Resource: resource,
			Message:  resource + " not found",
		}
	}
	return id, nil
}
