package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shoppinglist/internal/model"
)

// Status policy, unified across every error class:
// 200 only on genuine success, 4xx when the caller or the configuration is
// wrong, 5xx when the upstream or the provider failed.
func statusForKind(kind model.ErrorKind) int {
	switch kind {
	case model.ErrKindConfig, model.ErrKindBusiness:
		return http.StatusBadRequest
	case model.ErrKindUpstream, model.ErrKindMalformed, model.ErrKindProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondOK sends a success envelope
func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, model.OK(data))
}

// respondEmpty sends a well-formed empty success envelope
func respondEmpty(c *gin.Context) {
	c.JSON(http.StatusOK, model.Empty())
}

// respondError sends an error envelope with the status its kind maps to
func respondError(c *gin.Context, kind model.ErrorKind, env model.Envelope) {
	c.JSON(statusForKind(kind), env)
}
