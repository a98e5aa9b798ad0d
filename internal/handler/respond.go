package handler

import (
	"net/http"

	"Hingaa_Server/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError 统一错误出口：错误码映射HTTP状态，消息原样透出
func respondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)
	status := http.StatusBadRequest
	switch code {
	case apperrors.CodeActionRestricted, apperrors.CodePermissionDenied:
		status = http.StatusForbidden
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case apperrors.CodeRemoteOperation:
		status = http.StatusInternalServerError
	case apperrors.CodeModeration:
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"code": string(code), "msg": err.Error()})
}

func userIDFromCtx(c *gin.Context) uint64 {
	if v, ok := c.Get("user_id"); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}
