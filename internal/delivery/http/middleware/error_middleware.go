package middleware

import (
	"net/http"

	"match-backend/internal/delivery/http/response"
	"match-backend/pkg/apperror"
	"match-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := apperror.FromDomain(c.Errors.Last().Err)
		if appErr.Code >= http.StatusInternalServerError {
			// Never expose internal error details to clients.
			logger.Log.Error("Request failed",
				"request_id", c.GetString(response.RequestIDKey),
				"path", c.FullPath(),
				"error", c.Errors.Last().Err,
			)
			response.Error(c, appErr.Code, "An unexpected error occurred. Please try again later.", nil)
			return
		}
		response.Error(c, appErr.Code, appErr.Message, nil)
	}
}
