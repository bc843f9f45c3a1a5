package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"problem-tracker/internal/apperrors"
	"problem-tracker/internal/i18n"
	"problem-tracker/response"
)

// GlobalErrorMiddleware 全局错误中间件：AppError 按其状态码返回翻译后的消息，其它错误返回 500
func GlobalErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		ctx := c.Request.Context()
		for _, err := range c.Errors {
			var appErr *apperrors.AppError
			if errors.As(err.Err, &appErr) {
				c.AbortWithStatusJSON(appErr.Code, response.Error(i18n.T(ctx, appErr.Message, nil)))
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error(i18n.T(ctx, i18n.MsgSystemError, nil)))
	}
}
