package middleware

import (
	"course_progress/internal/config"
	"course_progress/internal/util"
	"course_progress/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthMiddleware 校验学员令牌，并保留原始令牌以便透传给课程后端
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := util.BearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil || claims.UserID == "" {
			logger.Log.Debug("JWT rejected", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		util.SetAuth(c, claims, tokenString)
		c.Next()
	}
}
