package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"Dext-Stats/security"
	"Dext-Stats/utils"
)

// AuthMiddleware JWT认证中间件，secret 为空时直接放行
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		var authHeader string
		if cookieToken, err := c.Cookie("access_token"); err == nil && cookieToken != "" {
			authHeader = "Bearer " + cookieToken
		} else {
			authHeader = c.GetHeader("Authorization")
		}
		if authHeader == "" {
			utils.SendError(c, http.StatusUnauthorized, "缺少认证信息")
			return
		}

		// 验证Authorization头格式
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.SendError(c, http.StatusUnauthorized, "无效的认证格式")
			return
		}

		claims, err := security.ParseToken(secret, parts[1])
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				utils.SendError(c, http.StatusUnauthorized, "令牌已过期", err)
			case errors.Is(err, jwt.ErrTokenSignatureInvalid):
				utils.SendError(c, http.StatusUnauthorized, "无效的令牌签名", err)
			default:
				utils.SendError(c, http.StatusUnauthorized, "无效的令牌", err)
			}
			return
		}

		c.Set("subject", claims.Subject)
		c.Next()
	}
}

// RequestIDMiddleware 为每个请求分配ID，写入上下文与响应头
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = utils.NewRequestID()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// AccessLogMiddleware 使用 zap 记录访问日志
func AccessLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		utils.Logger().Info("请求完成",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
		)
	}
}

func CorsMiddleware(allowedOrigins []string, dev bool) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		// 根据不同 Origin 进行缓存区分
		c.Writer.Header().Add("Vary", "Origin")

		_, ok := allowed[origin]

		// 开发环境放宽：允许本机任意端口
		isLocalDynamic := strings.HasPrefix(origin, "http://localhost:") ||
			strings.HasPrefix(origin, "http://127.0.0.1:")
		if !ok && dev && isLocalDynamic {
			ok = true
		}

		if ok && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, Accept")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Type")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SecurityHeadersMiddleware(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Writer.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		// HSTS - 在生产环境启用
		if production {
			c.Writer.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
		}

		c.Next()
	}
}
