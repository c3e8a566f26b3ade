package utils

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// InitLogger 生产环境使用 JSON 输出，其余使用开发模式
func InitLogger(env string) error {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}
	SetLogger(l)
	return nil
}

func Logger() *zap.Logger {
	return logger.Load()
}

// SetLogger 替换全局 logger，nil 视为 Nop
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// SendError 支持可选 err 参数
func SendError(c *gin.Context, code int, msg string, errs ...error) {
	var err error
	if len(errs) > 0 {
		err = errs[0]
	}

	LogError(msg, err, zap.String("request_id", c.GetString("request_id")))

	c.JSON(code, gin.H{
		"error":   msg,
		"status":  code,
		"success": false,
	})
	c.Abort()
}

// 错误日志记录函数
func LogError(context string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	Logger().Error(context, fields...)
}

// 便捷方法：系统内部错误
func InternalError(c *gin.Context, err error) {
	SendError(c, http.StatusInternalServerError, "系统错误", err)
}
