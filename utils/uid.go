package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewRequestID 生成去掉破折号的 UUID，用于请求追踪
func NewRequestID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
