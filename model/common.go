// 由自动模块化脚本生成 o((>ω< ))o
package model

import (
	"time"

	"golang.org/x/time/rate"
)

type BaseResponse struct {
	Code        int         `json:"code"`
	Data        interface{} `json:"data"`
	Message     string      `json:"message"`
	Description string      `json:"description,omitempty"`
}

type IpLimiter struct {
	Limiter    *rate.Limiter
	LastActive time.Time
}
