// 由自动模块化脚本生成 o((>ω< ))o
package model

const (
	ErrCodeSuccess = 0
)

// 数据状况类错误，写入 QuestionReport 的 error 字段
const (
	ErrMsgInsufficientSample = "样本数量不足，已隐藏统计结果"
	ErrMsgUnknownType        = "未知题型"
)
