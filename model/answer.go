// 由自动模块化脚本生成 o((>ω< ))o
package model

// CountedAnswer 某一答案值及其在所选答卷中的出现次数
type CountedAnswer struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// UploadedFile 上传题中按描述聚合后的文件
type UploadedFile struct {
	Description string `json:"description"`
	Count       int    `json:"count"`
}
