// 由自动模块化脚本生成 o((>ω< ))o
package model

// StatisticsRequest 一次统计请求
type StatisticsRequest struct {
	SurveyID        int      `json:"surveyId" validate:"required,gt=0"`
	RespondentIDs   []int    `json:"respondentIds" validate:"dive,gt=0"` // 为空表示没有答卷
	Language        string   `json:"language" validate:"omitempty,max=20"`
	Include         []string `json:"include"` // 白名单，按展开后的列键匹配
	Exclude         []string `json:"exclude"` // 黑名单，优先于白名单
	DefinitionsOnly bool     `json:"definitionsOnly"`
	Cutoff          int      `json:"cutoff" validate:"gte=0"`
	StripMarkup     *bool    `json:"stripMarkup"` // 缺省为 true
}

// ShouldStripMarkup 返回是否去除题干中的 HTML
func (r StatisticsRequest) ShouldStripMarkup() bool {
	return r.StripMarkup == nil || *r.StripMarkup
}
