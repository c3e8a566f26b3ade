// 由自动模块化脚本生成 o((>ω< ))o
package model

// 题型标签，与问卷定义中的 type 字段一一对应
const (
	TypeFivePointChoice     = "5"
	TypeArrayFivePoint      = "A"
	TypeArrayTenPoint       = "B"
	TypeArrayYesUncertainNo = "C"
	TypeArrayIncreaseSame   = "E"
	TypeArray               = "F"
	TypeArrayByColumn       = "H"
	TypeArrayDualScale      = "1"
	TypeArrayNumbers        = ":"
	TypeArrayTexts          = ";"
	TypeDate                = "D"
	TypeGender              = "G"
	TypeNumeric             = "N"
	TypeEquation            = "*"
	TypeLanguage            = "I"
	TypeFileUpload          = "|"
	TypeTextDisplay         = "X"
	TypeYesNo               = "Y"
	TypeMultipleChoice      = "M"
	TypeMultipleComment     = "P"
	TypeList                = "L"
	TypeDropdown            = "!"
	TypeListComment         = "O"
	TypeRanking             = "R"
	TypeShortText           = "S"
	TypeLongText            = "T"
	TypeHugeText            = "U"
	TypeMultipleShortText   = "Q"
	TypeMultipleNumeric     = "K"
)

type Question struct {
	ID            int    `json:"id"`
	SurveyID      int    `json:"surveyId"`
	GroupID       int    `json:"groupId"`
	GroupName     string `json:"groupName"`
	GroupOrder    int    `json:"groupOrder"`
	QuestionOrder int    `json:"questionOrder"`
	Type          string `json:"type"`  // 题型标签
	Title         string `json:"title"` // 题目代码
	Text          string `json:"text"`  // 题干
	Mandatory     bool   `json:"mandatory"`
	Other         bool   `json:"other"`    // 是否启用"其他"选项
	ParentID      int    `json:"parentId"` // 顶层题目为 0
}

// SubQuestion 矩阵题的行/列，ScaleID 为 1 时表示第二轴
type SubQuestion struct {
	ID       int    `json:"id"`
	ParentID int    `json:"parentId"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	ScaleID  int    `json:"scaleId"`
	Order    int    `json:"order"`
}

// AnswerCode 预定义的答案代码
type AnswerCode struct {
	QuestionID int    `json:"questionId"`
	ScaleID    int    `json:"scaleId"`
	Code       string `json:"code"`
	Label      string `json:"label"`
	SortOrder  int    `json:"sortOrder"`
}

// QuestionAttributes 题目属性，缺省均为 false
type QuestionAttributes struct {
	Hidden                bool `json:"hidden"`
	NumbersOnly           bool `json:"numbersOnly"`
	OtherNumbersOnly      bool `json:"otherNumbersOnly"`
	OtherCommentMandatory bool `json:"otherCommentMandatory"`
}
