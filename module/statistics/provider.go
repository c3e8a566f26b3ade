package statistics

import (
	"context"

	"Dext-Stats/model"
)

// MetadataProvider 解析问卷定义：题目、子问题、答案代码与题目属性
type MetadataProvider interface {
	// 获取问卷的全部顶层题目，按分组顺序、题目顺序排列
	ListTopLevelQuestions(ctx context.Context, surveyID int, language string) ([]model.Question, error)

	// 获取子问题（第一轴）
	ListSubQuestions(ctx context.Context, parentID int, language string) ([]model.SubQuestion, error)

	// 获取第二轴子问题（scale 1）
	ListSecondaryAxis(ctx context.Context, parentID int, language string) ([]model.SubQuestion, error)

	// 获取预定义答案代码
	ListAnswerCodes(ctx context.Context, questionID, scaleID int, language string) ([]model.AnswerCode, error)

	// 批量获取题目属性，缺失的题目返回零值
	ListAttributes(ctx context.Context, questionIDs []int) (map[int]model.QuestionAttributes, error)

	// 问卷可用语言，第一个为默认语言
	ListAvailableLanguages(ctx context.Context, surveyID int) ([]string, error)

	// 问卷默认语言
	DefaultLanguage(ctx context.Context, surveyID int) (string, error)
}

// ResponseProvider 在给定答卷集合内读取某一列的数据
type ResponseProvider interface {
	// 按值分组计数
	CountGroupedValues(ctx context.Context, column string, respondentIDs []int) ([]model.CountedAnswer, error)

	// 值为真（Y/1）的答卷数
	CountTrue(ctx context.Context, column string, respondentIDs []int) (int, error)

	// 非空原始值
	ListRawValues(ctx context.Context, column string, respondentIDs []int) ([]string, error)

	// 上传文件按描述聚合
	ListUploadedFiles(ctx context.Context, column string, respondentIDs []int) ([]model.UploadedFile, error)
}
