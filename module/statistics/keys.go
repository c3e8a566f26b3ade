package statistics

import (
	"fmt"
	"strconv"

	"Dext-Stats/model"
)

// 卫星列后缀
const (
	SuffixOther        = "other"
	SuffixComment      = "comment"
	SuffixOtherComment = "othercomment"
)

// Column 一个可统计字段的列键及其展示代码/文本
type Column struct {
	Key  string
	Code string
	Text string
}

// ColumnPrefix 返回 "<sid>X<gid>X<qid>"
func ColumnPrefix(q model.Question) string {
	return fmt.Sprintf("%dX%dX%d", q.SurveyID, q.GroupID, q.ID)
}

func PlainColumn(q model.Question) Column {
	return Column{
		Key:  ColumnPrefix(q),
		Code: q.Title,
		Text: q.Text,
	}
}

func SubQuestionColumn(q model.Question, sq model.SubQuestion) Column {
	return Column{
		Key:  ColumnPrefix(q) + sq.Title,
		Code: q.Title + "_" + sq.Title,
		Text: fmt.Sprintf("%s [%s]", q.Text, sq.Text),
	}
}

// DualScaleColumn 双轴矩阵：列键追加 #0/#1，代码和文本追加 [0]/[1]
func DualScaleColumn(q model.Question, sq model.SubQuestion, scale int) Column {
	base := SubQuestionColumn(q, sq)
	marker := strconv.Itoa(scale)
	return Column{
		Key:  base.Key + "#" + marker,
		Code: base.Code + "[" + marker + "]",
		Text: base.Text + "[" + marker + "]",
	}
}

func CrossColumn(q model.Question, row, col model.SubQuestion) Column {
	return Column{
		Key:  ColumnPrefix(q) + row.Title + "_" + col.Title,
		Code: q.Title + "_" + row.Title + "_" + col.Title,
		Text: fmt.Sprintf("%s [%s] [%s]", q.Text, row.Text, col.Text),
	}
}

// CrossColumns 行（scale 0）与列（scale 1）的笛卡尔积，行优先
func CrossColumns(q model.Question, rows, cols []model.SubQuestion) []Column {
	out := make([]Column, 0, len(rows)*len(cols))
	for _, row := range rows {
		for _, col := range cols {
			out = append(out, CrossColumn(q, row, col))
		}
	}
	return out
}

func RankColumn(q model.Question, rank int) Column {
	r := strconv.Itoa(rank)
	return Column{
		Key:  ColumnPrefix(q) + r,
		Code: q.Title + "_" + r,
		Text: fmt.Sprintf("%s [%s]", q.Text, r),
	}
}

// RankColumns 排序题每个名次一个列，名次数等于答案代码数
func RankColumns(q model.Question, codes []model.AnswerCode) []Column {
	out := make([]Column, 0, len(codes))
	for i := range codes {
		out = append(out, RankColumn(q, i+1))
	}
	return out
}

func OtherColumn(q model.Question) Column {
	return satellite(q, SuffixOther)
}

func CommentColumn(q model.Question) Column {
	return satellite(q, SuffixComment)
}

func OtherCommentColumn(q model.Question) Column {
	return satellite(q, SuffixOtherComment)
}

// OptionCommentColumn 多选带备注题中某一选项的备注列
func OptionCommentColumn(q model.Question, sq model.SubQuestion) Column {
	return Column{
		Key:  ColumnPrefix(q) + sq.Title + SuffixComment,
		Code: q.Title + "_" + sq.Title + "_" + SuffixComment,
		Text: fmt.Sprintf("%s [%s] [%s]", q.Text, sq.Text, SuffixComment),
	}
}

func satellite(q model.Question, suffix string) Column {
	return Column{
		Key:  ColumnPrefix(q) + suffix,
		Code: q.Title + "_" + suffix,
		Text: fmt.Sprintf("%s [%s]", q.Text, suffix),
	}
}
