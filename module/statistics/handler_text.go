package statistics

import (
	"context"
	"fmt"

	"Dext-Stats/model"
)

// textHandler 短文本、长文本、超长文本，输出非空原始值
type textHandler struct{}

func (textHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	return rawColumn(ctx, rc, q, attrs, PlainColumn(q), attrs.NumbersOnly)
}

// multiTextHandler 多项短文本：父列统计每个子问题的作答数，子问题各出原始值列
type multiTextHandler struct{}

func (multiTextHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	subs, err := rc.Meta.ListSubQuestions(ctx, q.ID, rc.Language)
	if err != nil {
		return nil, err
	}

	values := make([][]string, len(subs))
	if !rc.DefinitionsOnly {
		for i, sq := range subs {
			raw, err := rc.Responses.ListRawValues(ctx, SubQuestionColumn(q, sq).Key, rc.RespondentIDs)
			if err != nil {
				return nil, err
			}
			values[i] = nonEmpty(raw)
		}
	}

	var out []Entry

	parent := PlainColumn(q)
	if rep := rc.define(parent, q, attrs, attrs.NumbersOnly); rep != nil {
		if !rc.DefinitionsOnly {
			dist := model.NewDistribution()
			for i, sq := range subs {
				dist.Set(model.AnswerKey(sq.Title), &model.AnswerStat{Label: rc.clean(sq.Text), Count: len(values[i])})
			}
			finalizeDistribution(rep, dist, rc.Cutoff)
		}
		out = append(out, Entry{Key: parent.Key, Report: rep})
	}

	for i, sq := range subs {
		col := SubQuestionColumn(q, sq)
		rep := rc.define(col, q, attrs, attrs.NumbersOnly)
		if rep == nil {
			continue
		}
		if !rc.DefinitionsOnly {
			finalizeRaw(rep, values[i], rc.Cutoff)
		}
		out = append(out, Entry{Key: col.Key, Report: rep})
	}

	return out, nil
}

// multiNumericHandler 多项数值输入，每个子问题一个按值计数的列
type multiNumericHandler struct{}

func (multiNumericHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	subs, err := rc.Meta.ListSubQuestions(ctx, q.ID, rc.Language)
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, sq := range subs {
		entries, err := countedColumn(ctx, rc, q, attrs, SubQuestionColumn(q, sq), true)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

// unknownHandler 未注册题型：输出降级条目，属于数据状况而非失败
type unknownHandler struct{}

func (unknownHandler) Populate(_ context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	col := PlainColumn(q)
	rep := rc.define(col, q, attrs, false)
	if rep == nil {
		return nil, nil
	}
	if !rc.DefinitionsOnly {
		rep.SetError(fmt.Sprintf("%s: %s", model.ErrMsgUnknownType, q.Type))
	}
	return []Entry{{Key: col.Key, Report: rep}}, nil
}
