package statistics

import (
	"context"

	"Dext-Stats/model"
)

// multipleChoiceHandler 多选题（M）与多选带备注题（P）。
// 所有选项列折叠为父列上的一个分布，计数为勾选该选项的答卷数；
// "其他" 计数为填写了其他文本的答卷数。
type multipleChoiceHandler struct {
	withComments bool
}

func (h multipleChoiceHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	subs, err := rc.Meta.ListSubQuestions(ctx, q.ID, rc.Language)
	if err != nil {
		return nil, err
	}

	var otherValues []string
	if q.Other && !rc.DefinitionsOnly {
		values, err := rc.Responses.ListRawValues(ctx, OtherColumn(q).Key, rc.RespondentIDs)
		if err != nil {
			return nil, err
		}
		otherValues = nonEmpty(values)
	}

	var out []Entry

	parent := PlainColumn(q)
	if rep := rc.define(parent, q, attrs, false); rep != nil {
		if !rc.DefinitionsOnly {
			dist := model.NewDistribution()
			prefix := ColumnPrefix(q)
			for _, sq := range subs {
				n, err := rc.Responses.CountTrue(ctx, prefix+sq.Title, rc.RespondentIDs)
				if err != nil {
					return nil, err
				}
				dist.Set(model.AnswerKey(sq.Title), &model.AnswerStat{Label: rc.clean(sq.Text), Count: n})
			}
			if q.Other {
				dist.Set(SuffixOther, &model.AnswerStat{Label: otherLabel, Count: len(otherValues)})
			}
			finalizeDistribution(rep, dist, rc.Cutoff)
		}
		out = append(out, Entry{Key: parent.Key, Report: rep})
	}

	if h.withComments {
		for _, sq := range subs {
			entries, err := rawColumn(ctx, rc, q, attrs, OptionCommentColumn(q, sq), false)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
	}

	if !q.Other {
		return out, nil
	}

	other := OtherColumn(q)
	if rep := rc.define(other, q, attrs, attrs.OtherNumbersOnly); rep != nil {
		rep.Mandatory = attrs.OtherCommentMandatory
		if !rc.DefinitionsOnly {
			finalizeRaw(rep, otherValues, rc.Cutoff)
		}
		out = append(out, Entry{Key: other.Key, Report: rep})
	}

	if h.withComments {
		entries, err := rawColumn(ctx, rc, q, attrs, OtherCommentColumn(q), false)
		if err != nil {
			return nil, err
		}
		markMandatory(entries, attrs.OtherCommentMandatory)
		out = append(out, entries...)
	}

	return out, nil
}

// listHandler 单选（L）、下拉（!）、单选带备注（O）
type listHandler struct {
	withComment bool
}

func (h listHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	var vocab []vocabEntry
	if !rc.DefinitionsOnly {
		codes, err := rc.Meta.ListAnswerCodes(ctx, q.ID, 0, rc.Language)
		if err != nil {
			return nil, err
		}
		vocab = codesVocab(rc, codes)
		if q.Other {
			vocab = append(vocab, vocabEntry{Code: otherCode, Label: otherLabel})
		}
	}

	out, err := vocabColumn(ctx, rc, q, attrs, PlainColumn(q), vocab, false)
	if err != nil {
		return nil, err
	}

	if q.Other {
		entries, err := rawColumn(ctx, rc, q, attrs, OtherColumn(q), attrs.OtherNumbersOnly)
		if err != nil {
			return nil, err
		}
		markMandatory(entries, attrs.OtherCommentMandatory)
		out = append(out, entries...)
	}

	if h.withComment {
		entries, err := rawColumn(ctx, rc, q, attrs, CommentColumn(q), false)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}

	return out, nil
}

// rankingHandler 排序题，每个名次一个列，词表为答案代码
type rankingHandler struct{}

func (rankingHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	codes, err := rc.Meta.ListAnswerCodes(ctx, q.ID, 0, rc.Language)
	if err != nil {
		return nil, err
	}
	vocab := codesVocab(rc, codes)

	var out []Entry
	for _, col := range RankColumns(q, codes) {
		entries, err := vocabColumn(ctx, rc, q, attrs, col, vocab, false)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

func markMandatory(entries []Entry, mandatory bool) {
	for _, e := range entries {
		e.Report.Mandatory = mandatory
	}
}
