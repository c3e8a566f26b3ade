package statistics

import (
	"context"

	"Dext-Stats/model"
)

// fixedArrayHandler 固定词表的矩阵题（A/B/C/E），每个子问题一个列
type fixedArrayHandler struct {
	vocab []vocabEntry
}

func (h fixedArrayHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	subs, err := rc.Meta.ListSubQuestions(ctx, q.ID, rc.Language)
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, sq := range subs {
		entries, err := vocabColumn(ctx, rc, q, attrs, SubQuestionColumn(q, sq), h.vocab, false)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

// answerArrayHandler 答案代码作为词表的矩阵题（F/H）
type answerArrayHandler struct{}

func (answerArrayHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	subs, err := rc.Meta.ListSubQuestions(ctx, q.ID, rc.Language)
	if err != nil {
		return nil, err
	}

	var vocab []vocabEntry
	if !rc.DefinitionsOnly {
		codes, err := rc.Meta.ListAnswerCodes(ctx, q.ID, 0, rc.Language)
		if err != nil {
			return nil, err
		}
		vocab = codesVocab(rc, codes)
	}

	var out []Entry
	for _, sq := range subs {
		entries, err := vocabColumn(ctx, rc, q, attrs, SubQuestionColumn(q, sq), vocab, false)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

// dualScaleHandler 双轴矩阵，每个子问题按两个轴各出一个列
type dualScaleHandler struct{}

func (dualScaleHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	subs, err := rc.Meta.ListSubQuestions(ctx, q.ID, rc.Language)
	if err != nil {
		return nil, err
	}

	vocabs := make([][]vocabEntry, 2)
	if !rc.DefinitionsOnly {
		for scale := range vocabs {
			codes, err := rc.Meta.ListAnswerCodes(ctx, q.ID, scale, rc.Language)
			if err != nil {
				return nil, err
			}
			vocabs[scale] = codesVocab(rc, codes)
		}
	}

	var out []Entry
	for _, sq := range subs {
		for scale, vocab := range vocabs {
			entries, err := vocabColumn(ctx, rc, q, attrs, DualScaleColumn(q, sq, scale), vocab, false)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
	}
	return out, nil
}

// crossTabHandler 数字矩阵（:）与文本矩阵（;），行 × 列展开
type crossTabHandler struct {
	texts bool
}

func (h crossTabHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	rows, err := rc.Meta.ListSubQuestions(ctx, q.ID, rc.Language)
	if err != nil {
		return nil, err
	}
	cols, err := rc.Meta.ListSecondaryAxis(ctx, q.ID, rc.Language)
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, col := range CrossColumns(q, rows, cols) {
		var entries []Entry
		if h.texts {
			entries, err = rawColumn(ctx, rc, q, attrs, col, attrs.NumbersOnly)
		} else {
			entries, err = countedColumn(ctx, rc, q, attrs, col, true)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}
