package statistics

import (
	"context"

	"Dext-Stats/model"
)

// fixedSingleHandler 单列、固定词表（5/G/Y）
type fixedSingleHandler struct {
	vocab []vocabEntry
}

func (h fixedSingleHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	return vocabColumn(ctx, rc, q, attrs, PlainColumn(q), h.vocab, false)
}

// countedSingleHandler 单列、词表由数据决定（D/N/*）
type countedSingleHandler struct {
	numeric bool
}

func (h countedSingleHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	return countedColumn(ctx, rc, q, attrs, PlainColumn(q), h.numeric)
}

// languageHandler 语言切换题，词表为问卷可用语言
type languageHandler struct{}

func (languageHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	var vocab []vocabEntry
	if !rc.DefinitionsOnly {
		langs, err := rc.Meta.ListAvailableLanguages(ctx, rc.SurveyID)
		if err != nil {
			return nil, err
		}
		for _, lang := range langs {
			vocab = append(vocab, vocabEntry{Code: lang, Label: lang})
		}
	}
	return vocabColumn(ctx, rc, q, attrs, PlainColumn(q), vocab, false)
}

// uploadHandler 文件上传题，按文件描述聚合
type uploadHandler struct{}

func (uploadHandler) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	col := PlainColumn(q)
	rep := rc.define(col, q, attrs, false)
	if rep == nil {
		return nil, nil
	}
	if rc.DefinitionsOnly {
		return []Entry{{Key: col.Key, Report: rep}}, nil
	}

	files, err := rc.Responses.ListUploadedFiles(ctx, col.Key, rc.RespondentIDs)
	if err != nil {
		return nil, err
	}

	var dist *model.Distribution
	for _, f := range files {
		if f.Count <= 0 {
			continue
		}
		if dist == nil {
			dist = model.NewDistribution()
		}
		key := model.AnswerKey(f.Description)
		if stat, ok := dist.Get(key); ok {
			stat.Count += f.Count
			continue
		}
		dist.Set(key, &model.AnswerStat{Label: rc.clean(f.Description), Count: f.Count})
	}
	finalizeDistribution(rep, dist, rc.Cutoff)

	return []Entry{{Key: col.Key, Report: rep}}, nil
}

// displayHandler 文本展示题只有定义，没有答案字段
type displayHandler struct{}

func (displayHandler) Populate(_ context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	col := PlainColumn(q)
	rep := rc.define(col, q, attrs, false)
	if rep == nil {
		return nil, nil
	}
	return []Entry{{Key: col.Key, Report: rep}}, nil
}
