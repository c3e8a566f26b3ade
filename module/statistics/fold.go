package statistics

import (
	"context"

	"Dext-Stats/model"
)

// 以下辅助函数各自处理一个列：过滤、定义字段、取数、收尾。
// 被过滤的列返回空切片。

func vocabColumn(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes,
	col Column, vocab []vocabEntry, numeric bool) ([]Entry, error) {
	rep := rc.define(col, q, attrs, numeric)
	if rep == nil {
		return nil, nil
	}
	if rc.DefinitionsOnly {
		return []Entry{{Key: col.Key, Report: rep}}, nil
	}

	counts, err := rc.Responses.CountGroupedValues(ctx, col.Key, rc.RespondentIDs)
	if err != nil {
		return nil, err
	}
	dist := vocabDistribution(vocab)
	foldCounts(dist, counts)
	finalizeDistribution(rep, dist, rc.Cutoff)

	return []Entry{{Key: col.Key, Report: rep}}, nil
}

func countedColumn(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes,
	col Column, numeric bool) ([]Entry, error) {
	rep := rc.define(col, q, attrs, numeric)
	if rep == nil {
		return nil, nil
	}
	if rc.DefinitionsOnly {
		return []Entry{{Key: col.Key, Report: rep}}, nil
	}

	counts, err := rc.Responses.CountGroupedValues(ctx, col.Key, rc.RespondentIDs)
	if err != nil {
		return nil, err
	}
	finalizeDistribution(rep, countedDistribution(counts, numeric), rc.Cutoff)

	return []Entry{{Key: col.Key, Report: rep}}, nil
}

func rawColumn(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes,
	col Column, numeric bool) ([]Entry, error) {
	rep := rc.define(col, q, attrs, numeric)
	if rep == nil {
		return nil, nil
	}
	if rc.DefinitionsOnly {
		return []Entry{{Key: col.Key, Report: rep}}, nil
	}

	values, err := rc.Responses.ListRawValues(ctx, col.Key, rc.RespondentIDs)
	if err != nil {
		return nil, err
	}
	finalizeRaw(rep, nonEmpty(values), rc.Cutoff)

	return []Entry{{Key: col.Key, Report: rep}}, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
