package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Dext-Stats/model"
)

func TestPercentage(t *testing.T) {
	assert.Equal(t, 66.67, percentage(2, 3))
	assert.Equal(t, 33.33, percentage(1, 3))
	assert.Equal(t, 100.0, percentage(3, 3))
	assert.Equal(t, 0.0, percentage(0, 0))
	assert.Equal(t, 0.0, percentage(5, -1))
}

func newDist(entries ...any) *model.Distribution {
	d := model.NewDistribution()
	for i := 0; i < len(entries); i += 2 {
		code := entries[i].(string)
		d.Set(code, &model.AnswerStat{Label: code, Count: entries[i+1].(int)})
	}
	return d
}

func TestFinalizeDistributionTotalsLast(t *testing.T) {
	rep := &model.QuestionReport{}
	finalizeDistribution(rep, newDist("A", 2, "B", 1, "C", 0), 0)

	require.Equal(t, model.AnswerDistribution, rep.Kind())
	d := rep.Distribution()
	assert.Equal(t, []string{"A", "B", "C", model.TotalKey}, distKeys(d))

	assert.Equal(t, 66.67, mustStat(t, d, "A").Percentage)
	assert.Equal(t, 33.33, mustStat(t, d, "B").Percentage)
	assert.Equal(t, 0.0, mustStat(t, d, "C").Percentage)

	total := mustStat(t, d, model.TotalKey)
	assert.Equal(t, 3, total.Count)
	assert.Equal(t, 100.0, total.Percentage)
	assert.Equal(t, totalLabel, total.Label)
}

func TestFinalizeDistributionRecomputesExistingTotal(t *testing.T) {
	d := newDist(model.TotalKey, 99, "A", 1, "B", 1)
	rep := &model.QuestionReport{}
	finalizeDistribution(rep, d, 0)

	assert.Equal(t, []string{"A", "B", model.TotalKey}, distKeys(rep.Distribution()))
	assert.Equal(t, 2, mustStat(t, rep.Distribution(), model.TotalKey).Count)
}

func TestFinalizeDistributionAllZero(t *testing.T) {
	rep := &model.QuestionReport{}
	finalizeDistribution(rep, newDist("A", 0, "B", 0), 0)

	total := mustStat(t, rep.Distribution(), model.TotalKey)
	assert.Equal(t, 0, total.Count)
	assert.Equal(t, 0.0, total.Percentage)
}

func TestCutoff(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(rep *model.QuestionReport, cutoff int)
		cutoff     int
		suppressed bool
		wantKind   model.AnswerKind
	}{
		{
			name:       "total below cutoff",
			setup:      func(rep *model.QuestionReport, c int) { finalizeDistribution(rep, newDist("A", 2, "B", 1), c) },
			cutoff:     5,
			suppressed: true,
		},
		{
			name:     "total equal to cutoff",
			setup:    func(rep *model.QuestionReport, c int) { finalizeDistribution(rep, newDist("A", 2, "B", 1), c) },
			cutoff:   3,
			wantKind: model.AnswerDistribution,
		},
		{
			name:       "raw below cutoff",
			setup:      func(rep *model.QuestionReport, c int) { finalizeRaw(rep, []string{"a", "b"}, c) },
			cutoff:     3,
			suppressed: true,
		},
		{
			name:     "raw meets cutoff",
			setup:    func(rep *model.QuestionReport, c int) { finalizeRaw(rep, []string{"a", "b"}, c) },
			cutoff:   2,
			wantKind: model.AnswerRaw,
		},
		{
			name:       "no answers with cutoff",
			setup:      func(rep *model.QuestionReport, c int) { finalizeDistribution(rep, nil, c) },
			cutoff:     1,
			suppressed: true,
		},
		{
			name:     "no answers without cutoff",
			setup:    func(rep *model.QuestionReport, c int) { finalizeDistribution(rep, nil, c) },
			cutoff:   0,
			wantKind: model.AnswerDistribution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := &model.QuestionReport{}
			tt.setup(rep, tt.cutoff)

			if tt.suppressed {
				assert.Equal(t, model.AnswerSuppressed, rep.Kind())
				assert.Equal(t, model.ErrMsgInsufficientSample, rep.ErrorMessage())
				assert.Nil(t, rep.Distribution())
				assert.Nil(t, rep.Raw())
				return
			}
			assert.Equal(t, tt.wantKind, rep.Kind())
			assert.Empty(t, rep.ErrorMessage())
		})
	}
}

func TestApplyCutoffWithoutTotal(t *testing.T) {
	rep := &model.QuestionReport{}
	rep.SetDistribution(newDist("A", 10))
	applyCutoff(rep, 2)

	// 没有合计行时按条目数判断
	assert.Equal(t, model.AnswerSuppressed, rep.Kind())
}
