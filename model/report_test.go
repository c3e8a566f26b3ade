package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *Report {
	dist := NewDistribution()
	dist.Set("B", &AnswerStat{Label: "Bee", Count: 1, Percentage: 50})
	dist.Set("A", &AnswerStat{Label: "Ay", Count: 1, Percentage: 50})
	dist.Set(TotalKey, &AnswerStat{Label: "Total", Count: 2, Percentage: 100})

	choice := &QuestionReport{Code: "Q1", Text: "Pick", Type: TypeList, Mandatory: true}
	choice.SetDistribution(dist)

	text := &QuestionReport{Code: "Q2", Text: "Say", Type: TypeShortText, NumericOnly: true}
	text.SetRaw([]string{"1", "2"})

	hidden := &QuestionReport{Code: "Q3", Type: TypeList, Hidden: true}
	hidden.SetError(ErrMsgInsufficientSample)

	group := NewGroupReport()
	group.Set("1X1X2", choice)
	group.Set("1X1X1", text)
	group.Set("1X1X3", hidden)
	group.Set("1X1X4", &QuestionReport{Code: "Q4", Type: TypeTextDisplay})

	report := NewReport()
	report.Set("Second", NewGroupReport())
	report.Set("First", group)
	return report
}

func TestReportJSONKeepsOrder(t *testing.T) {
	data, err := json.Marshal(sampleReport())
	require.NoError(t, err)

	s := string(data)
	assert.Less(t, indexOf(s, `"Second"`), indexOf(s, `"First"`))
	assert.Less(t, indexOf(s, `"1X1X2"`), indexOf(s, `"1X1X1"`))
	assert.Less(t, indexOf(s, `"B"`), indexOf(s, `"A"`))
	assert.Less(t, indexOf(s, `"A"`), indexOf(s, `"total"`))
}

func TestQuestionReportJSONVariants(t *testing.T) {
	report := sampleReport()
	group, _ := report.Get("First")

	tests := []struct {
		key      string
		contains []string
		absent   []string
	}{
		{"1X1X2", []string{`"answers":{"B":`, `"mandatory":true`}, []string{`"error"`}},
		{"1X1X1", []string{`"answers":["1","2"]`, `"numericOnly":true`}, []string{`"error"`}},
		{"1X1X3", []string{`"error":"` + ErrMsgInsufficientSample + `"`, `"hidden":true`}, []string{`"answers"`}},
		{"1X1X4", nil, []string{`"answers"`, `"error"`}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			rep, _ := group.Get(tt.key)
			data, err := json.Marshal(rep)
			require.NoError(t, err)
			for _, c := range tt.contains {
				assert.Contains(t, string(data), c)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, string(data), a)
			}
		})
	}
}

func TestReportJSONRoundTrip(t *testing.T) {
	original := sampleReport()
	data, err := json.Marshal(original)
	require.NoError(t, err)

	decoded := NewReport()
	require.NoError(t, json.Unmarshal(data, decoded))

	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))

	group, ok := decoded.Get("First")
	require.True(t, ok)

	choice, _ := group.Get("1X1X2")
	assert.Equal(t, AnswerDistribution, choice.Kind())
	total, ok := choice.Distribution().Get(TotalKey)
	require.True(t, ok)
	assert.Equal(t, 2, total.Count)

	text, _ := group.Get("1X1X1")
	assert.Equal(t, AnswerRaw, text.Kind())

	hidden, _ := group.Get("1X1X3")
	assert.Equal(t, AnswerSuppressed, hidden.Kind())

	display, _ := group.Get("1X1X4")
	assert.Equal(t, AnswerNone, display.Kind())
}

func TestQuestionReportVariantsAreExclusive(t *testing.T) {
	rep := &QuestionReport{}
	assert.Equal(t, AnswerNone, rep.Kind())

	rep.SetRaw(nil)
	assert.Equal(t, AnswerRaw, rep.Kind())
	assert.NotNil(t, rep.Raw())

	rep.SetDistribution(nil)
	assert.Equal(t, AnswerDistribution, rep.Kind())
	assert.Nil(t, rep.Raw())
	assert.Equal(t, 0, rep.Distribution().Len())

	rep.SetError("x")
	assert.Equal(t, AnswerSuppressed, rep.Kind())
	assert.Nil(t, rep.Distribution())
	assert.Equal(t, "suppressed", rep.Kind().String())
}

func TestQuestionReportRejectsUnknownAnswers(t *testing.T) {
	var rep QuestionReport
	assert.Error(t, json.Unmarshal([]byte(`{"code":"Q","answers":42}`), &rep))
}

func TestShouldStripMarkup(t *testing.T) {
	assert.True(t, StatisticsRequest{}.ShouldStripMarkup())
	off := false
	assert.False(t, StatisticsRequest{StripMarkup: &off}.ShouldStripMarkup())
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestAnswerKeyAvoidsTotal(t *testing.T) {
	assert.Equal(t, "A", AnswerKey("A"))
	assert.Equal(t, "totals", AnswerKey("totals"))
	assert.Equal(t, "_total", AnswerKey(TotalKey))
	assert.Equal(t, "__total", AnswerKey("_total"))
	assert.Equal(t, "___total", AnswerKey("__total"))
	assert.NotEqual(t, TotalKey, AnswerKey(TotalKey))
}
