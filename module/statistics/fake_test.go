package statistics

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"Dext-Stats/model"
)

var errBoom = errors.New("boom")

// fakeStore 内存中的问卷定义与答卷数据
type fakeStore struct {
	mu sync.Mutex

	languages []string
	questions []model.Question
	subs      map[int][]model.SubQuestion
	secondary map[int][]model.SubQuestion
	codes     map[int]map[int][]model.AnswerCode
	attrs     map[int]model.QuestionAttributes
	uploads   map[string][]model.UploadedFile

	// 答卷ID -> 列键 -> 值
	responses map[int]map[string]string

	failColumn    string
	failQuestions bool
	responseCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		languages: []string{"en", "zh-Hans"},
		subs:      make(map[int][]model.SubQuestion),
		secondary: make(map[int][]model.SubQuestion),
		codes:     make(map[int]map[int][]model.AnswerCode),
		attrs:     make(map[int]model.QuestionAttributes),
		uploads:   make(map[string][]model.UploadedFile),
		responses: make(map[int]map[string]string),
	}
}

func (s *fakeStore) addQuestion(q model.Question) model.Question {
	if q.SurveyID == 0 {
		q.SurveyID = 1
	}
	if q.GroupID == 0 {
		q.GroupID = 10
	}
	if q.GroupName == "" {
		q.GroupName = "Group"
	}
	if q.Text == "" {
		q.Text = q.Title + " text"
	}
	s.questions = append(s.questions, q)
	return q
}

func (s *fakeStore) addSubs(parent int, scale int, titles ...string) {
	for i, title := range titles {
		sq := model.SubQuestion{ID: parent*100 + scale*50 + i, ParentID: parent, Title: title, Text: title + " text", ScaleID: scale, Order: i}
		if scale == 0 {
			s.subs[parent] = append(s.subs[parent], sq)
		} else {
			s.secondary[parent] = append(s.secondary[parent], sq)
		}
	}
}

func (s *fakeStore) addCodes(qid, scale int, codes ...string) {
	if s.codes[qid] == nil {
		s.codes[qid] = make(map[int][]model.AnswerCode)
	}
	for i, c := range codes {
		s.codes[qid][scale] = append(s.codes[qid][scale], model.AnswerCode{
			QuestionID: qid, ScaleID: scale, Code: c, Label: "Label " + c, SortOrder: i,
		})
	}
}

func (s *fakeStore) answer(id int, column, value string) {
	if s.responses[id] == nil {
		s.responses[id] = make(map[string]string)
	}
	s.responses[id][column] = value
}

func (s *fakeStore) ListTopLevelQuestions(_ context.Context, _ int, _ string) ([]model.Question, error) {
	if s.failQuestions {
		return nil, errBoom
	}
	return append([]model.Question(nil), s.questions...), nil
}

func (s *fakeStore) ListSubQuestions(_ context.Context, parentID int, _ string) ([]model.SubQuestion, error) {
	return s.subs[parentID], nil
}

func (s *fakeStore) ListSecondaryAxis(_ context.Context, parentID int, _ string) ([]model.SubQuestion, error) {
	return s.secondary[parentID], nil
}

func (s *fakeStore) ListAnswerCodes(_ context.Context, questionID, scaleID int, _ string) ([]model.AnswerCode, error) {
	return s.codes[questionID][scaleID], nil
}

func (s *fakeStore) ListAttributes(_ context.Context, ids []int) (map[int]model.QuestionAttributes, error) {
	out := make(map[int]model.QuestionAttributes, len(ids))
	for _, id := range ids {
		out[id] = s.attrs[id]
	}
	return out, nil
}

func (s *fakeStore) ListAvailableLanguages(_ context.Context, _ int) ([]string, error) {
	return s.languages, nil
}

func (s *fakeStore) DefaultLanguage(_ context.Context, _ int) (string, error) {
	return s.languages[0], nil
}

func (s *fakeStore) touch(column string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responseCalls++
	if s.failColumn != "" && column == s.failColumn {
		return errBoom
	}
	return nil
}

func (s *fakeStore) values(column string, ids []int) []string {
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)

	var out []string
	for _, id := range sorted {
		if v, ok := s.responses[id][column]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (s *fakeStore) CountGroupedValues(_ context.Context, column string, ids []int) ([]model.CountedAnswer, error) {
	if err := s.touch(column); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	var order []string
	for _, v := range s.values(column, ids) {
		if _, ok := counts[v]; !ok {
			order = append(order, v)
		}
		counts[v]++
	}
	out := make([]model.CountedAnswer, 0, len(order))
	for _, v := range order {
		out = append(out, model.CountedAnswer{Value: v, Count: counts[v]})
	}
	return out, nil
}

func (s *fakeStore) CountTrue(_ context.Context, column string, ids []int) (int, error) {
	if err := s.touch(column); err != nil {
		return 0, err
	}
	n := 0
	for _, v := range s.values(column, ids) {
		if v == "Y" || v == "1" {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) ListRawValues(_ context.Context, column string, ids []int) ([]string, error) {
	if err := s.touch(column); err != nil {
		return nil, err
	}
	out := []string{}
	for _, v := range s.values(column, ids) {
		if v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *fakeStore) ListUploadedFiles(_ context.Context, column string, _ []int) ([]model.UploadedFile, error) {
	if err := s.touch(column); err != nil {
		return nil, err
	}
	return s.uploads[column], nil
}

func (s *fakeStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.responseCalls
}

// build 用 fakeStore 生成报告
func build(s *fakeStore, req model.StatisticsRequest) (*model.Report, error) {
	if req.SurveyID == 0 {
		req.SurveyID = 1
	}
	rc := NewRequestContext(req, "en", s, s)
	return NewReportBuilder(NewRegistry(), 4).Build(context.Background(), rc)
}

// column 从报告中按分组和列键取出题目报告
func column(report *model.Report, group, key string) (*model.QuestionReport, bool) {
	g, ok := report.Get(group)
	if !ok {
		return nil, false
	}
	return g.Get(key)
}

func keys(group *model.GroupReport) []string {
	var out []string
	for p := group.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

func distKeys(d *model.Distribution) []string {
	var out []string
	for p := d.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

func mustStat(t *testing.T, d *model.Distribution, key string) *model.AnswerStat {
	t.Helper()
	require.NotNil(t, d)
	s, ok := d.Get(key)
	require.True(t, ok, "分布中缺少 %s", key)
	return s
}
