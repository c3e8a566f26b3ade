package statistics

import (
	"context"
	"sort"
	"strconv"

	"Dext-Stats/model"
	"Dext-Stats/utils"
)

// Entry 处理器产出的一个列
type Entry struct {
	Key    string
	Report *model.QuestionReport
}

// Handler 某一题型的统计逻辑
type Handler interface {
	Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error)
}

type HandlerFunc func(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error)

func (f HandlerFunc) Populate(ctx context.Context, rc *RequestContext, q model.Question, attrs model.QuestionAttributes) ([]Entry, error) {
	return f(ctx, rc, q, attrs)
}

// RequestContext 一次统计请求内所有处理器共享的只读参数
type RequestContext struct {
	SurveyID        int
	Language        string
	RespondentIDs   []int
	DefinitionsOnly bool
	Cutoff          int
	StripMarkup     bool

	Meta      MetadataProvider
	Responses ResponseProvider

	include map[string]struct{}
	exclude map[string]struct{}
}

func NewRequestContext(req model.StatisticsRequest, language string, meta MetadataProvider, responses ResponseProvider) *RequestContext {
	return &RequestContext{
		SurveyID:        req.SurveyID,
		Language:        language,
		RespondentIDs:   utils.UniqueIDs(req.RespondentIDs),
		DefinitionsOnly: req.DefinitionsOnly,
		Cutoff:          req.Cutoff,
		StripMarkup:     req.ShouldStripMarkup(),
		Meta:            meta,
		Responses:       responses,
		include:         toSet(req.Include),
		exclude:         toSet(req.Exclude),
	}
}

func toSet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Allowed 黑名单优先；白名单为空时放行全部
func (rc *RequestContext) Allowed(key string) bool {
	if _, denied := rc.exclude[key]; denied {
		return false
	}
	if len(rc.include) == 0 {
		return true
	}
	_, ok := rc.include[key]
	return ok
}

func (rc *RequestContext) clean(s string) string {
	if rc.StripMarkup {
		return utils.StripMarkup(s)
	}
	return s
}

// define 生成定义字段；被过滤时返回 nil
func (rc *RequestContext) define(col Column, q model.Question, attrs model.QuestionAttributes, numeric bool) *model.QuestionReport {
	if !rc.Allowed(col.Key) {
		return nil
	}
	return &model.QuestionReport{
		Code:        col.Code,
		Text:        rc.clean(col.Text),
		Type:        q.Type,
		Mandatory:   q.Mandatory,
		NumericOnly: numeric,
		Hidden:      attrs.Hidden,
	}
}

// Registry 题型标签 -> 处理器
type Registry struct {
	handlers map[string]Handler
	fallback Handler
}

func NewRegistry() *Registry {
	r := &Registry{
		handlers: make(map[string]Handler),
		fallback: unknownHandler{},
	}

	r.Register(model.TypeArrayFivePoint, fixedArrayHandler{vocab: fivePointVocab})
	r.Register(model.TypeArrayTenPoint, fixedArrayHandler{vocab: tenPointVocab})
	r.Register(model.TypeArrayYesUncertainNo, fixedArrayHandler{vocab: yesUncertainNoVocab})
	r.Register(model.TypeArrayIncreaseSame, fixedArrayHandler{vocab: increaseSameDecreaseVocab})
	r.Register(model.TypeArray, answerArrayHandler{})
	r.Register(model.TypeArrayByColumn, answerArrayHandler{})
	r.Register(model.TypeArrayDualScale, dualScaleHandler{})
	r.Register(model.TypeArrayNumbers, crossTabHandler{})
	r.Register(model.TypeArrayTexts, crossTabHandler{texts: true})

	r.Register(model.TypeFivePointChoice, fixedSingleHandler{vocab: fivePointVocab})
	r.Register(model.TypeGender, fixedSingleHandler{vocab: genderVocab})
	r.Register(model.TypeYesNo, fixedSingleHandler{vocab: yesNoVocab})
	r.Register(model.TypeDate, countedSingleHandler{})
	r.Register(model.TypeNumeric, countedSingleHandler{numeric: true})
	r.Register(model.TypeEquation, countedSingleHandler{})
	r.Register(model.TypeLanguage, languageHandler{})
	r.Register(model.TypeFileUpload, uploadHandler{})
	r.Register(model.TypeTextDisplay, displayHandler{})

	r.Register(model.TypeMultipleChoice, multipleChoiceHandler{})
	r.Register(model.TypeMultipleComment, multipleChoiceHandler{withComments: true})
	r.Register(model.TypeList, listHandler{})
	r.Register(model.TypeDropdown, listHandler{})
	r.Register(model.TypeListComment, listHandler{withComment: true})
	r.Register(model.TypeRanking, rankingHandler{})

	r.Register(model.TypeShortText, textHandler{})
	r.Register(model.TypeLongText, textHandler{})
	r.Register(model.TypeHugeText, textHandler{})
	r.Register(model.TypeMultipleShortText, multiTextHandler{})
	r.Register(model.TypeMultipleNumeric, multiNumericHandler{})

	return r
}

func (r *Registry) Register(tag string, h Handler) {
	r.handlers[tag] = h
}

// Lookup 未注册的标签返回降级处理器
func (r *Registry) Lookup(tag string) Handler {
	if h, ok := r.handlers[tag]; ok {
		return h
	}
	return r.fallback
}

func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.handlers))
	for tag := range r.handlers {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// 词表相关

type vocabEntry struct {
	Code  string
	Label string
}

var (
	fivePointVocab = numericVocab(5)
	tenPointVocab  = numericVocab(10)

	yesUncertainNoVocab = []vocabEntry{
		{Code: "Y", Label: "Yes"},
		{Code: "U", Label: "Uncertain"},
		{Code: "N", Label: "No"},
	}
	increaseSameDecreaseVocab = []vocabEntry{
		{Code: "I", Label: "Increase"},
		{Code: "S", Label: "Same"},
		{Code: "D", Label: "Decrease"},
	}
	genderVocab = []vocabEntry{
		{Code: "M", Label: "Male"},
		{Code: "F", Label: "Female"},
	}
	yesNoVocab = []vocabEntry{
		{Code: "Y", Label: "Yes"},
		{Code: "N", Label: "No"},
	}
)

const (
	otherCode  = "-oth-"
	otherLabel = "Other"
)

func numericVocab(n int) []vocabEntry {
	out := make([]vocabEntry, 0, n)
	for i := 1; i <= n; i++ {
		s := strconv.Itoa(i)
		out = append(out, vocabEntry{Code: s, Label: s})
	}
	return out
}

func codesVocab(rc *RequestContext, codes []model.AnswerCode) []vocabEntry {
	out := make([]vocabEntry, 0, len(codes))
	for _, c := range codes {
		out = append(out, vocabEntry{Code: c.Code, Label: rc.clean(c.Label)})
	}
	return out
}

// vocabDistribution 预先填入词表中的全部代码，计数为 0
func vocabDistribution(vocab []vocabEntry) *model.Distribution {
	dist := model.NewDistribution()
	for _, v := range vocab {
		dist.Set(model.AnswerKey(v.Code), &model.AnswerStat{Label: v.Label})
	}
	return dist
}

// foldCounts 只累加词表中已有的代码
func foldCounts(dist *model.Distribution, counts []model.CountedAnswer) {
	for _, c := range counts {
		if stat, ok := dist.Get(model.AnswerKey(c.Value)); ok {
			stat.Count += c.Count
		}
	}
}

// countedDistribution 由数据决定词表；没有非空值时返回 nil。
// numeric 为真时按数值升序，否则按字符串升序。
func countedDistribution(counts []model.CountedAnswer, numeric bool) *model.Distribution {
	merged := make(map[string]int, len(counts))
	values := make([]string, 0, len(counts))
	for _, c := range counts {
		if c.Value == "" || c.Count <= 0 {
			continue
		}
		if _, seen := merged[c.Value]; !seen {
			values = append(values, c.Value)
		}
		merged[c.Value] += c.Count
	}
	if len(values) == 0 {
		return nil
	}

	sort.SliceStable(values, func(i, j int) bool {
		if numeric {
			a, errA := strconv.ParseFloat(values[i], 64)
			b, errB := strconv.ParseFloat(values[j], 64)
			if errA == nil && errB == nil {
				return a < b
			}
		}
		return values[i] < values[j]
	})

	dist := model.NewDistribution()
	for _, v := range values {
		dist.Set(model.AnswerKey(v), &model.AnswerStat{Label: v, Count: merged[v]})
	}
	return dist
}
