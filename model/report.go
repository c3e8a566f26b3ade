package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TotalKey 合计行的代码
const TotalKey = "total"

// AnswerKey 把数据中出现的答案值映射为分布键，保证不与 TotalKey 冲突。
// 形如 "_*total" 的值统一再加一个 "_" 前缀，映射保持单射。
func AnswerKey(value string) string {
	if strings.TrimLeft(value, "_") == TotalKey {
		return "_" + value
	}
	return value
}

// AnswerStat 分布中的一行
type AnswerStat struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Distribution 答案代码 -> 统计行，保持插入顺序
type Distribution = orderedmap.OrderedMap[string, *AnswerStat]

func NewDistribution() *Distribution {
	return orderedmap.New[string, *AnswerStat]()
}

// GroupReport 列键 -> 题目报告
type GroupReport = orderedmap.OrderedMap[string, *QuestionReport]

// Report 分组名 -> 分组报告
type Report = orderedmap.OrderedMap[string, *GroupReport]

func NewGroupReport() *GroupReport {
	return orderedmap.New[string, *QuestionReport]()
}

func NewReport() *Report {
	return orderedmap.New[string, *GroupReport]()
}

// AnswerKind 标记 QuestionReport 携带哪一种答案
type AnswerKind int

const (
	AnswerNone AnswerKind = iota
	AnswerDistribution
	AnswerRaw
	AnswerSuppressed
)

func (k AnswerKind) String() string {
	switch k {
	case AnswerDistribution:
		return "distribution"
	case AnswerRaw:
		return "raw"
	case AnswerSuppressed:
		return "suppressed"
	default:
		return "none"
	}
}

// QuestionReport 每个列键对应的输出单元。
// 分布、原始列表、错误三者至多出现一个。
type QuestionReport struct {
	Code        string
	Text        string
	Type        string
	Mandatory   bool
	NumericOnly bool
	Hidden      bool

	kind         AnswerKind
	distribution *Distribution
	raw          []string
	errMsg       string
}

func (r *QuestionReport) Kind() AnswerKind { return r.kind }

func (r *QuestionReport) Distribution() *Distribution { return r.distribution }

func (r *QuestionReport) Raw() []string { return r.raw }

func (r *QuestionReport) ErrorMessage() string { return r.errMsg }

func (r *QuestionReport) SetDistribution(d *Distribution) {
	if d == nil {
		d = NewDistribution()
	}
	r.kind = AnswerDistribution
	r.distribution = d
	r.raw = nil
	r.errMsg = ""
}

func (r *QuestionReport) SetRaw(values []string) {
	if values == nil {
		values = []string{}
	}
	r.kind = AnswerRaw
	r.raw = values
	r.distribution = nil
	r.errMsg = ""
}

// SetError 用错误标记替换答案
func (r *QuestionReport) SetError(msg string) {
	r.kind = AnswerSuppressed
	r.errMsg = msg
	r.distribution = nil
	r.raw = nil
}

type questionReportJSON struct {
	Code        string          `json:"code"`
	Text        string          `json:"text"`
	Type        string          `json:"type"`
	Mandatory   bool            `json:"mandatory"`
	NumericOnly bool            `json:"numericOnly"`
	Hidden      bool            `json:"hidden"`
	Answers     json.RawMessage `json:"answers,omitempty"`
	Error       string          `json:"error,omitempty"`
}

func (r QuestionReport) MarshalJSON() ([]byte, error) {
	out := questionReportJSON{
		Code:        r.Code,
		Text:        r.Text,
		Type:        r.Type,
		Mandatory:   r.Mandatory,
		NumericOnly: r.NumericOnly,
		Hidden:      r.Hidden,
	}

	var err error
	switch r.kind {
	case AnswerDistribution:
		out.Answers, err = json.Marshal(r.distribution)
	case AnswerRaw:
		out.Answers, err = json.Marshal(r.raw)
	case AnswerSuppressed:
		out.Error = r.errMsg
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(out)
}

func (r *QuestionReport) UnmarshalJSON(data []byte) error {
	var aux questionReportJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*r = QuestionReport{
		Code:        aux.Code,
		Text:        aux.Text,
		Type:        aux.Type,
		Mandatory:   aux.Mandatory,
		NumericOnly: aux.NumericOnly,
		Hidden:      aux.Hidden,
	}

	if aux.Error != "" {
		r.SetError(aux.Error)
		return nil
	}

	answers := bytes.TrimSpace(aux.Answers)
	if len(answers) == 0 || bytes.Equal(answers, []byte("null")) {
		return nil
	}

	switch answers[0] {
	case '[':
		var raw []string
		if err := json.Unmarshal(answers, &raw); err != nil {
			return err
		}
		r.SetRaw(raw)
	case '{':
		d := NewDistribution()
		if err := d.UnmarshalJSON(answers); err != nil {
			return err
		}
		r.SetDistribution(d)
	default:
		return fmt.Errorf("无法识别的 answers 字段: %s", answers)
	}

	return nil
}
