package statistics

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"Dext-Stats/model"
	"Dext-Stats/utils"
)

// ReportBuilder 遍历全部顶层题目，按题型分派给处理器，再按分组/题目顺序合并结果
type ReportBuilder struct {
	registry *Registry
	workers  int
}

func NewReportBuilder(registry *Registry, workers int) *ReportBuilder {
	if registry == nil {
		registry = NewRegistry()
	}
	if workers <= 0 {
		workers = 1
	}
	return &ReportBuilder{registry: registry, workers: workers}
}

// Build 任何一个题目取数失败都会中止整个统计，不返回部分结果
func (b *ReportBuilder) Build(ctx context.Context, rc *RequestContext) (*model.Report, error) {
	questions, err := rc.Meta.ListTopLevelQuestions(ctx, rc.SurveyID, rc.Language)
	if err != nil {
		return nil, fmt.Errorf("获取题目列表失败: %w", err)
	}

	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].GroupOrder != questions[j].GroupOrder {
			return questions[i].GroupOrder < questions[j].GroupOrder
		}
		return questions[i].QuestionOrder < questions[j].QuestionOrder
	})

	ids := make([]int, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	attrs, err := rc.Meta.ListAttributes(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("获取题目属性失败: %w", err)
	}

	// 每个题目只写自己的槽位，合并时按原顺序读取
	results := make([][]Entry, len(questions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, q := range questions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries, err := b.registry.Lookup(q.Type).Populate(gctx, rc, q, attrs[q.ID])
			if err != nil {
				return fmt.Errorf("统计题目 %s(%d) 失败: %w", q.Title, q.ID, err)
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return b.merge(rc, questions, results), nil
}

func (b *ReportBuilder) merge(rc *RequestContext, questions []model.Question, results [][]Entry) *model.Report {
	report := model.NewReport()
	for i, q := range questions {
		if len(results[i]) == 0 {
			continue
		}

		name := rc.clean(q.GroupName)
		group, ok := report.Get(name)
		if !ok {
			group = model.NewGroupReport()
			report.Set(name, group)
		}

		for _, e := range results[i] {
			if _, dup := group.Get(e.Key); dup {
				utils.Logger().Warn("列键重复，后者覆盖前者",
					zap.String("key", e.Key),
					zap.Int("questionId", q.ID),
				)
			}
			group.Set(e.Key, e.Report)
		}
	}
	return report
}
