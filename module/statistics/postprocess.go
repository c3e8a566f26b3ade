package statistics

import (
	"math"

	"Dext-Stats/model"
)

const totalLabel = "Total"

// percentage 相对本列合计的百分比，保留两位小数
func percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(100*float64(count)/float64(total)*100) / 100
}

// finalizeDistribution 计算合计与百分比，合计行移到末尾，然后应用 cutoff。
// 数据键都经过 model.AnswerKey，分布里的 TotalKey 只可能是之前写入的合计行。
func finalizeDistribution(rep *model.QuestionReport, dist *model.Distribution, cutoff int) {
	if dist == nil {
		finalizeEmpty(rep, cutoff)
		return
	}

	total := 0
	for p := dist.Oldest(); p != nil; p = p.Next() {
		if p.Key == model.TotalKey {
			continue
		}
		total += p.Value.Count
	}

	for p := dist.Oldest(); p != nil; p = p.Next() {
		if p.Key == model.TotalKey {
			continue
		}
		p.Value.Percentage = percentage(p.Value.Count, total)
	}

	dist.Set(model.TotalKey, &model.AnswerStat{
		Label:      totalLabel,
		Count:      total,
		Percentage: percentage(total, total),
	})
	_ = dist.MoveToBack(model.TotalKey)

	rep.SetDistribution(dist)
	applyCutoff(rep, cutoff)
}

// finalizeRaw 原始列表没有合计，按条目数判断 cutoff
func finalizeRaw(rep *model.QuestionReport, values []string, cutoff int) {
	rep.SetRaw(values)
	applyCutoff(rep, cutoff)
}

// finalizeEmpty 处理器没有产出答案字段
func finalizeEmpty(rep *model.QuestionReport, cutoff int) {
	applyCutoff(rep, cutoff)
}

func applyCutoff(rep *model.QuestionReport, cutoff int) {
	switch rep.Kind() {
	case model.AnswerNone:
		if cutoff > 0 {
			rep.SetError(model.ErrMsgInsufficientSample)
		} else {
			rep.SetDistribution(model.NewDistribution())
		}
	case model.AnswerDistribution:
		dist := rep.Distribution()
		if total, ok := dist.Get(model.TotalKey); ok {
			if total.Count < cutoff {
				rep.SetError(model.ErrMsgInsufficientSample)
			}
		} else if dist.Len() < cutoff {
			rep.SetError(model.ErrMsgInsufficientSample)
		}
	case model.AnswerRaw:
		if len(rep.Raw()) < cutoff {
			rep.SetError(model.ErrMsgInsufficientSample)
		}
	}
}
