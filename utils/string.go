package utils

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripMarkup 去掉全部 HTML 标签并还原实体
func StripMarkup(s string) string {
	if s == "" {
		return s
	}
	cleaned := strictPolicy.Sanitize(s)
	cleaned = html.UnescapeString(cleaned)
	return strings.TrimSpace(cleaned)
}

// ParseIDList 解析 "1,2,3" 形式的 ID 列表，忽略空白项
func ParseIDList(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("无效的ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// SplitList 逗号分隔并去掉空白项
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// UniqueIDs 去掉重复 ID，保留首次出现的顺序
func UniqueIDs(ids []int) []int {
	if ids == nil {
		return nil
	}
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
