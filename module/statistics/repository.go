package statistics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"Dext-Stats/model"
	"Dext-Stats/utils"
)

var (
	ErrSurveyNotFound = errors.New("问卷不存在")
	ErrInvalidColumn  = errors.New("无效的列名")
)

// 列名、表前缀只允许这些字符，之后再用反引号包裹
var identPattern = regexp.MustCompile(`^[0-9A-Za-z_#]+$`)

// IN 子句每批的最大 ID 数
const respondentChunkSize = 500

// 题目属性名与 QuestionAttributes 字段的对应关系
const (
	attrHidden                = "hidden"
	attrNumbersOnly           = "numbers_only"
	attrOtherNumbersOnly      = "other_numbers_only"
	attrOtherCommentMandatory = "other_comment_mandatory"
)

// Repository 同时实现 MetadataProvider 与 ResponseProvider
type Repository interface {
	MetadataProvider
	ResponseProvider
}

type repositoryImpl struct {
	db     *sql.DB
	prefix string
}

// NewRepository 创建 Repository 实例，prefix 为表前缀（如 lime_）
func NewRepository(db *sql.DB, prefix string) (Repository, error) {
	if prefix != "" && !identPattern.MatchString(prefix) {
		return nil, fmt.Errorf("无效的表前缀: %q", prefix)
	}
	return &repositoryImpl{db: db, prefix: prefix}, nil
}

func (r *repositoryImpl) table(name string) string {
	return "`" + r.prefix + name + "`"
}

// ListTopLevelQuestions 获取问卷的全部顶层题目
func (r *repositoryImpl) ListTopLevelQuestions(ctx context.Context, surveyID int, language string) ([]model.Question, error) {
	query := fmt.Sprintf(`
		SELECT q.qid, q.sid, q.gid, COALESCE(gl.group_name, ''), g.group_order, q.question_order,
		       q.type, q.title, COALESCE(ql.question, ''), q.mandatory, q.other
		FROM %s q
		JOIN %s g ON g.gid = q.gid
		LEFT JOIN %s gl ON gl.gid = g.gid AND gl.language = ?
		LEFT JOIN %s ql ON ql.qid = q.qid AND ql.language = ?
		WHERE q.sid = ? AND q.parent_qid = 0
		ORDER BY g.group_order ASC, q.question_order ASC, q.qid ASC`,
		r.table("questions"), r.table("groups"), r.table("group_l10ns"), r.table("question_l10ns"))

	rows, err := r.db.QueryContext(ctx, query, language, language, surveyID)
	if err != nil {
		return nil, fmt.Errorf("查询题目失败: %w", err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var mandatory, other sql.NullString
		if err := rows.Scan(
			&q.ID,
			&q.SurveyID,
			&q.GroupID,
			&q.GroupName,
			&q.GroupOrder,
			&q.QuestionOrder,
			&q.Type,
			&q.Title,
			&q.Text,
			&mandatory,
			&other,
		); err != nil {
			return nil, fmt.Errorf("读取题目失败: %w", err)
		}
		q.Mandatory = isYes(mandatory.String)
		q.Other = isYes(other.String)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *repositoryImpl) ListSubQuestions(ctx context.Context, parentID int, language string) ([]model.SubQuestion, error) {
	return r.listSubQuestions(ctx, parentID, 0, language)
}

func (r *repositoryImpl) ListSecondaryAxis(ctx context.Context, parentID int, language string) ([]model.SubQuestion, error) {
	return r.listSubQuestions(ctx, parentID, 1, language)
}

func (r *repositoryImpl) listSubQuestions(ctx context.Context, parentID, scaleID int, language string) ([]model.SubQuestion, error) {
	query := fmt.Sprintf(`
		SELECT q.qid, q.parent_qid, q.title, COALESCE(ql.question, ''), q.scale_id, q.question_order
		FROM %s q
		LEFT JOIN %s ql ON ql.qid = q.qid AND ql.language = ?
		WHERE q.parent_qid = ? AND q.scale_id = ?
		ORDER BY q.question_order ASC, q.qid ASC`,
		r.table("questions"), r.table("question_l10ns"))

	rows, err := r.db.QueryContext(ctx, query, language, parentID, scaleID)
	if err != nil {
		return nil, fmt.Errorf("查询子问题失败: %w", err)
	}
	defer rows.Close()

	var subs []model.SubQuestion
	for rows.Next() {
		var sq model.SubQuestion
		if err := rows.Scan(&sq.ID, &sq.ParentID, &sq.Title, &sq.Text, &sq.ScaleID, &sq.Order); err != nil {
			return nil, fmt.Errorf("读取子问题失败: %w", err)
		}
		subs = append(subs, sq)
	}
	return subs, rows.Err()
}

func (r *repositoryImpl) ListAnswerCodes(ctx context.Context, questionID, scaleID int, language string) ([]model.AnswerCode, error) {
	query := fmt.Sprintf(`
		SELECT a.qid, a.scale_id, a.code, COALESCE(al.answer, ''), a.sortorder
		FROM %s a
		LEFT JOIN %s al ON al.aid = a.aid AND al.language = ?
		WHERE a.qid = ? AND a.scale_id = ?
		ORDER BY a.sortorder ASC, a.aid ASC`,
		r.table("answers"), r.table("answer_l10ns"))

	rows, err := r.db.QueryContext(ctx, query, language, questionID, scaleID)
	if err != nil {
		return nil, fmt.Errorf("查询答案代码失败: %w", err)
	}
	defer rows.Close()

	var codes []model.AnswerCode
	for rows.Next() {
		var c model.AnswerCode
		if err := rows.Scan(&c.QuestionID, &c.ScaleID, &c.Code, &c.Label, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("读取答案代码失败: %w", err)
		}
		codes = append(codes, c)
	}
	return codes, rows.Err()
}

func (r *repositoryImpl) ListAttributes(ctx context.Context, questionIDs []int) (map[int]model.QuestionAttributes, error) {
	attrs := make(map[int]model.QuestionAttributes, len(questionIDs))
	if len(questionIDs) == 0 {
		return attrs, nil
	}

	placeholders, args := inClause(questionIDs)
	args = append(args, attrHidden, attrNumbersOnly, attrOtherNumbersOnly, attrOtherCommentMandatory)
	query := fmt.Sprintf(`
		SELECT qid, attribute, COALESCE(value, '')
		FROM %s
		WHERE qid IN (%s) AND attribute IN (?, ?, ?, ?)`,
		r.table("question_attributes"), placeholders)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询题目属性失败: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var qid int
		var name, value string
		if err := rows.Scan(&qid, &name, &value); err != nil {
			return nil, fmt.Errorf("读取题目属性失败: %w", err)
		}
		a := attrs[qid]
		on := value == "1" || isYes(value)
		switch name {
		case attrHidden:
			a.Hidden = on
		case attrNumbersOnly:
			a.NumbersOnly = on
		case attrOtherNumbersOnly:
			a.OtherNumbersOnly = on
		case attrOtherCommentMandatory:
			a.OtherCommentMandatory = on
		}
		attrs[qid] = a
	}
	return attrs, rows.Err()
}

func (r *repositoryImpl) ListAvailableLanguages(ctx context.Context, surveyID int) ([]string, error) {
	var base, additional string
	query := fmt.Sprintf(`SELECT language, COALESCE(additional_languages, '') FROM %s WHERE sid = ?`, r.table("surveys"))
	if err := r.db.QueryRowContext(ctx, query, surveyID).Scan(&base, &additional); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSurveyNotFound
		}
		return nil, fmt.Errorf("查询问卷语言失败: %w", err)
	}

	langs := []string{base}
	for _, lang := range strings.Fields(additional) {
		if lang != base {
			langs = append(langs, lang)
		}
	}
	return langs, nil
}

func (r *repositoryImpl) DefaultLanguage(ctx context.Context, surveyID int) (string, error) {
	langs, err := r.ListAvailableLanguages(ctx, surveyID)
	if err != nil {
		return "", err
	}
	return langs[0], nil
}

// CountGroupedValues 按值分组计数，跨批次合并后按值排序
func (r *repositoryImpl) CountGroupedValues(ctx context.Context, column string, respondentIDs []int) ([]model.CountedAnswer, error) {
	tbl, col, err := r.responseColumn(column)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	err = forEachChunk(respondentIDs, func(ids []int) error {
		placeholders, args := inClause(ids)
		query := fmt.Sprintf(`
			SELECT %s, COUNT(*)
			FROM %s
			WHERE id IN (%s) AND %s IS NOT NULL
			GROUP BY %s`, col, tbl, placeholders, col, col)

		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("统计列 %s 失败: %w", column, err)
		}
		defer rows.Close()

		for rows.Next() {
			var value sql.NullString
			var n int
			if err := rows.Scan(&value, &n); err != nil {
				return fmt.Errorf("读取列 %s 统计失败: %w", column, err)
			}
			counts[value.String] += n
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.CountedAnswer, 0, len(counts))
	for v, n := range counts {
		out = append(out, model.CountedAnswer{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out, nil
}

func (r *repositoryImpl) CountTrue(ctx context.Context, column string, respondentIDs []int) (int, error) {
	tbl, col, err := r.responseColumn(column)
	if err != nil {
		return 0, err
	}

	total := 0
	err = forEachChunk(respondentIDs, func(ids []int) error {
		placeholders, args := inClause(ids)
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id IN (%s) AND %s IN ('Y', '1')`, tbl, placeholders, col)

		var n int
		if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return fmt.Errorf("统计列 %s 失败: %w", column, err)
		}
		total += n
		return nil
	})
	return total, err
}

func (r *repositoryImpl) ListRawValues(ctx context.Context, column string, respondentIDs []int) ([]string, error) {
	tbl, col, err := r.responseColumn(column)
	if err != nil {
		return nil, err
	}

	values := []string{}
	err = forEachChunk(respondentIDs, func(ids []int) error {
		placeholders, args := inClause(ids)
		query := fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE id IN (%s) AND %s IS NOT NULL AND %s <> ''
			ORDER BY id ASC`, col, tbl, placeholders, col, col)

		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("读取列 %s 失败: %w", column, err)
		}
		defer rows.Close()

		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				return fmt.Errorf("读取列 %s 失败: %w", column, err)
			}
			values = append(values, v)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

// uploadDescriptor 上传题每个答卷保存的 JSON 数组元素
type uploadDescriptor struct {
	Title   string `json:"title"`
	Comment string `json:"comment"`
	Name    string `json:"name"`
}

// ListUploadedFiles 按文件标题（缺省用文件名）聚合，保持首次出现顺序
func (r *repositoryImpl) ListUploadedFiles(ctx context.Context, column string, respondentIDs []int) ([]model.UploadedFile, error) {
	values, err := r.ListRawValues(ctx, column, respondentIDs)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var files []model.UploadedFile
	for _, raw := range values {
		var descriptors []uploadDescriptor
		if err := json.Unmarshal([]byte(raw), &descriptors); err != nil {
			utils.Logger().Warn("上传题数据无法解析，已跳过", zap.String("column", column), zap.Error(err))
			continue
		}
		for _, d := range descriptors {
			desc := d.Title
			if desc == "" {
				desc = d.Name
			}
			if desc == "" {
				continue
			}
			if i, ok := index[desc]; ok {
				files[i].Count++
				continue
			}
			index[desc] = len(files)
			files = append(files, model.UploadedFile{Description: desc, Count: 1})
		}
	}
	return files, nil
}

// responseColumn 校验列键并推出答卷表名，列键形如 <sid>X<gid>X<qid>...
func (r *repositoryImpl) responseColumn(column string) (table, col string, err error) {
	if !identPattern.MatchString(column) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidColumn, column)
	}
	i := strings.IndexByte(column, 'X')
	if i <= 0 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidColumn, column)
	}
	sid, err := strconv.Atoi(column[:i])
	if err != nil {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidColumn, column)
	}
	return r.table("survey_" + strconv.Itoa(sid)), "`" + column + "`", nil
}

func forEachChunk(ids []int, fn func(ids []int) error) error {
	for start := 0; start < len(ids); start += respondentChunkSize {
		end := start + respondentChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		if err := fn(ids[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func inClause(ids []int) (string, []any) {
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", "), args
}

func isYes(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "Y")
}
