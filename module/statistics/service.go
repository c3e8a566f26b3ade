package statistics

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"Dext-Stats/model"
	"Dext-Stats/utils"
)

var ErrInvalidRequest = errors.New("无效的统计请求")

// Service 定义统计业务逻辑接口
type Service interface {
	// 生成问卷统计报告
	Build(ctx context.Context, req model.StatisticsRequest) (*model.Report, error)
}

// serviceImpl 实现 Service 接口
type serviceImpl struct {
	meta      MetadataProvider
	responses ResponseProvider
	builder   *ReportBuilder
	cache     ReportCache
	validate  *validator.Validate
}

// NewService 创建统计服务实例，cache 可为 nil
func NewService(meta MetadataProvider, responses ResponseProvider, builder *ReportBuilder, cache ReportCache) Service {
	if builder == nil {
		builder = NewReportBuilder(NewRegistry(), 1)
	}
	return &serviceImpl{
		meta:      meta,
		responses: responses,
		builder:   builder,
		cache:     cache,
		validate:  validator.New(),
	}
}

// Build 校验请求、解析默认语言、查缓存，最后生成报告
func (s *serviceImpl) Build(ctx context.Context, req model.StatisticsRequest) (*model.Report, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	language := req.Language
	if language == "" {
		lang, err := s.meta.DefaultLanguage(ctx, req.SurveyID)
		if err != nil {
			return nil, err
		}
		language = lang
	}

	log := utils.Logger().With(zap.Int("surveyId", req.SurveyID), zap.String("language", language))

	key := CacheKey(req, language)
	if s.cache != nil {
		report, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn("读取报告缓存失败", zap.Error(err))
		} else if ok {
			log.Debug("命中报告缓存")
			return report, nil
		}
	}

	rc := NewRequestContext(req, language, s.meta, s.responses)
	report, err := s.builder.Build(ctx, rc)
	if err != nil {
		return nil, err
	}

	log.Info("统计报告已生成",
		zap.Int("groups", report.Len()),
		zap.Int("respondents", len(req.RespondentIDs)),
		zap.Bool("definitionsOnly", req.DefinitionsOnly),
	)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report); err != nil {
			log.Warn("写入报告缓存失败", zap.Error(err))
		}
	}

	return report, nil
}
