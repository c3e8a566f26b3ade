package statistics

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"Dext-Stats/model"
	"Dext-Stats/utils"
)

var (
	statisticsService Service
)

// InitService 初始化统计服务
func InitService(svc Service) {
	statisticsService = svc
}

// GetStatisticsHandler 生成问卷统计报告
// POST /api/statistics/:surveyId
func GetStatisticsHandler(c *gin.Context) {
	surveyID, err := strconv.Atoi(c.Param("surveyId"))
	if err != nil || surveyID <= 0 {
		utils.SendError(c, http.StatusBadRequest, "无效的问卷ID", err)
		return
	}

	var req model.StatisticsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.SendError(c, http.StatusBadRequest, "无效的请求参数", err)
		return
	}
	req.SurveyID = surveyID

	report, err := statisticsService.Build(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrInvalidColumn):
			utils.SendError(c, http.StatusBadRequest, "无效的请求参数", err)
		case errors.Is(err, ErrSurveyNotFound):
			utils.SendError(c, http.StatusNotFound, "问卷不存在", err)
		default:
			utils.InternalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, model.BaseResponse{
		Code:    model.ErrCodeSuccess,
		Data:    report,
		Message: "ok",
	})
}
