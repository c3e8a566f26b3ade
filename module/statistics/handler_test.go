package statistics

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"Dext-Stats/utils"
)

func newTestRouter(s *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	InitService(NewService(s, s, nil, nil))

	r := gin.New()
	r.POST("/api/statistics/:surveyId", GetStatisticsHandler)
	return r
}

func TestGetStatisticsHandler(t *testing.T) {
	router := newTestRouter(singleChoiceStore())

	body := bytes.NewBufferString(`{"respondentIds":[1,2,3]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/statistics/1", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data map[string]map[string]struct {
			Code    string                     `json:"code"`
			Answers map[string]json.RawMessage `json:"answers"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)

	q := resp.Data["Group"]["1X10X1"]
	assert.Equal(t, "Q1", q.Code)
	assert.Len(t, q.Answers, 3)

	// 合计行在最后
	raw := w.Body.String()
	assert.Less(t, bytes.Index([]byte(raw), []byte(`"B"`)), bytes.Index([]byte(raw), []byte(`"total"`)))
}

func TestGetStatisticsHandlerEmptyBody(t *testing.T) {
	router := newTestRouter(singleChoiceStore())

	req := httptest.NewRequest(http.MethodPost, "/api/statistics/1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetStatisticsHandlerErrors(t *testing.T) {
	failing := singleChoiceStore()
	failing.failColumn = "1X10X1"

	tests := []struct {
		name   string
		store  *fakeStore
		path   string
		body   string
		status int
	}{
		{"bad survey id", singleChoiceStore(), "/api/statistics/abc", `{}`, http.StatusBadRequest},
		{"zero survey id", singleChoiceStore(), "/api/statistics/0", `{}`, http.StatusBadRequest},
		{"malformed json", singleChoiceStore(), "/api/statistics/1", `{"cutoff":`, http.StatusBadRequest},
		{"negative cutoff", singleChoiceStore(), "/api/statistics/1", `{"cutoff":-2}`, http.StatusBadRequest},
		{"collaborator failure", failing, "/api/statistics/1", `{"respondentIds":[1]}`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.store)
			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestGetStatisticsHandlerInternalErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	utils.SetLogger(zap.New(core))
	defer utils.SetLogger(nil)

	failing := singleChoiceStore()
	failing.failColumn = "1X10X1"
	router := newTestRouter(failing)

	req := httptest.NewRequest(http.MethodPost, "/api/statistics/1", bytes.NewBufferString(`{"respondentIds":[1]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "系统错误")
	require.Equal(t, 1, logs.FilterMessage("系统错误").Len())
}
