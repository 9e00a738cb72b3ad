package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"CensusMap-App/internal/domain/model"
)

// stubBuildingAggregationUseCase テスト用の建物集約スタブ
type stubBuildingAggregationUseCase struct {
	response *model.AggregatedBuildingsResponse
	err      error

	lastFilter model.MapFilter
	lastLimit  int
	lastOffset int
}

func (s *stubBuildingAggregationUseCase) AggregatePage(ctx context.Context, filter model.MapFilter, limit, offset int) (*model.AggregatedBuildingsResponse, error) {
	s.lastFilter = filter
	s.lastLimit = limit
	s.lastOffset = offset
	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func setupBuildingsRouter(uc *stubBuildingAggregationUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBuildingsHandler(uc)

	r := gin.New()
	r.GET("/api/buildings", h.GetBuildings)
	return r
}

func TestGetBuildingsHandler(t *testing.T) {
	uc := &stubBuildingAggregationUseCase{
		response: &model.AggregatedBuildingsResponse{
			Data: []model.DenormalizedBuilding{
				{
					Building:    model.Building{ID: "b-1", MapStatus: "completed"},
					Attachments: map[string]string{"image": "https://example.com/b.jpg"},
				},
			},
			Pagination: model.Pagination{Total: 1, PageSize: 20, Offset: 0},
			Summary:    map[string]int{"completed": 1},
		},
	}
	r := setupBuildingsRouter(uc)

	w := performRequest(r, "/api/buildings?ward=3&map_status=completed&limit=20&offset=40")

	assert.Equal(t, http.StatusOK, w.Code)

	// クエリパラメータがそのままユースケースへ渡されること
	assert.NotNil(t, uc.lastFilter.WardNumber)
	assert.Equal(t, 3, *uc.lastFilter.WardNumber)
	assert.NotNil(t, uc.lastFilter.MapStatus)
	assert.Equal(t, "completed", *uc.lastFilter.MapStatus)
	assert.Equal(t, 20, uc.lastLimit)
	assert.Equal(t, 40, uc.lastOffset)

	var body model.AggregatedBuildingsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, "https://example.com/b.jpg", body.Data[0].Attachments["image"])
	assert.Equal(t, 1, body.Summary["completed"])
}

func TestGetBuildingsHandlerInvalidWard(t *testing.T) {
	r := setupBuildingsRouter(&stubBuildingAggregationUseCase{})

	w := performRequest(r, "/api/buildings?ward=abc")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBuildingsHandlerInternalError(t *testing.T) {
	uc := &stubBuildingAggregationUseCase{err: fmt.Errorf("connection refused")}
	r := setupBuildingsRouter(uc)

	w := performRequest(r, "/api/buildings")

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body["error"])
}
