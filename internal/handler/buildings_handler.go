package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"CensusMap-App/internal/domain/model"
	"CensusMap-App/internal/usecase"
)

// BuildingsHandler 建物一覧（非正規化ページ）APIのHTTPハンドラー
type BuildingsHandler struct {
	aggregationUseCase usecase.BuildingAggregationUseCase
}

// NewBuildingsHandler BuildingsHandlerの新しいインスタンスを作成
func NewBuildingsHandler(aggregationUseCase usecase.BuildingAggregationUseCase) *BuildingsHandler {
	return &BuildingsHandler{
		aggregationUseCase: aggregationUseCase,
	}
}

// GetBuildings GET /api/buildings - 添付URL込みの建物一覧ページを取得
func (h *BuildingsHandler) GetBuildings(c *gin.Context) {
	var filter model.MapFilter

	if ward := c.Query("ward"); ward != "" {
		wardNumber, err := strconv.Atoi(ward)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_parameter",
				"message": "Invalid ward value",
			})
			return
		}
		filter.WardNumber = &wardNumber
	}
	if areaCode := c.Query("area_code"); areaCode != "" {
		filter.AreaCode = &areaCode
	}
	if enumerator := c.Query("enumerator"); enumerator != "" {
		filter.EnumeratorID = &enumerator
	}
	if mapStatus := c.Query("map_status"); mapStatus != "" {
		filter.MapStatus = &mapStatus
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	// サービス層で処理
	response, err := h.aggregationUseCase.AggregatePage(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to aggregate buildings: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}
