package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"CensusMap-App/internal/domain/model"
	"CensusMap-App/internal/usecase"
)

// MapHandler 地図表示APIのHTTPハンドラー
type MapHandler struct {
	mapQueryUseCase     usecase.MapQueryUseCase
	entityDetailUseCase usecase.EntityDetailUseCase
}

// NewMapHandler MapHandlerの新しいインスタンスを作成
func NewMapHandler(mapQueryUseCase usecase.MapQueryUseCase, entityDetailUseCase usecase.EntityDetailUseCase) *MapHandler {
	return &MapHandler{
		mapQueryUseCase:     mapQueryUseCase,
		entityDetailUseCase: entityDetailUseCase,
	}
}

// GetMapPoints GET /api/map/points - ビューポート内のポイント/クラスタを取得
func (h *MapHandler) GetMapPoints(c *gin.Context) {
	// クエリパラメータの解析
	bbox := c.Query("bbox")
	if bbox == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "bbox parameter is required (format: min_lng,min_lat,max_lng,max_lat)",
		})
		return
	}

	boundingBox, ok := h.parseBBox(c, bbox)
	if !ok {
		return
	}

	zoomParam := c.Query("zoom")
	if zoomParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "zoom parameter is required",
		})
		return
	}
	zoom, err := strconv.Atoi(zoomParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Invalid zoom value",
		})
		return
	}

	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	req := &model.MapViewportRequest{
		BBox:   boundingBox,
		Zoom:   zoom,
		Filter: filter,
		Limit:  h.parseLimit(c),
	}

	// サービス層で処理
	response, err := h.mapQueryUseCase.GetMapPoints(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to get map points: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// ExpandCluster GET /api/map/clusters/:cluster_id - クラスタを構成ポイントに展開
func (h *MapHandler) ExpandCluster(c *gin.Context) {
	clusterID := c.Param("cluster_id")
	if clusterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing_parameter",
			"message": "Cluster ID is required",
		})
		return
	}

	filter, ok := h.parseFilter(c)
	if !ok {
		return
	}

	response, err := h.mapQueryUseCase.ExpandCluster(c.Request.Context(), clusterID, filter, h.parseLimit(c))
	if err != nil {
		// クエリ実行前のID形式エラーは 400 として区別する
		if errors.Is(err, model.ErrInvalidClusterID) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_cluster_id",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to expand cluster: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetEntity GET /api/map/entities/:kind/:id - ポイントエンティティを1件取得
func (h *MapHandler) GetEntity(c *gin.Context) {
	kind := model.EntityKind(c.Param("kind"))
	id := c.Param("id")

	entity, err := h.entityDetailUseCase.GetEntity(c.Request.Context(), kind, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "not_found",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to get entity: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, entity)
}

// parseBBox bboxパラメータを解析する (format: min_lng,min_lat,max_lng,max_lat)
func (h *MapHandler) parseBBox(c *gin.Context, bbox string) (model.BoundingBox, bool) {
	coords := strings.Split(bbox, ",")
	if len(coords) != 4 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "bbox must contain 4 coordinates: min_lng,min_lat,max_lng,max_lat",
		})
		return model.BoundingBox{}, false
	}

	minLng, err := strconv.ParseFloat(coords[0], 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Invalid min_lng value",
		})
		return model.BoundingBox{}, false
	}

	minLat, err := strconv.ParseFloat(coords[1], 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Invalid min_lat value",
		})
		return model.BoundingBox{}, false
	}

	maxLng, err := strconv.ParseFloat(coords[2], 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Invalid max_lng value",
		})
		return model.BoundingBox{}, false
	}

	maxLat, err := strconv.ParseFloat(coords[3], 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_parameter",
			"message": "Invalid max_lat value",
		})
		return model.BoundingBox{}, false
	}

	return model.BoundingBox{
		North: maxLat,
		South: minLat,
		East:  maxLng,
		West:  minLng,
	}, true
}

// parseFilter 絞り込み条件のクエリパラメータを解析する
func (h *MapHandler) parseFilter(c *gin.Context) (model.MapFilter, bool) {
	var filter model.MapFilter

	if ward := c.Query("ward"); ward != "" {
		wardNumber, err := strconv.Atoi(ward)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_parameter",
				"message": "Invalid ward value",
			})
			return model.MapFilter{}, false
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

	return filter, true
}

// parseLimit limitパラメータを解析する（不正値はユースケース側でデフォルトに丸められる）
func (h *MapHandler) parseLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		return 0
	}
	return limit
}
