package usecase

import (
	"context"
	"fmt"

	"CensusMap-App/internal/domain/helper"
	"CensusMap-App/internal/domain/model"
	"CensusMap-App/internal/domain/repository"
	"CensusMap-App/internal/domain/service"
)

// MapQueryUseCase 地図ビューポートクエリとクラスタ展開のユースケース
type MapQueryUseCase interface {
	// GetMapPoints ビューポート内のポイントを取得し、ズームに応じてクラスタ化して返す
	GetMapPoints(ctx context.Context, req *model.MapViewportRequest) (*model.MapPointsResponse, error)

	// ExpandCluster クラスタIDからグリッドセルを復元し、構成ポイントを再取得する（ドリルダウン）
	ExpandCluster(ctx context.Context, clusterID string, filter model.MapFilter, limit int) (*model.MapPointsResponse, error)
}

type mapQueryUseCaseImpl struct {
	buildingsRepo  repository.BuildingsRepository
	clusterService service.GridClusterService
}

// NewMapQueryUseCase MapQueryUseCaseの新しいインスタンスを作成
func NewMapQueryUseCase(buildingsRepo repository.BuildingsRepository, clusterService service.GridClusterService) MapQueryUseCase {
	return &mapQueryUseCaseImpl{
		buildingsRepo:  buildingsRepo,
		clusterService: clusterService,
	}
}

// GetMapPoints ビューポート内のポイントを取得し、ズームに応じてクラスタ化して返す
func (u *mapQueryUseCaseImpl) GetMapPoints(ctx context.Context, req *model.MapViewportRequest) (*model.MapPointsResponse, error) {
	if !req.BBox.IsValid() {
		return nil, fmt.Errorf("境界ボックスの検証失敗: north=%.6f south=%.6f east=%.6f west=%.6f",
			req.BBox.North, req.BBox.South, req.BBox.East, req.BBox.West)
	}

	limit := model.NormalizePointLimit(req.Limit)

	buildings, err := u.buildingsRepo.QueryByBoundingBox(ctx, req.BBox, req.Filter, limit)
	if err != nil {
		return nil, fmt.Errorf("建物データの取得失敗: %w", err)
	}

	entities := helper.BuildPointEntities(buildings)
	if len(entities) > limit {
		// ストアの自然順のまま切り詰める（順序保証はない）
		entities = entities[:limit]
	}

	return u.clusterService.Cluster(entities, req.Zoom), nil
}

// ExpandCluster クラスタIDからグリッドセルを復元し、構成ポイントを再取得する
// メンバー一覧は永続化していないため、元の集約時点からデータが変わっていれば結果も変わり得る
func (u *mapQueryUseCaseImpl) ExpandCluster(ctx context.Context, clusterID string, filter model.MapFilter, limit int) (*model.MapPointsResponse, error) {
	latGrid, lngGrid, zoom, err := service.ParseClusterID(clusterID)
	if err != nil {
		return nil, err
	}

	// セル境界はビューポートの現在ズームではなく、クラスタID自身のズームで復元する
	bounds := service.CellBounds(latGrid, lngGrid, zoom)
	limit = model.NormalizePointLimit(limit)

	buildings, err := u.buildingsRepo.QueryByBoundingBox(ctx, bounds, filter, limit)
	if err != nil {
		return nil, fmt.Errorf("クラスタ %s の展開失敗: %w", clusterID, err)
	}

	entities := helper.BuildPointEntities(buildings)
	if len(entities) > limit {
		entities = entities[:limit]
	}

	return &model.MapPointsResponse{
		Entities: entities,
		Clusters: []model.Cluster{},
	}, nil
}
