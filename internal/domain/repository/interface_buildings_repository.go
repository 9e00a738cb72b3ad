package repository

import (
	"context"

	"CensusMap-App/internal/domain/model"
)

// BuildingsRepository 建物集約のポイントストアへのインターフェース
// 境界ボックス検索の limit を超える件数は自然順のまま切り詰められる
// （低ズームの高密度ビューポートでは全件性を保証しない既知の制限）
type BuildingsRepository interface {
	// QueryByBoundingBox 境界ボックス内の建物を絞り込み条件付きで取得
	// 座標が未登録・無効な建物は結果に含めない
	QueryByBoundingBox(ctx context.Context, bbox model.BoundingBox, filter model.MapFilter, limit int) ([]model.Building, error)

	// GetByID 建物IDで1件取得（存在しない場合は model.ErrNotFound）
	GetByID(ctx context.Context, id string) (*model.Building, error)

	// FindByHouseholdID 指定された世帯を内包する建物を取得
	// 世帯IDは建物内でのみユニークなため、親の建物を先に特定する必要がある
	FindByHouseholdID(ctx context.Context, householdID string) (*model.Building, error)

	// FindByBusinessID 指定された事業所を内包する建物を取得
	FindByBusinessID(ctx context.Context, businessID string) (*model.Building, error)

	// GetPage 絞り込み条件付きで建物の一覧ページと総件数を取得
	GetPage(ctx context.Context, filter model.MapFilter, limit, offset int) ([]model.Building, int, error)
}
