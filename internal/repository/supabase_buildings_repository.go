package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"CensusMap-App/internal/domain/model"
	"CensusMap-App/internal/domain/repository"
	"CensusMap-App/internal/infrastructure/database"
)

type SupabaseBuildingsRepository struct {
	client *database.SupabaseClient
}

func NewSupabaseBuildingsRepository(client *database.SupabaseClient) repository.BuildingsRepository {
	return &SupabaseBuildingsRepository{
		client: client,
	}
}

// 緯度・経度にアクセスするPostgRESTのJSONBパス
// 範囲比較には `->`（jsonb値）を使う。`->>` はテキスト投影になり、
// 数値比較のつもりが辞書順比較になる（"27.5" > "100.2"）
const (
	latitudeColumn  = "location->coordinates->1"
	longitudeColumn = "location->coordinates->0"
)

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// QueryByBoundingBox 境界ボックス内の建物を取得する
// 同一カラムへの範囲条件はand句に畳む（postgrest-goのFilterはカラム単位の
// マップのため、gte/lteを個別に指定すると後の条件が前の条件を上書きする）
func (r *SupabaseBuildingsRepository) QueryByBoundingBox(ctx context.Context, bbox model.BoundingBox, filter model.MapFilter, limit int) ([]model.Building, error) {
	bboxCondition := fmt.Sprintf("%s.gte.%s,%s.lte.%s,%s.gte.%s,%s.lte.%s",
		latitudeColumn, formatCoordinate(bbox.South),
		latitudeColumn, formatCoordinate(bbox.North),
		longitudeColumn, formatCoordinate(bbox.West),
		longitudeColumn, formatCoordinate(bbox.East))

	builder := r.client.GetClient().From("buildings").
		Select("*", "exact", false).
		Not("location", "is", "null").
		And(bboxCondition, "")

	if filter.WardNumber != nil {
		builder = builder.Eq("ward_number", strconv.Itoa(*filter.WardNumber))
	}
	if filter.AreaCode != nil {
		builder = builder.Eq("area_code", *filter.AreaCode)
	}
	if filter.EnumeratorID != nil {
		builder = builder.Eq("enumerator_id", *filter.EnumeratorID)
	}
	if filter.MapStatus != nil {
		builder = builder.Eq("map_status", *filter.MapStatus)
	}

	data, count, err := builder.Limit(limit, "").Execute()
	if err != nil {
		return nil, fmt.Errorf("境界ボックス内建物データの取得失敗: %w", err)
	}
	_ = count

	var buildings []model.Building
	if err := json.Unmarshal([]byte(data), &buildings); err != nil {
		return nil, fmt.Errorf("建物データのJSONアンマーシャル失敗: %w", err)
	}

	return buildings, nil
}

func (r *SupabaseBuildingsRepository) GetByID(ctx context.Context, id string) (*model.Building, error) {
	var buildings []model.Building
	data, count, err := r.client.GetClient().From("buildings").Select("*", "exact", false).Eq("id", id).Execute()
	if err != nil {
		return nil, fmt.Errorf("建物データの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &buildings); err != nil {
		return nil, fmt.Errorf("建物データのJSONアンマーシャル失敗: %w", err)
	}

	if len(buildings) == 0 {
		return nil, fmt.Errorf("%w: 建物 ID %s", model.ErrNotFound, id)
	}

	return &buildings[0], nil
}

// FindByHouseholdID 指定された世帯を内包する建物を取得する
// JSONB配列の包含演算子（cs）で親建物を特定する
func (r *SupabaseBuildingsRepository) FindByHouseholdID(ctx context.Context, householdID string) (*model.Building, error) {
	return r.findByChildID(ctx, "households", householdID)
}

// FindByBusinessID 指定された事業所を内包する建物を取得する
func (r *SupabaseBuildingsRepository) FindByBusinessID(ctx context.Context, businessID string) (*model.Building, error) {
	return r.findByChildID(ctx, "businesses", businessID)
}

func (r *SupabaseBuildingsRepository) findByChildID(ctx context.Context, column, childID string) (*model.Building, error) {
	condition, err := json.Marshal([]map[string]string{{"id": childID}})
	if err != nil {
		return nil, fmt.Errorf("検索条件のJSONマーシャル失敗: %w", err)
	}

	var buildings []model.Building
	data, count, err := r.client.GetClient().From("buildings").
		Select("*", "exact", false).
		Filter(column, "cs", string(condition)).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("親建物の検索失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &buildings); err != nil {
		return nil, fmt.Errorf("建物データのJSONアンマーシャル失敗: %w", err)
	}

	if len(buildings) == 0 {
		return nil, fmt.Errorf("%w: %s 内に ID %s", model.ErrNotFound, column, childID)
	}

	return &buildings[0], nil
}

// GetPage 絞り込み条件付きで建物の一覧ページと総件数を取得する
// 総件数はPostgRESTのexactカウントをそのまま使用する
func (r *SupabaseBuildingsRepository) GetPage(ctx context.Context, filter model.MapFilter, limit, offset int) ([]model.Building, int, error) {
	builder := r.client.GetClient().From("buildings").Select("*", "exact", false)

	if filter.WardNumber != nil {
		builder = builder.Eq("ward_number", strconv.Itoa(*filter.WardNumber))
	}
	if filter.AreaCode != nil {
		builder = builder.Eq("area_code", *filter.AreaCode)
	}
	if filter.EnumeratorID != nil {
		builder = builder.Eq("enumerator_id", *filter.EnumeratorID)
	}
	if filter.MapStatus != nil {
		builder = builder.Eq("map_status", *filter.MapStatus)
	}

	data, count, err := builder.Range(offset, offset+limit-1, "").Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("建物ページの取得失敗: %w", err)
	}

	var buildings []model.Building
	if err := json.Unmarshal([]byte(data), &buildings); err != nil {
		return nil, 0, fmt.Errorf("建物データのJSONアンマーシャル失敗: %w", err)
	}

	return buildings, int(count), nil
}
