package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"CensusMap-App/internal/domain/model"
	"CensusMap-App/internal/domain/repository"
	"CensusMap-App/internal/infrastructure/database"
)

type PostgresBuildingsRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresBuildingsRepository(client *database.PostgreSQLClient) repository.BuildingsRepository {
	return &PostgresBuildingsRepository{
		client: client,
	}
}

const buildingColumns = `id, ward_number, area_code, enumerator_id, map_status, owner_name, building_use, total_families, location, households, businesses, created_at`

// BuildingResult buildingsテーブルの行を受け取るための構造体
// location / households / businesses はJSONB文字列としてスキャンする
type BuildingResult struct {
	ID            string
	WardNumber    int
	AreaCode      string
	EnumeratorID  string
	MapStatus     string
	OwnerName     string
	BuildingUse   string
	TotalFamilies int
	Location      sql.NullString
	Households    sql.NullString
	Businesses    sql.NullString
	CreatedAt     time.Time
}

// ToBuilding BuildingResultをmodel.Buildingに変換
func (br *BuildingResult) ToBuilding() (*model.Building, error) {
	building := &model.Building{
		ID:            br.ID,
		WardNumber:    br.WardNumber,
		AreaCode:      br.AreaCode,
		EnumeratorID:  br.EnumeratorID,
		MapStatus:     br.MapStatus,
		OwnerName:     br.OwnerName,
		BuildingUse:   br.BuildingUse,
		TotalFamilies: br.TotalFamilies,
		CreatedAt:     br.CreatedAt,
	}

	if br.Location.Valid {
		var location model.Geometry
		if err := json.Unmarshal([]byte(br.Location.String), &location); err != nil {
			return nil, fmt.Errorf("location JSONBパースエラー: %w", err)
		}
		building.Location = &location
	}

	if br.Households.Valid {
		if err := json.Unmarshal([]byte(br.Households.String), &building.Households); err != nil {
			return nil, fmt.Errorf("households JSONBパースエラー: %w", err)
		}
	}

	if br.Businesses.Valid {
		if err := json.Unmarshal([]byte(br.Businesses.String), &building.Businesses); err != nil {
			return nil, fmt.Errorf("businesses JSONBパースエラー: %w", err)
		}
	}

	return building, nil
}

func (br *BuildingResult) scan(row interface{ Scan(...interface{}) error }) error {
	return row.Scan(&br.ID, &br.WardNumber, &br.AreaCode, &br.EnumeratorID, &br.MapStatus,
		&br.OwnerName, &br.BuildingUse, &br.TotalFamilies, &br.Location, &br.Households,
		&br.Businesses, &br.CreatedAt)
}

// appendFilterConditions 絞り込み条件をWHERE句に追加する（すべてAND条件）
func appendFilterConditions(query string, args []interface{}, filter model.MapFilter) (string, []interface{}) {
	if filter.WardNumber != nil {
		args = append(args, *filter.WardNumber)
		query += fmt.Sprintf(" AND ward_number = $%d", len(args))
	}
	if filter.AreaCode != nil {
		args = append(args, *filter.AreaCode)
		query += fmt.Sprintf(" AND area_code = $%d", len(args))
	}
	if filter.EnumeratorID != nil {
		args = append(args, *filter.EnumeratorID)
		query += fmt.Sprintf(" AND enumerator_id = $%d", len(args))
	}
	if filter.MapStatus != nil {
		args = append(args, *filter.MapStatus)
		query += fmt.Sprintf(" AND map_status = $%d", len(args))
	}
	return query, args
}

// QueryByBoundingBox 境界ボックス内の建物を取得する
// locationはGeoJSON（[lng, lat]順）のJSONBカラムで、座標未登録の行は除外する
func (r *PostgresBuildingsRepository) QueryByBoundingBox(ctx context.Context, bbox model.BoundingBox, filter model.MapFilter, limit int) ([]model.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings
		WHERE location IS NOT NULL
		AND (location->'coordinates'->>1)::float8 BETWEEN $1 AND $2
		AND (location->'coordinates'->>0)::float8 BETWEEN $3 AND $4`
	args := []interface{}{bbox.South, bbox.North, bbox.West, bbox.East}

	query, args = appendFilterConditions(query, args, filter)

	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := r.client.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("境界ボックス内建物データの取得失敗: %w", err)
	}
	defer rows.Close()

	var buildings []model.Building
	for rows.Next() {
		var result BuildingResult
		if err := result.scan(rows); err != nil {
			return nil, fmt.Errorf("建物データのスキャン失敗: %w", err)
		}
		building, err := result.ToBuilding()
		if err != nil {
			return nil, err
		}
		buildings = append(buildings, *building)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("建物データの読み取り失敗: %w", err)
	}

	return buildings, nil
}

func (r *PostgresBuildingsRepository) GetByID(ctx context.Context, id string) (*model.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE id = $1`

	row := r.client.DB.QueryRowContext(ctx, query, id)

	var result BuildingResult
	if err := result.scan(row); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: 建物 ID %s", model.ErrNotFound, id)
		}
		return nil, fmt.Errorf("建物データの取得失敗: %w", err)
	}

	return result.ToBuilding()
}

// FindByHouseholdID 指定された世帯を内包する建物を取得する
// JSONB配列の包含演算子で親建物を特定する（世帯単体のインデックスは持たない）
func (r *PostgresBuildingsRepository) FindByHouseholdID(ctx context.Context, householdID string) (*model.Building, error) {
	return r.findByChildID(ctx, "households", householdID)
}

// FindByBusinessID 指定された事業所を内包する建物を取得する
func (r *PostgresBuildingsRepository) FindByBusinessID(ctx context.Context, businessID string) (*model.Building, error) {
	return r.findByChildID(ctx, "businesses", businessID)
}

func (r *PostgresBuildingsRepository) findByChildID(ctx context.Context, column, childID string) (*model.Building, error) {
	condition, err := json.Marshal([]map[string]string{{"id": childID}})
	if err != nil {
		return nil, fmt.Errorf("検索条件のJSONマーシャル失敗: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM buildings WHERE %s @> $1 LIMIT 1`, buildingColumns, column)

	row := r.client.DB.QueryRowContext(ctx, query, string(condition))

	var result BuildingResult
	if err := result.scan(row); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s 内に ID %s", model.ErrNotFound, column, childID)
		}
		return nil, fmt.Errorf("親建物の検索失敗: %w", err)
	}

	return result.ToBuilding()
}

// GetPage 絞り込み条件付きで建物の一覧ページと総件数を取得する
func (r *PostgresBuildingsRepository) GetPage(ctx context.Context, filter model.MapFilter, limit, offset int) ([]model.Building, int, error) {
	countQuery := `SELECT COUNT(*) FROM buildings WHERE TRUE`
	countArgs := []interface{}{}
	countQuery, countArgs = appendFilterConditions(countQuery, countArgs, filter)

	var total int
	if err := r.client.DB.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("建物件数の取得失敗: %w", err)
	}

	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE TRUE`
	args := []interface{}{}
	query, args = appendFilterConditions(query, args, filter)

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.client.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("建物ページの取得失敗: %w", err)
	}
	defer rows.Close()

	var buildings []model.Building
	for rows.Next() {
		var result BuildingResult
		if err := result.scan(rows); err != nil {
			return nil, 0, fmt.Errorf("建物データのスキャン失敗: %w", err)
		}
		building, err := result.ToBuilding()
		if err != nil {
			return nil, 0, err
		}
		buildings = append(buildings, *building)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("建物データの読み取り失敗: %w", err)
	}

	return buildings, total, nil
}
