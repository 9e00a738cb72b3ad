package model

// EntityKind 地図上のポイントエンティティの種別
type EntityKind string

const (
	EntityKindBuilding  EntityKind = "building"
	EntityKindHousehold EntityKind = "household"
	EntityKindBusiness  EntityKind = "business"
)

// IsValid 定義済みの種別かチェック
func (k EntityKind) IsValid() bool {
	switch k {
	case EntityKindBuilding, EntityKindHousehold, EntityKindBusiness:
		return true
	}
	return false
}

const (
	// DefaultPointLimit ポイント取得件数のデフォルト値
	DefaultPointLimit = 100
	// MaxPointLimit ポイント取得件数の上限（行スキャンのバックプレッシャー制御）
	MaxPointLimit = 500
	// ClusterZoomThreshold このズーム以上では個別エンティティを返す（しきい値は固定）
	ClusterZoomThreshold = 15
	// MaxClusterZoom グリッド精度計算に使うズームの上限
	MaxClusterZoom = 20
)

// NormalizePointLimit 取得件数をデフォルト値と上限に丸める
func NormalizePointLimit(limit int) int {
	if limit <= 0 {
		return DefaultPointLimit
	}
	if limit > MaxPointLimit {
		return MaxPointLimit
	}
	return limit
}

// PointEntity 地図表示用のポイントエンティティ（リクエストごとに生成され、永続化しない）
type PointEntity struct {
	ID         string                 `json:"id"`
	Kind       EntityKind             `json:"kind"`
	Position   LatLng                 `json:"position"`
	Properties map[string]interface{} `json:"properties"` // 種別ごとの属性マップ
}

// WardNumber 属性マップから区番号を取り出す
func (p *PointEntity) WardNumber() (int, bool) {
	v, ok := p.Properties["ward_number"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

// MapFilter ビューポートクエリの絞り込み条件（すべてAND条件）
type MapFilter struct {
	WardNumber   *int
	AreaCode     *string
	EnumeratorID *string
	MapStatus    *string
}

// Matches 建物がフィルター条件を満たすかチェック
func (f MapFilter) Matches(b *Building) bool {
	if f.WardNumber != nil && b.WardNumber != *f.WardNumber {
		return false
	}
	if f.AreaCode != nil && b.AreaCode != *f.AreaCode {
		return false
	}
	if f.EnumeratorID != nil && b.EnumeratorID != *f.EnumeratorID {
		return false
	}
	if f.MapStatus != nil && b.MapStatus != *f.MapStatus {
		return false
	}
	return true
}

// MapViewportRequest 地図ビューポートクエリのリクエスト
type MapViewportRequest struct {
	BBox   BoundingBox
	Zoom   int
	Filter MapFilter
	Limit  int
}

// EntityKindCounts クラスタ内の種別ごとのポイント数
type EntityKindCounts struct {
	Buildings  int `json:"building"`
	Households int `json:"household"`
	Businesses int `json:"business"`
}

// Cluster グリッドセル単位の空間クラスタ（リクエストごとに計算され、永続化しない）
// Position は畳み込んだポイントの逐次平均であり、Bounds の幾何中心ではない
type Cluster struct {
	ID          string           `json:"id"`
	Position    LatLng           `json:"position"`
	Count       int              `json:"count"`
	KindCounts  EntityKindCounts `json:"kind_counts"`
	WardNumbers []int            `json:"ward_numbers"` // 重複排除しソート済み
	Bounds      BoundingBox      `json:"bounds"`
}

// MapPointsResponse ビューポートクエリのレスポンス
// Entities と Clusters は排他で、どちらか一方のみが要素を持つ
type MapPointsResponse struct {
	Entities []PointEntity `json:"entities"`
	Clusters []Cluster     `json:"clusters"`
}

// Pagination ページネーション情報
type Pagination struct {
	Total    int `json:"total"`
	PageSize int `json:"page_size"`
	Offset   int `json:"offset"`
}

// AggregatedBuildingsResponse 非正規化済み建物一覧のレスポンス
type AggregatedBuildingsResponse struct {
	Data       []DenormalizedBuilding `json:"data"`
	Pagination Pagination             `json:"pagination"`
	Summary    map[string]int         `json:"summary,omitempty"` // ページ内の地図ステータス別件数
}
