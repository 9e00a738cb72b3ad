package model

import "time"

// Building 調査対象の建物を表すモデル
// 世帯・事業所を配列として内包する集約（非正規化ドキュメントパターン）
type Building struct {
	ID            string      `json:"id" db:"id"`                         // ユニークな建物ID
	WardNumber    int         `json:"ward_number" db:"ward_number"`       // 区番号
	AreaCode      string      `json:"area_code" db:"area_code"`           // 調査エリアコード
	EnumeratorID  string      `json:"enumerator_id" db:"enumerator_id"`   // 調査員ID
	MapStatus     string      `json:"map_status" db:"map_status"`         // 地図ステータス
	OwnerName     string      `json:"owner_name" db:"owner_name"`         // 所有者名
	BuildingUse   string      `json:"building_use" db:"building_use"`     // 建物の用途
	TotalFamilies int         `json:"total_families" db:"total_families"` // 世帯数
	Location      *Geometry   `json:"location" db:"location"`             // 位置情報（PostGIS GEOMETRY型）
	Households    []Household `json:"households" db:"households"`         // 内包する世帯の配列
	Businesses    []Business  `json:"businesses" db:"businesses"`         // 内包する事業所の配列
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`         // 登録日時
}

// Household 建物に内包される世帯レコード（読み取り専用スナップショット）
type Household struct {
	ID              string `json:"id"`               // 世帯ID（建物内でユニーク）
	HouseholdNumber int    `json:"household_number"` // 世帯番号
	FamilyHeadName  string `json:"family_head_name"` // 世帯主名
	MemberCount     int    `json:"member_count"`     // 世帯人数
	FamilyStatus    string `json:"family_status"`    // 調査ステータス
}

// Business 建物に内包される事業所レコード（読み取り専用スナップショット）
type Business struct {
	ID             string `json:"id"`              // 事業所ID（建物内でユニーク）
	BusinessNumber int    `json:"business_number"` // 事業所番号
	Name           string `json:"name"`            // 事業所名
	IndustryType   string `json:"industry_type"`   // 業種
	OperatorName   string `json:"operator_name"`   // 経営者名
}

// HasValidLocation 建物の座標が登録済みかつ有効かチェック
func (b *Building) HasValidLocation() bool {
	return b.Location.HasValidCoordinates()
}

// ToLatLng 建物の位置情報をLatLng型に変換
func (b *Building) ToLatLng() LatLng {
	return b.Location.ToLatLng()
}

// BuildingChildIndex 建物内の世帯・事業所をIDで引くためのインデックス
// ネストしたコレクションを毎回線形走査しないよう、一度だけ構築して使い回す
type BuildingChildIndex struct {
	building   *Building
	households map[string]int
	businesses map[string]int
}

// NewBuildingChildIndex 建物の子レコードインデックスを構築する
func NewBuildingChildIndex(b *Building) *BuildingChildIndex {
	idx := &BuildingChildIndex{
		building:   b,
		households: make(map[string]int, len(b.Households)),
		businesses: make(map[string]int, len(b.Businesses)),
	}
	for i := range b.Households {
		idx.households[b.Households[i].ID] = i
	}
	for i := range b.Businesses {
		idx.businesses[b.Businesses[i].ID] = i
	}
	return idx
}

// Household 世帯IDから世帯レコードを取得
func (idx *BuildingChildIndex) Household(id string) (*Household, bool) {
	i, ok := idx.households[id]
	if !ok {
		return nil, false
	}
	return &idx.building.Households[i], true
}

// Business 事業所IDから事業所レコードを取得
func (idx *BuildingChildIndex) Business(id string) (*Business, bool) {
	i, ok := idx.businesses[id]
	if !ok {
		return nil, false
	}
	return &idx.building.Businesses[i], true
}

// DenormalizedHousehold 添付メディアURLをマージした世帯レコード
type DenormalizedHousehold struct {
	Household
	Attachments map[string]string `json:"attachments"`
}

// DenormalizedBusiness 添付メディアURLをマージした事業所レコード
type DenormalizedBusiness struct {
	Business
	Attachments map[string]string `json:"attachments"`
}

// DenormalizedBuilding 建物・世帯・事業所の添付URLをすべて解決した非正規化レコード
type DenormalizedBuilding struct {
	Building
	Attachments map[string]string       `json:"attachments"`
	Households  []DenormalizedHousehold `json:"households"`
	Businesses  []DenormalizedBusiness  `json:"businesses"`
}
