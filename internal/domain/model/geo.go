package model

import "math"

// LatLng 緯度経度を表す基本的な型（地図表示・集約で使用）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry PostGIS GEOMETRY型に対応する構造体
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

// HasValidCoordinates 座標が有効な範囲に収まっているかチェック
func (g *Geometry) HasValidCoordinates() bool {
	if g == nil || len(g.Coordinates) < 2 {
		return false
	}
	lng, lat := g.Coordinates[0], g.Coordinates[1]
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// ToLatLng Geometry を LatLng に変換（[lng, lat] 順に注意）
func (g *Geometry) ToLatLng() LatLng {
	if g != nil && len(g.Coordinates) >= 2 {
		return LatLng{
			Lat: g.Coordinates[1],
			Lng: g.Coordinates[0],
		}
	}
	return LatLng{}
}

// BoundingBox 地図ビューポートの境界ボックス（度単位）
// 経度180度線をまたぐビューポートには対応していない（既知の制限）
type BoundingBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Contains 指定座標が境界ボックス内（境界を含む）にあるかチェック
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.South && lat <= b.North && lng >= b.West && lng <= b.East
}

// IsValid 境界ボックスとして成立しているかチェック
func (b BoundingBox) IsValid() bool {
	if b.North < b.South || b.East < b.West {
		return false
	}
	if b.North > 90 || b.South < -90 {
		return false
	}
	return b.East <= 180 && b.West >= -180
}
