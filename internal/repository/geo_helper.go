package repository

import (
	"github.com/paulmach/orb"

	"CensusMap-App/internal/domain/model"
)

// BoundingBoxToBound model.BoundingBox を orb.Bound に変換
func BoundingBoxToBound(bbox model.BoundingBox) orb.Bound {
	bound := orb.Bound{
		Min: orb.Point{bbox.West, bbox.South},
		Max: orb.Point{bbox.East, bbox.North},
	}

	// 角が入れ替わっていても正しい境界ボックスになるよう拡張する
	bound = bound.Extend(orb.Point{bbox.West, bbox.South}).Extend(orb.Point{bbox.East, bbox.North})
	return bound
}

// ContainsPoint 境界ボックスが座標を含むかチェック（境界を含む）
func ContainsPoint(bbox model.BoundingBox, lat, lng float64) bool {
	return BoundingBoxToBound(bbox).Contains(orb.Point{lng, lat})
}

// PadBoundingBox 境界ボックスに余裕を持たせた新しい境界ボックスを返す
// padding は度単位（0.001 ≒ 約111m）
func PadBoundingBox(bbox model.BoundingBox, padding float64) model.BoundingBox {
	bound := BoundingBoxToBound(bbox).Pad(padding)
	return model.BoundingBox{
		North: bound.Max.Lat(),
		South: bound.Min.Lat(),
		East:  bound.Max.Lon(),
		West:  bound.Min.Lon(),
	}
}
