package helper

import (
	"CensusMap-App/internal/domain/model"
)

// BuildingPoint 建物をポイントエンティティに変換する
func BuildingPoint(b *model.Building) model.PointEntity {
	return model.PointEntity{
		ID:       b.ID,
		Kind:     model.EntityKindBuilding,
		Position: b.ToLatLng(),
		Properties: map[string]interface{}{
			"ward_number":     b.WardNumber,
			"area_code":       b.AreaCode,
			"enumerator_id":   b.EnumeratorID,
			"map_status":      b.MapStatus,
			"owner_name":      b.OwnerName,
			"building_use":    b.BuildingUse,
			"total_families":  b.TotalFamilies,
			"household_count": len(b.Households),
			"business_count":  len(b.Businesses),
		},
	}
}

// HouseholdPoint 世帯をポイントエンティティに変換する
// 世帯自体は座標を持たないため、親建物の位置を使用する
func HouseholdPoint(b *model.Building, h *model.Household) model.PointEntity {
	return model.PointEntity{
		ID:       h.ID,
		Kind:     model.EntityKindHousehold,
		Position: b.ToLatLng(),
		Properties: map[string]interface{}{
			"ward_number":      b.WardNumber,
			"building_id":      b.ID,
			"household_number": h.HouseholdNumber,
			"family_head_name": h.FamilyHeadName,
			"member_count":     h.MemberCount,
			"family_status":    h.FamilyStatus,
		},
	}
}

// BusinessPoint 事業所をポイントエンティティに変換する
func BusinessPoint(b *model.Building, bs *model.Business) model.PointEntity {
	return model.PointEntity{
		ID:       bs.ID,
		Kind:     model.EntityKindBusiness,
		Position: b.ToLatLng(),
		Properties: map[string]interface{}{
			"ward_number":     b.WardNumber,
			"building_id":     b.ID,
			"business_number": bs.BusinessNumber,
			"name":            bs.Name,
			"industry_type":   bs.IndustryType,
			"operator_name":   bs.OperatorName,
		},
	}
}

// BuildPointEntities 建物集約から地図表示用のポイント列を構築する
// 座標が無効な建物はポイント化せず、内包する世帯・事業所も同様に除外する
func BuildPointEntities(buildings []model.Building) []model.PointEntity {
	entities := make([]model.PointEntity, 0, len(buildings))
	for i := range buildings {
		b := &buildings[i]
		if !b.HasValidLocation() {
			continue
		}
		entities = append(entities, BuildingPoint(b))
		for j := range b.Households {
			entities = append(entities, HouseholdPoint(b, &b.Households[j]))
		}
		for j := range b.Businesses {
			entities = append(entities, BusinessPoint(b, &b.Businesses[j]))
		}
	}
	return entities
}
