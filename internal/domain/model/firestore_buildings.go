package model

import "time"

// FirestoreLocation Firestoreドキュメント内の位置情報
type FirestoreLocation struct {
	Latitude  float64 `firestore:"latitude"`
	Longitude float64 `firestore:"longitude"`
}

// FirestoreHousehold Firestoreの建物ドキュメントに内包される世帯
type FirestoreHousehold struct {
	ID              string `firestore:"id"`
	HouseholdNumber int    `firestore:"household_number"`
	FamilyHeadName  string `firestore:"family_head_name"`
	MemberCount     int    `firestore:"member_count"`
	FamilyStatus    string `firestore:"family_status"`
}

// FirestoreBusiness Firestoreの建物ドキュメントに内包される事業所
type FirestoreBusiness struct {
	ID             string `firestore:"id"`
	BusinessNumber int    `firestore:"business_number"`
	Name           string `firestore:"name"`
	IndustryType   string `firestore:"industry_type"`
	OperatorName   string `firestore:"operator_name"`
}

// FirestoreBuilding Firestoreの建物ドキュメント
// ドキュメントIDが建物IDとなるため、本体にはIDを持たない
type FirestoreBuilding struct {
	WardNumber    int                  `firestore:"ward_number"`
	AreaCode      string               `firestore:"area_code"`
	EnumeratorID  string               `firestore:"enumerator_id"`
	MapStatus     string               `firestore:"map_status"`
	OwnerName     string               `firestore:"owner_name"`
	BuildingUse   string               `firestore:"building_use"`
	TotalFamilies int                  `firestore:"total_families"`
	Location      *FirestoreLocation   `firestore:"location"`
	Households    []FirestoreHousehold `firestore:"households"`
	Businesses    []FirestoreBusiness  `firestore:"businesses"`
	CreatedAt     time.Time            `firestore:"created_at"`
}

// ToBuilding FirestoreドキュメントをBuildingモデルに変換
func (f *FirestoreBuilding) ToBuilding(id string) *Building {
	b := &Building{
		ID:            id,
		WardNumber:    f.WardNumber,
		AreaCode:      f.AreaCode,
		EnumeratorID:  f.EnumeratorID,
		MapStatus:     f.MapStatus,
		OwnerName:     f.OwnerName,
		BuildingUse:   f.BuildingUse,
		TotalFamilies: f.TotalFamilies,
		CreatedAt:     f.CreatedAt,
	}

	if f.Location != nil {
		b.Location = &Geometry{
			Type:        "Point",
			Coordinates: []float64{f.Location.Longitude, f.Location.Latitude},
		}
	}

	for _, h := range f.Households {
		b.Households = append(b.Households, Household{
			ID:              h.ID,
			HouseholdNumber: h.HouseholdNumber,
			FamilyHeadName:  h.FamilyHeadName,
			MemberCount:     h.MemberCount,
			FamilyStatus:    h.FamilyStatus,
		})
	}

	for _, bs := range f.Businesses {
		b.Businesses = append(b.Businesses, Business{
			ID:             bs.ID,
			BusinessNumber: bs.BusinessNumber,
			Name:           bs.Name,
			IndustryType:   bs.IndustryType,
			OperatorName:   bs.OperatorName,
		})
	}

	return b
}
