package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"CensusMap-App/internal/domain/model"
)

func TestGetEntityBuilding(t *testing.T) {
	building := testBuilding(27.7, 85.3, 5, "completed")
	repo := &stubBuildingsRepository{buildings: []model.Building{building}}
	uc := NewEntityDetailUseCase(repo)

	entity, err := uc.GetEntity(context.Background(), model.EntityKindBuilding, building.ID)

	assert.NoError(t, err)
	assert.Equal(t, building.ID, entity.ID)
	assert.Equal(t, model.EntityKindBuilding, entity.Kind)
	assert.InDelta(t, 27.7, entity.Position.Lat, 1e-9)
	assert.InDelta(t, 85.3, entity.Position.Lng, 1e-9)
	assert.Equal(t, 5, entity.Properties["ward_number"])
}

func TestGetEntityHousehold(t *testing.T) {
	building := testBuilding(27.7, 85.3, 5, "completed")
	household := model.Household{ID: uuid.New().String(), HouseholdNumber: 3, FamilyHeadName: "山田太郎"}
	building.Households = []model.Household{household}
	repo := &stubBuildingsRepository{buildings: []model.Building{building}}
	uc := NewEntityDetailUseCase(repo)

	entity, err := uc.GetEntity(context.Background(), model.EntityKindHousehold, household.ID)

	assert.NoError(t, err)
	assert.Equal(t, household.ID, entity.ID)
	assert.Equal(t, model.EntityKindHousehold, entity.Kind)
	// 世帯は親建物の座標を引き継ぐ
	assert.InDelta(t, 27.7, entity.Position.Lat, 1e-9)
	assert.Equal(t, building.ID, entity.Properties["building_id"])
	assert.Equal(t, "山田太郎", entity.Properties["family_head_name"])
}

func TestGetEntityBusiness(t *testing.T) {
	building := testBuilding(27.7, 85.3, 5, "completed")
	business := model.Business{ID: uuid.New().String(), BusinessNumber: 1, Name: "商店A", IndustryType: "retail"}
	building.Businesses = []model.Business{business}
	repo := &stubBuildingsRepository{buildings: []model.Building{building}}
	uc := NewEntityDetailUseCase(repo)

	entity, err := uc.GetEntity(context.Background(), model.EntityKindBusiness, business.ID)

	assert.NoError(t, err)
	assert.Equal(t, business.ID, entity.ID)
	assert.Equal(t, model.EntityKindBusiness, entity.Kind)
	assert.Equal(t, "商店A", entity.Properties["name"])
}

func TestGetEntityNotFound(t *testing.T) {
	building := testBuilding(27.7, 85.3, 5, "completed")
	household := model.Household{ID: uuid.New().String()}
	building.Households = []model.Household{household}
	repo := &stubBuildingsRepository{buildings: []model.Building{building}}
	uc := NewEntityDetailUseCase(repo)

	t.Run("存在しないIDはErrNotFound", func(t *testing.T) {
		_, err := uc.GetEntity(context.Background(), model.EntityKindBuilding, uuid.New().String())
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("種別が一致しない場合もErrNotFound", func(t *testing.T) {
		// 世帯IDを建物として引いてもヒットしない
		_, err := uc.GetEntity(context.Background(), model.EntityKindBuilding, household.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("UUID形式でないIDはErrNotFound", func(t *testing.T) {
		_, err := uc.GetEntity(context.Background(), model.EntityKindBuilding, "not-a-uuid")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("未定義の種別はErrNotFound", func(t *testing.T) {
		_, err := uc.GetEntity(context.Background(), model.EntityKind("vehicle"), building.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestGetEntityBuildingWithoutLocation(t *testing.T) {
	// 座標未登録の建物は地図エンティティとして返せない
	building := testBuilding(27.7, 85.3, 5, "completed")
	building.Location = nil
	repo := &stubBuildingsRepository{buildings: []model.Building{building}}
	uc := NewEntityDetailUseCase(repo)

	_, err := uc.GetEntity(context.Background(), model.EntityKindBuilding, building.ID)

	assert.ErrorIs(t, err, model.ErrNotFound)
}
