package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"CensusMap-App/internal/domain/helper"
	"CensusMap-App/internal/domain/model"
	"CensusMap-App/internal/domain/repository"
)

// EntityDetailUseCase ID指定でポイントエンティティを1件取得するユースケース
type EntityDetailUseCase interface {
	// GetEntity 種別とIDからポイントエンティティを取得（存在しない場合は model.ErrNotFound）
	GetEntity(ctx context.Context, kind model.EntityKind, id string) (*model.PointEntity, error)
}

type entityDetailUseCaseImpl struct {
	buildingsRepo repository.BuildingsRepository
}

// NewEntityDetailUseCase EntityDetailUseCaseの新しいインスタンスを作成
func NewEntityDetailUseCase(buildingsRepo repository.BuildingsRepository) EntityDetailUseCase {
	return &entityDetailUseCaseImpl{
		buildingsRepo: buildingsRepo,
	}
}

// GetEntity 種別とIDからポイントエンティティを取得する
// 世帯・事業所のIDは建物内でのみユニークなため、親の建物を先に特定してから
// 子レコードインデックス経由で引く
func (u *entityDetailUseCaseImpl) GetEntity(ctx context.Context, kind model.EntityKind, id string) (*model.PointEntity, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: 未定義の種別 %s", model.ErrNotFound, kind)
	}

	// IDの形式チェック
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: 無効なID形式 %s", model.ErrNotFound, id)
	}

	switch kind {
	case model.EntityKindBuilding:
		building, err := u.buildingsRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !building.HasValidLocation() {
			// 座標未登録の建物は地図エンティティとして表現できない
			return nil, fmt.Errorf("%w: 建物 %s は座標未登録", model.ErrNotFound, id)
		}
		entity := helper.BuildingPoint(building)
		return &entity, nil

	case model.EntityKindHousehold:
		building, err := u.buildingsRepo.FindByHouseholdID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !building.HasValidLocation() {
			return nil, fmt.Errorf("%w: 世帯 %s の建物は座標未登録", model.ErrNotFound, id)
		}
		index := model.NewBuildingChildIndex(building)
		household, ok := index.Household(id)
		if !ok {
			return nil, fmt.Errorf("%w: 世帯 %s", model.ErrNotFound, id)
		}
		entity := helper.HouseholdPoint(building, household)
		return &entity, nil

	case model.EntityKindBusiness:
		building, err := u.buildingsRepo.FindByBusinessID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !building.HasValidLocation() {
			return nil, fmt.Errorf("%w: 事業所 %s の建物は座標未登録", model.ErrNotFound, id)
		}
		index := model.NewBuildingChildIndex(building)
		business, ok := index.Business(id)
		if !ok {
			return nil, fmt.Errorf("%w: 事業所 %s", model.ErrNotFound, id)
		}
		entity := helper.BusinessPoint(building, business)
		return &entity, nil
	}

	return nil, fmt.Errorf("%w: 未定義の種別 %s", model.ErrNotFound, kind)
}
