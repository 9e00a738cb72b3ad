package usecase

import (
	"context"
	"fmt"
	"sync"

	"CensusMap-App/internal/domain/model"
	"CensusMap-App/internal/domain/repository"
	"CensusMap-App/internal/domain/service"
)

// BuildingAggregationUseCase 建物一覧ページを添付URL込みの非正規化レコードに集約するユースケース
type BuildingAggregationUseCase interface {
	// AggregatePage 絞り込み条件付きの建物ページを取得し、建物・世帯・事業所の
	// 添付メディアURLをすべて解決した非正規化レコードとして返す
	AggregatePage(ctx context.Context, filter model.MapFilter, limit, offset int) (*model.AggregatedBuildingsResponse, error)
}

type buildingAggregationUseCaseImpl struct {
	buildingsRepo repository.BuildingsRepository
	resolver      service.AttachmentResolver
	maxGoroutines int
}

// NewBuildingAggregationUseCase BuildingAggregationUseCaseの新しいインスタンスを作成
func NewBuildingAggregationUseCase(buildingsRepo repository.BuildingsRepository, resolver service.AttachmentResolver) BuildingAggregationUseCase {
	return &buildingAggregationUseCaseImpl{
		buildingsRepo: buildingsRepo,
		resolver:      resolver,
		maxGoroutines: 5, // 同時実行数を制限
	}
}

// AggregatePage 建物ページを非正規化して返す
// 添付URL解決はページ単位の二段ファンアウト（建物→内包する世帯・事業所）で、
// 各解決は独立した読み取りのため並行実行する
func (u *buildingAggregationUseCaseImpl) AggregatePage(ctx context.Context, filter model.MapFilter, limit, offset int) (*model.AggregatedBuildingsResponse, error) {
	limit = model.NormalizePointLimit(limit)
	if offset < 0 {
		offset = 0
	}

	buildings, total, err := u.buildingsRepo.GetPage(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("建物ページの取得失敗: %w", err)
	}

	// セマフォを使用して同時実行数を制限しつつ、建物ごとに並行で解決
	results := make([]model.DenormalizedBuilding, len(buildings))
	semaphore := make(chan struct{}, u.maxGoroutines)
	var wg sync.WaitGroup

	for i := range buildings {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[idx] = u.denormalize(ctx, &buildings[idx])
		}(i)
	}
	wg.Wait()

	summary := make(map[string]int)
	for i := range buildings {
		summary[buildings[i].MapStatus]++
	}

	return &model.AggregatedBuildingsResponse{
		Data: results,
		Pagination: model.Pagination{
			Total:    total,
			PageSize: limit,
			Offset:   offset,
		},
		Summary: summary,
	}, nil
}

// denormalize 1棟分の建物・世帯・事業所の添付URLをすべて解決する
// 上流ストアのレコードは変更しない（コピーに対してマージする）
func (u *buildingAggregationUseCaseImpl) denormalize(ctx context.Context, building *model.Building) model.DenormalizedBuilding {
	record := model.DenormalizedBuilding{
		Building:    *building,
		Attachments: u.resolver.ResolveAll(ctx, building.ID),
		Households:  make([]model.DenormalizedHousehold, 0, len(building.Households)),
		Businesses:  make([]model.DenormalizedBusiness, 0, len(building.Businesses)),
	}

	for _, household := range building.Households {
		record.Households = append(record.Households, model.DenormalizedHousehold{
			Household:   household,
			Attachments: u.resolver.ResolveAll(ctx, household.ID),
		})
	}

	for _, business := range building.Businesses {
		record.Businesses = append(record.Businesses, model.DenormalizedBusiness{
			Business:    business,
			Attachments: u.resolver.ResolveAll(ctx, business.ID),
		})
	}

	return record
}
