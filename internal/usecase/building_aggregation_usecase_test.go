package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"CensusMap-App/internal/domain/model"
)

// stubAttachmentResolver テスト用の添付URL解決スタブ
type stubAttachmentResolver struct {
	urls map[string]map[string]string // ownerID -> 正規フィールド名 -> URL
}

func (s *stubAttachmentResolver) Resolve(ctx context.Context, ownerID string, attachmentType model.AttachmentType) string {
	field, ok := attachmentType.CanonicalField()
	if !ok {
		return ""
	}
	return s.urls[ownerID][field]
}

func (s *stubAttachmentResolver) ResolveAll(ctx context.Context, ownerID string) map[string]string {
	resolved := make(map[string]string, len(s.urls[ownerID]))
	for field, url := range s.urls[ownerID] {
		resolved[field] = url
	}
	return resolved
}

func TestAggregatePageDenormalization(t *testing.T) {
	building := testBuilding(27.5, 85.5, 1, "completed")
	household := model.Household{ID: uuid.New().String(), HouseholdNumber: 1, FamilyHeadName: "山田太郎"}
	business := model.Business{ID: uuid.New().String(), BusinessNumber: 1, Name: "商店A"}
	building.Households = []model.Household{household}
	building.Businesses = []model.Business{business}

	repo := &stubBuildingsRepository{buildings: []model.Building{building}}
	resolver := &stubAttachmentResolver{
		urls: map[string]map[string]string{
			building.ID:  {"image": "https://example.com/b.jpg", "operatorSelfie": "https://example.com/bs.jpg"},
			household.ID: {"familyHeadImage": "https://example.com/h.jpg"},
			business.ID:  {"businessImage": "https://example.com/biz.jpg"},
		},
	}
	uc := NewBuildingAggregationUseCase(repo, resolver)

	res, err := uc.AggregatePage(context.Background(), model.MapFilter{}, 10, 0)

	assert.NoError(t, err)
	assert.Len(t, res.Data, 1)

	record := res.Data[0]
	assert.Equal(t, building.ID, record.Building.ID)
	assert.Equal(t, "https://example.com/b.jpg", record.Attachments["image"])
	assert.Equal(t, "https://example.com/bs.jpg", record.Attachments["operatorSelfie"])

	// 内包する世帯・事業所にも添付URLがマージされていること
	assert.Len(t, record.Households, 1)
	assert.Equal(t, household.FamilyHeadName, record.Households[0].FamilyHeadName)
	assert.Equal(t, "https://example.com/h.jpg", record.Households[0].Attachments["familyHeadImage"])

	assert.Len(t, record.Businesses, 1)
	assert.Equal(t, business.Name, record.Businesses[0].Name)
	assert.Equal(t, "https://example.com/biz.jpg", record.Businesses[0].Attachments["businessImage"])
}

func TestAggregatePagePagination(t *testing.T) {
	buildings := make([]model.Building, 0, 7)
	for i := 0; i < 7; i++ {
		buildings = append(buildings, testBuilding(27.5, 85.5, 1, "completed"))
	}
	repo := &stubBuildingsRepository{buildings: buildings}
	uc := NewBuildingAggregationUseCase(repo, &stubAttachmentResolver{})

	t.Run("2ページ目の絞り込み", func(t *testing.T) {
		res, err := uc.AggregatePage(context.Background(), model.MapFilter{}, 3, 3)
		assert.NoError(t, err)
		assert.Len(t, res.Data, 3)
		assert.Equal(t, 7, res.Pagination.Total)
		assert.Equal(t, 3, res.Pagination.PageSize)
		assert.Equal(t, 3, res.Pagination.Offset)
	})

	t.Run("末尾のページは残り件数のみ返す", func(t *testing.T) {
		res, err := uc.AggregatePage(context.Background(), model.MapFilter{}, 3, 6)
		assert.NoError(t, err)
		assert.Len(t, res.Data, 1)
		assert.Equal(t, 7, res.Pagination.Total)
	})

	t.Run("負のオフセットは0に丸められる", func(t *testing.T) {
		res, err := uc.AggregatePage(context.Background(), model.MapFilter{}, 3, -5)
		assert.NoError(t, err)
		assert.Equal(t, 0, res.Pagination.Offset)
	})
}

func TestAggregatePageSummary(t *testing.T) {
	repo := &stubBuildingsRepository{
		buildings: []model.Building{
			testBuilding(27.5, 85.5, 1, "completed"),
			testBuilding(27.51, 85.51, 1, "completed"),
			testBuilding(27.52, 85.52, 1, "pending"),
		},
	}
	uc := NewBuildingAggregationUseCase(repo, &stubAttachmentResolver{})

	res, err := uc.AggregatePage(context.Background(), model.MapFilter{}, 10, 0)

	assert.NoError(t, err)
	assert.Equal(t, map[string]int{"completed": 2, "pending": 1}, res.Summary)
}

func TestAggregatePageFilter(t *testing.T) {
	repo := &stubBuildingsRepository{
		buildings: []model.Building{
			testBuilding(27.5, 85.5, 1, "completed"),
			testBuilding(27.51, 85.51, 2, "completed"),
		},
	}
	uc := NewBuildingAggregationUseCase(repo, &stubAttachmentResolver{})

	wardNumber := 1
	res, err := uc.AggregatePage(context.Background(), model.MapFilter{WardNumber: &wardNumber}, 10, 0)

	assert.NoError(t, err)
	assert.Len(t, res.Data, 1)
	assert.Equal(t, 1, res.Pagination.Total)
	assert.Equal(t, 1, res.Data[0].WardNumber)
}

func TestAggregatePageStoreFailure(t *testing.T) {
	repo := &stubBuildingsRepository{queryErr: fmt.Errorf("connection refused")}
	uc := NewBuildingAggregationUseCase(repo, &stubAttachmentResolver{})

	_, err := uc.AggregatePage(context.Background(), model.MapFilter{}, 10, 0)

	assert.Error(t, err)
}
