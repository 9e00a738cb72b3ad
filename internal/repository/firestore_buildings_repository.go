package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"CensusMap-App/internal/domain/model"
	"CensusMap-App/internal/domain/repository"
)

const buildingsCollection = "buildings"

// latRangePadding 緯度範囲クエリの余裕幅（度単位、約11m）
const latRangePadding = 0.0001

// FirestoreBuildingsRepository Firestoreの建物ドキュメントを読むリポジトリ
// 建物1棟 = 1ドキュメントで、世帯・事業所は配列フィールドとして内包される
type FirestoreBuildingsRepository struct {
	client *firestore.Client
}

func NewFirestoreBuildingsRepository(client *firestore.Client) repository.BuildingsRepository {
	return &FirestoreBuildingsRepository{
		client: client,
	}
}

// QueryByBoundingBox 境界ボックス内の建物を取得する
// Firestoreは複数フィールドへの範囲条件を同時に指定できないため、
// 緯度のみクエリし、経度と絞り込み条件はメモリ上で適用する
// サーバー側の緯度範囲はわずかに広げ、境界上の浮動小数点比較の取りこぼしを防ぐ
func (r *FirestoreBuildingsRepository) QueryByBoundingBox(ctx context.Context, bbox model.BoundingBox, filter model.MapFilter, limit int) ([]model.Building, error) {
	padded := PadBoundingBox(bbox, latRangePadding)
	iter := r.client.Collection(buildingsCollection).
		Where("location.latitude", ">=", padded.South).
		Where("location.latitude", "<=", padded.North).
		Documents(ctx)
	defer iter.Stop()

	var buildings []model.Building
	for len(buildings) < limit {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("境界ボックス内建物データの取得失敗: %w", err)
		}

		building, err := decodeBuildingDocument(doc)
		if err != nil {
			return nil, err
		}

		if !building.HasValidLocation() {
			continue
		}
		position := building.ToLatLng()
		if !ContainsPoint(bbox, position.Lat, position.Lng) {
			continue
		}
		if !filter.Matches(building) {
			continue
		}

		buildings = append(buildings, *building)
	}

	return buildings, nil
}

func (r *FirestoreBuildingsRepository) GetByID(ctx context.Context, id string) (*model.Building, error) {
	doc, err := r.client.Collection(buildingsCollection).Doc(id).Get(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: 建物 ID %s", model.ErrNotFound, id)
		}
		return nil, fmt.Errorf("建物データの取得失敗: %w", err)
	}

	return decodeBuildingDocument(doc)
}

// FindByHouseholdID 指定された世帯を内包する建物を取得する
// 子のIDはドキュメント横断のインデックスを持たないため全件走査となる
func (r *FirestoreBuildingsRepository) FindByHouseholdID(ctx context.Context, householdID string) (*model.Building, error) {
	return r.findByChild(ctx, func(index *model.BuildingChildIndex) bool {
		_, ok := index.Household(householdID)
		return ok
	}, "世帯", householdID)
}

// FindByBusinessID 指定された事業所を内包する建物を取得する
func (r *FirestoreBuildingsRepository) FindByBusinessID(ctx context.Context, businessID string) (*model.Building, error) {
	return r.findByChild(ctx, func(index *model.BuildingChildIndex) bool {
		_, ok := index.Business(businessID)
		return ok
	}, "事業所", businessID)
}

func (r *FirestoreBuildingsRepository) findByChild(ctx context.Context, matches func(*model.BuildingChildIndex) bool, label, childID string) (*model.Building, error) {
	iter := r.client.Collection(buildingsCollection).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("親建物の検索失敗: %w", err)
		}

		building, err := decodeBuildingDocument(doc)
		if err != nil {
			return nil, err
		}

		if matches(model.NewBuildingChildIndex(building)) {
			return building, nil
		}
	}

	return nil, fmt.Errorf("%w: %s ID %s", model.ErrNotFound, label, childID)
}

// GetPage 絞り込み条件付きで建物の一覧ページと総件数を取得する
// 絞り込みをメモリ上で適用する都合で全件を読む簡易実装（調査プロジェクト単位の件数を前提）
func (r *FirestoreBuildingsRepository) GetPage(ctx context.Context, filter model.MapFilter, limit, offset int) ([]model.Building, int, error) {
	docs, err := r.client.Collection(buildingsCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, fmt.Errorf("建物ページの取得失敗: %w", err)
	}

	var matched []model.Building
	for _, doc := range docs {
		building, err := decodeBuildingDocument(doc)
		if err != nil {
			return nil, 0, err
		}
		if filter.Matches(building) {
			matched = append(matched, *building)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return []model.Building{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	return matched[offset:end], total, nil
}

func decodeBuildingDocument(doc *firestore.DocumentSnapshot) (*model.Building, error) {
	var data model.FirestoreBuilding
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("建物ドキュメントの変換失敗: %w", err)
	}
	return data.ToBuilding(doc.Ref.ID), nil
}
