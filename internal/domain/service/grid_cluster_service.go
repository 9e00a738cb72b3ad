package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"CensusMap-App/internal/domain/model"
)

// clusterIDDelimiter クラスタIDの区切り文字（ワイヤ上に現れる固定フォーマット）
const clusterIDDelimiter = "_"

// GridPrecision ズームレベルから度→グリッドインデックス変換の倍率を求める
func GridPrecision(zoom int) float64 {
	if zoom > model.MaxClusterZoom {
		zoom = model.MaxClusterZoom
	}
	return math.Pow(2, float64(zoom)/2.0)
}

// BuildClusterID グリッドインデックスとズームからクラスタIDを組み立てる
// フォーマット: "<latGrid>_<lngGrid>_<zoom>"（ズームは上限に丸めた値）
func BuildClusterID(latGrid, lngGrid, zoom int) string {
	if zoom > model.MaxClusterZoom {
		zoom = model.MaxClusterZoom
	}
	return strconv.Itoa(latGrid) + clusterIDDelimiter + strconv.Itoa(lngGrid) + clusterIDDelimiter + strconv.Itoa(zoom)
}

// ParseClusterID クラスタIDをグリッドインデックスとズームに分解する
// 数値として解釈できない場合は model.ErrInvalidClusterID を返す
func ParseClusterID(clusterID string) (latGrid, lngGrid, zoom int, err error) {
	parts := strings.Split(clusterID, clusterIDDelimiter)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %s", model.ErrInvalidClusterID, clusterID)
	}

	latGrid, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %s", model.ErrInvalidClusterID, clusterID)
	}
	lngGrid, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %s", model.ErrInvalidClusterID, clusterID)
	}
	zoom, err = strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %s", model.ErrInvalidClusterID, clusterID)
	}

	return latGrid, lngGrid, zoom, nil
}

// CellBounds グリッドセルの境界ボックスを復元する
// 畳み込み時と同じ精度式を、クラスタID自身が持つズームで再計算する
func CellBounds(latGrid, lngGrid, zoom int) model.BoundingBox {
	precision := GridPrecision(zoom)
	return model.BoundingBox{
		South: float64(latGrid) / precision,
		North: float64(latGrid+1) / precision,
		West:  float64(lngGrid) / precision,
		East:  float64(lngGrid+1) / precision,
	}
}

// GridClusterService ズームレベルに応じてポイントをグリッドセルへ集約するサービス
type GridClusterService interface {
	// Cluster ポイント列をズームレベルに応じてクラスタまたは個別エンティティにまとめる
	Cluster(points []model.PointEntity, zoom int) *model.MapPointsResponse
}

type gridClusterServiceImpl struct{}

// NewGridClusterService GridClusterServiceの新しいインスタンスを作成
func NewGridClusterService() GridClusterService {
	return &gridClusterServiceImpl{}
}

// Cluster ズームがしきい値以上なら全ポイントをそのまま返し、未満なら全ポイントをクラスタに畳み込む
// 中間的な分岐は存在しない（固定しきい値）
func (s *gridClusterServiceImpl) Cluster(points []model.PointEntity, zoom int) *model.MapPointsResponse {
	if zoom >= model.ClusterZoomThreshold {
		entities := points
		if entities == nil {
			entities = []model.PointEntity{}
		}
		return &model.MapPointsResponse{
			Entities: entities,
			Clusters: []model.Cluster{},
		}
	}

	precision := GridPrecision(zoom)
	buckets := make(map[string]*clusterAccumulator)
	order := make([]string, 0)

	for i := range points {
		pt := &points[i]
		latGrid := int(math.Floor(pt.Position.Lat * precision))
		lngGrid := int(math.Floor(pt.Position.Lng * precision))
		id := BuildClusterID(latGrid, lngGrid, zoom)

		acc, ok := buckets[id]
		if !ok {
			acc = newClusterAccumulator(id, pt.Position)
			buckets[id] = acc
			order = append(order, id)
		}
		acc.fold(pt)
	}

	clusters := make([]model.Cluster, 0, len(order))
	for _, id := range order {
		clusters = append(clusters, buckets[id].finalize())
	}

	return &model.MapPointsResponse{
		Entities: []model.PointEntity{},
		Clusters: clusters,
	}
}

// clusterAccumulator 1つのグリッドセルに対する畳み込み途中の状態
type clusterAccumulator struct {
	cluster model.Cluster
	wards   map[int]struct{}
}

func newClusterAccumulator(id string, first model.LatLng) *clusterAccumulator {
	return &clusterAccumulator{
		cluster: model.Cluster{
			ID: id,
			Bounds: model.BoundingBox{
				North: first.Lat,
				South: first.Lat,
				East:  first.Lng,
				West:  first.Lng,
			},
		},
		wards: make(map[int]struct{}),
	}
}

// fold ポイントをクラスタに畳み込む
// 重心は逐次平均で更新する: newLat = (oldLat*(count-1) + lat) / count
func (a *clusterAccumulator) fold(pt *model.PointEntity) {
	c := &a.cluster
	c.Count++
	n := float64(c.Count)
	c.Position.Lat = (c.Position.Lat*(n-1) + pt.Position.Lat) / n
	c.Position.Lng = (c.Position.Lng*(n-1) + pt.Position.Lng) / n

	c.Bounds.North = math.Max(c.Bounds.North, pt.Position.Lat)
	c.Bounds.South = math.Min(c.Bounds.South, pt.Position.Lat)
	c.Bounds.East = math.Max(c.Bounds.East, pt.Position.Lng)
	c.Bounds.West = math.Min(c.Bounds.West, pt.Position.Lng)

	switch pt.Kind {
	case model.EntityKindBuilding:
		c.KindCounts.Buildings++
	case model.EntityKindHousehold:
		c.KindCounts.Households++
	case model.EntityKindBusiness:
		c.KindCounts.Businesses++
	}

	if ward, ok := pt.WardNumber(); ok {
		a.wards[ward] = struct{}{}
	}
}

// finalize 区番号の集合をソート済みリストにしてクラスタを確定する
func (a *clusterAccumulator) finalize() model.Cluster {
	wardNumbers := make([]int, 0, len(a.wards))
	for ward := range a.wards {
		wardNumbers = append(wardNumbers, ward)
	}
	sort.Ints(wardNumbers)
	a.cluster.WardNumbers = wardNumbers
	return a.cluster
}
