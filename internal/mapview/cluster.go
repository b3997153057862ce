package mapview

import (
	"math"
	"sort"

	"github.com/leiloom/map-service/internal/models"
)

// Tier is the visual size class of a cluster badge.
type Tier string

const (
	// TierSmall covers clusters with fewer than 10 markers.
	TierSmall Tier = "small"
	// TierMedium covers clusters with 10 to 20 markers.
	TierMedium Tier = "medium"
	// TierLarge covers clusters with more than 20 markers.
	TierLarge Tier = "large"
)

// Cluster groups markers that sit close together at render time. The
// badge shows Count; Center is the centroid of the member coordinates.
type Cluster struct {
	Center  models.Coordinate `json:"center"`
	Count   int               `json:"count"`
	Tier    Tier              `json:"tier"`
	ItemIDs []int64           `json:"itemIds"`
}

// tierFor maps a member count onto a badge tier.
func tierFor(count int) Tier {
	const (
		mediumThreshold = 10
		largeThreshold  = 20
	)
	switch {
	case count > largeThreshold:
		return TierLarge
	case count >= mediumThreshold:
		return TierMedium
	default:
		return TierSmall
	}
}

// ClusterItems groups items by proximity on a fixed grid of cellSize
// degrees. Items sharing a grid cell form one cluster. The result is
// sorted by descending count so dense clusters render first; a
// non-positive cellSize disables clustering and yields one cluster per
// item.
func ClusterItems(items []models.EnrichedItem, cellSize float64) []Cluster {
	if len(items) == 0 {
		return nil
	}
	if cellSize <= 0 {
		cellSize = math.SmallestNonzeroFloat64
	}

	type cell struct{ row, col int }
	buckets := make(map[cell][]models.EnrichedItem)
	for _, item := range items {
		key := cell{
			row: int(math.Floor(item.Coords.Lat / cellSize)),
			col: int(math.Floor(item.Coords.Lng / cellSize)),
		}
		buckets[key] = append(buckets[key], item)
	}

	clusters := make([]Cluster, 0, len(buckets))
	for _, members := range buckets {
		var latSum, lngSum float64
		ids := make([]int64, 0, len(members))
		for _, m := range members {
			latSum += m.Coords.Lat
			lngSum += m.Coords.Lng
			ids = append(ids, m.ID)
		}
		count := len(members)
		clusters = append(clusters, Cluster{
			Center: models.Coordinate{
				Lat: latSum / float64(count),
				Lng: lngSum / float64(count),
			},
			Count:   count,
			Tier:    tierFor(count),
			ItemIDs: ids,
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Count != clusters[j].Count {
			return clusters[i].Count > clusters[j].Count
		}
		return clusters[i].Center.Lat < clusters[j].Center.Lat
	})

	return clusters
}
