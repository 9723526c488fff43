// Package geo ranks restaurants by great-circle distance from the caller.
// The distance math lives here, behind one query function, so both the
// ranked branch and the rating fallback are testable against a plain
// database with no spatial extension.
package geo

import (
	"math"
	"sort"

	"gorm.io/gorm"

	"restaurant-ordering-api/models"
)

const (
	DefaultRadiusKM = 10.0
	earthRadiusKM   = 6371.0

	// rankedLimit caps the distance-ranked branch, fallbackLimit the
	// rating-sorted browse listing.
	rankedLimit   = 50
	fallbackLimit = 20
)

// NearbyRestaurant is a restaurant tagged with its distance from the caller.
// Distance is nil on the rating-fallback branch.
type NearbyRestaurant struct {
	models.Restaurant
	Distance *float64 `json:"distance"`
}

// ValidCoordinates reports whether lat/lng are both present, finite and
// within range.
func ValidCoordinates(lat, lng *float64) bool {
	if lat == nil || lng == nil {
		return false
	}
	if math.IsNaN(*lat) || math.IsInf(*lat, 0) || math.IsNaN(*lng) || math.IsInf(*lng, 0) {
		return false
	}
	return *lat >= -90 && *lat <= 90 && *lng >= -180 && *lng <= 180
}

// DistanceKM computes the great-circle distance between two points:
// 6371 × acos(cos(lat1)·cos(lat2)·cos(lng2−lng1) + sin(lat1)·sin(lat2))
func DistanceKM(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlng := (lng2 - lng1) * math.Pi / 180

	arg := math.Cos(rlat1)*math.Cos(rlat2)*math.Cos(dlng) + math.Sin(rlat1)*math.Sin(rlat2)
	// Rounding can push identical points just past 1.
	arg = math.Min(1, math.Max(-1, arg))
	return earthRadiusKM * math.Acos(arg)
}

// Nearby returns restaurants within radiusKM of the caller, closest first.
// Restaurants without coordinates never appear on this branch.
func Nearby(db *gorm.DB, lat, lng, radiusKM float64) ([]NearbyRestaurant, error) {
	var candidates []models.Restaurant
	if err := db.Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	results := []NearbyRestaurant{}
	for _, r := range candidates {
		d := DistanceKM(lat, lng, *r.Latitude, *r.Longitude)
		if d <= radiusKM {
			dist := d
			results = append(results, NearbyRestaurant{Restaurant: r, Distance: &dist})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return *results[i].Distance < *results[j].Distance
	})

	if len(results) > rankedLimit {
		results = results[:rankedLimit]
	}
	return results, nil
}

// TopRated is the fallback browse listing used when the caller supplies no
// usable coordinates: best-rated restaurants first, distance left null.
func TopRated(db *gorm.DB) ([]NearbyRestaurant, error) {
	var restaurants []models.Restaurant
	if err := db.Order("rating desc").Limit(fallbackLimit).
		Find(&restaurants).Error; err != nil {
		return nil, err
	}

	results := make([]NearbyRestaurant, 0, len(restaurants))
	for _, r := range restaurants {
		results = append(results, NearbyRestaurant{Restaurant: r})
	}
	return results, nil
}
