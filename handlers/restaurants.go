package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-ordering-api/geo"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/pkg/resp"
)

type RestaurantHandler struct {
	DB *gorm.DB
}

func NewRestaurantHandler(db *gorm.DB) *RestaurantHandler { return &RestaurantHandler{DB: db} }

func (h *RestaurantHandler) List(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := h.DB.Find(&restaurants).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to load restaurants")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
}

func (h *RestaurantHandler) Get(c *gin.Context) {
	var restaurant models.Restaurant
	if err := h.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		resp.Error(c, http.StatusNotFound, "Restaurant not found")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"restaurant": restaurant})
}

type RestaurantRequest struct {
	Name      string   `json:"name" binding:"required"`
	Type      string   `json:"type"`
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Rating    float64  `json:"rating" binding:"omitempty,min=0,max=5"`
	ImageURL  string   `json:"imageUrl"`
}

func (h *RestaurantHandler) Create(c *gin.Context) {
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.ErrorDetails(c, http.StatusBadRequest, "Invalid restaurant payload", err.Error())
		return
	}
	restaurant := models.Restaurant{
		Name:      req.Name,
		Type:      req.Type,
		Location:  req.Location,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Rating:    req.Rating,
		ImageURL:  req.ImageURL,
	}
	if err := h.DB.Create(&restaurant).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to create restaurant")
		return
	}
	resp.OK(c, http.StatusCreated, gin.H{"restaurant": restaurant})
}

func (h *RestaurantHandler) Update(c *gin.Context) {
	var restaurant models.Restaurant
	if err := h.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		resp.Error(c, http.StatusNotFound, "Restaurant not found")
		return
	}
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.ErrorDetails(c, http.StatusBadRequest, "Invalid restaurant payload", err.Error())
		return
	}
	restaurant.Name = req.Name
	restaurant.Type = req.Type
	restaurant.Location = req.Location
	restaurant.Latitude = req.Latitude
	restaurant.Longitude = req.Longitude
	restaurant.Rating = req.Rating
	if req.ImageURL != "" {
		restaurant.ImageURL = req.ImageURL
	}
	if err := h.DB.Save(&restaurant).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to update restaurant")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"restaurant": restaurant})
}

func (h *RestaurantHandler) Delete(c *gin.Context) {
	var restaurant models.Restaurant
	if err := h.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		resp.Error(c, http.StatusNotFound, "Restaurant not found")
		return
	}
	if err := h.DB.Delete(&restaurant).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to delete restaurant")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"deleted_id": restaurant.ID})
}

type NearbyRequest struct {
	UserLat  *float64 `json:"userLat"`
	UserLng  *float64 `json:"userLng"`
	RadiusKM *float64 `json:"radiusKM"`
}

// Nearby ranks restaurants by distance from the caller. Missing or invalid
// coordinates are not an error: the endpoint falls back to the rating-sorted
// browse listing, which is the default experience for callers who decline
// location access.
func (h *RestaurantHandler) Nearby(c *gin.Context) {
	var req NearbyRequest
	// An empty or malformed body means "no coordinates" and takes the
	// fallback branch.
	_ = c.ShouldBindJSON(&req)

	if !geo.ValidCoordinates(req.UserLat, req.UserLng) {
		results, err := geo.TopRated(h.DB)
		if err != nil {
			resp.Error(c, http.StatusInternalServerError, "Failed to load restaurants")
			return
		}
		resp.OK(c, http.StatusOK, gin.H{"count": len(results), "restaurants": results})
		return
	}

	radius := geo.DefaultRadiusKM
	if req.RadiusKM != nil {
		r := *req.RadiusKM
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
			resp.Error(c, http.StatusBadRequest, "Radius must be a positive number")
			return
		}
		radius = r
	}

	results, err := geo.Nearby(h.DB, *req.UserLat, *req.UserLng, radius)
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to search restaurants")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"count": len(results), "restaurants": results})
}
