package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-ordering-api/models"
	"restaurant-ordering-api/pkg/resp"
)

// CatalogHandler serves categories and products. Writes are admin-gated at
// the routing layer; reads are public.
type CatalogHandler struct {
	DB *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler { return &CatalogHandler{DB: db} }

// ── Categories ─────────────────────────────────────────────────

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.DB.Find(&categories).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to load categories")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"count": len(categories), "categories": categories})
}

type CategoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Image string `json:"image"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.ErrorDetails(c, http.StatusBadRequest, "Invalid category payload", err.Error())
		return
	}
	category := models.Category{Name: req.Name, Image: req.Image}
	if err := h.DB.Create(&category).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to create category")
		return
	}
	resp.OK(c, http.StatusCreated, gin.H{"category": category})
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := h.DB.First(&category, c.Param("id")).Error; err != nil {
		resp.Error(c, http.StatusNotFound, "Category not found")
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.ErrorDetails(c, http.StatusBadRequest, "Invalid category payload", err.Error())
		return
	}
	category.Name = req.Name
	if req.Image != "" {
		category.Image = req.Image
	}
	if err := h.DB.Save(&category).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to update category")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"category": category})
}

// DeleteCategory refuses to delete a category any product still references.
// This is a referential guard, not a cascading delete.
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	var category models.Category
	if err := h.DB.First(&category, c.Param("id")).Error; err != nil {
		resp.Error(c, http.StatusNotFound, "Category not found")
		return
	}
	var inUse int64
	h.DB.Model(&models.Product{}).Where("category_id = ?", category.ID).Count(&inUse)
	if inUse > 0 {
		resp.Error(c, http.StatusConflict, "Category still has products")
		return
	}
	if err := h.DB.Delete(&category).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to delete category")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"deleted_id": category.ID})
}

// ── Products ───────────────────────────────────────────────────

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	query := h.DB.Preload("Category")
	if category := c.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if c.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
	}
	if restaurant := c.Query("restaurant"); restaurant != "" {
		query = query.Where("restaurant_id = ?", restaurant)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to load products")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"count": len(products), "products": products})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	var product models.Product
	if err := h.DB.Preload("Category").First(&product, c.Param("id")).Error; err != nil {
		resp.Error(c, http.StatusNotFound, "Product not found")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"product": product})
}

type ProductRequest struct {
	Name            string   `json:"name" binding:"required"`
	Price           float64  `json:"price" binding:"required,gt=0"`
	OriginalPrice   *float64 `json:"originalPrice" binding:"omitempty,gt=0"`
	DiscountPercent *float64 `json:"discountPercent" binding:"omitempty,min=0,max=100"`
	Image           string   `json:"image"`
	Images          []string `json:"images"`
	IsFeatured      bool     `json:"isFeatured"`
	CategoryID      uint     `json:"categoryId" binding:"required"`
	RestaurantID    *uint    `json:"restaurantId"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.ErrorDetails(c, http.StatusBadRequest, "Invalid product payload", err.Error())
		return
	}
	var category models.Category
	if err := h.DB.First(&category, req.CategoryID).Error; err != nil {
		resp.Error(c, http.StatusNotFound, "Category not found")
		return
	}
	if req.RestaurantID != nil {
		var restaurant models.Restaurant
		if err := h.DB.First(&restaurant, *req.RestaurantID).Error; err != nil {
			resp.Error(c, http.StatusNotFound, "Restaurant not found")
			return
		}
	}

	product := models.Product{
		Name:            req.Name,
		Price:           req.Price,
		OriginalPrice:   req.OriginalPrice,
		DiscountPercent: req.DiscountPercent,
		Image:           req.Image,
		Images:          models.NormalizeImages(req.Image, req.Images),
		IsFeatured:      req.IsFeatured,
		CategoryID:      req.CategoryID,
		RestaurantID:    req.RestaurantID,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to create product")
		return
	}
	resp.OK(c, http.StatusCreated, gin.H{"product": product})
}

// UpdateProduct rewrites the product from the payload. The derived rate is
// carried over untouched; clients can never write it.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := h.DB.First(&product, c.Param("id")).Error; err != nil {
		resp.Error(c, http.StatusNotFound, "Product not found")
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.ErrorDetails(c, http.StatusBadRequest, "Invalid product payload", err.Error())
		return
	}
	if req.CategoryID != product.CategoryID {
		var category models.Category
		if err := h.DB.First(&category, req.CategoryID).Error; err != nil {
			resp.Error(c, http.StatusNotFound, "Category not found")
			return
		}
	}
	if req.RestaurantID != nil {
		var restaurant models.Restaurant
		if err := h.DB.First(&restaurant, *req.RestaurantID).Error; err != nil {
			resp.Error(c, http.StatusNotFound, "Restaurant not found")
			return
		}
	}

	product.Name = req.Name
	product.Price = req.Price
	product.OriginalPrice = req.OriginalPrice
	product.DiscountPercent = req.DiscountPercent
	product.Image = req.Image
	product.Images = models.NormalizeImages(req.Image, req.Images)
	product.IsFeatured = req.IsFeatured
	product.CategoryID = req.CategoryID
	product.RestaurantID = req.RestaurantID

	if err := h.DB.Save(&product).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to update product")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"product": product})
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	var product models.Product
	if err := h.DB.First(&product, c.Param("id")).Error; err != nil {
		resp.Error(c, http.StatusNotFound, "Product not found")
		return
	}
	if err := h.DB.Delete(&product).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"deleted_id": product.ID})
}
