package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/pkg/resp"
)

type ReviewHandler struct {
	DB *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler { return &ReviewHandler{DB: db} }

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// recomputeProductRate rewrites product.rate as the mean over the product's
// full review set. AVG over zero rows yields NULL, which is exactly the
// "unrated" value, never zero.
func recomputeProductRate(tx *gorm.DB, productID uint) error {
	var avg *float64
	if err := tx.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Select("AVG(rating)").
		Scan(&avg).Error; err != nil {
		return err
	}
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("rate", avg).Error
}

// Submit creates or updates the caller's review of a product. The review
// write and the rating recompute share one transaction.
func (h *ReviewHandler) Submit(c *gin.Context) {
	user := middleware.GetUser(c)

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.ErrorDetails(c, http.StatusBadRequest, "Invalid review payload", err.Error())
		return
	}

	var product models.Product
	if err := h.DB.First(&product, c.Param("productId")).Error; err != nil {
		resp.Error(c, http.StatusNotFound, "Product not found")
		return
	}

	var review models.Review
	created := false
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("product_id = ? AND user_id = ?", product.ID, user.ID).
			First(&review).Error
		switch {
		case err == nil:
			// One review per (product, user): update in place.
			review.Rating = req.Rating
			review.Comment = req.Comment
			if err := tx.Save(&review).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			review = models.Review{
				ProductID: product.ID,
				UserID:    user.ID,
				Rating:    req.Rating,
				Comment:   req.Comment,
			}
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return recomputeProductRate(tx, product.ID)
	})
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to save review")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	resp.OK(c, status, gin.H{"review": review})
}

// Delete removes the caller's own review and recomputes the product rating
// over whatever reviews remain. Admins get no override here.
func (h *ReviewHandler) Delete(c *gin.Context) {
	user := middleware.GetUser(c)

	var review models.Review
	if err := h.DB.First(&review, c.Param("id")).Error; err != nil {
		resp.Error(c, http.StatusNotFound, "Review not found")
		return
	}
	if review.UserID != user.ID {
		resp.Error(c, http.StatusForbidden, "You can only delete your own reviews")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return recomputeProductRate(tx, review.ProductID)
	})
	if err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to delete review")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"deleted_id": review.ID})
}

// ListForProduct returns a product's reviews, newest first, with a minimal
// reviewer projection. Public read.
func (h *ReviewHandler) ListForProduct(c *gin.Context) {
	var product models.Product
	if err := h.DB.First(&product, c.Param("productId")).Error; err != nil {
		resp.Error(c, http.StatusNotFound, "Product not found")
		return
	}

	var reviews []models.Review
	if err := h.DB.Preload("User").
		Where("product_id = ?", product.ID).
		Order("created_at desc").
		Find(&reviews).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to load reviews")
		return
	}

	out := make([]gin.H, 0, len(reviews))
	for _, r := range reviews {
		entry := gin.H{
			"id":         r.ID,
			"product_id": r.ProductID,
			"rating":     r.Rating,
			"comment":    r.Comment,
			"created_at": r.CreatedAt,
		}
		if r.User != nil {
			entry["reviewer"] = r.User.Project()
		}
		out = append(out, entry)
	}
	resp.OK(c, http.StatusOK, gin.H{"count": len(out), "rate": product.Rate, "reviews": out})
}
