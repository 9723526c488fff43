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

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

type RegisterRequest struct {
	FullName     string  `json:"fullName" binding:"required"`
	MobileNumber string  `json:"mobileNumber"`
	Email        *string `json:"email" binding:"omitempty,email"`
	Image        string  `json:"image"`
}

// Register creates the internal user record for a verified identity. The
// account type is always "user"; there is no way to self-register as admin.
func (h *AuthHandler) Register(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.ErrorDetails(c, http.StatusBadRequest, "Invalid registration payload", err.Error())
		return
	}

	// The provider's phone number wins over whatever the client sent.
	mobile := identity.PhoneNumber
	if mobile == "" {
		mobile = req.MobileNumber
	}
	if mobile == "" {
		resp.Error(c, http.StatusBadRequest, "Mobile number is required")
		return
	}

	var existing models.User
	if err := h.DB.Where("firebase_uid = ? OR mobile_number = ?", identity.UID, mobile).
		First(&existing).Error; err == nil {
		resp.Error(c, http.StatusConflict, "Account already registered")
		return
	}
	if req.Email != nil {
		if err := h.DB.Where("email = ?", *req.Email).First(&existing).Error; err == nil {
			resp.Error(c, http.StatusConflict, "Email already registered")
			return
		}
	}

	user := models.User{
		FirebaseUID:  identity.UID,
		FullName:     req.FullName,
		MobileNumber: mobile,
		Email:        req.Email,
		Type:         models.TypeUser,
		Image:        req.Image,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		// A registration that raced past the lookup above still trips the
		// unique indexes on insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			resp.Error(c, http.StatusConflict, "Account already registered")
			return
		}
		resp.Error(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	resp.OK(c, http.StatusCreated, gin.H{"user": user})
}

// GetProfile returns the authenticated user's record.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	resp.OK(c, http.StatusOK, gin.H{"user": middleware.GetUser(c)})
}

type UpdateProfileRequest struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Image    *string `json:"image"`
}

// UpdateProfile updates profile fields only. Identity fields (uid, mobile
// number, account type) are immutable after registration.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user := middleware.GetUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.ErrorDetails(c, http.StatusBadRequest, "Invalid profile payload", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Email != nil {
		var existing models.User
		if err := h.DB.Where("email = ? AND id <> ?", *req.Email, user.ID).
			First(&existing).Error; err == nil {
			resp.Error(c, http.StatusConflict, "Email already registered")
			return
		}
		updates["email"] = *req.Email
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if len(updates) > 0 {
		if err := h.DB.Model(user).Updates(updates).Error; err != nil {
			resp.Error(c, http.StatusInternalServerError, "Failed to update profile")
			return
		}
		h.DB.First(user, user.ID)
	}
	resp.OK(c, http.StatusOK, gin.H{"user": user})
}
