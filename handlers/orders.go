package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"restaurant-ordering-api/middleware"
	"restaurant-ordering-api/models"
	"restaurant-ordering-api/pkg/resp"
	"restaurant-ordering-api/statemachine"
)

type OrderHandler struct {
	DB *gorm.DB
}

func NewOrderHandler(db *gorm.DB) *OrderHandler { return &OrderHandler{DB: db} }

type CreateOrderRequest struct {
	Items []struct {
		ProductID uint `json:"productId" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1,dive"`
	Location string `json:"location"`
}

// Create places a new order from cart line items. Prices are snapshotted
// from the products table; anything the client sends for price is ignored.
func (h *OrderHandler) Create(c *gin.Context) {
	user := middleware.GetUser(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.ErrorDetails(c, http.StatusBadRequest, "Invalid order payload", err.Error())
		return
	}

	// Load every referenced product in one batch.
	ids := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	var products []models.Product
	if err := h.DB.Where("id IN ?", ids).Find(&products).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to load products")
		return
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	// Name every missing id, not just the first.
	var missing []uint
	seen := map[uint]bool{}
	for _, item := range req.Items {
		if _, ok := byID[item.ProductID]; !ok && !seen[item.ProductID] {
			missing = append(missing, item.ProductID)
			seen[item.ProductID] = true
		}
	}
	if len(missing) > 0 {
		resp.ErrorDetails(c, http.StatusNotFound, "Products not found", gin.H{"missing_ids": missing})
		return
	}

	var total float64
	orderItems := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		product := byID[item.ProductID]
		total += product.Price * float64(item.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
	}

	order := models.Order{
		UserID:     user.ID,
		TotalPrice: strconv.FormatFloat(total, 'f', 2, 64),
		Status:     models.StatusPending,
		Location:   req.Location,
		Items:      orderItems,
	}

	// Order header and all line items commit or fail together.
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	}); err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to place order")
		return
	}

	h.DB.Preload("Items.Product").First(&order, order.ID)
	resp.OK(c, http.StatusCreated, gin.H{
		"order": order,
		"user":  user.Project(),
	})
}

// ListMine returns the caller's orders, newest first.
func (h *OrderHandler) ListMine(c *gin.Context) {
	user := middleware.GetUser(c)

	var orders []models.Order
	if err := h.DB.Preload("Items.Product").
		Where("user_id = ?", user.ID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	resp.OK(c, http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// ListAll returns every order. Admin only. The optional status filter is
// matched case-insensitively; unrecognized values are ignored rather than
// rejected, matching the storefront's existing behavior.
func (h *OrderHandler) ListAll(c *gin.Context) {
	query := h.DB.Preload("Items.Product").Preload("User")

	if s := c.Query("status"); s != "" {
		if status, ok := models.ParseOrderStatus(s); ok {
			query = query.Where("status = ?", status)
		}
	}

	var orders []models.Order
	if err := query.Order("created_at desc").Find(&orders).Error; err != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to load orders")
		return
	}

	// Order serializes without its owner, so project it alongside for the
	// admin view.
	type adminOrder struct {
		models.Order
		Owner *models.UserProjection `json:"owner,omitempty"`
	}
	out := make([]adminOrder, 0, len(orders))
	for i := range orders {
		entry := adminOrder{Order: orders[i]}
		if orders[i].User != nil {
			p := orders[i].User.Project()
			entry.Owner = &p
		}
		out = append(out, entry)
	}
	resp.OK(c, http.StatusOK, gin.H{"count": len(out), "orders": out})
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus moves an order through the lifecycle state machine. Admins
// may complete or cancel any order; a non-admin may only cancel their own.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	user := middleware.GetUser(c)

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.ErrorDetails(c, http.StatusBadRequest, "Invalid status payload", err.Error())
		return
	}

	var order models.Order
	if err := h.DB.First(&order, c.Param("id")).Error; err != nil {
		resp.Error(c, http.StatusNotFound, "Order not found")
		return
	}

	actor := statemachine.ActorOwner
	switch {
	case user.IsAdmin():
		actor = statemachine.ActorAdmin
	case order.UserID != user.ID:
		resp.Error(c, http.StatusForbidden, "This order does not belong to you")
		return
	}

	target, ok := models.ParseOrderStatus(req.Status)
	if !ok {
		resp.Error(c, http.StatusBadRequest, statemachine.ErrInvalidTarget.Error())
		return
	}

	if err := statemachine.CanTransition(order.Status, target, actor); err != nil {
		var terminal *statemachine.TransitionError
		switch {
		case errors.As(err, &terminal):
			resp.ErrorDetails(c, http.StatusBadRequest, "Invalid transition", gin.H{
				"current_status": terminal.Current,
			})
		case errors.Is(err, statemachine.ErrInvalidTarget):
			resp.Error(c, http.StatusBadRequest, err.Error())
		default:
			resp.Error(c, http.StatusForbidden, "You are not allowed to set this status")
		}
		return
	}

	// The write is keyed on the status the transition was validated
	// against. A transition that committed in between leaves nothing to
	// update and is reported below with the status it set.
	res := h.DB.Model(&order).Where("status = ?", order.Status).Update("status", target)
	if res.Error != nil {
		resp.Error(c, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if res.RowsAffected == 0 {
		current := order.Status
		var fresh models.Order
		if err := h.DB.First(&fresh, order.ID).Error; err == nil {
			current = fresh.Status
		}
		resp.ErrorDetails(c, http.StatusBadRequest, "Invalid transition", gin.H{
			"current_status": current,
		})
		return
	}

	h.DB.Preload("Items.Product").Preload("User").First(&order, order.ID)
	payload := gin.H{"order": order}
	if order.User != nil {
		payload["owner"] = order.User.Project()
	}
	resp.OK(c, http.StatusOK, payload)
}
