package cart

import (
	"strconv"

	"github.com/besicmining/marketplace-api/pkg/apperr"
	"github.com/besicmining/marketplace-api/pkg/middleware"
	"github.com/besicmining/marketplace-api/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Pricer is the slice of the product catalog the cart needs.
type Pricer interface {
	ProductPrice(id uint) (price float64, ok bool, err error)
}

// Service handles shopping-cart operations.
type Service struct {
	db     *Database
	pricer Pricer
}

func NewService(gormDB *gorm.DB, pricer Pricer) *Service {
	return &Service{
		db:     NewDatabase(gormDB),
		pricer: pricer,
	}
}

func (s *Service) GetCart(userID uint) (*Summary, error) {
	c, err := s.db.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}
	return summarize(c), nil
}

// AddItem puts a product in the cart, merging quantities when the product
// is already there. The unit price is snapshotted at add time.
func (s *Service) AddItem(userID uint, req AddItemRequest) (*Summary, error) {
	price, ok, err := s.pricer.ProductPrice(req.ProductID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound(apperr.CodeProductNotFound, "Product not found",
			map[string]any{"productId": req.ProductID})
	}

	c, err := s.db.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.db.GetItemByProduct(c.ID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item = &CartItem{
			CartID:    c.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: price,
		}
	} else {
		item.Quantity += req.Quantity
	}
	if err := s.db.SaveItem(item); err != nil {
		return nil, err
	}

	return s.GetCart(userID)
}

func (s *Service) UpdateItem(userID, itemID uint, req UpdateItemRequest) (*Summary, error) {
	c, err := s.db.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	item, err := s.db.GetItem(c.ID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound(apperr.CodeCartNotFound, "Cart item not found",
			map[string]any{"itemId": itemID})
	}

	item.Quantity = req.Quantity
	if err := s.db.SaveItem(item); err != nil {
		return nil, err
	}

	return s.GetCart(userID)
}

func (s *Service) RemoveItem(userID, itemID uint) (*Summary, error) {
	c, err := s.db.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.DeleteItem(c.ID, itemID); err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

func (s *Service) Clear(userID uint) (*Summary, error) {
	c, err := s.db.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.ClearCart(c.ID); err != nil {
		return nil, err
	}
	return s.GetCart(userID)
}

func summarize(c *Cart) *Summary {
	var total float64
	for _, item := range c.Items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return &Summary{Cart: c, Total: total}
}

// GinHandlers contains HTTP handlers for cart endpoints
type GinHandlers struct {
	service *Service
}

func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

func callerID(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Missing authentication")
	}
	return id, ok
}

// GetHandler handles GET requests for the caller's cart
func (h *GinHandlers) GetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := callerID(c)
		if !ok {
			return
		}
		summary, err := h.service.GetCart(id)
		response.Handle(c, summary, err)
	}
}

// AddItemHandler handles POST requests adding a product to the cart
func (h *GinHandlers) AddItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := callerID(c)
		if !ok {
			return
		}

		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		summary, err := h.service.AddItem(id, req)
		response.Handle(c, summary, err)
	}
}

// UpdateItemHandler handles PATCH requests changing an item's quantity
func (h *GinHandlers) UpdateItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := callerID(c)
		if !ok {
			return
		}

		itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || itemID == 0 {
			response.BadRequest(c, "Invalid id parameter")
			return
		}

		var req UpdateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		summary, err := h.service.UpdateItem(id, uint(itemID), req)
		response.Handle(c, summary, err)
	}
}

// RemoveItemHandler handles DELETE requests removing one item
func (h *GinHandlers) RemoveItemHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := callerID(c)
		if !ok {
			return
		}

		itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || itemID == 0 {
			response.BadRequest(c, "Invalid id parameter")
			return
		}

		summary, err := h.service.RemoveItem(id, uint(itemID))
		response.Handle(c, summary, err)
	}
}

// ClearHandler handles DELETE requests emptying the cart
func (h *GinHandlers) ClearHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := callerID(c)
		if !ok {
			return
		}
		summary, err := h.service.Clear(id)
		response.Handle(c, summary, err)
	}
}
