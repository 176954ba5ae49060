package product

import (
	"strconv"

	"github.com/besicmining/marketplace-api/pkg/apperr"
	"github.com/besicmining/marketplace-api/pkg/middleware"
	"github.com/besicmining/marketplace-api/pkg/pagination"
	"github.com/besicmining/marketplace-api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service handles catalog operations and acts as the product catalog
// collaborator for the auction and cart services.
type Service struct {
	db *Database
}

func NewService(gormDB *gorm.DB) *Service {
	return &Service{db: NewDatabase(gormDB)}
}

// ProductOwner reports the owner of a live product. ok is false when the
// product does not exist or has been deactivated.
func (s *Service) ProductOwner(id uint) (uint, bool, error) {
	p, err := s.db.GetProduct(id)
	if err != nil {
		return 0, false, err
	}
	if p == nil || !p.IsActive {
		return 0, false, nil
	}
	return p.UserID, true, nil
}

// ProductPrice reports the ask price of a live product for cart pricing.
func (s *Service) ProductPrice(id uint) (float64, bool, error) {
	p, err := s.db.GetProduct(id)
	if err != nil {
		return 0, false, err
	}
	if p == nil || !p.IsActive {
		return 0, false, nil
	}
	return p.AskPrice, true, nil
}

func (s *Service) CreateProduct(req CreateProductRequest, ownerID uint) (*Product, error) {
	p := &Product{
		SerialNumber:  req.SerialNumber,
		ModelName:     req.ModelName,
		Description:   req.Description,
		Manufacturer:  req.Manufacturer,
		HashRate:      req.HashRate,
		Power:         req.Power,
		Efficiency:    req.Efficiency,
		Cooling:       req.Cooling,
		Location:      req.Location,
		Hosting:       req.Hosting,
		AskPrice:      req.AskPrice,
		ShippingPrice: req.ShippingPrice,
		StockType:     req.StockType,
		Quantity:      req.Quantity,
		Status:        StatusDraft,
		Availability:  AvailabilityInStock,
		IsActive:      true,
		UserID:        ownerID,
	}
	if p.Cooling == "" {
		p.Cooling = CoolingAir
	}
	if p.StockType == "" {
		p.StockType = StockLimited
	}

	if err := s.db.CreateProduct(p); err != nil {
		return nil, err
	}

	log.Info().
		Str("service", "product").
		Uint("product_id", p.ID).
		Uint("owner_id", ownerID).
		Str("model", p.ModelName).
		Msg("product created")

	return p, nil
}

func (s *Service) GetProduct(id uint) (*Product, error) {
	p, err := s.db.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.IsActive {
		return nil, apperr.NotFound(apperr.CodeProductNotFound, "Product not found",
			map[string]any{"productId": id})
	}
	return p, nil
}

func (s *Service) UpdateProduct(id uint, req UpdateProductRequest, callerID uint) (*Product, error) {
	p, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if p.UserID != callerID {
		return nil, apperr.Forbidden("You do not have permission to modify this product",
			map[string]any{"productId": id, "userId": callerID})
	}

	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.AskPrice != nil {
		if *req.AskPrice <= 0 {
			return nil, apperr.BadRequest(apperr.CodeInvalidParameter,
				"Ask price must be positive",
				map[string]any{"askPrice": *req.AskPrice})
		}
		p.AskPrice = *req.AskPrice
	}
	if req.ShippingPrice != nil {
		p.ShippingPrice = *req.ShippingPrice
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Availability != nil {
		p.Availability = *req.Availability
	}
	if req.Quantity != nil {
		p.Quantity = *req.Quantity
	}

	if err := s.db.UpdateProduct(p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct deactivates a listing. Records are kept for history.
func (s *Service) DeleteProduct(id uint, callerID uint) error {
	p, err := s.GetProduct(id)
	if err != nil {
		return err
	}
	if p.UserID != callerID {
		return apperr.Forbidden("You do not have permission to delete this product",
			map[string]any{"productId": id, "userId": callerID})
	}

	p.IsActive = false
	return s.db.UpdateProduct(p)
}

func (s *Service) ListPublished(params pagination.Params) ([]Product, pagination.Meta, error) {
	return s.db.ListPublished(params)
}

func (s *Service) ListMine(ownerID uint) ([]Product, error) {
	return s.db.ListByOwner(ownerID)
}

// TakeStock consumes one unit of stock for a purchase. Unlimited-stock
// listings always succeed.
func (s *Service) TakeStock(id uint) error {
	p, err := s.GetProduct(id)
	if err != nil {
		return err
	}
	if p.StockType == StockUnlimited {
		return nil
	}

	ok, err := s.db.DecrementStock(id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Conflict(apperr.CodeOutOfStock, "Product is out of stock",
			map[string]any{"productId": id})
	}
	return nil
}

// GinHandlers contains HTTP handlers for catalog endpoints
type GinHandlers struct {
	service *Service
}

func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid id parameter")
		return 0, false
	}
	return uint(id), true
}

// ListPublicHandler handles GET requests for the public catalog
func (h *GinHandlers) ListPublicHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, meta, err := h.service.ListPublished(pagination.FromQuery(c))
		if err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.Paginated(c, products, meta)
	}
}

// GetPublicHandler handles GET requests for a single public listing
func (h *GinHandlers) GetPublicHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		p, err := h.service.GetProduct(id)
		response.Handle(c, p, err)
	}
}

// CreateHandler handles POST requests creating a listing
func (h *GinHandlers) CreateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, ok := middleware.UserID(c)
		if !ok {
			response.Unauthorized(c, "Missing authentication")
			return
		}

		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		p, err := h.service.CreateProduct(req, callerID)
		response.Handle(c, p, err)
	}
}

// ListMineHandler handles GET requests for the caller's listings
func (h *GinHandlers) ListMineHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, ok := middleware.UserID(c)
		if !ok {
			response.Unauthorized(c, "Missing authentication")
			return
		}

		products, err := h.service.ListMine(callerID)
		response.Handle(c, products, err)
	}
}

// UpdateHandler handles PATCH requests updating a listing
func (h *GinHandlers) UpdateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, ok := middleware.UserID(c)
		if !ok {
			response.Unauthorized(c, "Missing authentication")
			return
		}

		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		p, err := h.service.UpdateProduct(id, req, callerID)
		response.Handle(c, p, err)
	}
}

// DeleteHandler handles DELETE requests deactivating a listing
func (h *GinHandlers) DeleteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, ok := middleware.UserID(c)
		if !ok {
			response.Unauthorized(c, "Missing authentication")
			return
		}

		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		if err := h.service.DeleteProduct(id, callerID); err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.Success(c, gin.H{"deleted": true})
	}
}
