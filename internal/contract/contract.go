package contract

import (
	"github.com/besicmining/marketplace-api/pkg/apperr"
	"github.com/besicmining/marketplace-api/pkg/middleware"
	"github.com/besicmining/marketplace-api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Catalog is the slice of the product service the contract registry needs.
type Catalog interface {
	ProductOwner(id uint) (ownerID uint, ok bool, err error)
	ProductPrice(id uint) (price float64, ok bool, err error)
	TakeStock(id uint) error
}

// Service handles fixed-price purchases and acts as the resale-contract
// registry for the auction service.
type Service struct {
	db      *Database
	catalog Catalog
}

func NewService(gormDB *gorm.DB, catalog Catalog) *Service {
	return &Service{
		db:      NewDatabase(gormDB),
		catalog: catalog,
	}
}

// ResaleRight resolves a contract code to its product and buyer. ok is
// false when no such contract exists.
func (s *Service) ResaleRight(code string) (productID, buyerID uint, ok bool, err error) {
	ct, err := s.db.GetContractByCode(code)
	if err != nil {
		return 0, 0, false, err
	}
	if ct == nil {
		return 0, 0, false, nil
	}
	return ct.ProductID, ct.BuyerID, true, nil
}

// Purchase buys a product at its ask price and issues a contract for it.
func (s *Service) Purchase(req CreateContractRequest, buyerID uint) (*Contract, error) {
	logger := log.With().
		Str("service", "contract").
		Uint("product_id", req.ProductID).
		Uint("buyer_id", buyerID).
		Logger()

	ownerID, ok, err := s.catalog.ProductOwner(req.ProductID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound(apperr.CodeProductNotFound, "Product not found",
			map[string]any{"productId": req.ProductID})
	}
	if ownerID == buyerID {
		return nil, apperr.BadRequest(apperr.CodeInvalidParameter,
			"You cannot purchase your own product",
			map[string]any{"productId": req.ProductID, "userId": buyerID})
	}

	price, _, err := s.catalog.ProductPrice(req.ProductID)
	if err != nil {
		return nil, err
	}

	if err := s.catalog.TakeStock(req.ProductID); err != nil {
		return nil, err
	}

	ct := &Contract{
		Code:            "CON_" + uuid.New().String(),
		ProductID:       req.ProductID,
		BuyerID:         buyerID,
		PurchasePrice:   price,
		SetupPrice:      req.SetupPrice,
		HostRate:        req.HostRate,
		Location:        req.Location,
		AutoMaintenance: req.AutoMaintenance,
	}
	if err := s.db.CreateContract(ct); err != nil {
		logger.Error().Err(err).Msg("failed to create contract")
		return nil, err
	}

	logger.Info().Str("contract_id", ct.Code).Msg("contract issued")
	return ct, nil
}

func (s *Service) GetContract(code string, callerID uint) (*Contract, error) {
	ct, err := s.db.GetContractByCode(code)
	if err != nil {
		return nil, err
	}
	if ct == nil {
		return nil, apperr.NotFound(apperr.CodeContractNotFound, "Contract not found",
			map[string]any{"contractId": code})
	}
	if ct.BuyerID != callerID {
		return nil, apperr.Forbidden("You do not have permission to view this contract",
			map[string]any{"contractId": code, "userId": callerID})
	}
	return ct, nil
}

func (s *Service) ListMine(buyerID uint) ([]Contract, error) {
	return s.db.ListByBuyer(buyerID)
}

// GinHandlers contains HTTP handlers for contract endpoints
type GinHandlers struct {
	service *Service
}

func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

// PurchaseHandler handles POST requests creating a purchase contract
func (h *GinHandlers) PurchaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, ok := middleware.UserID(c)
		if !ok {
			response.Unauthorized(c, "Missing authentication")
			return
		}

		var req CreateContractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		ct, err := h.service.Purchase(req, callerID)
		response.Handle(c, ct, err)
	}
}

// ListMineHandler handles GET requests for the caller's contracts
func (h *GinHandlers) ListMineHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, ok := middleware.UserID(c)
		if !ok {
			response.Unauthorized(c, "Missing authentication")
			return
		}

		contracts, err := h.service.ListMine(callerID)
		response.Handle(c, contracts, err)
	}
}

// GetHandler handles GET requests for one contract by code
func (h *GinHandlers) GetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID, ok := middleware.UserID(c)
		if !ok {
			response.Unauthorized(c, "Missing authentication")
			return
		}

		ct, err := h.service.GetContract(c.Param("code"), callerID)
		response.Handle(c, ct, err)
	}
}
