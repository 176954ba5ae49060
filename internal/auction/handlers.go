package auction

import (
	"strconv"

	"github.com/besicmining/marketplace-api/pkg/middleware"
	"github.com/besicmining/marketplace-api/pkg/response"
	"github.com/gin-gonic/gin"
)

// GinHandlers contains HTTP handlers for auction endpoints
type GinHandlers struct {
	service *Service
}

func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "Invalid id parameter")
		return 0, false
	}
	return uint(id), true
}

func callerID(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Missing authentication")
	}
	return id, ok
}

// ListPublicHandler handles GET requests for all Active auctions
func (h *GinHandlers) ListPublicHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		auctions, err := h.service.ListAuctions(string(StatusActive))
		response.Handle(c, auctions, err)
	}
}

// GetHandler handles GET requests for one auction with its bid history
func (h *GinHandlers) GetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		a, err := h.service.GetAuction(id)
		response.Handle(c, a, err)
	}
}

// CreateHandler handles POST requests creating an auction
func (h *GinHandlers) CreateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		creatorID, ok := callerID(c)
		if !ok {
			return
		}

		var req CreateAuctionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		a, err := h.service.CreateAuction(req, creatorID)
		response.Handle(c, a, err)
	}
}

// ListAllHandler handles GET requests listing auctions with an optional
// status filter. Reserved for admins.
func (h *GinHandlers) ListAllHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		auctions, err := h.service.ListAuctions(c.Query("status"))
		response.Handle(c, auctions, err)
	}
}

// ListMineHandler handles GET requests for auctions the caller published
func (h *GinHandlers) ListMineHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		auctions, err := h.service.ListByPublisher(userID, c.Query("status"))
		response.Handle(c, auctions, err)
	}
}

// ListMyBidsHandler handles GET requests for auctions the caller bid on
func (h *GinHandlers) ListMyBidsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		auctions, err := h.service.ListByBidder(userID)
		response.Handle(c, auctions, err)
	}
}

// PlaceBidHandler handles POST requests placing a bid
func (h *GinHandlers) PlaceBidHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		bidderID, ok := callerID(c)
		if !ok {
			return
		}

		var req PlaceBidRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		bid, err := h.service.PlaceBid(req, bidderID)
		response.Handle(c, bid, err)
	}
}

// ActivateHandler handles PATCH requests moving a Pending auction to Active
func (h *GinHandlers) ActivateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		id, ok := parseID(c)
		if !ok {
			return
		}

		a, err := h.service.ActivateAuction(id, userID)
		response.Handle(c, a, err)
	}
}

// EndHandler handles PATCH requests completing an auction
func (h *GinHandlers) EndHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		id, ok := parseID(c)
		if !ok {
			return
		}

		completion, err := h.service.EndAuction(id, userID)
		response.Handle(c, completion, err)
	}
}

// CancelHandler handles PATCH requests cancelling a bid-free auction
func (h *GinHandlers) CancelHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		id, ok := parseID(c)
		if !ok {
			return
		}

		a, err := h.service.CancelAuction(id, userID)
		response.Handle(c, a, err)
	}
}
