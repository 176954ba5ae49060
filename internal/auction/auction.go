package auction

import (
	"fmt"
	"time"

	"github.com/besicmining/marketplace-api/pkg/apperr"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service enforces the auction lifecycle and bid admission rules. It
// touches collaborators only through the narrow capability interfaces and
// never holds a lock across a collaborator call: contract and product
// verification are read-only and happen before any write.
type Service struct {
	db        *Database
	users     UserDirectory
	catalog   Catalog
	contracts ContractLookup
}

func NewService(gormDB *gorm.DB, users UserDirectory, catalog Catalog, contracts ContractLookup) *Service {
	return &Service{
		db:        NewDatabase(gormDB),
		users:     users,
		catalog:   catalog,
		contracts: contracts,
	}
}

// Store exposes the underlying auction store for the expiry processor.
func (s *Service) Store() *Database {
	return s.db
}

// CreateAuction validates and persists a new auction. Checks run in a
// fixed order and the first failing check wins. A contract id switches
// the ownership rule: the creator must hold the contract instead of
// owning the product.
func (s *Service) CreateAuction(req CreateAuctionRequest, creatorID uint) (*Auction, error) {
	logger := log.With().
		Str("service", "auction").
		Uint("product_id", req.ProductID).
		Uint("creator_id", creatorID).
		Logger()

	exists, err := s.users.UserExists(creatorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound(apperr.CodeUserNotFound, "User not found",
			map[string]any{"userId": creatorID})
	}

	ownerID, ok, err := s.catalog.ProductOwner(req.ProductID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound(apperr.CodeProductNotFound, "Product not found",
			map[string]any{"productId": req.ProductID})
	}

	now := time.Now()
	if req.StartDate.Before(now) {
		return nil, apperr.BadRequest(apperr.CodeInvalidAuctionDates,
			"Auction start date cannot be in the past",
			map[string]any{"startDate": req.StartDate, "currentDate": now})
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, apperr.BadRequest(apperr.CodeInvalidAuctionDates,
			"Auction end date must be after start date",
			map[string]any{"startDate": req.StartDate, "endDate": req.EndDate})
	}

	reselling := false
	if req.ContractID != "" {
		contractProductID, buyerID, found, err := s.contracts.ResaleRight(req.ContractID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, apperr.NotFound(apperr.CodeContractNotFound, "Contract not found",
				map[string]any{"contractId": req.ContractID})
		}
		if buyerID != creatorID {
			return nil, apperr.Forbidden("You do not have permission to auction this contract",
				map[string]any{"contractId": req.ContractID, "userId": creatorID})
		}
		if contractProductID != req.ProductID {
			return nil, apperr.BadRequest(apperr.CodeInvalidContractProduct,
				"Contract does not match the specified product",
				map[string]any{
					"contractId":         req.ContractID,
					"contractProductId":  contractProductID,
					"specifiedProductId": req.ProductID,
				})
		}
		reselling = true
	} else if ownerID != creatorID {
		return nil, apperr.Forbidden("You do not have permission to auction this product",
			map[string]any{"productId": req.ProductID, "userId": creatorID})
	}

	status := StatusActive
	if req.AuctionStatus != "" {
		status = Status(req.AuctionStatus)
		if status != StatusPending && status != StatusActive {
			return nil, apperr.BadRequest(apperr.CodeInvalidParameter,
				"Auction status must be Pending or Active at creation",
				map[string]any{"auctionStatus": req.AuctionStatus})
		}
	}

	a := &Auction{
		ProductID:     req.ProductID,
		PublisherID:   creatorID,
		StartingPrice: req.StartingPrice,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		AuctionStatus: status,
	}
	if err := s.db.CreateAuction(a); err != nil {
		return nil, err
	}

	logger.Info().
		Uint("auction_id", a.ID).
		Bool("reselling", reselling).
		Str("status", string(a.AuctionStatus)).
		Time("end_date", a.EndDate).
		Msg("auction created")

	return a, nil
}

// PlaceBid admits a bid for an existing user. All auction-state checks
// and the minimum-increment computation happen inside the store
// transaction that records the bid.
func (s *Service) PlaceBid(req PlaceBidRequest, bidderID uint) (*Bid, error) {
	exists, err := s.users.UserExists(bidderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound(apperr.CodeUserNotFound, "User not found",
			map[string]any{"userId": bidderID})
	}

	bid, err := s.db.PlaceBid(req.AuctionID, bidderID, req.BidPrice, time.Now())
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("service", "auction").
		Uint("auction_id", bid.AuctionID).
		Uint("bidder_id", bidderID).
		Float64("bid_price", bid.BidPrice).
		Msg("bid placed")

	return bid, nil
}

// GetAuction returns an auction with its full bid history.
func (s *Service) GetAuction(id uint) (*Auction, error) {
	a, err := s.db.GetAuction(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound(apperr.CodeAuctionNotFound, "Auction not found",
			map[string]any{"auctionId": id})
	}
	return a, nil
}

// ListAuctions returns all auctions, optionally filtered by status.
func (s *Service) ListAuctions(status string) ([]Auction, error) {
	st, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	return s.db.ListAuctions(st)
}

// ListByPublisher returns the auctions a user created.
func (s *Service) ListByPublisher(userID uint, status string) ([]Auction, error) {
	st, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	return s.db.ListByPublisher(userID, st)
}

// ListByBidder returns the auctions a user has placed bids on.
func (s *Service) ListByBidder(userID uint) ([]Auction, error) {
	return s.db.ListByBidder(userID)
}

// FindHighestBid returns the current winning bid, nil when none exists.
func (s *Service) FindHighestBid(auctionID uint) (*Bid, error) {
	if _, err := s.GetAuction(auctionID); err != nil {
		return nil, err
	}
	return s.db.HighestBid(auctionID)
}

// ActivateAuction moves a Pending auction to Active. Only the publisher
// may activate.
func (s *Service) ActivateAuction(id, callerID uint) (*Auction, error) {
	a, err := s.GetAuction(id)
	if err != nil {
		return nil, err
	}
	if a.PublisherID != callerID {
		return nil, apperr.Forbidden("You do not have permission to activate this auction",
			map[string]any{"auctionId": id, "userId": callerID})
	}

	ok, err := s.db.TransitionStatus(id, StatusPending, StatusActive)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.notActiveError(id, "Auction is already %s")
	}

	log.Info().Str("service", "auction").Uint("auction_id", id).Msg("auction activated")
	return s.GetAuction(id)
}

// EndAuction completes an Active auction and reports the winning bid, if
// any, so a settlement component can pick it up. Calling it twice fails
// the status precondition rather than silently succeeding.
func (s *Service) EndAuction(id, callerID uint) (*Completion, error) {
	a, err := s.GetAuction(id)
	if err != nil {
		return nil, err
	}
	if a.PublisherID != callerID {
		return nil, apperr.Forbidden("You do not have permission to end this auction",
			map[string]any{"auctionId": id, "userId": callerID})
	}

	ok, err := s.db.TransitionStatus(id, StatusActive, StatusCompleted)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.notActiveError(id, "Auction is already %s")
	}

	return s.completion(id)
}

// CancelAuction cancels an Active auction that has received no bids.
func (s *Service) CancelAuction(id, callerID uint) (*Auction, error) {
	a, err := s.GetAuction(id)
	if err != nil {
		return nil, err
	}
	if a.PublisherID != callerID {
		return nil, apperr.Forbidden("You do not have permission to cancel this auction",
			map[string]any{"auctionId": id, "userId": callerID})
	}
	if a.AuctionStatus != StatusActive {
		return nil, apperr.BadRequest(apperr.CodeAuctionNotActive,
			fmt.Sprintf("Auction is already %s", a.AuctionStatus),
			map[string]any{"auctionId": id, "status": a.AuctionStatus})
	}

	count, err := s.db.CountBids(id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, apperr.BadRequest(apperr.CodeAuctionHasBids,
			"Cannot cancel an auction with existing bids",
			map[string]any{"auctionId": id, "bidCount": count})
	}

	ok, err := s.db.TransitionStatus(id, StatusActive, StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.notActiveError(id, "Auction is already %s")
	}

	log.Info().Str("service", "auction").Uint("auction_id", id).Msg("auction cancelled")
	return s.GetAuction(id)
}

// ProcessExpiredAuctions transitions every Active auction whose end date
// has passed to Completed and reports their outcomes. One auction's
// failure does not abort the sweep; the conditional status update keeps
// overlapping sweeps from double-applying a transition.
func (s *Service) ProcessExpiredAuctions() ([]Completion, error) {
	logger := log.With().Str("service", "auction").Str("component", "expiry_sweep").Logger()

	expired, err := s.db.ExpiredActive(time.Now())
	if err != nil {
		return nil, err
	}

	var completions []Completion
	for i := range expired {
		a := expired[i]

		ok, err := s.db.TransitionStatus(a.ID, StatusActive, StatusCompleted)
		if err != nil {
			logger.Error().Err(err).Uint("auction_id", a.ID).
				Msg("failed to complete expired auction")
			continue
		}
		if !ok {
			// moved out of Active by a concurrent end/cancel
			continue
		}

		comp, err := s.completion(a.ID)
		if err != nil {
			logger.Error().Err(err).Uint("auction_id", a.ID).
				Msg("failed to resolve completed auction outcome")
			continue
		}
		completions = append(completions, *comp)

		event := logger.Info().Uint("auction_id", a.ID)
		if comp.WinningBid != nil {
			event = event.
				Uint("winner_id", comp.WinningBid.BidUserID).
				Float64("winning_price", comp.WinningBid.BidPrice)
		}
		event.Msg("expired auction completed")
	}

	return completions, nil
}

func (s *Service) completion(id uint) (*Completion, error) {
	a, err := s.GetAuction(id)
	if err != nil {
		return nil, err
	}
	highest, err := s.db.HighestBid(id)
	if err != nil {
		return nil, err
	}
	return &Completion{Auction: a, WinningBid: highest}, nil
}

// notActiveError re-reads the auction so the rejection names its current
// status.
func (s *Service) notActiveError(id uint, format string) error {
	a, err := s.GetAuction(id)
	if err != nil {
		return err
	}
	return apperr.BadRequest(apperr.CodeAuctionNotActive,
		fmt.Sprintf(format, a.AuctionStatus),
		map[string]any{"auctionId": id, "status": a.AuctionStatus})
}

func parseStatusFilter(status string) (Status, error) {
	switch Status(status) {
	case "", StatusPending, StatusActive, StatusCompleted, StatusCancelled:
		return Status(status), nil
	default:
		return "", apperr.BadRequest(apperr.CodeInvalidParameter,
			"Unknown auction status filter",
			map[string]any{"status": status})
	}
}
