package auction

import (
	"errors"
	"fmt"
	"time"

	"github.com/besicmining/marketplace-api/pkg/apperr"
	"gorm.io/gorm"
)

// Database is the auction store. All multi-row writes go through
// transactions so a bid and the winner pointer can never diverge.
type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// CreateAuction persists a new auction after re-checking, inside the same
// transaction, that the product has no other Active auction.
func (d *Database) CreateAuction(a *Auction) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Auction{}).
			Where("product_id = ? AND auction_status = ?", a.ProductID, StatusActive).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict(apperr.CodeProductAlreadyInAuction,
				"Product is already in an active auction",
				map[string]any{"productId": a.ProductID})
		}
		return tx.Create(a).Error
	})
}

func (d *Database) GetAuction(id uint) (*Auction, error) {
	var a Auction
	err := d.db.
		Preload("Bids", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("bid_price DESC, timestamp ASC")
		}).
		First(&a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// ListAuctions returns auctions without bid history, optionally filtered
// by status. History is expensive and omitted from bulk listings.
func (d *Database) ListAuctions(status Status) ([]Auction, error) {
	tx := d.db.Order("created_at DESC")
	if status != "" {
		tx = tx.Where("auction_status = ?", status)
	}

	var auctions []Auction
	if err := tx.Find(&auctions).Error; err != nil {
		return nil, err
	}
	return auctions, nil
}

func (d *Database) ListByPublisher(userID uint, status Status) ([]Auction, error) {
	tx := d.db.Where("publisher_id = ?", userID).Order("created_at DESC")
	if status != "" {
		tx = tx.Where("auction_status = ?", status)
	}

	var auctions []Auction
	if err := tx.Find(&auctions).Error; err != nil {
		return nil, err
	}
	return auctions, nil
}

// ListByBidder returns the auctions a user has bid on. A user may have
// placed multiple bids on the same auction, so the ids are deduplicated
// before the fetch.
func (d *Database) ListByBidder(userID uint) ([]Auction, error) {
	var ids []uint
	if err := d.db.Model(&Bid{}).
		Distinct("auction_id").
		Where("bid_user_id = ?", userID).
		Pluck("auction_id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Auction{}, nil
	}

	var auctions []Auction
	if err := d.db.Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&auctions).Error; err != nil {
		return nil, err
	}
	return auctions, nil
}

// HighestBid returns the current winning bid for an auction, nil when the
// auction has no bids. Ties on price go to the earliest bid.
func (d *Database) HighestBid(auctionID uint) (*Bid, error) {
	return highestBid(d.db, auctionID)
}

func highestBid(tx *gorm.DB, auctionID uint) (*Bid, error) {
	var b Bid
	err := tx.Where("auction_id = ?", auctionID).
		Order("bid_price DESC, timestamp ASC").
		First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (d *Database) CountBids(auctionID uint) (int64, error) {
	var count int64
	err := d.db.Model(&Bid{}).Where("auction_id = ?", auctionID).Count(&count).Error
	return count, err
}

// PlaceBid admits a bid. The auction state and the highest bid are
// re-read inside the transaction that inserts the bid and moves the
// winner pointer, so two concurrent bids can never both pass the
// minimum-bid check against a stale highest bid.
func (d *Database) PlaceBid(auctionID, bidderID uint, bidPrice float64, now time.Time) (*Bid, error) {
	var placed *Bid

	err := d.db.Transaction(func(tx *gorm.DB) error {
		var a Auction
		if err := tx.First(&a, auctionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(apperr.CodeAuctionNotFound, "Auction not found",
					map[string]any{"auctionId": auctionID})
			}
			return err
		}

		if a.AuctionStatus != StatusActive {
			return apperr.BadRequest(apperr.CodeAuctionNotActive,
				fmt.Sprintf("Auction is not active. Current status: %s", a.AuctionStatus),
				map[string]any{"auctionId": auctionID, "status": a.AuctionStatus})
		}
		if now.Before(a.StartDate) {
			return apperr.BadRequest(apperr.CodeAuctionNotStarted,
				"Auction has not started yet",
				map[string]any{
					"auctionId":   auctionID,
					"startDate":   a.StartDate,
					"currentDate": now,
				})
		}
		if now.After(a.EndDate) {
			return apperr.BadRequest(apperr.CodeAuctionEnded,
				"Auction has already ended",
				map[string]any{
					"auctionId":   auctionID,
					"endDate":     a.EndDate,
					"currentDate": now,
				})
		}
		if a.PublisherID == bidderID {
			return apperr.BadRequest(apperr.CodeCannotBidOwnAuction,
				"You cannot bid on your own auction",
				map[string]any{"auctionId": auctionID, "userId": bidderID})
		}

		highest, err := highestBid(tx, auctionID)
		if err != nil {
			return err
		}

		minRequiredBid := a.StartingPrice
		if highest != nil {
			minRequiredBid = highest.BidPrice * minIncrementFactor
		}

		if bidPrice < minRequiredBid {
			return apperr.BadRequest(apperr.CodeBidTooLow,
				fmt.Sprintf("Bid must be at least %.2f", minRequiredBid),
				map[string]any{
					"auctionId":      auctionID,
					"bidPrice":       bidPrice,
					"minRequiredBid": minRequiredBid,
				})
		}

		b := &Bid{
			AuctionID: auctionID,
			BidUserID: bidderID,
			BidPrice:  bidPrice,
			Timestamp: now,
		}
		if err := tx.Create(b).Error; err != nil {
			return err
		}

		if err := tx.Model(&Auction{}).
			Where("id = ?", auctionID).
			Update("bidder_id", bidderID).Error; err != nil {
			return err
		}

		placed = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// TransitionStatus moves an auction from one status to another only when
// it still holds the expected status. Returns false when the row was
// already moved by a concurrent caller.
func (d *Database) TransitionStatus(id uint, from, to Status) (bool, error) {
	result := d.db.Model(&Auction{}).
		Where("id = ? AND auction_status = ?", id, from).
		Update("auction_status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ExpiredActive returns Active auctions whose end date has passed.
func (d *Database) ExpiredActive(now time.Time) ([]Auction, error) {
	var auctions []Auction
	if err := d.db.
		Where("auction_status = ? AND end_date < ?", StatusActive, now).
		Find(&auctions).Error; err != nil {
		return nil, err
	}
	return auctions, nil
}
