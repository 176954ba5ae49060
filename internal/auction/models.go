package auction

import "time"

// Status is the lifecycle state of an auction.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusActive    Status = "Active"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// minIncrementFactor is the minimum ratio a new bid must reach over the
// current highest bid.
const minIncrementFactor = 1.01

// Auction represents one listing's competitive sale process. Rows are
// never deleted; Completed and Cancelled auctions are kept for history.
type Auction struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	ProductID     uint      `gorm:"index" json:"productId"`
	PublisherID   uint      `gorm:"index" json:"publisherId"`
	BidderID      *uint     `json:"bidderId"`
	StartingPrice float64   `json:"startingPrice"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	AuctionStatus Status    `gorm:"index" json:"auctionStatus"`
	Bids          []Bid     `gorm:"foreignKey:AuctionID" json:"bids,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Bid is one immutable offer against an auction. The ledger is
// append-only; Timestamp is set at insertion and used for ordering.
type Bid struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	AuctionID uint      `gorm:"index" json:"auctionId"`
	BidUserID uint      `gorm:"index" json:"bidUserId"`
	BidPrice  float64   `json:"bidPrice"`
	Timestamp time.Time `json:"timestamp"`
}

// Completion is the outcome of an auction leaving Active through endAuction
// or the expiry sweep. WinningBid is nil when no bids were placed. A future
// settlement component consumes this; nothing is settled automatically.
type Completion struct {
	Auction    *Auction `json:"auction"`
	WinningBid *Bid     `json:"winningBid,omitempty"`
}

type CreateAuctionRequest struct {
	ProductID     uint      `json:"productId" binding:"required"`
	StartingPrice float64   `json:"startingPrice" binding:"required,gt=0"`
	StartDate     time.Time `json:"startDate" binding:"required"`
	EndDate       time.Time `json:"endDate" binding:"required"`
	AuctionStatus string    `json:"auctionStatus"`
	ContractID    string    `json:"contractId"`
}

type PlaceBidRequest struct {
	AuctionID uint    `json:"auctionId" binding:"required"`
	BidPrice  float64 `json:"bidPrice" binding:"required,gt=0"`
}

// UserDirectory is the identity lookup the engine needs from the user
// service.
type UserDirectory interface {
	UserExists(id uint) (bool, error)
}

// Catalog is the product lookup the engine needs from the catalog service.
type Catalog interface {
	ProductOwner(id uint) (ownerID uint, ok bool, err error)
}

// ContractLookup resolves a resale-contract code to its product and buyer.
type ContractLookup interface {
	ResaleRight(code string) (productID, buyerID uint, ok bool, err error)
}
