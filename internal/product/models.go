package product

import "time"

// Cooling systems supported by listed hardware.
const (
	CoolingAir       = "air"
	CoolingLiquid    = "liquid"
	CoolingImmersion = "immersion"
	CoolingWater     = "water"
)

// Publish lifecycle of a listing.
const (
	StatusDraft     = "Draft"
	StatusPending   = "Pending"
	StatusPublished = "Published"
	StatusMining    = "Mining"
)

const (
	AvailabilityInStock    = "In Stock"
	AvailabilityOutOfStock = "Out of Stock"
	AvailabilityPreOrder   = "Pre Order"
)

const (
	StockLimited   = "limited"
	StockUnlimited = "unlimited"
)

// Product is one mining-hardware listing in the catalog.
type Product struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	SKU           string    `json:"sku,omitempty"`
	SerialNumber  string    `json:"serialNumber"`
	ModelName     string    `json:"modelName"`
	Description   string    `json:"description"`
	Manufacturer  string    `json:"manufacturer"`
	HashRate      float64   `json:"hashRate"`
	Power         float64   `json:"power"`
	Efficiency    float64   `json:"efficiency"`
	Cooling       string    `gorm:"default:air" json:"cooling"`
	Location      string    `json:"location,omitempty"`
	Hosting       bool      `json:"hosting"`
	AskPrice      float64   `json:"askPrice"`
	ShippingPrice float64   `json:"shippingPrice"`
	Status        string    `gorm:"default:Draft" json:"status"`
	Availability  string    `gorm:"default:In Stock" json:"availability"`
	StockType     string    `gorm:"default:limited" json:"stockType"`
	Quantity      int       `json:"quantity"`
	IsActive      bool      `gorm:"default:true" json:"isActive"`
	UserID        uint      `json:"userId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateProductRequest struct {
	SerialNumber  string  `json:"serialNumber" binding:"required"`
	ModelName     string  `json:"modelName" binding:"required"`
	Description   string  `json:"description"`
	Manufacturer  string  `json:"manufacturer" binding:"required"`
	HashRate      float64 `json:"hashRate" binding:"required,gt=0"`
	Power         float64 `json:"power" binding:"required,gt=0"`
	Efficiency    float64 `json:"efficiency" binding:"required,gt=0"`
	Cooling       string  `json:"cooling"`
	Location      string  `json:"location"`
	Hosting       bool    `json:"hosting"`
	AskPrice      float64 `json:"askPrice" binding:"required,gt=0"`
	ShippingPrice float64 `json:"shippingPrice"`
	StockType     string  `json:"stockType"`
	Quantity      int     `json:"quantity"`
}

type UpdateProductRequest struct {
	Description   *string  `json:"description"`
	Location      *string  `json:"location"`
	AskPrice      *float64 `json:"askPrice"`
	ShippingPrice *float64 `json:"shippingPrice"`
	Status        *string  `json:"status"`
	Availability  *string  `json:"availability"`
	Quantity      *int     `json:"quantity"`
}
