package contract

import "time"

// Contract records a completed fixed-price purchase. Holding a contract
// grants the buyer the right to re-auction the product it covers.
type Contract struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Code            string    `gorm:"uniqueIndex" json:"contractId"`
	ProductID       uint      `json:"productId"`
	BuyerID         uint      `json:"buyerId"`
	PurchasePrice   float64   `json:"purchasePrice"`
	SetupPrice      float64   `json:"setupPrice"`
	HostRate        float64   `json:"hostRate"`
	Location        string    `json:"location,omitempty"`
	AutoMaintenance bool      `json:"autoMaintenance"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type CreateContractRequest struct {
	ProductID       uint    `json:"productId" binding:"required"`
	SetupPrice      float64 `json:"setupPrice"`
	HostRate        float64 `json:"hostRate"`
	Location        string  `json:"location"`
	AutoMaintenance bool    `json:"autoMaintenance"`
}
