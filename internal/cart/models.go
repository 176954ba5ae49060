package cart

import "time"

type Cart struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex" json:"userId"`
	Items     []CartItem `gorm:"foreignKey:CartID" json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CartID    uint      `gorm:"index" json:"-"`
	ProductID uint      `json:"productId"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary is the priced view of a cart returned to clients.
type Summary struct {
	Cart  *Cart   `json:"cart"`
	Total float64 `json:"total"`
}

type AddItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}
