package database

import (
	"github.com/besicmining/marketplace-api/internal/auction"
	"github.com/besicmining/marketplace-api/internal/auth"
	"github.com/besicmining/marketplace-api/internal/cart"
	"github.com/besicmining/marketplace-api/internal/contract"
	"github.com/besicmining/marketplace-api/internal/product"
	"github.com/besicmining/marketplace-api/internal/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase initializes a GORM connection and migrates all schemas
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&user.User{},
		&auth.RefreshToken{},
		&product.Product{},
		&contract.Contract{},
		&cart.Cart{},
		&cart.CartItem{},
		&auction.Auction{},
		&auction.Bid{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
