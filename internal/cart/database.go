package cart

import (
	"errors"

	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// GetOrCreateCart returns the user's cart, creating an empty one on first use.
func (d *Database) GetOrCreateCart(userID uint) (*Cart, error) {
	var c Cart
	err := d.db.Preload("Items").Where("user_id = ?", userID).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	c = Cart{UserID: userID}
	if err := d.db.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (d *Database) GetItem(cartID, itemID uint) (*CartItem, error) {
	var item CartItem
	if err := d.db.Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (d *Database) GetItemByProduct(cartID, productID uint) (*CartItem, error) {
	var item CartItem
	if err := d.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (d *Database) SaveItem(item *CartItem) error {
	return d.db.Save(item).Error
}

func (d *Database) DeleteItem(cartID, itemID uint) error {
	return d.db.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&CartItem{}).Error
}

func (d *Database) ClearCart(cartID uint) error {
	return d.db.Where("cart_id = ?", cartID).Delete(&CartItem{}).Error
}
