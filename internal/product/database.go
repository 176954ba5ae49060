package product

import (
	"errors"

	"github.com/besicmining/marketplace-api/pkg/pagination"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) CreateProduct(p *Product) error {
	return d.db.Create(p).Error
}

func (d *Database) GetProduct(id uint) (*Product, error) {
	var p Product
	if err := d.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (d *Database) UpdateProduct(p *Product) error {
	return d.db.Save(p).Error
}

// ListPublished returns active published listings, paginated and
// optionally searched by model name or manufacturer.
func (d *Database) ListPublished(params pagination.Params) ([]Product, pagination.Meta, error) {
	tx := d.db.Model(&Product{}).
		Where("is_active = ? AND status = ?", true, StatusPublished)

	tx, meta, err := pagination.Apply(tx, params, "model_name", "manufacturer")
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	var products []Product
	if err := tx.Find(&products).Error; err != nil {
		return nil, pagination.Meta{}, err
	}
	return products, meta, nil
}

func (d *Database) ListByOwner(userID uint) ([]Product, error) {
	var products []Product
	if err := d.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// DecrementStock atomically takes one unit off a limited-stock listing.
// Returns false when no stock was available.
func (d *Database) DecrementStock(id uint) (bool, error) {
	result := d.db.Model(&Product{}).
		Where("id = ? AND stock_type = ? AND quantity > 0", id, StockLimited).
		Update("quantity", gorm.Expr("quantity - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
