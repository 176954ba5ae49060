package contract

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

func (d *Database) CreateContract(ct *Contract) error {
	return d.db.Create(ct).Error
}

func (d *Database) GetContractByCode(code string) (*Contract, error) {
	var ct Contract
	if err := d.db.Where("code = ?", code).First(&ct).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ct, nil
}

func (d *Database) ListByBuyer(buyerID uint) ([]Contract, error) {
	var contracts []Contract
	if err := d.db.Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}
