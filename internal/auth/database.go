package auth

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

func (d *Database) CreateRefreshToken(t *RefreshToken) error {
	return d.db.Create(t).Error
}

func (d *Database) GetRefreshToken(token string) (*RefreshToken, error) {
	var t RefreshToken
	if err := d.db.Where("token = ?", token).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (d *Database) DeleteRefreshToken(token string) error {
	return d.db.Where("token = ?", token).Delete(&RefreshToken{}).Error
}

func (d *Database) DeleteUserRefreshTokens(userID uint) error {
	return d.db.Where("user_id = ?", userID).Delete(&RefreshToken{}).Error
}
