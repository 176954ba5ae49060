package user

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

func (d *Database) CreateUser(u *User) error {
	return d.db.Create(u).Error
}

func (d *Database) GetUser(id uint) (*User, error) {
	var u User
	if err := d.db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (d *Database) GetUserByEmail(email string) (*User, error) {
	var u User
	if err := d.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (d *Database) UpdateUser(u *User) error {
	return d.db.Save(u).Error
}
