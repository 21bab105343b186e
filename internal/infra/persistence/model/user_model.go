// Package model holds the GORM persistence models.
package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	// UsersEmailIndex is the unique index backing email uniqueness.
	UsersEmailIndex = "idx_users_email"
	// UsersCPFIndex is the unique index backing CPF uniqueness.
	UsersCPFIndex = "idx_users_cpf"
)

// UserModel mirrors the 'users' table. IDs are generated by the application.
type UserModel struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Login        string       `gorm:"type:varchar(100);not null"`
	Email        string       `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	PasswordHash string       `gorm:"type:varchar(255);not null"`
	CPF          string       `gorm:"column:cpf;type:varchar(14);not null;uniqueIndex:idx_users_cpf"`
	Phone        string       `gorm:"type:varchar(30);not null"`
	Address      AddressModel `gorm:"embedded;embeddedPrefix:address_"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// AddressModel is stored as address_* columns on the users row.
type AddressModel struct {
	Street     string `gorm:"type:varchar(255)"`
	Number     string `gorm:"type:varchar(20)"`
	Complement string `gorm:"type:varchar(255)"`
	District   string `gorm:"type:varchar(100)"`
	City       string `gorm:"type:varchar(100)"`
	State      string `gorm:"type:varchar(50)"`
	ZipCode    string `gorm:"type:varchar(20)"`
}
