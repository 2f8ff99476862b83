package migrations

import (
	"gorm.io/gorm"
)

// usersV1 is the users table as first created.
type usersV1 struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	CreatedAt    int64
	UpdatedAt    int64
	Email        string `gorm:"size:255;not null;uniqueIndex:idx_users_email"`
	PasswordHash string `gorm:"not null"`
	Name         string `gorm:"size:128"`
	Phone        string `gorm:"size:32"`
	Role         string `gorm:"type:varchar(16);not null;default:client;index:idx_users_role"`
}

func (usersV1) TableName() string { return "users" }

type createUsers struct{}

func (createUsers) Up(tx *gorm.DB) error {
	return tx.Migrator().CreateTable(&usersV1{})
}

func (createUsers) Down(tx *gorm.DB) error {
	return tx.Migrator().DropTable("users")
}
