package db_models

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleAdmin
}

type User struct {
	BaseModel
	Email        string `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	Name         string `gorm:"size:128"`
	Phone        string `gorm:"size:32"`
	Role         Role   `gorm:"type:varchar(16);not null;default:client;index"`
}
