// Package domain contains core types for credential verification.
package domain

// User represents a dashboard account. The password hash never leaves the
// package boundary in serialized form.
type User struct {
	ID           string `gorm:"primaryKey" db:"id" json:"id"`
	Name         string `gorm:"not null" db:"name" json:"name"`
	Email        string `gorm:"column:email;uniqueIndex;not null" db:"email" json:"email"`
	PasswordHash string `gorm:"column:password;not null" db:"password" json:"-"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
