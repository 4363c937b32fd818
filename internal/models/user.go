package models

// User represents a confirmed, phone-verified account.
type User struct {
	BaseModel
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	Phone        string `gorm:"uniqueIndex" json:"phone"`
	PasswordHash string `json:"-"`
	Verified     bool   `json:"verified"`
}

// PendingSignup stages a registration attempt until the OTP is confirmed.
// At most one record exists per phone; a repeated signup overwrites it.
type PendingSignup struct {
	BaseModel
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `gorm:"uniqueIndex" json:"phone"`
	PasswordHash string `json:"-"`
}
