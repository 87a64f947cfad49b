package models

import "time"

// Verification keeps track of OTP codes sent to users. Records are never
// deleted: once verified they stay flagged as an audit trail, which also
// blocks replay of a consumed code.
type Verification struct {
	BaseModel
	Email     string    `gorm:"index" json:"email"`
	Code      int       `json:"-"`
	Verified  bool      `gorm:"default:false" json:"verified"`
	ExpiredAt time.Time `json:"expired_at"`
}
