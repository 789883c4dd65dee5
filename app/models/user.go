package models

import "gorm.io/gorm"

// User is the primary account model. WalletBalance is a ledger balance in
// rupees and must never go negative; debits happen through conditional
// UPDATEs, not by writing this field directly.
type User struct {
	gorm.Model
	Name          string  `gorm:"size:255;not null" json:"name"`
	Email         string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password      string  `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	Role          string  `gorm:"size:50;default:user" json:"role"`
	UserType      string  `gorm:"size:50;default:student" json:"user_type"`
	HostelType    string  `gorm:"size:50" json:"hostel_type"`
	HostelBlock   string  `gorm:"size:50" json:"hostel_block"`
	RoomNumber    string  `gorm:"size:50" json:"room_number"`
	WalletBalance float64 `gorm:"not null;default:0" json:"wallet_balance"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == "admin" }
