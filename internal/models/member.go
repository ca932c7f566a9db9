package models

import "time"

const MembershipPeriodDays = 30

// Member is one registry entry. UsernameNormalized and EmailNormalized hold
// Unicode case-folded copies used for search and duplicate checks; the
// repository keeps them in sync on every write.
type Member struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	UsernameNormalized string    `gorm:"size:100;index;not null" json:"-"`
	Email              string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	EmailNormalized    string    `gorm:"size:100;uniqueIndex;not null" json:"-"`
	PhoneNumber        string    `gorm:"size:15;not null" json:"phone_number"`
	AdmissionDate      time.Time `gorm:"not null" json:"admission_date"`
	AmountPaid         float64   `gorm:"not null" json:"amount_paid"`
	DueDate            time.Time `gorm:"not null" json:"due_date"`
	LastPaid           time.Time `gorm:"not null" json:"last_paid"`
	PhotoPath          *string   `gorm:"size:255" json:"photo_path,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (member Member) HasPhoto() bool {
	return member.PhotoPath != nil && *member.PhotoPath != ""
}

func (member Member) PhotoFilename() string {
	if member.PhotoPath == nil {
		return ""
	}
	return *member.PhotoPath
}
