package entity

import "time"

// Session is the server-side sign-in session created by a successful password login.
// The same shape is stored in the SQL sessions table and in Redis.
type Session struct {
	ID        string     `gorm:"primaryKey;size:64" json:"id"`
	UserID    string     `gorm:"index;size:36;not null" json:"userId"`
	Username  string     `gorm:"size:256;not null" json:"username"` // audit actor
	UserAgent string     `gorm:"size:512" json:"userAgent"`
	IPAddress string     `gorm:"size:45" json:"ipAddress"`
	CreatedAt time.Time  `gorm:"not null" json:"createdAt"`
	ExpiresAt time.Time  `gorm:"index;not null" json:"expiresAt"`
	RevokedAt *time.Time `gorm:"index" json:"revokedAt,omitempty"`
}

func (Session) TableName() string { return "sessions" }

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsValid reports whether the session is neither expired nor revoked.
func (s *Session) IsValid() bool {
	return !s.IsExpired() && !s.IsRevoked()
}
