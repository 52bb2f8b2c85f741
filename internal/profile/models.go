package profile

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("profile not found")
	ErrFileNameRequired = errors.New("file_name required")
)

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileUpdate changes only the fields that are set.
type ProfileUpdate struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
}

type Preferences struct {
	UserID            string     `json:"user_id"`
	Notifications     bool       `json:"notifications"`
	LocationTracking  bool       `json:"location_tracking"`
	AccessibilityMode bool       `json:"accessibility_mode"`
	EcoFriendly       bool       `json:"eco_friendly"`
	AutoSave          bool       `json:"auto_save"`
	DataCollection    bool       `json:"data_collection"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// DefaultPreferences is what a user gets before saving any.
func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:           userID,
		Notifications:    true,
		LocationTracking: true,
		EcoFriendly:      true,
		AutoSave:         true,
	}
}

type PreferencesUpdate struct {
	Notifications     *bool `json:"notifications"`
	LocationTracking  *bool `json:"location_tracking"`
	AccessibilityMode *bool `json:"accessibility_mode"`
	EcoFriendly       *bool `json:"eco_friendly"`
	AutoSave          *bool `json:"auto_save"`
	DataCollection    *bool `json:"data_collection"`
}

func (u PreferencesUpdate) apply(p *Preferences) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Notifications, u.Notifications)
	set(&p.LocationTracking, u.LocationTracking)
	set(&p.AccessibilityMode, u.AccessibilityMode)
	set(&p.EcoFriendly, u.EcoFriendly)
	set(&p.AutoSave, u.AutoSave)
	set(&p.DataCollection, u.DataCollection)
}

type AvatarRequest struct {
	FileName string `json:"file_name"`
}

// Avatar is a registered upload slot; the client uploads to URL before
// ExpiresAt.
type Avatar struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
