package identity

import (
	models "Quizrush/models/postgres"
	"fmt"

	"gorm.io/gorm"
)

// Profile is the battle-facing identity of an account.
type Profile struct {
	Username        string `json:"username"`
	DisplayName     string `json:"display_name"`
	ProfileImageURL string `json:"profile_image_url"`
}

// Resolver maps account usernames to display data. OAuth/session handling
// lives outside this service; the resolver only reads profiles.
type Resolver struct {
	DB *gorm.DB
}

func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{DB: db}
}

func (r *Resolver) Resolve(username string) (*Profile, error) {
	var profile models.GameProfile
	if err := r.DB.Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, fmt.Errorf("error resolving profile for %s: %v", username, err)
	}

	displayName := profile.DisplayName
	if displayName == "" {
		displayName = profile.Username
	}
	return &Profile{
		Username:        profile.Username,
		DisplayName:     displayName,
		ProfileImageURL: profile.ProfileImageURL,
	}, nil
}
