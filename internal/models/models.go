package models

import (
	"time"
)

// Attribute types form a closed enumeration. A card holds at most one value
// per type.
const (
	AttributeStrength = "strength"
	AttributeDefense  = "defense"
	AttributeHealth   = "health"
)

var AttributeTypes = []string{AttributeStrength, AttributeDefense, AttributeHealth}

// Image metadata entity types
const (
	EntityTypeCardImage = "card_image"
	EntityTypeDeckImage = "deck_image"
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type OTPCode struct {
	ID        int       `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Code      string    `json:"-" db:"code"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Consumed  bool      `json:"consumed" db:"consumed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type PasswordResetToken struct {
	Token     string    `json:"-" db:"token"`
	UserID    string    `json:"user_id" db:"user_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Consumed  bool      `json:"consumed" db:"consumed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Deck struct {
	ID              string    `json:"id" db:"id"`
	OwnerID         string    `json:"owner_id" db:"owner_id"`
	Name            string    `json:"name" db:"name"`
	ShareHash       string    `json:"share_hash" db:"share_hash"`
	ImageMetadataID *string   `json:"image_metadata_id" db:"image_metadata_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

type Card struct {
	ID              string          `json:"id" db:"id"`
	DeckID          string          `json:"deck_id" db:"deck_id"`
	Title           string          `json:"title" db:"title"`
	Description     string          `json:"description" db:"description"`
	ImageMetadataID *string         `json:"image_metadata_id" db:"image_metadata_id"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
	Attributes      []CardAttribute `json:"attributes,omitempty"`
	Image           *ImageMetadata  `json:"image,omitempty"`
}

type CardAttribute struct {
	ID            int    `json:"id" db:"id"`
	CardID        string `json:"card_id" db:"card_id"`
	AttributeType string `json:"attribute_type" db:"attribute_type"`
	Value         int    `json:"value" db:"value"`
}

type ImageMetadata struct {
	ID         string            `json:"id" db:"id"`
	EntityID   string            `json:"entity_id" db:"entity_id"`
	EntityType string            `json:"entity_type" db:"entity_type"`
	FilePath   string            `json:"file_path" db:"file_path"`
	Prompt     string            `json:"prompt" db:"prompt"`
	Model      string            `json:"model" db:"model"`
	Parameters map[string]string `json:"parameters" db:"parameters"`
	UserID     string            `json:"user_id" db:"user_id"`
	CreatedAt  time.Time         `json:"created_at" db:"created_at"`
}
