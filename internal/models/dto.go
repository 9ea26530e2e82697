package models

import "time"

// DTOs project the subset of entity columns exposed to clients. Every
// endpoint goes through the same mapper per entity so the shapes cannot
// drift between call sites.

type UserDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type DeckDTO struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	ShareHash       string    `json:"share_hash"`
	ImageMetadataID *string   `json:"image_metadata_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CardAttributeDTO struct {
	ID            int    `json:"id"`
	AttributeType string `json:"attribute_type"`
	Value         int    `json:"value"`
}

type ImageDataDTO struct {
	URL        string            `json:"url"`
	Prompt     string            `json:"prompt"`
	Model      string            `json:"model"`
	Parameters map[string]string `json:"parameters"`
}

type CardDTO struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	ImageMetadataID *string            `json:"image_metadata_id"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Attributes      []CardAttributeDTO `json:"attributes,omitempty"`
	ImageData       *ImageDataDTO      `json:"image_data,omitempty"`
}

type DeckListResponse struct {
	Items      []DeckDTO `json:"items"`
	TotalCount int       `json:"totalCount"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
}

type CardListResponse struct {
	Items      []CardDTO `json:"items"`
	TotalCount int       `json:"totalCount"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
}

// SharedDeckDTO is the anonymous read-only projection served for a valid
// share hash. It never exposes the owner.
type SharedDeckDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ShareHash string    `json:"share_hash"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Cards     []CardDTO `json:"cards"`
}

func ToUserDTO(u *User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

func ToDeckDTO(d *Deck) DeckDTO {
	return DeckDTO{
		ID:              d.ID,
		Name:            d.Name,
		ShareHash:       d.ShareHash,
		ImageMetadataID: d.ImageMetadataID,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func ToCardDTO(c *Card) CardDTO {
	dto := CardDTO{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		ImageMetadataID: c.ImageMetadataID,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	for _, attr := range c.Attributes {
		dto.Attributes = append(dto.Attributes, CardAttributeDTO{
			ID:            attr.ID,
			AttributeType: attr.AttributeType,
			Value:         attr.Value,
		})
	}
	if c.Image != nil {
		dto.ImageData = &ImageDataDTO{
			URL:        c.Image.FilePath,
			Prompt:     c.Image.Prompt,
			Model:      c.Image.Model,
			Parameters: c.Image.Parameters,
		}
	}
	return dto
}

func ToSharedDeckDTO(d *Deck, cards []Card) SharedDeckDTO {
	dto := SharedDeckDTO{
		ID:        d.ID,
		Name:      d.Name,
		ShareHash: d.ShareHash,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Cards:     []CardDTO{},
	}
	for i := range cards {
		dto.Cards = append(dto.Cards, ToCardDTO(&cards[i]))
	}
	return dto
}
