package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Albert91/deck-builder/internal/models"

	"github.com/google/uuid"
)

type AttributeParam struct {
	Type  string
	Value int
}

type ImageDataParam struct {
	URL        string
	Prompt     string
	Model      string
	Parameters map[string]string
}

type CreateCardParams struct {
	Title       string
	Description string
	Attributes  []AttributeParam
	ImageData   *ImageDataParam
}

// UpdateCardParams patches only the fields that are set. A nil Attributes
// slice leaves attribute rows untouched; a non-nil slice replaces them
// wholesale.
type UpdateCardParams struct {
	Title       *string
	Description *string
	Attributes  []AttributeParam
	ImageData   *ImageDataParam
}

func GetCardCount(db *sql.DB, deckID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM cards WHERE deck_id = ?`
	if err := db.QueryRow(query, deckID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}

// CreateCard inserts the card, its attribute rows and the optional image
// metadata as one transaction, so a partial failure never leaves an orphaned
// card behind.
func CreateCard(db *sql.DB, deckID, userID string, params CreateCardParams) (*models.Card, error) {
	count, err := GetCardCount(db, deckID)
	if err != nil {
		return nil, err
	}
	if count >= CardLimit {
		return nil, ErrCardLimitReached
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cardID := uuid.New().String()

	_, err = tx.Exec(`
		INSERT INTO cards (id, deck_id, title, description)
		VALUES (?, ?, ?, ?)
	`, cardID, deckID, params.Title, params.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}

	if err := insertAttributes(tx, cardID, params.Attributes); err != nil {
		return nil, err
	}

	if params.ImageData != nil {
		metadataID, err := insertImageMetadata(tx, cardID, models.EntityTypeCardImage, userID, params.ImageData)
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(`UPDATE cards SET image_metadata_id = ? WHERE id = ?`, metadataID, cardID)
		if err != nil {
			return nil, fmt.Errorf("failed to link image metadata: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit card creation: %w", err)
	}

	return GetCard(db, deckID, cardID)
}

func GetCard(db *sql.DB, deckID, cardID string) (*models.Card, error) {
	card := &models.Card{}
	query := `
		SELECT id, deck_id, title, description, image_metadata_id, created_at, updated_at
		FROM cards
		WHERE id = ? AND deck_id = ?
	`

	err := db.QueryRow(query, cardID, deckID).Scan(
		&card.ID,
		&card.DeckID,
		&card.Title,
		&card.Description,
		&card.ImageMetadataID,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to query card: %w", err)
	}

	card.Attributes, err = getCardAttributes(db, cardID)
	if err != nil {
		return nil, err
	}

	if card.ImageMetadataID != nil {
		card.Image, err = GetImageMetadata(db, *card.ImageMetadataID)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
	}

	return card, nil
}

// ListCards returns one page of a deck's cards, newest first, without
// attribute fan-out.
func ListCards(db *sql.DB, deckID string, page, limit int) ([]models.Card, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	total, err := GetCardCount(db, deckID)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, deck_id, title, description, image_metadata_id, created_at, updated_at
		FROM cards
		WHERE deck_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.Query(query, deckID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		return nil, 0, err
	}

	return cards, total, nil
}

// ListDeckCards returns every card of a deck with attributes and image
// metadata attached. Used by the shared view and the export.
func ListDeckCards(db *sql.DB, deckID string) ([]models.Card, error) {
	query := `
		SELECT id, deck_id, title, description, image_metadata_id, created_at, updated_at
		FROM cards
		WHERE deck_id = ?
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := db.Query(query, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards, err := scanCards(rows)
	if err != nil {
		return nil, err
	}

	attrQuery := `
		SELECT id, card_id, attribute_type, value
		FROM card_attributes
		WHERE card_id IN (SELECT id FROM cards WHERE deck_id = ?)
		ORDER BY card_id, attribute_type
	`
	attrRows, err := db.Query(attrQuery, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to query card attributes: %w", err)
	}
	defer attrRows.Close()

	attrsByCard := make(map[string][]models.CardAttribute)
	for attrRows.Next() {
		var attr models.CardAttribute
		if err := attrRows.Scan(&attr.ID, &attr.CardID, &attr.AttributeType, &attr.Value); err != nil {
			return nil, fmt.Errorf("failed to scan card attribute: %w", err)
		}
		attrsByCard[attr.CardID] = append(attrsByCard[attr.CardID], attr)
	}
	if err = attrRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card attributes: %w", err)
	}

	for i := range cards {
		cards[i].Attributes = attrsByCard[cards[i].ID]
		if cards[i].ImageMetadataID != nil {
			image, err := GetImageMetadata(db, *cards[i].ImageMetadataID)
			if err == nil {
				cards[i].Image = image
			}
		}
	}

	return cards, nil
}

// UpdateCard applies a partial patch inside one transaction. Supplied
// attributes replace the existing set; a supplied image repoints the card and
// deletes the superseded metadata row so old generations do not leak.
func UpdateCard(db *sql.DB, deckID, cardID, userID string, params UpdateCardParams) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var previousMetadataID sql.NullString
	err = tx.QueryRow(`SELECT image_metadata_id FROM cards WHERE id = ? AND deck_id = ?`, cardID, deckID).
		Scan(&previousMetadataID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrCardNotFound
		}
		return fmt.Errorf("failed to query card: %w", err)
	}

	if params.Title != nil {
		if _, err := tx.Exec(`UPDATE cards SET title = ? WHERE id = ?`, *params.Title, cardID); err != nil {
			return fmt.Errorf("failed to update card title: %w", err)
		}
	}
	if params.Description != nil {
		if _, err := tx.Exec(`UPDATE cards SET description = ? WHERE id = ?`, *params.Description, cardID); err != nil {
			return fmt.Errorf("failed to update card description: %w", err)
		}
	}

	if params.ImageData != nil {
		metadataID, err := insertImageMetadata(tx, cardID, models.EntityTypeCardImage, userID, params.ImageData)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`UPDATE cards SET image_metadata_id = ? WHERE id = ?`, metadataID, cardID); err != nil {
			return fmt.Errorf("failed to link image metadata: %w", err)
		}
		if previousMetadataID.Valid {
			if _, err := tx.Exec(`DELETE FROM image_metadata WHERE id = ?`, previousMetadataID.String); err != nil {
				return fmt.Errorf("failed to delete superseded image metadata: %w", err)
			}
		}
	}

	if params.Attributes != nil {
		if _, err := tx.Exec(`DELETE FROM card_attributes WHERE card_id = ?`, cardID); err != nil {
			return fmt.Errorf("failed to delete card attributes: %w", err)
		}
		if err := insertAttributes(tx, cardID, params.Attributes); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`UPDATE cards SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, cardID); err != nil {
		return fmt.Errorf("failed to touch card: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit card update: %w", err)
	}

	return nil
}

func DeleteCard(db *sql.DB, deckID, cardID string) error {
	query := `
		DELETE FROM cards
		WHERE id = ? AND deck_id = ?
	`

	result, err := db.Exec(query, cardID, deckID)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCardNotFound
	}

	return nil
}

// DuplicateCard copies a card's title, description and attributes into the
// same deck, subject to the card cap. Generated images are not copied.
func DuplicateCard(db *sql.DB, deckID, cardID, userID string) (*models.Card, error) {
	original, err := GetCard(db, deckID, cardID)
	if err != nil {
		return nil, err
	}

	title := original.Title + " Copy"
	if len(title) > 100 {
		title = title[:100]
	}

	params := CreateCardParams{
		Title:       title,
		Description: original.Description,
	}
	for _, attr := range original.Attributes {
		params.Attributes = append(params.Attributes, AttributeParam{
			Type:  attr.AttributeType,
			Value: attr.Value,
		})
	}

	return CreateCard(db, deckID, userID, params)
}

func GetImageMetadata(db *sql.DB, metadataID string) (*models.ImageMetadata, error) {
	image := &models.ImageMetadata{}
	var parameters string
	query := `
		SELECT id, entity_id, entity_type, file_path, prompt, model, parameters, user_id, created_at
		FROM image_metadata
		WHERE id = ?
	`

	err := db.QueryRow(query, metadataID).Scan(
		&image.ID,
		&image.EntityID,
		&image.EntityType,
		&image.FilePath,
		&image.Prompt,
		&image.Model,
		&parameters,
		&image.UserID,
		&image.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(parameters), &image.Parameters); err != nil {
		image.Parameters = map[string]string{}
	}

	return image, nil
}

func insertAttributes(tx *sql.Tx, cardID string, attributes []AttributeParam) error {
	for _, attr := range attributes {
		_, err := tx.Exec(`
			INSERT INTO card_attributes (card_id, attribute_type, value)
			VALUES (?, ?, ?)
		`, cardID, attr.Type, attr.Value)
		if err != nil {
			return fmt.Errorf("failed to create card attribute: %w", err)
		}
	}
	return nil
}

func insertImageMetadata(tx *sql.Tx, entityID, entityType, userID string, img *ImageDataParam) (string, error) {
	metadataID := uuid.New().String()

	parameters := "{}"
	if img.Parameters != nil {
		encoded, err := json.Marshal(img.Parameters)
		if err != nil {
			return "", fmt.Errorf("failed to encode image parameters: %w", err)
		}
		parameters = string(encoded)
	}

	_, err := tx.Exec(`
		INSERT INTO image_metadata (id, entity_id, entity_type, file_path, prompt, model, parameters, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, metadataID, entityID, entityType, img.URL, img.Prompt, img.Model, parameters, userID)
	if err != nil {
		return "", fmt.Errorf("failed to create image metadata: %w", err)
	}

	return metadataID, nil
}

func scanCards(rows *sql.Rows) ([]models.Card, error) {
	var cards []models.Card
	for rows.Next() {
		var card models.Card
		err := rows.Scan(
			&card.ID,
			&card.DeckID,
			&card.Title,
			&card.Description,
			&card.ImageMetadataID,
			&card.CreatedAt,
			&card.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}

	return cards, nil
}

func getCardAttributes(db *sql.DB, cardID string) ([]models.CardAttribute, error) {
	query := `
		SELECT id, card_id, attribute_type, value
		FROM card_attributes
		WHERE card_id = ?
		ORDER BY attribute_type
	`

	rows, err := db.Query(query, cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to query card attributes: %w", err)
	}
	defer rows.Close()

	var attributes []models.CardAttribute
	for rows.Next() {
		var attr models.CardAttribute
		if err := rows.Scan(&attr.ID, &attr.CardID, &attr.AttributeType, &attr.Value); err != nil {
			return nil, fmt.Errorf("failed to scan card attribute: %w", err)
		}
		attributes = append(attributes, attr)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating card attributes: %w", err)
	}

	return attributes, nil
}
