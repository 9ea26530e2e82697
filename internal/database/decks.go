package database

import (
	"database/sql"
	"fmt"

	"github.com/Albert91/deck-builder/internal/models"

	"github.com/google/uuid"
)

// ListDecksOptions controls search, sorting and pagination of the deck list.
type ListDecksOptions struct {
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

var deckSortColumns = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func CreateDeck(db *sql.DB, ownerID, name string) (*models.Deck, error) {
	count, err := GetUserDeckCount(db, ownerID)
	if err != nil {
		return nil, err
	}
	if count >= DeckLimit {
		return nil, ErrDeckLimitReached
	}

	deckID := uuid.New().String()
	shareHash, err := generateShareHash()
	if err != nil {
		return nil, fmt.Errorf("failed to generate share hash: %w", err)
	}

	query := `
		INSERT INTO decks (id, owner_id, name, share_hash)
		VALUES (?, ?, ?, ?)
	`

	_, err = db.Exec(query, deckID, ownerID, name, shareHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	return GetDeck(db, deckID)
}

func ListDecks(db *sql.DB, ownerID string, opts ListDecksOptions) ([]models.Deck, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 20
	}

	where := "WHERE owner_id = ?"
	args := []interface{}{ownerID}
	if opts.Search != "" {
		where += " AND name LIKE ?"
		args = append(args, "%"+opts.Search+"%")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM decks " + where
	if err := db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count decks: %w", err)
	}

	sortColumn, ok := deckSortColumns[opts.SortBy]
	if !ok {
		sortColumn = "updated_at"
	}
	direction := "DESC"
	if opts.SortOrder == "asc" {
		direction = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT id, owner_id, name, share_hash, image_metadata_id, created_at, updated_at
		FROM decks
		%s
		ORDER BY %s %s
		LIMIT ? OFFSET ?
	`, where, sortColumn, direction)
	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query decks: %w", err)
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var deck models.Deck
		err := rows.Scan(
			&deck.ID,
			&deck.OwnerID,
			&deck.Name,
			&deck.ShareHash,
			&deck.ImageMetadataID,
			&deck.CreatedAt,
			&deck.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, deck)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating decks: %w", err)
	}

	return decks, total, nil
}

func GetDeck(db *sql.DB, deckID string) (*models.Deck, error) {
	deck := &models.Deck{}
	query := `
		SELECT id, owner_id, name, share_hash, image_metadata_id, created_at, updated_at
		FROM decks
		WHERE id = ?
	`

	err := db.QueryRow(query, deckID).Scan(
		&deck.ID,
		&deck.OwnerID,
		&deck.Name,
		&deck.ShareHash,
		&deck.ImageMetadataID,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to query deck: %w", err)
	}

	return deck, nil
}

// GetDeckForOwner resolves a deck and verifies ownership. A deck that exists
// but belongs to somebody else is ErrNotOwner, never silently ErrDeckNotFound.
func GetDeckForOwner(db *sql.DB, ownerID, deckID string) (*models.Deck, error) {
	deck, err := GetDeck(db, deckID)
	if err != nil {
		return nil, err
	}
	if deck.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return deck, nil
}

func GetDeckByShareHash(db *sql.DB, shareHash string) (*models.Deck, error) {
	deck := &models.Deck{}
	query := `
		SELECT id, owner_id, name, share_hash, image_metadata_id, created_at, updated_at
		FROM decks
		WHERE share_hash = ?
	`

	err := db.QueryRow(query, shareHash).Scan(
		&deck.ID,
		&deck.OwnerID,
		&deck.Name,
		&deck.ShareHash,
		&deck.ImageMetadataID,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to query deck by share hash: %w", err)
	}

	return deck, nil
}

func UpdateDeckName(db *sql.DB, ownerID, deckID, name string) (*models.Deck, error) {
	if _, err := GetDeckForOwner(db, ownerID, deckID); err != nil {
		return nil, err
	}

	query := `
		UPDATE decks
		SET name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner_id = ?
	`

	result, err := db.Exec(query, name, deckID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to update deck: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrDeckNotFound
	}

	return GetDeck(db, deckID)
}

func DeleteDeck(db *sql.DB, ownerID, deckID string) error {
	if _, err := GetDeckForOwner(db, ownerID, deckID); err != nil {
		return err
	}

	query := `
		DELETE FROM decks
		WHERE id = ? AND owner_id = ?
	`

	result, err := db.Exec(query, deckID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrDeckNotFound
	}

	return nil
}

func GetUserDeckCount(db *sql.DB, ownerID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM decks WHERE owner_id = ?`
	if err := db.QueryRow(query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count decks: %w", err)
	}
	return count, nil
}
