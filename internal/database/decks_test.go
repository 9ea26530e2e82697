package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/Albert91/deck-builder/internal/models"
)

func createTestUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()
	user, err := CreateUser(db, email, "tester", "password123")
	if err != nil {
		t.Fatal("Failed to create test user:", err)
	}
	return user
}

func TestCreateAndGetDeck(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "decks@example.com")

	deck, err := CreateDeck(db, user.ID, "Dragons")
	if err != nil {
		t.Fatal("Failed to create deck:", err)
	}

	if deck.Name != "Dragons" {
		t.Errorf("Expected deck name 'Dragons', got %s", deck.Name)
	}
	if deck.ShareHash == "" {
		t.Error("Expected a share hash to be generated")
	}

	fetched, err := GetDeckForOwner(db, user.ID, deck.ID)
	if err != nil {
		t.Fatal("Failed to get deck:", err)
	}
	if fetched.ID != deck.ID {
		t.Errorf("Expected deck ID %s, got %s", deck.ID, fetched.ID)
	}
}

func TestDeckLimit(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "limit@example.com")

	for i := 0; i < DeckLimit; i++ {
		if _, err := CreateDeck(db, user.ID, fmt.Sprintf("Deck %d", i)); err != nil {
			t.Fatalf("Failed to create deck %d: %v", i, err)
		}
	}

	_, err := CreateDeck(db, user.ID, "One Too Many")
	if !errors.Is(err, ErrDeckLimitReached) {
		t.Errorf("Expected ErrDeckLimitReached, got %v", err)
	}

	count, err := GetUserDeckCount(db, user.ID)
	if err != nil {
		t.Fatal("Failed to count decks:", err)
	}
	if count != DeckLimit {
		t.Errorf("Expected %d decks, got %d", DeckLimit, count)
	}
}

func TestDeckLimitIsPerUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	for i := 0; i < DeckLimit; i++ {
		if _, err := CreateDeck(db, alice.ID, fmt.Sprintf("Alice %d", i)); err != nil {
			t.Fatalf("Failed to create deck %d: %v", i, err)
		}
	}

	if _, err := CreateDeck(db, bob.ID, "Bob's Deck"); err != nil {
		t.Error("Expected another user to still create decks:", err)
	}
}

func TestListDecksSearchAndSort(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "list@example.com")

	for _, name := range []string{"Dragons", "Goblins", "Dragon Riders"} {
		if _, err := CreateDeck(db, user.ID, name); err != nil {
			t.Fatal("Failed to create deck:", err)
		}
	}

	decks, total, err := ListDecks(db, user.ID, ListDecksOptions{Search: "dragon", Page: 1, Limit: 20})
	if err != nil {
		t.Fatal("Failed to list decks:", err)
	}
	if total != 2 {
		t.Errorf("Expected 2 matching decks, got %d", total)
	}
	if len(decks) != 2 {
		t.Errorf("Expected 2 decks in page, got %d", len(decks))
	}

	decks, _, err = ListDecks(db, user.ID, ListDecksOptions{SortBy: "name", SortOrder: "asc", Page: 1, Limit: 20})
	if err != nil {
		t.Fatal("Failed to list decks:", err)
	}
	if decks[0].Name != "Dragon Riders" {
		t.Errorf("Expected 'Dragon Riders' first, got %s", decks[0].Name)
	}

	decks, total, err = ListDecks(db, user.ID, ListDecksOptions{Page: 2, Limit: 2})
	if err != nil {
		t.Fatal("Failed to list decks:", err)
	}
	if total != 3 {
		t.Errorf("Expected total 3, got %d", total)
	}
	if len(decks) != 1 {
		t.Errorf("Expected 1 deck on page 2, got %d", len(decks))
	}
}

func TestListDecksDoesNotLeakOtherUsers(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	alice := createTestUser(t, db, "alice2@example.com")
	bob := createTestUser(t, db, "bob2@example.com")

	if _, err := CreateDeck(db, alice.ID, "Alice's Deck"); err != nil {
		t.Fatal("Failed to create deck:", err)
	}

	decks, total, err := ListDecks(db, bob.ID, ListDecksOptions{Page: 1, Limit: 20})
	if err != nil {
		t.Fatal("Failed to list decks:", err)
	}
	if total != 0 || len(decks) != 0 {
		t.Errorf("Expected no decks for other user, got %d", len(decks))
	}
}

func TestUpdateDeckName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "update@example.com")

	deck, err := CreateDeck(db, user.ID, "Old Name")
	if err != nil {
		t.Fatal("Failed to create deck:", err)
	}

	updated, err := UpdateDeckName(db, user.ID, deck.ID, "New Name")
	if err != nil {
		t.Fatal("Failed to update deck:", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("Expected name 'New Name', got %s", updated.Name)
	}
	if updated.ShareHash != deck.ShareHash {
		t.Error("Expected share hash to survive a rename")
	}
}

func TestDeckOwnership(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	owner := createTestUser(t, db, "owner@example.com")
	intruder := createTestUser(t, db, "intruder@example.com")

	deck, err := CreateDeck(db, owner.ID, "Private")
	if err != nil {
		t.Fatal("Failed to create deck:", err)
	}

	_, err = GetDeckForOwner(db, intruder.ID, deck.ID)
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner, got %v", err)
	}

	_, err = UpdateDeckName(db, intruder.ID, deck.ID, "Hijacked")
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner on update, got %v", err)
	}

	err = DeleteDeck(db, intruder.ID, deck.ID)
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner on delete, got %v", err)
	}
}

func TestDeleteDeck(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "delete@example.com")

	deck, err := CreateDeck(db, user.ID, "Doomed")
	if err != nil {
		t.Fatal("Failed to create deck:", err)
	}

	if err := DeleteDeck(db, user.ID, deck.ID); err != nil {
		t.Fatal("Failed to delete deck:", err)
	}

	_, err = GetDeckForOwner(db, user.ID, deck.ID)
	if !errors.Is(err, ErrDeckNotFound) {
		t.Errorf("Expected ErrDeckNotFound after delete, got %v", err)
	}

	// Deleting again reports not found, not success
	err = DeleteDeck(db, user.ID, deck.ID)
	if !errors.Is(err, ErrDeckNotFound) {
		t.Errorf("Expected ErrDeckNotFound on second delete, got %v", err)
	}
}

func TestGetDeckByShareHash(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := createTestUser(t, db, "share@example.com")

	deck, err := CreateDeck(db, user.ID, "Shared")
	if err != nil {
		t.Fatal("Failed to create deck:", err)
	}

	fetched, err := GetDeckByShareHash(db, deck.ShareHash)
	if err != nil {
		t.Fatal("Failed to get deck by share hash:", err)
	}
	if fetched.ID != deck.ID {
		t.Errorf("Expected deck ID %s, got %s", deck.ID, fetched.ID)
	}

	_, err = GetDeckByShareHash(db, "deadbeef")
	if !errors.Is(err, ErrDeckNotFound) {
		t.Errorf("Expected ErrDeckNotFound for unknown hash, got %v", err)
	}
}
