package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Albert91/deck-builder/internal/database"
	"github.com/Albert91/deck-builder/internal/logger"
	"github.com/Albert91/deck-builder/internal/models"
	"github.com/Albert91/deck-builder/internal/validation"

	"github.com/gin-gonic/gin"
)

func (env *Env) handleListDecks(c *gin.Context) {
	var query validation.ListDecksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidationError(c, err)
		return
	}
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 20
	}

	decks, total, err := database.ListDecks(env.DB, currentUserID(c), database.ListDecksOptions{
		Search:    query.Search,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
		Page:      query.Page,
		Limit:     query.Limit,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := models.DeckListResponse{
		Items:      []models.DeckDTO{},
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
	}
	for i := range decks {
		response.Items = append(response.Items, models.ToDeckDTO(&decks[i]))
	}
	c.JSON(http.StatusOK, response)
}

func (env *Env) handleCreateDeck(c *gin.Context) {
	var cmd validation.CreateDeckCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondValidationError(c, err)
		return
	}

	deck, err := database.CreateDeck(env.DB, currentUserID(c), cmd.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Deck created", "user_id", currentUserID(c), "deck_id", deck.ID)
	c.JSON(http.StatusCreated, models.ToDeckDTO(deck))
}

func (env *Env) handleGetDeck(c *gin.Context) {
	deckID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	deck, err := database.GetDeckForOwner(env.DB, currentUserID(c), deckID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToDeckDTO(deck))
}

func (env *Env) handleUpdateDeck(c *gin.Context) {
	deckID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var cmd validation.UpdateDeckCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondValidationError(c, err)
		return
	}

	if cmd.Name == nil {
		// Nothing to change; echo the current state.
		deck, err := database.GetDeckForOwner(env.DB, currentUserID(c), deckID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.ToDeckDTO(deck))
		return
	}

	deck, err := database.UpdateDeckName(env.DB, currentUserID(c), deckID, *cmd.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToDeckDTO(deck))
}

func (env *Env) handleDeleteDeck(c *gin.Context) {
	deckID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := database.DeleteDeck(env.DB, currentUserID(c), deckID); err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Deck deleted", "user_id", currentUserID(c), "deck_id", deckID)
	c.Status(http.StatusNoContent)
}

func (env *Env) handleDeckCount(c *gin.Context) {
	count, err := database.GetUserDeckCount(env.DB, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totalDecks": count, "deckLimit": database.DeckLimit})
}

func (env *Env) handleShareDeck(c *gin.Context) {
	deckID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	deck, err := database.GetDeckForOwner(env.DB, currentUserID(c), deckID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"share_hash": deck.ShareHash,
		"share_url":  fmt.Sprintf("%s/shared/%s", env.Config.BaseURL, deck.ShareHash),
	})
}

func (env *Env) handleExportDeck(c *gin.Context) {
	deckID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	deck, err := database.GetDeckForOwner(env.DB, currentUserID(c), deckID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	cards, err := database.ListDeckCards(env.DB, deckID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	cardDTOs := []models.CardDTO{}
	for i := range cards {
		cardDTOs = append(cardDTOs, models.ToCardDTO(&cards[i]))
	}

	filename := fmt.Sprintf("deck-%s-%s.json", deck.ID, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, gin.H{
		"deck":        models.ToDeckDTO(deck),
		"cards":       cardDTOs,
		"exported_at": time.Now().UTC(),
	})
}

func (env *Env) handleGetSharedDeck(c *gin.Context) {
	shareHash := c.Param("shareHash")

	deck, err := database.GetDeckByShareHash(env.DB, shareHash)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	cards, err := database.ListDeckCards(env.DB, deck.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ToSharedDeckDTO(deck, cards))
}
