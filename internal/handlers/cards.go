package handlers

import (
	"net/http"

	"github.com/Albert91/deck-builder/internal/database"
	"github.com/Albert91/deck-builder/internal/logger"
	"github.com/Albert91/deck-builder/internal/models"
	"github.com/Albert91/deck-builder/internal/validation"

	"github.com/gin-gonic/gin"
)

// ownedDeckFromPath resolves the :id path parameter to a deck owned by the
// caller, answering the error response itself when that fails.
func (env *Env) ownedDeckFromPath(c *gin.Context) (*models.Deck, bool) {
	deckID, ok := parseUUIDParam(c, "id")
	if !ok {
		return nil, false
	}

	deck, err := database.GetDeckForOwner(env.DB, currentUserID(c), deckID)
	if err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return deck, true
}

func attributeParams(attributes []validation.AttributeCommand) []database.AttributeParam {
	if attributes == nil {
		return nil
	}
	params := make([]database.AttributeParam, 0, len(attributes))
	for _, attr := range attributes {
		params = append(params, database.AttributeParam{Type: attr.AttributeType, Value: attr.Value})
	}
	return params
}

func imageDataParam(cmd *validation.ImageDataCommand) *database.ImageDataParam {
	if cmd == nil {
		return nil
	}
	return &database.ImageDataParam{
		URL:        cmd.URL,
		Prompt:     cmd.Prompt,
		Model:      cmd.Model,
		Parameters: cmd.Parameters,
	}
}

func (env *Env) handleListCards(c *gin.Context) {
	deck, ok := env.ownedDeckFromPath(c)
	if !ok {
		return
	}

	var query validation.ListCardsQuery
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

	cards, total, err := database.ListCards(env.DB, deck.ID, query.Page, query.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := models.CardListResponse{
		Items:      []models.CardDTO{},
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
	}
	for i := range cards {
		response.Items = append(response.Items, models.ToCardDTO(&cards[i]))
	}
	c.JSON(http.StatusOK, response)
}

func (env *Env) handleCreateCard(c *gin.Context) {
	deck, ok := env.ownedDeckFromPath(c)
	if !ok {
		return
	}

	var cmd validation.CreateCardCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondValidationError(c, err)
		return
	}
	if err := validation.ValidateAttributes(cmd.Attributes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card, err := database.CreateCard(env.DB, deck.ID, currentUserID(c), database.CreateCardParams{
		Title:       cmd.Title,
		Description: cmd.Description,
		Attributes:  attributeParams(cmd.Attributes),
		ImageData:   imageDataParam(cmd.ImageData),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Card created", "user_id", currentUserID(c), "deck_id", deck.ID, "card_id", card.ID)
	c.JSON(http.StatusCreated, models.ToCardDTO(card))
}

func (env *Env) handleGetCard(c *gin.Context) {
	deck, ok := env.ownedDeckFromPath(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	card, err := database.GetCard(env.DB, deck.ID, cardID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToCardDTO(card))
}

func (env *Env) handleUpdateCard(c *gin.Context) {
	deck, ok := env.ownedDeckFromPath(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	var cmd validation.UpdateCardCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondValidationError(c, err)
		return
	}
	if err := validation.ValidateAttributes(cmd.Attributes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := database.UpdateCard(env.DB, deck.ID, cardID, currentUserID(c), database.UpdateCardParams{
		Title:       cmd.Title,
		Description: cmd.Description,
		Attributes:  attributeParams(cmd.Attributes),
		ImageData:   imageDataParam(cmd.ImageData),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	card, err := database.GetCard(env.DB, deck.ID, cardID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToCardDTO(card))
}

func (env *Env) handleDeleteCard(c *gin.Context) {
	deck, ok := env.ownedDeckFromPath(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	if err := database.DeleteCard(env.DB, deck.ID, cardID); err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Card deleted", "user_id", currentUserID(c), "deck_id", deck.ID, "card_id", cardID)
	c.Status(http.StatusNoContent)
}

func (env *Env) handleDuplicateCard(c *gin.Context) {
	deck, ok := env.ownedDeckFromPath(c)
	if !ok {
		return
	}
	cardID, ok := parseUUIDParam(c, "cardId")
	if !ok {
		return
	}

	card, err := database.DuplicateCard(env.DB, deck.ID, cardID, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Card duplicated", "user_id", currentUserID(c), "deck_id", deck.ID, "card_id", card.ID)
	c.JSON(http.StatusCreated, models.ToCardDTO(card))
}
