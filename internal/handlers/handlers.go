package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/Albert91/deck-builder/internal/ai"
	"github.com/Albert91/deck-builder/internal/config"
	"github.com/Albert91/deck-builder/internal/database"
	"github.com/Albert91/deck-builder/internal/email"
	"github.com/Albert91/deck-builder/internal/logger"
	"github.com/Albert91/deck-builder/internal/middleware"
	"github.com/Albert91/deck-builder/internal/storage"
	"github.com/Albert91/deck-builder/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Env bundles the process-wide collaborators. Everything is constructed once
// in main and injected, so tests can substitute fakes.
type Env struct {
	DB      *sql.DB
	Config  *config.Config
	Email   *email.Service
	AI      *ai.Client
	Storage *storage.Uploader
}

func SetupRoutes(r *gin.Engine, env *Env) {
	r.Use(middleware.LogRequests())
	r.Use(middleware.SecurityHeaders(env.Config))
	r.Use(middleware.CORS(env.Config.AllowedOrigins))
	r.Use(middleware.RateLimit(env.Config))

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.Use(middleware.AuthRateLimit(env.Config))
	{
		auth.POST("/register", env.handleRegister)
		auth.POST("/login", env.handleLogin)
		auth.POST("/request-otp", env.handleRequestOTP)
		auth.POST("/verify-otp", env.handleVerifyOTP)
		auth.POST("/forgot-password", env.handleForgotPassword)
		auth.POST("/reset-password", env.handleResetPassword)
	}
	api.POST("/auth/logout", middleware.AuthRequired(env.DB, env.Config), env.handleLogout)

	// Anonymous read-only access to one deck via its share hash
	api.GET("/shared/:shareHash", env.handleGetSharedDeck)

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(env.DB, env.Config))
	{
		protected.GET("/decks", env.handleListDecks)
		protected.POST("/decks", env.handleCreateDeck)
		protected.GET("/decks/count", env.handleDeckCount)
		protected.GET("/decks/:id", env.handleGetDeck)
		protected.PUT("/decks/:id", env.handleUpdateDeck)
		protected.DELETE("/decks/:id", env.handleDeleteDeck)
		protected.GET("/decks/:id/share", env.handleShareDeck)
		protected.GET("/decks/:id/export", env.handleExportDeck)

		protected.GET("/decks/:id/cards", env.handleListCards)
		protected.POST("/decks/:id/cards", env.handleCreateCard)
		protected.GET("/decks/:id/cards/:cardId", env.handleGetCard)
		protected.PUT("/decks/:id/cards/:cardId", env.handleUpdateCard)
		protected.DELETE("/decks/:id/cards/:cardId", env.handleDeleteCard)
		protected.POST("/decks/:id/cards/:cardId/duplicate", env.handleDuplicateCard)

		protected.POST("/ai/generate-image", env.handleGenerateImage)
	}
}

func currentUserID(c *gin.Context) string {
	return c.MustGet("user_id").(string)
}

// parseUUIDParam validates a path parameter as a UUID and answers 400 itself
// when it is not one.
func parseUUIDParam(c *gin.Context, name string) (string, bool) {
	value := c.Param(name)
	if _, err := uuid.Parse(value); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a valid UUID"})
		return "", false
	}
	return value, true
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message(err)})
}

// respondServiceError maps the typed persistence errors onto HTTP statuses.
// Anything unanticipated is logged and collapsed to a generic 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrDeckNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
	case errors.Is(err, database.ErrCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
	case errors.Is(err, database.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not the owner of this deck"})
	case errors.Is(err, database.ErrDeckLimitReached):
		c.JSON(http.StatusForbidden, gin.H{"error": "Deck limit reached", "limit": database.DeckLimit})
	case errors.Is(err, database.ErrCardLimitReached):
		c.JSON(http.StatusForbidden, gin.H{"error": "Card limit reached", "limit": database.CardLimit})
	default:
		logger.Error("Unexpected service error",
			"path", c.Request.URL.Path,
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
