package handlers

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/Albert91/deck-builder/internal/ai"
	"github.com/Albert91/deck-builder/internal/logger"
	"github.com/Albert91/deck-builder/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// buildCardPrompt frames the user's prompt for the requested card face so the
// generated art fits a trading card layout.
func buildCardPrompt(prompt, cardType string) string {
	if cardType == "back" {
		return fmt.Sprintf("Trading card back design: %s. Ornamental, symmetrical pattern suitable for the reverse side of a collectible card.", prompt)
	}
	return fmt.Sprintf("Trading card illustration: %s. Detailed fantasy art, centered subject, vibrant colors, suitable for a collectible card game.", prompt)
}

func (env *Env) handleGenerateImage(c *gin.Context) {
	var cmd validation.GenerateImageCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondValidationError(c, err)
		return
	}

	if env.AI == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image generation is not configured"})
		return
	}

	result, err := env.AI.GenerateImage(c.Request.Context(), buildCardPrompt(cmd.Prompt, cmd.Type), &ai.GenerateOptions{
		Size:  "1024x1024",
		Style: "vivid",
	})
	if err != nil {
		var verr *ai.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		logger.Error("Image generation failed", "user_id", currentUserID(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate image"})
		return
	}

	imageURL := result.ImageURL
	if result.Base64Data != "" {
		if env.Storage == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Image storage is not configured"})
			return
		}
		raw, err := base64.StdEncoding.DecodeString(result.Base64Data)
		if err != nil {
			logger.Error("Invalid image payload", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store generated image"})
			return
		}
		key := fmt.Sprintf("images/%s/%s.png", currentUserID(c), uuid.NewString())
		imageURL, err = env.Storage.Upload(c.Request.Context(), key, "image/png", bytes.NewReader(raw))
		if err != nil {
			logger.Error("Image upload failed", "user_id", currentUserID(c), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store generated image"})
			return
		}
	}

	parameters := gin.H{"type": cmd.Type}
	for k, v := range result.Parameters {
		parameters[k] = v
	}

	logger.Info("Image generated", "user_id", currentUserID(c), "model", result.Model)
	c.JSON(http.StatusOK, gin.H{
		"imageUrl":   imageURL,
		"model":      result.Model,
		"parameters": parameters,
	})
}
