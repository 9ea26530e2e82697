package handlers

import (
	"errors"
	"net/http"

	"github.com/Albert91/deck-builder/internal/database"
	"github.com/Albert91/deck-builder/internal/logger"
	"github.com/Albert91/deck-builder/internal/middleware"
	"github.com/Albert91/deck-builder/internal/models"
	"github.com/Albert91/deck-builder/internal/validation"

	"github.com/gin-gonic/gin"
)

func (env *Env) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, sessionID,
		int(env.Config.SessionDuration.Seconds()), "/", "",
		!env.Config.IsDevelopment(), true)
}

func (env *Env) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "",
		!env.Config.IsDevelopment(), true)
}

// startSession creates a session row and hands the cookie to the client.
func (env *Env) startSession(c *gin.Context, user *models.User) error {
	session, err := database.CreateSession(env.DB, user.ID, env.Config.SessionDuration)
	if err != nil {
		return err
	}
	env.setSessionCookie(c, session.ID)
	return nil
}

func (env *Env) handleRegister(c *gin.Context) {
	var cmd validation.RegisterCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := database.CreateUser(env.DB, cmd.Email, cmd.Username, cmd.Password)
	if err != nil {
		if errors.Is(err, database.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "An account with this email already exists"})
			return
		}
		respondServiceError(c, err)
		return
	}

	if env.Email.IsEnabled() {
		go func() {
			if err := env.Email.SendWelcomeEmail(user); err != nil {
				logger.Error("Failed to send welcome email", "user_id", user.ID, "error", err)
			}
		}()
	}

	if err := env.startSession(c, user); err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("User registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": models.ToUserDTO(user)})
}

func (env *Env) handleLogin(c *gin.Context) {
	var cmd validation.LoginCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := database.AuthenticateUser(env.DB, cmd.Email, cmd.Password)
	if err != nil {
		if errors.Is(err, database.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
			return
		}
		respondServiceError(c, err)
		return
	}

	if err := env.startSession(c, user); err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("User logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": models.ToUserDTO(user)})
}

func (env *Env) handleLogout(c *gin.Context) {
	if sessionID, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := database.DeleteSession(env.DB, sessionID); err != nil {
			logger.Error("Failed to delete session", "error", err)
		}
	}
	env.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (env *Env) handleRequestOTP(c *gin.Context) {
	var cmd validation.OTPRequestCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := database.GetUserByEmail(env.DB, cmd.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Account does not exist"})
			return
		}
		respondServiceError(c, err)
		return
	}

	if !env.Email.IsEnabled() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Email delivery is not configured"})
		return
	}

	code, err := database.CreateOTPCode(env.DB, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := env.Email.SendOTPEmail(user, code.Code); err != nil {
		logger.Error("Failed to send OTP email", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification code sent"})
}

func (env *Env) handleVerifyOTP(c *gin.Context) {
	var cmd validation.OTPVerifyCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := database.VerifyOTPCode(env.DB, cmd.Email, cmd.Code)
	if err != nil {
		if errors.Is(err, database.ErrInvalidOTP) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired verification code"})
			return
		}
		respondServiceError(c, err)
		return
	}

	if err := env.startSession(c, user); err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("User logged in via OTP", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": models.ToUserDTO(user)})
}

func (env *Env) handleForgotPassword(c *gin.Context) {
	var cmd validation.ForgotPasswordCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondValidationError(c, err)
		return
	}

	// The response never reveals whether the account exists.
	user, err := database.GetUserByEmail(env.DB, cmd.Email)
	if err == nil && env.Email.IsEnabled() {
		token, err := database.CreatePasswordResetToken(env.DB, user.ID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		go func() {
			if err := env.Email.SendPasswordResetEmail(user, token.Token); err != nil {
				logger.Error("Failed to send password reset email", "user_id", user.ID, "error", err)
			}
		}()
	} else if err != nil && !errors.Is(err, database.ErrUserNotFound) {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "If the account exists, a reset link has been sent"})
}

func (env *Env) handleResetPassword(c *gin.Context) {
	var cmd validation.ResetPasswordCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondValidationError(c, err)
		return
	}

	userID, err := database.ConsumePasswordResetToken(env.DB, cmd.Token)
	if err != nil {
		if errors.Is(err, database.ErrInvalidResetToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
			return
		}
		respondServiceError(c, err)
		return
	}

	if err := database.UpdatePassword(env.DB, userID, cmd.Password); err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Info("Password reset completed", "user_id", userID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}
