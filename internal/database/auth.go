package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Albert91/deck-builder/internal/logger"
	"github.com/Albert91/deck-builder/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func CreateUser(db *sql.DB, email, username, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.New().String()

	query := `
		INSERT INTO users (id, email, username, password_hash)
		VALUES (?, ?, ?, ?)
	`

	_, err = db.Exec(query, userID, email, username, string(hashedPassword))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user := &models.User{
		ID:           userID,
		Email:        email,
		Username:     username,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	return user, nil
}

func GetUserByID(db *sql.DB, userID string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, username, password_hash, created_at, updated_at
		FROM users
		WHERE id = ?
	`

	err := db.QueryRow(query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return user, nil
}

func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, username, password_hash, created_at, updated_at
		FROM users
		WHERE email = ?
	`

	err := db.QueryRow(query, email).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return user, nil
}

func AuthenticateUser(db *sql.DB, email, password string) (*models.User, error) {
	user, err := GetUserByEmail(db, email)
	if err != nil {
		if err == ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func UpdatePassword(db *sql.DB, userID, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	query := "UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	_, err = db.Exec(query, string(hashedPassword), userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func CreateSession(db *sql.DB, userID string, sessionDuration time.Duration) (*models.Session, error) {
	sessionID, err := generateSecureToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	expiresAt := time.Now().Add(sessionDuration)

	query := `
		INSERT INTO sessions (id, user_id, expires_at)
		VALUES (?, ?, ?)
	`

	_, err = db.Exec(query, sessionID, userID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	session := &models.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	return session, nil
}

func ValidateSession(db *sql.DB, sessionID string, sessionDuration time.Duration) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT u.id, u.email, u.username, u.password_hash, u.created_at, u.updated_at
		FROM users u
		INNER JOIN sessions s ON u.id = s.user_id
		WHERE s.id = ? AND s.expires_at > CURRENT_TIMESTAMP
	`

	err := db.QueryRow(query, sessionID).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	if err := RenewSession(db, sessionID, sessionDuration); err != nil {
		logger.Warn("Failed to renew session",
			"session_id", sessionID,
			"error", err)
	}

	return user, nil
}

// RenewSession implements a sliding window - activity always extends.
func RenewSession(db *sql.DB, sessionID string, sessionDuration time.Duration) error {
	newExpiresAt := time.Now().Add(sessionDuration)

	query := `UPDATE sessions SET expires_at = ? WHERE id = ?`
	_, err := db.Exec(query, newExpiresAt, sessionID)
	if err != nil {
		return fmt.Errorf("failed to renew session: %w", err)
	}

	return nil
}

func DeleteSession(db *sql.DB, sessionID string) error {
	query := `DELETE FROM sessions WHERE id = ?`
	_, err := db.Exec(query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func CleanupExpiredSessions(db *sql.DB) error {
	query := `DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP`
	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to cleanup expired sessions: %w", err)
	}
	return nil
}

// CreateOTPCode invalidates any outstanding codes for the user and issues a
// fresh single-use 6-digit code.
func CreateOTPCode(db *sql.DB, userID string) (*models.OTPCode, error) {
	code, err := generateOTPCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	_, err = db.Exec(`UPDATE otp_codes SET consumed = TRUE WHERE user_id = ? AND consumed = FALSE`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to invalidate previous OTP codes: %w", err)
	}

	expiresAt := time.Now().Add(10 * time.Minute)

	result, err := db.Exec(`
		INSERT INTO otp_codes (user_id, code, expires_at)
		VALUES (?, ?, ?)
	`, userID, code, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTP code: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get OTP code ID: %w", err)
	}

	otp := &models.OTPCode{
		ID:        int(id),
		UserID:    userID,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	return otp, nil
}

// VerifyOTPCode checks the code for the account behind the email and burns it
// on success.
func VerifyOTPCode(db *sql.DB, email, code string) (*models.User, error) {
	user, err := GetUserByEmail(db, email)
	if err != nil {
		if err == ErrUserNotFound {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}

	var otpID int
	query := `
		SELECT id
		FROM otp_codes
		WHERE user_id = ? AND code = ? AND consumed = FALSE AND expires_at > CURRENT_TIMESTAMP
	`
	err = db.QueryRow(query, user.ID, code).Scan(&otpID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidOTP
		}
		return nil, fmt.Errorf("failed to verify OTP code: %w", err)
	}

	_, err = db.Exec(`UPDATE otp_codes SET consumed = TRUE WHERE id = ?`, otpID)
	if err != nil {
		return nil, fmt.Errorf("failed to consume OTP code: %w", err)
	}

	return user, nil
}

func CreatePasswordResetToken(db *sql.DB, userID string) (*models.PasswordResetToken, error) {
	tokenUUID := uuid.New().String()
	expiresAt := time.Now().Add(1 * time.Hour)

	query := `
		INSERT INTO password_reset_tokens (token, user_id, expires_at)
		VALUES (?, ?, ?)
	`

	_, err := db.Exec(query, tokenUUID, userID, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create password reset token: %w", err)
	}

	token := &models.PasswordResetToken{
		Token:     tokenUUID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	return token, nil
}

// ConsumePasswordResetToken validates a reset token, marks it used and
// returns the user it belongs to.
func ConsumePasswordResetToken(db *sql.DB, token string) (string, error) {
	var userID string
	query := `
		SELECT user_id
		FROM password_reset_tokens
		WHERE token = ? AND consumed = FALSE AND expires_at > CURRENT_TIMESTAMP
	`
	err := db.QueryRow(query, token).Scan(&userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrInvalidResetToken
		}
		return "", fmt.Errorf("failed to validate reset token: %w", err)
	}

	_, err = db.Exec(`UPDATE password_reset_tokens SET consumed = TRUE WHERE token = ?`, token)
	if err != nil {
		return "", fmt.Errorf("failed to consume reset token: %w", err)
	}

	return userID, nil
}

func CleanupExpiredTokens(db *sql.DB) error {
	if _, err := db.Exec(`DELETE FROM otp_codes WHERE expires_at < CURRENT_TIMESTAMP`); err != nil {
		return fmt.Errorf("failed to cleanup expired OTP codes: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM password_reset_tokens WHERE expires_at < CURRENT_TIMESTAMP`); err != nil {
		return fmt.Errorf("failed to cleanup expired reset tokens: %w", err)
	}
	return nil
}
