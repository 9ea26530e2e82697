package database

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := Initialize(":memory:")
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}
	// Every pooled connection would otherwise get its own empty in-memory DB
	db.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}

	return db
}

func TestUserCreationAndAuthentication(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := CreateUser(db, "test@example.com", "testuser", "password123")
	if err != nil {
		t.Fatal("Failed to create user:", err)
	}

	if user.Username != "testuser" {
		t.Errorf("Expected username 'testuser', got %s", user.Username)
	}

	if user.Email != "test@example.com" {
		t.Errorf("Expected email 'test@example.com', got %s", user.Email)
	}

	authUser, err := AuthenticateUser(db, "test@example.com", "password123")
	if err != nil {
		t.Fatal("Failed to authenticate user:", err)
	}

	if authUser.ID != user.ID {
		t.Errorf("Expected user ID %s, got %s", user.ID, authUser.ID)
	}

	_, err = AuthenticateUser(db, "test@example.com", "wrongpassword")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials with wrong password, got %v", err)
	}

	_, err = AuthenticateUser(db, "nobody@example.com", "password123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := CreateUser(db, "dup@example.com", "first", "password123"); err != nil {
		t.Fatal("Failed to create user:", err)
	}

	_, err := CreateUser(db, "dup@example.com", "second", "password123")
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("Expected ErrUserExists, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := CreateUser(db, "session@example.com", "sessionuser", "password123")
	if err != nil {
		t.Fatal("Failed to create user:", err)
	}

	session, err := CreateSession(db, user.ID, time.Hour)
	if err != nil {
		t.Fatal("Failed to create session:", err)
	}

	if session.ID == "" {
		t.Error("Expected non-empty session ID")
	}

	validated, err := ValidateSession(db, session.ID, time.Hour)
	if err != nil {
		t.Fatal("Failed to validate session:", err)
	}
	if validated.ID != user.ID {
		t.Errorf("Expected user ID %s, got %s", user.ID, validated.ID)
	}

	if err := DeleteSession(db, session.ID); err != nil {
		t.Fatal("Failed to delete session:", err)
	}

	_, err = ValidateSession(db, session.ID, time.Hour)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestExpiredSessionRejected(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := CreateUser(db, "expired@example.com", "expireduser", "password123")
	if err != nil {
		t.Fatal("Failed to create user:", err)
	}

	session, err := CreateSession(db, user.ID, -time.Minute)
	if err != nil {
		t.Fatal("Failed to create session:", err)
	}

	_, err = ValidateSession(db, session.ID, time.Hour)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound for expired session, got %v", err)
	}

	if err := CleanupExpiredSessions(db); err != nil {
		t.Fatal("Failed to cleanup sessions:", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count); err != nil {
		t.Fatal("Failed to count sessions:", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 sessions after cleanup, got %d", count)
	}
}

func TestPasswordUpdate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := CreateUser(db, "pwd@example.com", "pwduser", "oldpassword")
	if err != nil {
		t.Fatal("Failed to create user:", err)
	}

	if err := UpdatePassword(db, user.ID, "newpassword"); err != nil {
		t.Fatal("Failed to update password:", err)
	}

	if _, err := AuthenticateUser(db, "pwd@example.com", "newpassword"); err != nil {
		t.Error("Expected authentication with new password to succeed:", err)
	}

	_, err = AuthenticateUser(db, "pwd@example.com", "oldpassword")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected old password to be rejected, got %v", err)
	}
}

func TestOTPCodeFlow(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := CreateUser(db, "otp@example.com", "otpuser", "password123")
	if err != nil {
		t.Fatal("Failed to create user:", err)
	}

	otp, err := CreateOTPCode(db, user.ID)
	if err != nil {
		t.Fatal("Failed to create OTP code:", err)
	}

	if len(otp.Code) != 6 {
		t.Errorf("Expected 6-digit code, got %q", otp.Code)
	}

	_, err = VerifyOTPCode(db, "otp@example.com", "000000")
	if !errors.Is(err, ErrInvalidOTP) && otp.Code != "000000" {
		t.Errorf("Expected ErrInvalidOTP for wrong code, got %v", err)
	}

	verified, err := VerifyOTPCode(db, "otp@example.com", otp.Code)
	if err != nil {
		t.Fatal("Failed to verify OTP code:", err)
	}
	if verified.ID != user.ID {
		t.Errorf("Expected user ID %s, got %s", user.ID, verified.ID)
	}

	// Codes are single use
	_, err = VerifyOTPCode(db, "otp@example.com", otp.Code)
	if !errors.Is(err, ErrInvalidOTP) {
		t.Errorf("Expected consumed code to be rejected, got %v", err)
	}
}

func TestOTPCodeInvalidatedByNewerCode(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := CreateUser(db, "otp2@example.com", "otpuser2", "password123")
	if err != nil {
		t.Fatal("Failed to create user:", err)
	}

	first, err := CreateOTPCode(db, user.ID)
	if err != nil {
		t.Fatal("Failed to create first OTP code:", err)
	}

	second, err := CreateOTPCode(db, user.ID)
	if err != nil {
		t.Fatal("Failed to create second OTP code:", err)
	}

	if first.Code != second.Code {
		_, err = VerifyOTPCode(db, "otp2@example.com", first.Code)
		if !errors.Is(err, ErrInvalidOTP) {
			t.Errorf("Expected superseded code to be rejected, got %v", err)
		}
	}

	if _, err := VerifyOTPCode(db, "otp2@example.com", second.Code); err != nil {
		t.Error("Expected latest code to verify:", err)
	}
}

func TestOTPUnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := VerifyOTPCode(db, "ghost@example.com", "123456")
	if !errors.Is(err, ErrInvalidOTP) {
		t.Errorf("Expected ErrInvalidOTP for unknown email, got %v", err)
	}
}

func TestPasswordResetTokenFlow(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := CreateUser(db, "reset@example.com", "resetuser", "password123")
	if err != nil {
		t.Fatal("Failed to create user:", err)
	}

	token, err := CreatePasswordResetToken(db, user.ID)
	if err != nil {
		t.Fatal("Failed to create reset token:", err)
	}

	userID, err := ConsumePasswordResetToken(db, token.Token)
	if err != nil {
		t.Fatal("Failed to consume reset token:", err)
	}
	if userID != user.ID {
		t.Errorf("Expected user ID %s, got %s", user.ID, userID)
	}

	// Tokens are single use
	_, err = ConsumePasswordResetToken(db, token.Token)
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("Expected consumed token to be rejected, got %v", err)
	}

	_, err = ConsumePasswordResetToken(db, "not-a-real-token")
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("Expected unknown token to be rejected, got %v", err)
	}
}
