package validation

import (
	"fmt"
	"strings"

	"github.com/Albert91/deck-builder/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Command and query payloads for every endpoint. Gin binds and validates
// these through the validator engine; the constraints mirror the persisted
// column bounds exactly.

type RegisterCommand struct {
	Email           string `json:"email" binding:"required,email"`
	Username        string `json:"username" binding:"required,min=3,max=30"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

type LoginCommand struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type OTPRequestCommand struct {
	Email string `json:"email" binding:"required,email"`
}

type OTPVerifyCommand struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

type ForgotPasswordCommand struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordCommand struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=Password"`
}

type CreateDeckCommand struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

type UpdateDeckCommand struct {
	Name *string `json:"name" binding:"omitempty,min=1,max=50"`
}

type ListDecksQuery struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search    string `form:"search"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=name created_at updated_at"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

type ListCardsQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type AttributeCommand struct {
	AttributeType string `json:"attribute_type" binding:"required,attribute_type"`
	Value         int    `json:"value" binding:"min=0,max=99"`
}

type ImageDataCommand struct {
	URL        string            `json:"url" binding:"required,url"`
	Prompt     string            `json:"prompt"`
	Model      string            `json:"model"`
	Parameters map[string]string `json:"parameters"`
}

type CreateCardCommand struct {
	Title       string             `json:"title" binding:"required,min=1,max=100"`
	Description string             `json:"description" binding:"max=500"`
	Attributes  []AttributeCommand `json:"attributes" binding:"omitempty,max=3,dive"`
	ImageData   *ImageDataCommand  `json:"image_data"`
}

type UpdateCardCommand struct {
	Title       *string            `json:"title" binding:"omitempty,min=1,max=100"`
	Description *string            `json:"description" binding:"omitempty,max=500"`
	Attributes  []AttributeCommand `json:"attributes" binding:"omitempty,max=3,dive"`
	ImageData   *ImageDataCommand  `json:"image_data"`
}

type GenerateImageCommand struct {
	Prompt string `json:"prompt" binding:"required,min=1,max=1000"`
	Type   string `json:"type" binding:"required,oneof=front back"`
}

// RegisterValidators installs custom rules on gin's validator engine. Must be
// called once before the router handles requests.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine")
	}

	return v.RegisterValidation("attribute_type", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, t := range models.AttributeTypes {
			if value == t {
				return true
			}
		}
		return false
	})
}

// ValidateAttributes rejects duplicate attribute types, which the dive rules
// cannot express.
func ValidateAttributes(attributes []AttributeCommand) error {
	seen := make(map[string]bool, len(attributes))
	for _, attr := range attributes {
		if seen[attr.AttributeType] {
			return fmt.Errorf("duplicate attribute type %q", attr.AttributeType)
		}
		seen[attr.AttributeType] = true
	}
	return nil
}

// Message renders the first violated rule of a binding error in a form safe
// to return to clients.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("%s is required", field)
		case "email":
			return fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "max":
			return fmt.Sprintf("%s must be at most %s", field, fe.Param())
		case "eqfield":
			return "passwords do not match"
		case "oneof":
			return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
		case "attribute_type":
			return fmt.Sprintf("%s must be one of: %s", field, strings.Join(models.AttributeTypes, ", "))
		case "len":
			return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
		case "numeric":
			return fmt.Sprintf("%s must be numeric", field)
		case "url":
			return fmt.Sprintf("%s must be a valid URL", field)
		case "uuid":
			return fmt.Sprintf("%s must be a valid UUID", field)
		default:
			return fmt.Sprintf("%s is invalid", field)
		}
	}
	return "invalid request body"
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		*target = verrs
		return true
	}
	return false
}
