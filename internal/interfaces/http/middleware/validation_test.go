package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicemonk/backend/internal/interfaces/http/dto"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestHandleValidationError_FieldErrors(t *testing.T) {
	type createDraftRequest struct {
		Type     string `json:"type" binding:"required,oneof=invoice credit_note"`
		ClientID string `json:"client_id" binding:"required,uuid"`
		Currency string `json:"currency" binding:"required,len=3"`
	}

	SetupValidator()

	router := gin.New()
	router.POST("/api/v1/documents", func(c *gin.Context) {
		var req createDraftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})

	t.Run("invalid payload lists every failing field", func(t *testing.T) {
		body := strings.NewReader(`{"type": "quote", "client_id": "not-a-uuid", "currency": "EURO"}`)
		req := httptest.NewRequest("POST", "/api/v1/documents", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.Len(t, resp.Error.Details, 3)
	})

	t.Run("valid payload passes binding", func(t *testing.T) {
		body := strings.NewReader(`{"type": "invoice", "client_id": "7f1b67c2-9a4e-4a7e-9f30-52b5a7f0a001", "currency": "EUR"}`)
		req := httptest.NewRequest("POST", "/api/v1/documents", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type constraints struct {
		Required string `binding:"required"`
		Email    string `binding:"email"`
		Min      string `binding:"min=5"`
		Max      string `binding:"max=10"`
		Len      string `binding:"len=3"`
		UUID     string `binding:"uuid"`
		OneOf    string `binding:"oneof=invoice credit_note"`
		URL      string `binding:"url"`
	}

	v := validator.New()
	v.SetTagName("binding")

	tests := []struct {
		field    string
		expected string
	}{
		{"Required", "This field is required"},
		{"Email", "Invalid email format"},
		{"Min", "Must be at least 5 characters"},
		{"Max", "Must be at most 10 characters"},
		{"Len", "Must be exactly 3 characters"},
		{"UUID", "Invalid UUID format"},
		{"OneOf", "Must be one of: invoice credit_note"},
		{"URL", "Invalid URL format"},
	}

	obj := constraints{
		Email: "invalid",
		Max:   "this is way too long",
		Len:   "ab",
		UUID:  "invalid",
		OneOf: "quote",
		URL:   "invalid",
		Min:   "ab",
	}
	err := v.Struct(obj)
	require.Error(t, err)
	validationErrs := err.(validator.ValidationErrors)

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			for _, e := range validationErrs {
				if e.Field() == tt.field {
					assert.Equal(t, tt.expected, getValidationMessage(e))
					return
				}
			}
			t.Fatalf("no validation error produced for field %s", tt.field)
		})
	}
}

func TestHandleValidationError_NonValidatorError(t *testing.T) {
	router := gin.New()
	router.POST("/api/v1/documents", func(c *gin.Context) {
		var input struct {
			Notes string `json:"notes"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			HandleValidationError(c, err)
			return
		}
	})

	// Malformed JSON produces a plain error, not validator.ValidationErrors
	body := strings.NewReader(`{"notes": `)
	req := httptest.NewRequest("POST", "/api/v1/documents", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeValidation)
}
