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
	"github.com/rastreo/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ticketInput struct {
	Ticket string `json:"ticket" binding:"ticket"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.PUT("/test", func(c *gin.Context) {
		var req ticketInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return router
}

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	assert.NoError(t, v.Struct(ticketInput{Ticket: "T-100"}))
	assert.NoError(t, v.Struct(ticketInput{Ticket: ""}))
	assert.Error(t, v.Struct(ticketInput{Ticket: strings.Repeat("x", 65)}))
	assert.Error(t, v.Struct(ticketInput{Ticket: "T\x00100"}))
}

func TestTicketValidation(t *testing.T) {
	router := newValidationRouter()

	t.Run("accepts a ticket", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/test", strings.NewReader(`{"ticket": " T-100 "}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects an oversized ticket with field details", func(t *testing.T) {
		body := `{"ticket": "` + strings.Repeat("9", 80) + `"}`
		req := httptest.NewRequest(http.MethodPut, "/test", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, w.Header().Get(RequestIDHeader), resp.Error.RequestID)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "ticket", resp.Error.Details[0].Field)
		assert.Contains(t, resp.Error.Details[0].Message, "64")
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/test", strings.NewReader(`{"ticket":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidJSON)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type input struct {
		Required string `validate:"required"`
		Min      string `validate:"min=5"`
		Max      string `validate:"max=3"`
		UUID     string `validate:"uuid"`
		OneOf    string `validate:"oneof=a b"`
	}

	v := validator.New()
	err := v.Struct(input{Min: "ab", Max: "abcd", UUID: "nope", OneOf: "c"})
	require.Error(t, err)

	messages := map[string]string{}
	for _, e := range err.(validator.ValidationErrors) {
		messages[e.Field()] = getValidationMessage(e)
	}

	assert.Equal(t, "This field is required", messages["Required"])
	assert.Equal(t, "Must be at least 5 characters", messages["Min"])
	assert.Equal(t, "Must be at most 3 characters", messages["Max"])
	assert.Equal(t, "Invalid UUID format", messages["UUID"])
	assert.Equal(t, "Must be one of: a b", messages["OneOf"])
}
