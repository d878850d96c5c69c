package helper

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationMessage_TranslatesKnownTags(t *testing.T) {
	type req struct {
		Name       string  `validate:"required"`
		Date       string  `validate:"datetime=2006-01-02"`
		Confidence float64 `validate:"gte=0,lte=1"`
		PhotoURL   string  `validate:"url"`
	}

	err := validator.New().Struct(req{Date: "31-12-2024", Confidence: 2, PhotoURL: "bukan-url"})
	require.Error(t, err)
	ve, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	byField := make(map[string]string)
	for _, fe := range ve {
		byField[fe.Field()] = validationMessage(fe)
	}

	assert.Equal(t, "wajib diisi", byField["Name"])
	assert.Equal(t, "format tanggal harus 2006-01-02", byField["Date"])
	assert.Equal(t, "harus <= 1", byField["Confidence"])
	assert.Equal(t, "harus berupa URL yang valid", byField["PhotoURL"])
}

func TestValidationMessage_UnknownTagFallsBack(t *testing.T) {
	type req struct {
		Email string `validate:"email"`
	}

	err := validator.New().Struct(req{Email: "salah"})
	require.Error(t, err)
	ve := err.(validator.ValidationErrors)

	assert.Equal(t, "tidak valid (email)", validationMessage(ve[0]))
}
