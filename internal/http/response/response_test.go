package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"id": 1})

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something broke")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something broke", resp.Error)
	assert.Nil(t, resp.Data)
}

func TestValidationError_PerFieldMessages(t *testing.T) {
	type form struct {
		Name    string `validate:"required,min=2,max=100"`
		Email   string `validate:"required,email"`
		Rating  int    `validate:"gte=1,lte=5"`
		Subject string `validate:"required"`
	}

	v := validator.New()
	err := v.Struct(form{Name: "x", Email: "not-an-email", Rating: 9})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "validation failed", resp.Error)
	require.Len(t, resp.Fields, 4)

	byField := map[string]string{}
	for _, f := range resp.Fields {
		byField[f.Field] = f.Message
	}
	assert.Contains(t, byField["Name"], "at least 2 characters")
	assert.Contains(t, byField["Email"], "valid email")
	assert.Contains(t, byField["Rating"], "at most 5")
	assert.Contains(t, byField["Subject"], "required")
}
