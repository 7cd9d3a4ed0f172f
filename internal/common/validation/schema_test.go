package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMessageSchema(t *testing.T) {
	v := MustValidator(ChatMessageSchema)

	tests := []struct {
		name  string
		doc   string
		valid bool
		code  string
	}{
		{"valid", `{"text": "how many suppliers"}`, true, ""},
		{"missing text", `{}`, false, "required"},
		{"wrong type", `{"text": 42}`, false, "invalid_type"},
		{"extra field", `{"text": "hi", "role": "admin"}`, false, "additional_property_not_allowed"},
		{"too long", `{"text": "` + strings.Repeat("a", 2001) + `"}`, false, "string_lte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.ValidateJSON([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				require.NotEmpty(t, res.Errors)
				assert.Equal(t, tt.code, res.Errors[0].Code)
				assert.NotEmpty(t, res.Summary())
			}
		})
	}
}

func TestAnswerQuerySchema_GoInput(t *testing.T) {
	v := MustValidator(AnswerQuerySchema)

	res, err := v.ValidateInput(map[string]interface{}{"question": "price of boots", "context": "x"})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "", res.Summary())

	res, err = v.ValidateInput(map[string]interface{}{})
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestNewValidator_BadSchema(t *testing.T) {
	_, err := NewValidator(`{"type":`)
	assert.Error(t, err)
}

func TestValidateJSON_Malformed(t *testing.T) {
	v := MustValidator(ChatMessageSchema)
	_, err := v.ValidateJSON([]byte(`{"text":`))
	assert.Error(t, err)
}
