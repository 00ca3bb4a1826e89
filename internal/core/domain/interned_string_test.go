package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepipe/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	is1 := domain.NewInternedString("src/**/*.html")
	is2 := domain.NewInternedString("src/**/*.html")

	assert.Equal(t, is1.Value(), is2.Value())
	assert.Equal(t, "src/**/*.html", is1.String())
	assert.False(t, is1.IsZero())
	assert.True(t, domain.InternedString{}.IsZero())
}

func TestInternedStringJSON(t *testing.T) {
	type payload struct {
		Name domain.InternedString `json:"name"`
	}

	data, err := json.Marshal(payload{Name: domain.NewInternedString("styles")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"styles"}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "styles", decoded.Name.String())
}

func TestNewInternedStrings(t *testing.T) {
	in := []string{"clean", "styles", "styles"}
	out := domain.NewInternedStrings(in)

	require.Len(t, out, 3)
	assert.Equal(t, in, domain.Strings(out))
	assert.Equal(t, out[1].Value(), out[2].Value())

	assert.Nil(t, domain.NewInternedStrings(nil))
	assert.Nil(t, domain.Strings(nil))
}
