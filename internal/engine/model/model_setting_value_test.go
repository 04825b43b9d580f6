package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueOf(t *testing.T) {
	v := ValueOf("plain")
	assert.True(t, v.IsScalar())
	s, err := v.Encode()
	require.NoError(t, err)
	assert.Equal(t, "plain", s)

	v = ValueOf(map[string]any{"layout": "compact", "columns": 3})
	assert.False(t, v.IsScalar())
	s, err = v.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"layout":"compact","columns":3}`, s)

	// already-wrapped values pass through
	v = ValueOf(ScalarValue("x"))
	assert.True(t, v.IsScalar())
}

func TestValueOf_NumbersAreStructured(t *testing.T) {
	s, err := ValueOf(25).Encode()
	require.NoError(t, err)
	assert.Equal(t, "25", s)

	s, err = ValueOf(true).Encode()
	require.NoError(t, err)
	assert.Equal(t, "true", s)
}

func TestSetting_IsGlobal(t *testing.T) {
	assert.True(t, (&Setting{}).IsGlobal())

	tenant := "7"
	assert.False(t, (&Setting{TenantId: &tenant}).IsGlobal())
}
