package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleCalendar_MissingCredentials(t *testing.T) {
	b := NewBootstrapper(Conf{})

	err := b.GoogleCalendar(context.Background())
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestGoogleCalendar_Configured(t *testing.T) {
	b := NewBootstrapper(Conf{
		GoogleClientID:     "cid",
		GoogleClientSecret: "secret",
		GoogleRedirectURL:  "https://example.com/callback",
	})

	require.NoError(t, b.GoogleCalendar(context.Background()))
}

func TestSlack_MissingToken(t *testing.T) {
	b := NewBootstrapper(Conf{})

	err := b.Slack(context.Background())
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestZapier(t *testing.T) {
	b := NewBootstrapper(Conf{})
	assert.ErrorIs(t, b.Zapier(context.Background()), ErrMissingCredentials)

	b = NewBootstrapper(Conf{ZapierHookURL: "https://hooks.zapier.com/x"})
	assert.NoError(t, b.Zapier(context.Background()))
}
