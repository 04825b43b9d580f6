package service

import (
	"context"
	"testing"

	"github.com/go-concord/concord/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSnapshotStore(fake *fakeSettingRepo) *SnapshotStore {
	return NewSnapshotStore(fake, cache.NewFastCache(cache.FastCacheConfig{}))
}

func TestSnapshotStore_ThemeDefaults(t *testing.T) {
	ss := newTestSnapshotStore(newFakeSettingRepo())

	require.NoError(t, ss.RefreshTheme(context.Background(), "1"))

	snap, err := ss.Theme(context.Background(), "1")
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, "light", snap.Mode)
	assert.Equal(t, "#1890ff", snap.PrimaryColor)
}

func TestSnapshotStore_ThemeUsesTenantOverrides(t *testing.T) {
	fake := newFakeSettingRepo()
	fake.put("", "theme_mode", "light", "theme")
	fake.put("1", "theme_mode", "dark", "theme")
	fake.put("1", "primary_color", "#000000", "theme")
	ss := newTestSnapshotStore(fake)

	require.NoError(t, ss.RefreshTheme(context.Background(), "1"))
	require.NoError(t, ss.RefreshTheme(context.Background(), "2"))

	snap, err := ss.Theme(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "dark", snap.Mode)
	assert.Equal(t, "#000000", snap.PrimaryColor)

	snap, err = ss.Theme(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "light", snap.Mode, "tenant 2 sees the global value")
}

func TestSnapshotStore_ThemeMissingIsNil(t *testing.T) {
	ss := newTestSnapshotStore(newFakeSettingRepo())

	snap, err := ss.Theme(context.Background(), "unseen")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSnapshotStore_PWAManifest(t *testing.T) {
	fake := newFakeSettingRepo()
	fake.put("1", "pwa_name", "Acme Portal", "pwa")
	fake.put("1", "pwa_short_name", "Acme", "pwa")
	ss := newTestSnapshotStore(fake)

	require.NoError(t, ss.RefreshPWAManifest(context.Background(), "1"))

	m, err := ss.PWAManifest(context.Background(), "1")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Acme Portal", m.Name)
	assert.Equal(t, "Acme", m.ShortName)
	assert.Equal(t, "standalone", m.Display)
	assert.Equal(t, "/", m.StartURL)
}

func TestSnapshotStore_RefreshOverwrites(t *testing.T) {
	fake := newFakeSettingRepo()
	fake.put("1", "theme_mode", "dark", "theme")
	ss := newTestSnapshotStore(fake)

	require.NoError(t, ss.RefreshTheme(context.Background(), "1"))
	fake.put("1", "theme_mode", "system", "theme")
	require.NoError(t, ss.RefreshTheme(context.Background(), "1"))

	snap, err := ss.Theme(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "system", snap.Mode)
}
