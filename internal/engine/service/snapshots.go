package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-concord/concord/internal/engine/consts"
	"github.com/go-concord/concord/internal/engine/repo"
	"github.com/go-concord/concord/pkg/cache"
	"github.com/redis/go-redis/v9"
)

// ThemeSnapshot is the denormalized theme state the UI bootstrap reads.
type ThemeSnapshot struct {
	Mode           string `json:"mode"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	FontFamily     string `json:"fontFamily"`
}

// PWAManifest mirrors the web app manifest fields derived from pwa_* keys.
type PWAManifest struct {
	Name            string `json:"name"`
	ShortName       string `json:"short_name"`
	Description     string `json:"description,omitempty"`
	ThemeColor      string `json:"theme_color,omitempty"`
	BackgroundColor string `json:"background_color,omitempty"`
	Display         string `json:"display,omitempty"`
	StartURL        string `json:"start_url"`
}

const (
	themeSnapshotKeyPrefix = "concord:theme:"
	pwaManifestKeyPrefix   = "concord:pwa:"
)

// SnapshotStore keeps derived artifacts (theme snapshot, PWA manifest) in
// the shared cache, rebuilt from settings whenever their sources change.
type SnapshotStore struct {
	settingRepo repo.ISettingRepository
	cache       cache.ICache
}

func NewSnapshotStore(settingRepo repo.ISettingRepository, c cache.ICache) *SnapshotStore {
	return &SnapshotStore{settingRepo: settingRepo, cache: c}
}

func (ss *SnapshotStore) value(ctx context.Context, tenant, key, fallback string) string {
	row, err := ss.settingRepo.Get(ctx, tenant, key)
	if err != nil || row == nil || row.Value == "" {
		return fallback
	}
	return row.Value
}

// RefreshTheme recomputes and stores the theme snapshot for a tenant.
func (ss *SnapshotStore) RefreshTheme(ctx context.Context, tenant string) error {
	snapshot := ThemeSnapshot{
		Mode:           ss.value(ctx, tenant, consts.KeyThemeMode, "light"),
		PrimaryColor:   ss.value(ctx, tenant, consts.KeyPrimaryColor, "#1890ff"),
		SecondaryColor: ss.value(ctx, tenant, consts.KeySecondaryColor, "#f5222d"),
		FontFamily:     ss.value(ctx, tenant, consts.KeyFontFamily, "Inter"),
	}

	data, err := sonic.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode theme snapshot: %w", err)
	}
	return ss.cache.Set(ctx, themeSnapshotKeyPrefix+tenant, string(data), 0).Err()
}

// Theme returns the stored snapshot, or nil when none has been built yet.
func (ss *SnapshotStore) Theme(ctx context.Context, tenant string) (*ThemeSnapshot, error) {
	raw, err := ss.cache.Get(ctx, themeSnapshotKeyPrefix+tenant).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var snapshot ThemeSnapshot
	if err := sonic.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, fmt.Errorf("decode theme snapshot: %w", err)
	}
	return &snapshot, nil
}

// RefreshPWAManifest regenerates the manifest from the pwa_* keys.
func (ss *SnapshotStore) RefreshPWAManifest(ctx context.Context, tenant string) error {
	manifest := PWAManifest{
		Name:            ss.value(ctx, tenant, "pwa_name", "Concord"),
		ShortName:       ss.value(ctx, tenant, "pwa_short_name", "Concord"),
		Description:     ss.value(ctx, tenant, "pwa_description", ""),
		ThemeColor:      ss.value(ctx, tenant, "pwa_theme_color", "#1890ff"),
		BackgroundColor: ss.value(ctx, tenant, "pwa_background_color", "#ffffff"),
		Display:         ss.value(ctx, tenant, "pwa_display", "standalone"),
		StartURL:        "/",
	}

	data, err := sonic.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("encode pwa manifest: %w", err)
	}
	return ss.cache.Set(ctx, pwaManifestKeyPrefix+tenant, string(data), 0).Err()
}

// PWAManifest returns the stored manifest, or nil when none has been built.
func (ss *SnapshotStore) PWAManifest(ctx context.Context, tenant string) (*PWAManifest, error) {
	raw, err := ss.cache.Get(ctx, pwaManifestKeyPrefix+tenant).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var manifest PWAManifest
	if err := sonic.Unmarshal([]byte(raw), &manifest); err != nil {
		return nil, fmt.Errorf("decode pwa manifest: %w", err)
	}
	return &manifest, nil
}
