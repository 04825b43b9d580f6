package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-concord/concord/internal/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a per-test in-memory database so the SQL paths of the
// repository run for real instead of through interface fakes.
type testDB struct {
	db *gorm.DB
}

func (t *testDB) Database() *gorm.DB { return t.db }

func newTestRepo(t *testing.T) ISettingRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Setting{}, &model.SettingHistory{}))

	return NewSettingRepo(&testDB{db: db})
}

func TestUpsertTouchesTimestampOnUnchangedValue(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	first, err := r.Upsert(ctx, "t1", SettingEntry{Key: "company_name", Value: "Acme", Category: "general"})
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	second, err := r.Upsert(ctx, "t1", SettingEntry{Key: "company_name", Value: "Acme", Category: "general"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt),
		"repeated write must advance updated_at, got first=%v second=%v", first.UpdatedAt, second.UpdatedAt)

	// the touched timestamp is persisted, not just reported
	var stored model.Setting
	require.NoError(t, r.(*SettingRepo).Database().Where("id = ?", first.ID).First(&stored).Error)
	assert.True(t, stored.UpdatedAt.After(first.UpdatedAt))

	// a write with an unchanged value leaves no audit row
	hist, err := r.History(ctx, "t1", "company_name", 10)
	require.NoError(t, err)
	require.Len(t, hist, 1, "only the insert should be audited")
}

func TestUpsertRecordsChangeHistory(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.Upsert(ctx, "t1", SettingEntry{Key: "primary_color", Value: "#0d6efd", Category: "theme"})
	require.NoError(t, err)
	_, err = r.Upsert(ctx, "t1", SettingEntry{Key: "primary_color", Value: "#6610f2", Category: "theme"})
	require.NoError(t, err)

	hist, err := r.History(ctx, "t1", "primary_color", 10)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	// newest first: the change, then the insert
	assert.Contains(t, string(hist[0].Change), "#6610f2")
	assert.Contains(t, string(hist[1].Change), "#0d6efd")
}

func TestGetPrefersTenantRowOverGlobal(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.Upsert(ctx, "", SettingEntry{Key: "app_name", Value: "Concord", Category: "general"})
	require.NoError(t, err)
	_, err = r.Upsert(ctx, "t7", SettingEntry{Key: "app_name", Value: "Tenant Seven", Category: "general"})
	require.NoError(t, err)

	row, err := r.Get(ctx, "t7", "app_name")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Tenant Seven", row.Value)

	row, err = r.Get(ctx, "t8", "app_name")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Concord", row.Value)
	assert.True(t, row.IsGlobal())
}

func TestDeleteRemovesOnlyTenantRow(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	_, err := r.Upsert(ctx, "", SettingEntry{Key: "app_name", Value: "Concord", Category: "general"})
	require.NoError(t, err)
	_, err = r.Upsert(ctx, "t7", SettingEntry{Key: "app_name", Value: "Tenant Seven", Category: "general"})
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, "t7", "app_name"))

	row, err := r.Get(ctx, "t7", "app_name")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Concord", row.Value)

	hist, err := r.History(ctx, "t7", "app_name", 10)
	require.NoError(t, err)
	require.Len(t, hist, 2, "insert then delete")
}