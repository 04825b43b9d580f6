package repo

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-concord/concord/internal/engine/model"
	"github.com/go-concord/concord/pkg/database"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingEntry is one (key, value, category) triple for bulk writes.
type SettingEntry struct {
	Key      string
	Value    string
	Category string
}

type ISettingRepository interface {
	// Get resolves the effective row for (tenant, key): the tenant row when
	// present, else the global row, else nil with no error.
	Get(ctx context.Context, tenant, key string) (*model.Setting, error)
	// GetAll returns the union of tenant and global rows ordered by key,
	// one row per key, tenant rows taking precedence.
	GetAll(ctx context.Context, tenant string) ([]*model.Setting, error)
	// GetByCategory is GetAll restricted to one category.
	GetByCategory(ctx context.Context, tenant, category string) ([]*model.Setting, error)
	// Upsert inserts or updates the row for (tenant, key).
	Upsert(ctx context.Context, tenant string, entry SettingEntry) (*model.Setting, error)
	// UpsertBulk applies all entries inside one transaction.
	UpsertBulk(ctx context.Context, tenant string, entries []SettingEntry) ([]*model.Setting, error)
	// Delete removes exactly the tenant-scoped row; the global row is never
	// touched. Missing rows are not an error.
	Delete(ctx context.Context, tenant, key string) error
	// DeleteAllForTenant removes every tenant-scoped row and reports how
	// many were removed.
	DeleteAllForTenant(ctx context.Context, tenant string) (int64, error)
	// History returns the audit trail for (tenant, key), newest first.
	History(ctx context.Context, tenant, key string, limit int) ([]*model.SettingHistory, error)
}

type SettingRepo struct {
	database.IDatabase
}

func NewSettingRepo(db database.IDatabase) ISettingRepository {
	return &SettingRepo{IDatabase: db}
}

// tenantScope matches rows owned by tenant; an empty tenant addresses the
// global scope (tenant_id IS NULL).
func tenantScope(db *gorm.DB, tenant string) *gorm.DB {
	if tenant == "" {
		return db.Where("tenant_id IS NULL")
	}
	return db.Where("tenant_id = ?", tenant)
}

func (sr *SettingRepo) Get(ctx context.Context, tenant, key string) (*model.Setting, error) {
	var setting model.Setting
	err := sr.Database().WithContext(ctx).
		Where("`key` = ?", key).
		Where("tenant_id = ? OR tenant_id IS NULL", tenant).
		Order("tenant_id IS NULL"). // tenant row sorts before the global fallback
		First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &setting, nil
}

func (sr *SettingRepo) GetAll(ctx context.Context, tenant string) ([]*model.Setting, error) {
	var rows []*model.Setting
	err := sr.Database().WithContext(ctx).
		Where("tenant_id = ? OR tenant_id IS NULL", tenant).
		Order("`key` ASC, tenant_id IS NULL ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return dedupeByKey(rows), nil
}

func (sr *SettingRepo) GetByCategory(ctx context.Context, tenant, category string) ([]*model.Setting, error) {
	var rows []*model.Setting
	err := sr.Database().WithContext(ctx).
		Where("tenant_id = ? OR tenant_id IS NULL", tenant).
		Where("category = ?", category).
		Order("`key` ASC, tenant_id IS NULL ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return dedupeByKey(rows), nil
}

func (sr *SettingRepo) Upsert(ctx context.Context, tenant string, entry SettingEntry) (*model.Setting, error) {
	var result *model.Setting
	err := sr.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = upsertTx(tx, tenant, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (sr *SettingRepo) UpsertBulk(ctx context.Context, tenant string, entries []SettingEntry) ([]*model.Setting, error) {
	results := make([]*model.Setting, 0, len(entries))
	err := sr.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			setting, err := upsertTx(tx, tenant, entry)
			if err != nil {
				return err // rolls the whole batch back
			}
			results = append(results, setting)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// upsertTx updates the (tenant, key) row in place or inserts it. A plain
// ON CONFLICT clause cannot address the NULL-tenant scope, hence the
// explicit read-then-write inside the caller's transaction. Effective
// changes leave an audit row; a write with an unchanged value does not,
// though its row timestamp still advances.
func upsertTx(tx *gorm.DB, tenant string, entry SettingEntry) (*model.Setting, error) {
	probe := tenantScope(tx, tenant).Where("`key` = ?", entry.Key)
	if tx.Dialector.Name() == "mysql" {
		// MySQL unique indexes treat NULLs as distinct, so the index alone
		// cannot stop two concurrent first writes of a global key from both
		// inserting. FOR UPDATE takes a gap lock on the probe and serializes
		// them. SQLite has no FOR UPDATE syntax.
		probe = probe.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var existing model.Setting
	err := probe.First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		setting := &model.Setting{
			SettingId: uuid.NewString(),
			Key:       entry.Key,
			Value:     entry.Value,
			Category:  entry.Category,
		}
		if tenant != "" {
			t := tenant
			setting.TenantId = &t
		}
		if err := tx.Create(setting).Error; err != nil {
			return nil, err
		}
		if err := appendHistory(tx, tenant, entry.Key, nil, &entry.Value); err != nil {
			return nil, err
		}
		return setting, nil
	case err != nil:
		return nil, err
	}

	if existing.Value == entry.Value && (entry.Category == "" || existing.Category == entry.Category) {
		// every write touches the row timestamp, even when nothing else moved
		now := time.Now()
		if err := tx.Model(&model.Setting{}).Where("id = ?", existing.ID).
			UpdateColumn("updated_at", now).Error; err != nil {
			return nil, err
		}
		existing.UpdatedAt = now
		return &existing, nil
	}

	updates := map[string]any{
		"value": entry.Value,
	}
	if entry.Category != "" {
		updates["category"] = entry.Category
	}
	if err := tx.Model(&model.Setting{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	if existing.Value != entry.Value {
		old := existing.Value
		if err := appendHistory(tx, tenant, entry.Key, &old, &entry.Value); err != nil {
			return nil, err
		}
	}

	existing.Value = entry.Value
	if entry.Category != "" {
		existing.Category = entry.Category
	}
	return &existing, nil
}

// appendHistory writes one audit row inside the caller's transaction.
func appendHistory(tx *gorm.DB, tenant, key string, oldVal, newVal *string) error {
	change, err := sonic.Marshal(model.ValueChange{Old: oldVal, New: newVal})
	if err != nil {
		return err
	}
	hist := &model.SettingHistory{
		Key:    key,
		Change: datatypes.JSON(change),
	}
	if tenant != "" {
		t := tenant
		hist.TenantId = &t
	}
	return tx.Create(hist).Error
}

func (sr *SettingRepo) Delete(ctx context.Context, tenant, key string) error {
	return sr.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Setting
		err := tenantScope(tx, tenant).Where("`key` = ?", key).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		old := existing.Value
		return appendHistory(tx, tenant, key, &old, nil)
	})
}

// DeleteAllForTenant wipes the tenant scope in one statement. Per-row audit
// entries are skipped; resets are logged by the caller instead.
func (sr *SettingRepo) DeleteAllForTenant(ctx context.Context, tenant string) (int64, error) {
	res := tenantScope(sr.Database().WithContext(ctx), tenant).
		Delete(&model.Setting{})
	return res.RowsAffected, res.Error
}

func (sr *SettingRepo) History(ctx context.Context, tenant, key string, limit int) ([]*model.SettingHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []*model.SettingHistory
	err := tenantScope(sr.Database().WithContext(ctx).Model(&model.SettingHistory{}), tenant).
		Where("`key` = ?", key).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// dedupeByKey keeps one row per key from a list sorted tenant-first within
// each key.
func dedupeByKey(rows []*model.Setting) []*model.Setting {
	out := make([]*model.Setting, 0, len(rows))
	var lastKey string
	for i, row := range rows {
		if i > 0 && row.Key == lastKey {
			continue
		}
		out = append(out, row)
		lastKey = row.Key
	}
	return out
}
