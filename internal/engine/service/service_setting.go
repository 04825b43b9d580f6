package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-concord/concord/internal/engine/consts"
	"github.com/go-concord/concord/internal/engine/model"
	"github.com/go-concord/concord/internal/engine/repo"
	"github.com/go-concord/concord/internal/engine/validate"
	"github.com/go-concord/concord/pkg/cache"
	"github.com/go-concord/concord/pkg/log"
	"github.com/go-concord/concord/pkg/metrics"
)

// SettingInput is one caller-supplied key/value pair. Value crosses the
// boundary as the tagged union; plain strings stay scalar, anything else is
// stored JSON-encoded.
type SettingInput struct {
	Key      string
	Value    any
	Category string
}

// SettingService resolves effective settings under the tenant-then-global
// fallback rule and owns the write path: validate, sanitize, persist,
// dispatch.
type SettingService struct {
	settingRepo repo.ISettingRepository
	validator   validate.IValidator
	dispatcher  *Dispatcher
	gate        *cache.GateCache
}

func NewSettingService(
	settingRepo repo.ISettingRepository,
	validator validate.IValidator,
	dispatcher *Dispatcher,
	gate *cache.GateCache,
) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		validator:   validator,
		dispatcher:  dispatcher,
		gate:        gate,
	}
}

// Get returns the effective value for (key, tenant), nil when the key is not
// set anywhere. Missing settings are not an error.
func (ss *SettingService) Get(ctx context.Context, key, tenant string) (*string, error) {
	row, err := ss.settingRepo.Get(ctx, tenant, key)
	if err != nil {
		return nil, fmt.Errorf("get setting %q: %w", key, err)
	}
	if row == nil {
		return nil, nil
	}
	v := row.Value
	return &v, nil
}

// GetAll returns the deduped union of tenant and global rows, tenant rows
// taking precedence, ordered by key.
func (ss *SettingService) GetAll(ctx context.Context, tenant string) ([]*model.Setting, error) {
	rows, err := ss.settingRepo.GetAll(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return rows, nil
}

// GetByCategory is GetAll restricted to one category.
func (ss *SettingService) GetByCategory(ctx context.Context, category, tenant string) ([]*model.Setting, error) {
	rows, err := ss.settingRepo.GetByCategory(ctx, tenant, category)
	if err != nil {
		return nil, fmt.Errorf("get settings by category %q: %w", category, err)
	}
	return rows, nil
}

// Set validates, sanitizes and persists one setting, then dispatches side
// effects. Dispatch failures are logged and swallowed: the write is already
// committed and is never rolled back.
func (ss *SettingService) Set(ctx context.Context, key string, value any, tenant string) (string, error) {
	entry, keyErr := ss.prepare(key, value, "")
	if keyErr != nil {
		return "", &ValidationError{Errors: []validate.KeyError{*keyErr}}
	}

	committed, err := ss.settingRepo.Upsert(ctx, tenant, entry)
	if err != nil {
		return "", fmt.Errorf("persist setting %q: %w", key, err)
	}
	metrics.SettingWritesTotal.Inc()

	summary := ss.dispatcher.Dispatch(ctx, ChangeEvent{Key: entry.Key, Value: entry.Value, Tenant: tenant})
	if !summary.Ok() {
		log.Warnw("setting committed with side-effect failures", "key", entry.Key, "tenant", tenant)
	}

	return committed.Value, nil
}

// SetBulk validates every entry before any write; one bad entry rejects the
// whole batch. Valid batches commit in a single transaction, then dispatch
// per key, in input order; one key's dispatch failure does not stop the
// rest. A batch touching module flags ends with a tenant-wide gate cache
// invalidation.
func (ss *SettingService) SetBulk(ctx context.Context, inputs []SettingInput, tenant string) ([]*model.Setting, error) {
	entries := make([]repo.SettingEntry, 0, len(inputs))
	var keyErrors []validate.KeyError

	for _, in := range inputs {
		entry, keyErr := ss.prepare(in.Key, in.Value, in.Category)
		if keyErr != nil {
			keyErrors = append(keyErrors, *keyErr)
			continue
		}
		entries = append(entries, entry)
	}
	if len(keyErrors) > 0 {
		return nil, &ValidationError{Errors: keyErrors}
	}

	committed, err := ss.settingRepo.UpsertBulk(ctx, tenant, entries)
	if err != nil {
		return nil, fmt.Errorf("persist settings batch: %w", err)
	}
	metrics.SettingWritesTotal.Add(float64(len(committed)))

	touchedModules := false
	for _, entry := range entries {
		if strings.HasPrefix(entry.Key, consts.ModuleKeyPrefix) {
			touchedModules = true
		}
		summary := ss.dispatcher.Dispatch(ctx, ChangeEvent{Key: entry.Key, Value: entry.Value, Tenant: tenant})
		if !summary.Ok() {
			log.Warnw("setting committed with side-effect failures", "key", entry.Key, "tenant", tenant)
		}
	}

	if touchedModules {
		ss.gate.InvalidateTenant(tenant)
	}

	return committed, nil
}

// Delete removes exactly the tenant-scoped row; the global default stays.
func (ss *SettingService) Delete(ctx context.Context, key, tenant string) error {
	if err := ss.settingRepo.Delete(ctx, tenant, key); err != nil {
		return fmt.Errorf("delete setting %q: %w", key, err)
	}
	if strings.HasPrefix(key, consts.ModuleKeyPrefix) {
		ss.gate.InvalidateModule(tenant, ModuleFromKey(key))
	}
	return nil
}

// DeleteAllForTenant removes every tenant-scoped row. The explicit operation
// replaces the historical wildcard-key overload; a "%" in a key is always
// literal.
func (ss *SettingService) DeleteAllForTenant(ctx context.Context, tenant string) (int64, error) {
	n, err := ss.settingRepo.DeleteAllForTenant(ctx, tenant)
	if err != nil {
		return 0, fmt.Errorf("delete settings for tenant: %w", err)
	}
	ss.gate.InvalidateTenant(tenant)
	return n, nil
}

// History returns the audit trail for (key, tenant), newest change first.
func (ss *SettingService) History(ctx context.Context, key, tenant string, limit int) ([]*model.SettingHistory, error) {
	rows, err := ss.settingRepo.History(ctx, tenant, key, limit)
	if err != nil {
		return nil, fmt.Errorf("get history for %q: %w", key, err)
	}
	return rows, nil
}

// InitializeDefaults writes the built-in default set for the tenant through
// the bulk path, so validation, transactionality and dispatch all apply.
func (ss *SettingService) InitializeDefaults(ctx context.Context, tenant string) error {
	inputs := make([]SettingInput, 0, len(defaultSettings))
	for _, d := range defaultSettings {
		inputs = append(inputs, SettingInput{Key: d.Key, Value: d.Value, Category: d.Category})
	}
	if _, err := ss.SetBulk(ctx, inputs, tenant); err != nil {
		return fmt.Errorf("initialize defaults: %w", err)
	}
	log.Infow("default settings initialized", "tenant", tenant, "keys", len(inputs))
	return nil
}

// prepare sanitizes and validates one input and encodes its value.
func (ss *SettingService) prepare(key string, value any, category string) (repo.SettingEntry, *validate.KeyError) {
	key = strings.TrimSpace(key)
	if key == "" {
		return repo.SettingEntry{}, &validate.KeyError{Key: key, Errors: []string{"key must not be empty"}}
	}

	encoded, err := model.ValueOf(value).Encode()
	if err != nil {
		return repo.SettingEntry{}, &validate.KeyError{Key: key, Errors: []string{fmt.Sprintf("value is not serializable: %v", err)}}
	}
	encoded = sanitizeValue(encoded)

	if violations := ss.validator.Validate(key, encoded); len(violations) > 0 {
		return repo.SettingEntry{}, &validate.KeyError{Key: key, Errors: violations}
	}

	return repo.SettingEntry{Key: key, Value: encoded, Category: category}, nil
}

// sanitizeValue trims surrounding whitespace and strips control characters.
func sanitizeValue(v string) string {
	v = strings.TrimSpace(v)
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, v)
}
