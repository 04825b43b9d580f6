package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-concord/concord/internal/engine/model"
	"github.com/go-concord/concord/internal/engine/repo"
	"github.com/go-concord/concord/internal/engine/validate"
	"github.com/go-concord/concord/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// fakeSettingRepo is an in-memory stand-in for the gorm-backed repository.
// Rows are keyed by (tenant, key); tenant "" is the global scope.
type fakeSettingRepo struct {
	rows    map[string]map[string]*model.Setting
	history map[string][]*model.SettingHistory
	failAll bool
	upserts int
}

func newFakeSettingRepo() *fakeSettingRepo {
	return &fakeSettingRepo{
		rows:    make(map[string]map[string]*model.Setting),
		history: make(map[string][]*model.SettingHistory),
	}
}

func (f *fakeSettingRepo) recordChange(tenant, key string, oldVal, newVal *string) {
	change, _ := sonic.Marshal(model.ValueChange{Old: oldVal, New: newVal})
	var tid *string
	if tenant != "" {
		t := tenant
		tid = &t
	}
	hk := tenant + "\x00" + key
	f.history[hk] = append(f.history[hk], &model.SettingHistory{TenantId: tid, Key: key, Change: datatypes.JSON(change)})
}

var errStorageDown = errors.New("storage down")

func (f *fakeSettingRepo) put(tenant, key, value, category string) {
	if f.rows[tenant] == nil {
		f.rows[tenant] = make(map[string]*model.Setting)
	}
	var tid *string
	if tenant != "" {
		t := tenant
		tid = &t
	}
	f.rows[tenant][key] = &model.Setting{TenantId: tid, Key: key, Value: value, Category: category}
}

func (f *fakeSettingRepo) Get(ctx context.Context, tenant, key string) (*model.Setting, error) {
	if f.failAll {
		return nil, errStorageDown
	}
	if row, ok := f.rows[tenant][key]; ok {
		return row, nil
	}
	if tenant != "" {
		if row, ok := f.rows[""][key]; ok {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeSettingRepo) GetAll(ctx context.Context, tenant string) ([]*model.Setting, error) {
	if f.failAll {
		return nil, errStorageDown
	}
	seen := make(map[string]bool)
	var out []*model.Setting
	for _, row := range f.rows[tenant] {
		seen[row.Key] = true
		out = append(out, row)
	}
	if tenant != "" {
		for _, row := range f.rows[""] {
			if !seen[row.Key] {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (f *fakeSettingRepo) GetByCategory(ctx context.Context, tenant, category string) ([]*model.Setting, error) {
	all, err := f.GetAll(ctx, tenant)
	if err != nil {
		return nil, err
	}
	var out []*model.Setting
	for _, row := range all {
		if row.Category == category {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeSettingRepo) Upsert(ctx context.Context, tenant string, entry repo.SettingEntry) (*model.Setting, error) {
	if f.failAll {
		return nil, errStorageDown
	}
	f.upserts++
	if prev, ok := f.rows[tenant][entry.Key]; ok {
		if prev.Value != entry.Value {
			old := prev.Value
			f.recordChange(tenant, entry.Key, &old, &entry.Value)
		}
	} else {
		f.recordChange(tenant, entry.Key, nil, &entry.Value)
	}
	f.put(tenant, entry.Key, entry.Value, entry.Category)
	return f.rows[tenant][entry.Key], nil
}

func (f *fakeSettingRepo) UpsertBulk(ctx context.Context, tenant string, entries []repo.SettingEntry) ([]*model.Setting, error) {
	if f.failAll {
		return nil, errStorageDown
	}
	out := make([]*model.Setting, 0, len(entries))
	for _, e := range entries {
		row, err := f.Upsert(ctx, tenant, e)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeSettingRepo) Delete(ctx context.Context, tenant, key string) error {
	if f.failAll {
		return errStorageDown
	}
	if prev, ok := f.rows[tenant][key]; ok {
		old := prev.Value
		f.recordChange(tenant, key, &old, nil)
	}
	delete(f.rows[tenant], key)
	return nil
}

func (f *fakeSettingRepo) DeleteAllForTenant(ctx context.Context, tenant string) (int64, error) {
	if f.failAll {
		return 0, errStorageDown
	}
	n := int64(len(f.rows[tenant]))
	delete(f.rows, tenant)
	return n, nil
}

func (f *fakeSettingRepo) History(ctx context.Context, tenant, key string, limit int) ([]*model.SettingHistory, error) {
	if f.failAll {
		return nil, errStorageDown
	}
	entries := f.history[tenant+"\x00"+key]
	out := make([]*model.SettingHistory, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- { // newest first
		out = append(out, entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

var _ repo.ISettingRepository = (*fakeSettingRepo)(nil)

func newTestSettingService(r repo.ISettingRepository, handlers ...ChangeHandler) (*SettingService, *cache.GateCache) {
	gate := cache.NewGateCache()
	return NewSettingService(r, validate.NewValidator(), NewDispatcher(handlers...), gate), gate
}

func TestSettingService_Get_TenantOverridesGlobal(t *testing.T) {
	fake := newFakeSettingRepo()
	fake.put("", "app_name", "Concord", "general")
	fake.put("7", "app_name", "Tenant Seven", "general")
	svc, _ := newTestSettingService(fake)

	v, err := svc.Get(context.Background(), "app_name", "7")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "Tenant Seven", *v)

	v, err = svc.Get(context.Background(), "app_name", "8")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "Concord", *v, "tenant without an override falls back to the global row")
}

func TestSettingService_Get_UnsetIsNilNotError(t *testing.T) {
	svc, _ := newTestSettingService(newFakeSettingRepo())

	v, err := svc.Get(context.Background(), "no_such_key", "1")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSettingService_Set_PersistsAndDispatches(t *testing.T) {
	fake := newFakeSettingRepo()
	var got []ChangeEvent
	svc, _ := newTestSettingService(fake, ChangeHandler{
		Name:  "recorder",
		Match: func(string) bool { return true },
		Handle: func(_ context.Context, ev ChangeEvent) error {
			got = append(got, ev)
			return nil
		},
	})

	committed, err := svc.Set(context.Background(), "app_name", "Acme", "3")
	require.NoError(t, err)
	assert.Equal(t, "Acme", committed)

	require.Len(t, got, 1)
	assert.Equal(t, ChangeEvent{Key: "app_name", Value: "Acme", Tenant: "3"}, got[0])

	row, _ := fake.Get(context.Background(), "3", "app_name")
	require.NotNil(t, row)
	assert.Equal(t, "Acme", row.Value)
}

func TestSettingService_Set_DispatchFailureDoesNotRollBack(t *testing.T) {
	fake := newFakeSettingRepo()
	svc, _ := newTestSettingService(fake, ChangeHandler{
		Name:   "boom",
		Match:  func(string) bool { return true },
		Handle: func(context.Context, ChangeEvent) error { return errors.New("side effect failed") },
	})

	committed, err := svc.Set(context.Background(), "app_name", "Acme", "3")
	require.NoError(t, err, "write already committed, dispatch failures are swallowed")
	assert.Equal(t, "Acme", committed)

	row, _ := fake.Get(context.Background(), "3", "app_name")
	require.NotNil(t, row)
}

func TestSettingService_Set_ValidationRejectsBeforePersist(t *testing.T) {
	fake := newFakeSettingRepo()
	svc, _ := newTestSettingService(fake)

	_, err := svc.Set(context.Background(), "theme_mode", "neon", "1")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "theme_mode", verr.Errors[0].Key)
	assert.Zero(t, fake.upserts, "invalid values must never reach storage")
}

func TestSettingService_Set_EncodesStructuredValue(t *testing.T) {
	fake := newFakeSettingRepo()
	svc, _ := newTestSettingService(fake)

	committed, err := svc.Set(context.Background(), "invoice_template", map[string]any{"layout": "compact"}, "1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"layout":"compact"}`, committed)
}

func TestSettingService_Set_SanitizesControlCharacters(t *testing.T) {
	fake := newFakeSettingRepo()
	svc, _ := newTestSettingService(fake)

	committed, err := svc.Set(context.Background(), "app_name", "Ac\x00me\x07 ", "1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", committed)
}

func TestSettingService_SetBulk_AllOrNothing(t *testing.T) {
	fake := newFakeSettingRepo()
	svc, _ := newTestSettingService(fake)

	inputs := []SettingInput{
		{Key: "app_name", Value: "Acme", Category: "general"},
		{Key: "theme_mode", Value: "dark", Category: "theme"},
		{Key: "primary_color", Value: "#336699", Category: "theme"},
		{Key: "rows_per_page", Value: "25", Category: "general"},
		{Key: "module_crm", Value: "1", Category: "modules"},
		{Key: "smtp_port", Value: "0", Category: "mail"}, // out of range
	}

	_, err := svc.SetBulk(context.Background(), inputs, "1")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "smtp_port", verr.Errors[0].Key)
	assert.Zero(t, fake.upserts, "one bad entry rejects the whole batch")
}

func TestSettingService_SetBulk_ReportsEveryBadKey(t *testing.T) {
	svc, _ := newTestSettingService(newFakeSettingRepo())

	_, err := svc.SetBulk(context.Background(), []SettingInput{
		{Key: "theme_mode", Value: "neon"},
		{Key: "module_crm", Value: "maybe"},
		{Key: "app_name", Value: "fine"},
	}, "1")

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	keys := make([]string, 0, len(verr.Errors))
	for _, ke := range verr.Errors {
		keys = append(keys, ke.Key)
	}
	assert.ElementsMatch(t, []string{"theme_mode", "module_crm"}, keys)
}

func TestSettingService_SetBulk_ModuleFlagsInvalidateTenantGate(t *testing.T) {
	fake := newFakeSettingRepo()
	svc, gate := newTestSettingService(fake)

	gate.Set("1", "crm", false)
	gate.Set("1", "leads", true)
	gate.Set("2", "crm", true)

	_, err := svc.SetBulk(context.Background(), []SettingInput{
		{Key: "app_name", Value: "Acme"},
		{Key: "module_crm", Value: "1"},
	}, "1")
	require.NoError(t, err)

	_, ok := gate.Get("1", "crm")
	assert.False(t, ok)
	_, ok = gate.Get("1", "leads")
	assert.False(t, ok, "a batch touching any module flag drops the whole tenant")
	_, ok = gate.Get("2", "crm")
	assert.True(t, ok, "other tenants keep their entries")
}

func TestSettingService_SetBulk_NoModuleFlagsKeepsGate(t *testing.T) {
	svc, gate := newTestSettingService(newFakeSettingRepo())
	gate.Set("1", "crm", true)

	_, err := svc.SetBulk(context.Background(), []SettingInput{
		{Key: "app_name", Value: "Acme"},
	}, "1")
	require.NoError(t, err)

	_, ok := gate.Get("1", "crm")
	assert.True(t, ok)
}

func TestSettingService_Delete_ModuleKeyInvalidatesGate(t *testing.T) {
	fake := newFakeSettingRepo()
	fake.put("1", "module_crm", "1", "modules")
	svc, gate := newTestSettingService(fake)
	gate.Set("1", "crm", true)

	require.NoError(t, svc.Delete(context.Background(), "module_crm", "1"))

	_, ok := gate.Get("1", "crm")
	assert.False(t, ok)
	row, _ := fake.Get(context.Background(), "1", "module_crm")
	assert.Nil(t, row)
}

func TestSettingService_Delete_KeepsGlobalRow(t *testing.T) {
	fake := newFakeSettingRepo()
	fake.put("", "app_name", "Concord", "general")
	fake.put("1", "app_name", "Acme", "general")
	svc, _ := newTestSettingService(fake)

	require.NoError(t, svc.Delete(context.Background(), "app_name", "1"))

	v, err := svc.Get(context.Background(), "app_name", "1")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "Concord", *v, "deleting the override re-exposes the global default")
}

func TestSettingService_DeleteAllForTenant(t *testing.T) {
	fake := newFakeSettingRepo()
	fake.put("", "app_name", "Concord", "general")
	for i := 0; i < 5; i++ {
		fake.put("1", fmt.Sprintf("key_%d", i), "v", "general")
	}
	svc, gate := newTestSettingService(fake)
	gate.Set("1", "crm", true)

	n, err := svc.DeleteAllForTenant(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	_, ok := gate.Get("1", "crm")
	assert.False(t, ok)

	v, err := svc.Get(context.Background(), "app_name", "1")
	require.NoError(t, err)
	require.NotNil(t, v, "global rows survive a tenant reset")
}

func TestSettingService_InitializeDefaults(t *testing.T) {
	fake := newFakeSettingRepo()
	svc, _ := newTestSettingService(fake)

	require.NoError(t, svc.InitializeDefaults(context.Background(), "1"))

	rows, err := svc.GetAll(context.Background(), "1")
	require.NoError(t, err)
	assert.Len(t, rows, len(defaultSettings))

	v, err := svc.Get(context.Background(), "module_crm", "1")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "1", *v)
}

func TestSettingService_InitializeDefaults_AllPassValidation(t *testing.T) {
	v := validate.NewValidator()
	for _, d := range defaultSettings {
		assert.Emptyf(t, v.Validate(d.Key, d.Value), "default for %s must satisfy its own rule", d.Key)
	}
}

func TestSettingService_GetByCategory(t *testing.T) {
	fake := newFakeSettingRepo()
	fake.put("", "theme_mode", "light", "theme")
	fake.put("", "app_name", "Concord", "general")
	fake.put("1", "theme_mode", "dark", "theme")
	svc, _ := newTestSettingService(fake)

	rows, err := svc.GetByCategory(context.Background(), "theme", "1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "dark", rows[0].Value)
}

func TestSettingService_HistoryTracksChanges(t *testing.T) {
	fake := newFakeSettingRepo()
	svc, _ := newTestSettingService(fake)
	ctx := context.Background()

	_, err := svc.Set(ctx, "app_name", "First", "1")
	require.NoError(t, err)
	_, err = svc.Set(ctx, "app_name", "Second", "1")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "app_name", "1"))

	rows, err := svc.History(ctx, "app_name", "1", 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	var change model.ValueChange
	require.NoError(t, sonic.Unmarshal(rows[0].Change, &change))
	assert.Equal(t, "Second", *change.Old)
	assert.Nil(t, change.New, "newest entry is the delete")

	require.NoError(t, sonic.Unmarshal(rows[2].Change, &change))
	assert.Nil(t, change.Old, "oldest entry is the insert")
	assert.Equal(t, "First", *change.New)
}

func TestSettingService_StorageErrorPropagates(t *testing.T) {
	fake := newFakeSettingRepo()
	fake.failAll = true
	svc, _ := newTestSettingService(fake)

	_, err := svc.Get(context.Background(), "app_name", "1")
	assert.ErrorIs(t, err, errStorageDown)

	_, err = svc.Set(context.Background(), "app_name", "Acme", "1")
	assert.ErrorIs(t, err, errStorageDown)
}
