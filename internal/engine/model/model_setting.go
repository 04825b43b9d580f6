package model

// Setting is one key/value configuration row. A nil TenantId marks a global
// default visible to every tenant that has not overridden the key. At most
// one row exists per (tenant_id, key) and one per (NULL, key).
type Setting struct {
	BaseModel
	SettingId string  `gorm:"column:setting_id;size:64;uniqueIndex" json:"settingId"`
	TenantId  *string `gorm:"column:tenant_id;size:64;index:idx_tenant_key,unique" json:"tenantId"`
	Key       string  `gorm:"column:key;size:191;index:idx_tenant_key,unique" json:"key"`
	Value     string  `gorm:"column:value;type:text" json:"value"`
	Category  string  `gorm:"column:category;size:64;index" json:"category"`
}

func (s *Setting) TableName() string {
	return "setting"
}

// IsGlobal reports whether the row is a global default.
func (s *Setting) IsGlobal() bool {
	return s.TenantId == nil
}
