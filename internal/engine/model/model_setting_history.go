package model

import (
	"gorm.io/datatypes"
)

// SettingHistory is the append-only audit trail of setting writes. One row
// per effective change; a write that leaves the value untouched records
// nothing.
type SettingHistory struct {
	BaseModel
	TenantId *string        `gorm:"column:tenant_id;size:64;index:idx_hist_tenant_key" json:"tenantId"`
	Key      string         `gorm:"column:key;size:191;index:idx_hist_tenant_key" json:"key"`
	Change   datatypes.JSON `gorm:"column:change" json:"change"`
}

func (h *SettingHistory) TableName() string {
	return "setting_history"
}

// ValueChange is the payload stored in SettingHistory.Change. A nil Old
// marks an insert, a nil New a delete.
type ValueChange struct {
	Old *string `json:"old"`
	New *string `json:"new"`
}
