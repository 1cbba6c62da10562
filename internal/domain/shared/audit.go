package shared

import (
	"time"
)

// AuditInfo contains the audit columns carried by every table.
// Actor ids reference the users table; nil means the row was written by the system.
type AuditInfo struct {
	CreatedAt time.Time
	CreatedBy *int64
	UpdatedAt time.Time
	UpdatedBy *int64
}

// NewAuditInfo creates a new AuditInfo with creation data.
func NewAuditInfo(createdBy *int64) AuditInfo {
	now := time.Now()
	return AuditInfo{
		CreatedAt: now,
		CreatedBy: createdBy,
		UpdatedAt: now,
		UpdatedBy: createdBy,
	}
}

// Update marks the entity as updated.
func (a *AuditInfo) Update(updatedBy *int64) {
	a.UpdatedAt = time.Now()
	a.UpdatedBy = updatedBy
}

// Actor returns a pointer suitable for the created_by/updated_by columns.
func Actor(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
