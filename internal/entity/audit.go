package entity

import "time"

// DeletionFlag is the value stored in del_at. It is informational only:
// repositories delete rows physically and never consult it.
type DeletionFlag string

const (
	FlagActive  DeletionFlag = "N"
	FlagDeleted DeletionFlag = "Y"
)

// Audit holds the registering/updating actor and timestamp pairs. Callers fill
// these in; nothing is stamped automatically.
type Audit struct {
	RegisteredBy string       `json:"reg_ps_id"`
	RegisteredAt time.Time    `json:"reg_dtm"`
	UpdatedBy    *string      `json:"upd_ps_id"`
	UpdatedAt    *time.Time   `json:"upd_dtm"`
	DeleteFlag   DeletionFlag `json:"del_at"`
}

type auditTrail struct {
	audit Audit
}

func newAuditTrail(a Audit) auditTrail {
	a.UpdatedBy = cloneString(a.UpdatedBy)
	a.UpdatedAt = cloneTime(a.UpdatedAt)
	return auditTrail{audit: a}
}

func (t auditTrail) RegisteredBy() string     { return t.audit.RegisteredBy }
func (t auditTrail) RegisteredAt() time.Time  { return t.audit.RegisteredAt }
func (t auditTrail) UpdatedBy() *string       { return cloneString(t.audit.UpdatedBy) }
func (t auditTrail) UpdatedAt() *time.Time    { return cloneTime(t.audit.UpdatedAt) }
func (t auditTrail) DeleteFlag() DeletionFlag { return t.audit.DeleteFlag }

// IsDeleted reports whether the record is logically deleted.
func (t auditTrail) IsDeleted() bool { return t.audit.DeleteFlag == FlagDeleted }

// Audit returns a copy of the audit fields.
func (t auditTrail) Audit() Audit {
	return newAuditTrail(t.audit).audit
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
