package mapping

import (
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/SscSPs/checkout_settlement/internal/models"
)

func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		TenantID:      d.TenantID,
		EntryType:     string(d.Type),
		Amount:        d.Amount,
		ReferenceType: string(d.ReferenceType),
		ReferenceID:   d.ReferenceID,
		Status:        string(d.Status),
		ConfirmedAt:   models.ToNullTime(d.ConfirmedAt),
		ReversedAt:    models.ToNullTime(d.ReversedAt),
		AuditFields:   toModelAudit(d.AuditFields),
	}
}

func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		TenantID:      m.TenantID,
		Type:          domain.EntryType(m.EntryType),
		Amount:        m.Amount,
		ReferenceType: domain.ReferenceType(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		Status:        domain.EntryStatus(m.Status),
		ConfirmedAt:   models.NullTimeValue(m.ConfirmedAt),
		ReversedAt:    models.NullTimeValue(m.ReversedAt),
		AuditFields:   toDomainAudit(m.AuditFields),
	}
}
