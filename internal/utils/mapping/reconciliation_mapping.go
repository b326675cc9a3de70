package mapping

import (
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/SscSPs/checkout_settlement/internal/models"
)

func ToModelReconciliationRecord(d domain.ReconciliationRecord) models.ReconciliationRecord {
	return models.ReconciliationRecord{
		RecordID:        d.RecordID,
		TenantID:        d.TenantID,
		RecordDate:      d.Date,
		PlatformBalance: d.PlatformBalance,
		GatewayBalance:  d.GatewayBalance,
		Discrepancy:     d.Discrepancy,
		Status:          string(d.Status),
		ResolvedBy:      models.ToNullString(d.ResolvedBy),
		ResolvedAt:      models.ToNullTime(d.ResolvedAt),
		ResolutionNote:  models.ToNullString(d.ResolutionNote),
		AuditFields:     toModelAudit(d.AuditFields),
	}
}

func ToDomainReconciliationRecord(m models.ReconciliationRecord) domain.ReconciliationRecord {
	return domain.ReconciliationRecord{
		RecordID:        m.RecordID,
		TenantID:        m.TenantID,
		Date:            domain.TruncateToDay(m.RecordDate),
		PlatformBalance: m.PlatformBalance,
		GatewayBalance:  m.GatewayBalance,
		Discrepancy:     m.Discrepancy,
		Status:          domain.ReconciliationStatus(m.Status),
		ResolvedBy:      models.NullStringValue(m.ResolvedBy),
		ResolvedAt:      models.NullTimeValue(m.ResolvedAt),
		ResolutionNote:  models.NullStringValue(m.ResolutionNote),
		AuditFields:     toDomainAudit(m.AuditFields),
	}
}
