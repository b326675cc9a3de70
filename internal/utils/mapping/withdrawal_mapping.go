package mapping

import (
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/SscSPs/checkout_settlement/internal/models"
)

func ToModelWithdrawal(d domain.Withdrawal) models.Withdrawal {
	return models.Withdrawal{
		WithdrawalID:  d.WithdrawalID,
		TenantID:      d.TenantID,
		BankAccountID: d.BankAccountID,
		Amount:        d.Amount,
		Status:        string(d.Status),
		LedgerEntryID: d.LedgerEntryID,
		FailureReason: models.ToNullString(d.FailureReason),
		CompletedAt:   models.ToNullTime(d.CompletedAt),
		AuditFields:   toModelAudit(d.AuditFields),
	}
}

func ToDomainWithdrawal(m models.Withdrawal) domain.Withdrawal {
	return domain.Withdrawal{
		WithdrawalID:  m.WithdrawalID,
		TenantID:      m.TenantID,
		BankAccountID: m.BankAccountID,
		Amount:        m.Amount,
		Status:        domain.WithdrawalStatus(m.Status),
		LedgerEntryID: m.LedgerEntryID,
		FailureReason: models.NullStringValue(m.FailureReason),
		CompletedAt:   models.NullTimeValue(m.CompletedAt),
		AuditFields:   toDomainAudit(m.AuditFields),
	}
}
