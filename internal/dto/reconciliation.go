package dto

import (
	"time"

	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListReconciliationsParams defines query parameters for listing reconciliation records.
type ListReconciliationsParams struct {
	Status    *string `form:"status" binding:"omitempty,oneof=pending reconciled resolved"`
	Limit     int     `form:"limit,default=30" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ResolveReconciliationRequest records how an operator explained a discrepancy.
type ResolveReconciliationRequest struct {
	Note string `json:"note" binding:"required,max=1000"`
}

// ReconciliationResponse defines the data returned for a reconciliation record.
type ReconciliationResponse struct {
	RecordID        string          `json:"recordID"`
	Date            string          `json:"date"`
	PlatformBalance decimal.Decimal `json:"platformBalance"`
	GatewayBalance  decimal.Decimal `json:"gatewayBalance"`
	Discrepancy     decimal.Decimal `json:"discrepancy"`
	Status          string          `json:"status"`
	ResolvedBy      *string         `json:"resolvedBy,omitempty"`
	ResolvedAt      *time.Time      `json:"resolvedAt,omitempty"`
	ResolutionNote  *string         `json:"resolutionNote,omitempty"`
}

// ListReconciliationsResponse wraps a page of reconciliation records.
type ListReconciliationsResponse struct {
	Records   []ReconciliationResponse `json:"records"`
	NextToken *string                  `json:"nextToken,omitempty"`
}

// ReconciliationRunSummary reports one pass of the daily job.
type ReconciliationRunSummary struct {
	Processed  int `json:"processed"`
	Reconciled int `json:"reconciled"`
	Flagged    int `json:"flagged"`
	Skipped    int `json:"skipped"`
}

// ToReconciliationResponse converts a domain.ReconciliationRecord.
func ToReconciliationResponse(r *domain.ReconciliationRecord) ReconciliationResponse {
	return ReconciliationResponse{
		RecordID:        r.RecordID,
		Date:            r.Date.Format(time.DateOnly),
		PlatformBalance: r.PlatformBalance,
		GatewayBalance:  r.GatewayBalance,
		Discrepancy:     r.Discrepancy,
		Status:          string(r.Status),
		ResolvedBy:      r.ResolvedBy,
		ResolvedAt:      r.ResolvedAt,
		ResolutionNote:  r.ResolutionNote,
	}
}

// ToListReconciliationsResponse converts a page of records.
func ToListReconciliationsResponse(records []domain.ReconciliationRecord, nextToken *string) ListReconciliationsResponse {
	list := make([]ReconciliationResponse, len(records))
	for i := range records {
		list[i] = ToReconciliationResponse(&records[i])
	}
	return ListReconciliationsResponse{Records: list, NextToken: nextToken}
}
