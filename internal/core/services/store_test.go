package services_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/checkout_settlement/internal/apperrors"
	"github.com/SscSPs/checkout_settlement/internal/core/domain"
	portsrepo "github.com/SscSPs/checkout_settlement/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the Postgres repositories. It keeps the same
// compare-and-set contracts and rolls back every change made inside a failed WithinTx.
type memStore struct {
	txMu sync.Mutex // serializes transactions
	mu   sync.Mutex // guards the maps

	tenants      map[string]domain.Tenant
	products     map[string]domain.Product // tenant|product
	orders       map[string]domain.Order
	counters     map[string]int64
	entries      map[string]domain.LedgerEntry
	gatewayLogs  map[string]domain.GatewayTransactionLog
	records      map[string]domain.ReconciliationRecord
	bankAccounts map[string]domain.BankAccount
	withdrawals  map[string]domain.Withdrawal

	// failOn makes the named operation fail once with the given error.
	failOn map[string]error
}

type txKey struct{}

func newMemStore() *memStore {
	return &memStore{
		tenants:      map[string]domain.Tenant{},
		products:     map[string]domain.Product{},
		orders:       map[string]domain.Order{},
		counters:     map[string]int64{},
		entries:      map[string]domain.LedgerEntry{},
		gatewayLogs:  map[string]domain.GatewayTransactionLog{},
		records:      map[string]domain.ReconciliationRecord{},
		bankAccounts: map[string]domain.BankAccount{},
		withdrawals:  map[string]domain.Withdrawal{},
		failOn:       map[string]error{},
	}
}

func (s *memStore) provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:          s,
		TenantRepo:         s,
		ProductRepo:        s,
		OrderRepo:          s,
		LedgerRepo:         s,
		GatewayLogRepo:     s,
		ReconciliationRepo: s,
		BankAccountRepo:    s,
		WithdrawalRepo:     s,
	}
}

type snapshot struct {
	products     map[string]domain.Product
	orders       map[string]domain.Order
	counters     map[string]int64
	entries      map[string]domain.LedgerEntry
	gatewayLogs  map[string]domain.GatewayTransactionLog
	records      map[string]domain.ReconciliationRecord
	bankAccounts map[string]domain.BankAccount
	withdrawals  map[string]domain.Withdrawal
}

func clone[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snap := snapshot{
		products:     clone(s.products),
		orders:       clone(s.orders),
		counters:     clone(s.counters),
		entries:      clone(s.entries),
		gatewayLogs:  clone(s.gatewayLogs),
		records:      clone(s.records),
		bankAccounts: clone(s.bankAccounts),
		withdrawals:  clone(s.withdrawals),
	}
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.products, s.orders, s.counters = snap.products, snap.orders, snap.counters
		s.entries, s.gatewayLogs, s.records = snap.entries, snap.gatewayLogs, snap.records
		s.bankAccounts, s.withdrawals = snap.bankAccounts, snap.withdrawals
		s.mu.Unlock()
		return err
	}
	return nil
}

// fail must be called with s.mu held.
func (s *memStore) fail(op string) error {
	if err, ok := s.failOn[op]; ok {
		delete(s.failOn, op)
		return err
	}
	return nil
}

func (s *memStore) failNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[op] = err
}

// --- seeding and inspection ---

func (s *memStore) addTenant(t domain.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[t.TenantID] = t
}

func (s *memStore) addProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.TenantID+"|"+p.ProductID] = p
}

func (s *memStore) stock(tenantID, productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[tenantID+"|"+productID].Stock
}

func (s *memStore) order(orderID string) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[orderID]
}

func (s *memStore) putOrder(o domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.OrderID] = o
}

func (s *memStore) entryFor(tenantID, referenceID string) (domain.LedgerEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.TenantID == tenantID && e.ReferenceID == referenceID {
			return e, true
		}
	}
	return domain.LedgerEntry{}, false
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) entryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *memStore) gatewayLog(correlationID string) (domain.GatewayTransactionLog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.gatewayLogs[correlationID]
	return l, ok
}

// --- tenants ---

func (s *memStore) FindTenantByID(_ context.Context, tenantID string) (*domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[tenantID]
	if !ok {
		return nil, fmt.Errorf("tenant %s: %w", tenantID, apperrors.ErrNotFound)
	}
	return &t, nil
}

func (s *memStore) ListActiveTenants(context.Context) ([]domain.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("ListActiveTenants"); err != nil {
		return nil, err
	}
	var out []domain.Tenant
	for _, t := range s.tenants {
		if t.IsActive {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TenantID < out[j].TenantID })
	return out, nil
}

// --- products ---

func (s *memStore) FindProductsByIDs(_ context.Context, tenantID string, productIDs []string) (map[string]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]domain.Product{}
	for _, id := range productIDs {
		if p, ok := s.products[tenantID+"|"+id]; ok && p.IsActive {
			out[id] = p
		}
	}
	return out, nil
}

func (s *memStore) DecrementStock(_ context.Context, tenantID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tenantID + "|" + productID
	p, ok := s.products[key]
	if !ok || p.Stock < quantity {
		return apperrors.ErrInsufficientStock
	}
	p.Stock -= quantity
	s.products[key] = p
	return nil
}

func (s *memStore) IncrementStock(_ context.Context, tenantID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := tenantID + "|" + productID
	p, ok := s.products[key]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Stock += quantity
	s.products[key] = p
	return nil
}

// --- orders ---

func (s *memStore) NextOrderNumber(_ context.Context, tenantID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[tenantID]++
	return s.counters[tenantID], nil
}

func (s *memStore) CreateOrder(_ context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("CreateOrder"); err != nil {
		return err
	}
	if _, ok := s.orders[order.OrderID]; ok {
		return apperrors.ErrDuplicate
	}
	s.orders[order.OrderID] = order
	return nil
}

func (s *memStore) FindOrderByID(_ context.Context, tenantID, orderID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.TenantID != tenantID {
		return nil, apperrors.ErrOrderNotFound
	}
	return &o, nil
}

func (s *memStore) FindOrderByGatewayTransactionID(_ context.Context, gatewayTransactionID string) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.GatewayTransactionID != nil && *o.GatewayTransactionID == gatewayTransactionID {
			return &o, nil
		}
	}
	return nil, apperrors.ErrOrderNotFound
}

func (s *memStore) ListOrders(_ context.Context, tenantID string, limit int, _ *string) ([]domain.Order, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.TenantID == tenantID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNumber > out[j].OrderNumber })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil, nil
}

func (s *memStore) FindExpiredPendingOrders(_ context.Context, now, unpaidBefore time.Time, limit int) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Order
	for _, o := range s.orders {
		if o.Status != domain.OrderPending {
			continue
		}
		expired := o.PaymentExpiresAt != nil && o.PaymentExpiresAt.Before(now)
		neverCharged := o.GatewayTransactionID == nil && o.CreatedAt.Before(unpaidBefore)
		if expired || neverCharged {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) AttachPayment(_ context.Context, tenantID, orderID, gatewayTransactionID string, expiresAt time.Time, updatedBy string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.TenantID != tenantID || o.GatewayTransactionID != nil || o.Status != domain.OrderPending {
		return apperrors.ErrAlreadyProcessed
	}
	o.GatewayTransactionID = &gatewayTransactionID
	o.PaymentExpiresAt = &expiresAt
	o.LastUpdatedAt, o.LastUpdatedBy = now, updatedBy
	s.orders[orderID] = o
	return nil
}

func (s *memStore) UpdateOrderState(_ context.Context, tenantID, orderID string, expected, next domain.OrderState, cancelReason *string, updatedBy string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("UpdateOrderState"); err != nil {
		return err
	}
	o, ok := s.orders[orderID]
	if !ok || o.TenantID != tenantID || o.State() != expected {
		return apperrors.ErrAlreadyFinalized
	}
	o.Status, o.PaymentStatus = next.Status, next.PaymentStatus
	if cancelReason != nil {
		o.CancelReason = cancelReason
	}
	switch next.Status {
	case domain.OrderConfirmed:
		o.ConfirmedAt = &now
	case domain.OrderCancelled:
		o.CancelledAt = &now
	}
	o.LastUpdatedAt, o.LastUpdatedBy = now, updatedBy
	s.orders[orderID] = o
	return nil
}

func (s *memStore) MarkStockReleased(_ context.Context, tenantID, orderID string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.TenantID != tenantID || o.StockReleasedAt != nil {
		return false, nil
	}
	o.StockReleasedAt = &now
	s.orders[orderID] = o
	return true, nil
}

// --- ledger ---

func (s *memStore) InsertEntry(_ context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail("InsertEntry"); err != nil {
		return nil, false, err
	}
	for _, e := range s.entries {
		if e.TenantID == entry.TenantID && e.ReferenceID == entry.ReferenceID {
			return &e, false, nil
		}
	}
	s.entries[entry.EntryID] = entry
	return &entry, true, nil
}

func (s *memStore) UpdateEntryStatus(_ context.Context, tenantID, entryID string, from, to domain.EntryStatus, updatedBy string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryID]
	if !ok || e.TenantID != tenantID || e.Status != from {
		return apperrors.ErrAlreadyFinalized
	}
	e.Status = to
	if to == domain.EntryConfirmed {
		e.ConfirmedAt = &at
	} else {
		e.ReversedAt = &at
	}
	e.LastUpdatedAt, e.LastUpdatedBy = at, updatedBy
	s.entries[entryID] = e
	return nil
}

func (s *memStore) FindEntryByID(_ context.Context, tenantID, entryID string) (*domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[entryID]
	if !ok || e.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (s *memStore) FindEntryByReference(_ context.Context, tenantID, referenceID string) (*domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.TenantID == tenantID && e.ReferenceID == referenceID {
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *memStore) ListEntries(_ context.Context, tenantID string, limit int, _ *string) ([]domain.LedgerEntry, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.LedgerEntry
	for _, e := range s.entries {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil, nil
}

func (s *memStore) SumConfirmed(_ context.Context, tenantID string, asOf time.Time) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance := decimal.Zero
	for _, e := range s.entries {
		if e.TenantID != tenantID || e.Status != domain.EntryConfirmed || e.ConfirmedAt == nil || e.ConfirmedAt.After(asOf) {
			continue
		}
		if e.Type == domain.Debit {
			balance = balance.Sub(e.Amount)
		} else {
			balance = balance.Add(e.Amount)
		}
	}
	return balance, nil
}

func (s *memStore) SumPendingDebits(_ context.Context, tenantID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := decimal.Zero
	for _, e := range s.entries {
		if e.TenantID == tenantID && e.Type == domain.Debit && e.Status == domain.EntryPending {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

// --- gateway logs ---

func (s *memStore) UpsertGatewayLog(_ context.Context, log domain.GatewayTransactionLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.gatewayLogs[log.CorrelationID]; ok {
		log.CreatedAt = existing.CreatedAt
		if log.GatewayTransactionID == nil {
			log.GatewayTransactionID = existing.GatewayTransactionID
		}
		if len(log.RawRequest) == 0 {
			log.RawRequest = existing.RawRequest
		}
		if len(log.RawResponse) == 0 {
			log.RawResponse = existing.RawResponse
		}
		if len(log.LastWebhook) == 0 {
			log.LastWebhook = existing.LastWebhook
		}
	}
	s.gatewayLogs[log.CorrelationID] = log
	return nil
}

func (s *memStore) FindGatewayLog(_ context.Context, correlationID string) (*domain.GatewayTransactionLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.gatewayLogs[correlationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &l, nil
}

// --- reconciliation ---

func (s *memStore) SaveRecord(_ context.Context, record domain.ReconciliationRecord) (*domain.ReconciliationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.records {
		if r.TenantID != record.TenantID || !r.Date.Equal(record.Date) {
			continue
		}
		if r.Status == domain.ReconciliationResolved {
			return &r, apperrors.ErrAlreadyFinalized
		}
		r.PlatformBalance, r.GatewayBalance = record.PlatformBalance, record.GatewayBalance
		r.Discrepancy, r.Status = record.Discrepancy, record.Status
		r.LastUpdatedAt, r.LastUpdatedBy = record.LastUpdatedAt, record.LastUpdatedBy
		s.records[id] = r
		return &r, nil
	}
	s.records[record.RecordID] = record
	return &record, nil
}

func (s *memStore) FindRecordByID(_ context.Context, tenantID, recordID string) (*domain.ReconciliationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[recordID]
	if !ok || r.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &r, nil
}

func (s *memStore) ListRecords(_ context.Context, tenantID string, status *domain.ReconciliationStatus, limit int, _ *string) ([]domain.ReconciliationRecord, *string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.ReconciliationRecord
	for _, r := range s.records {
		if r.TenantID == tenantID && (status == nil || r.Status == *status) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil, nil
}

func (s *memStore) ResolveRecord(_ context.Context, tenantID, recordID, resolvedBy, note string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[recordID]
	if !ok || r.TenantID != tenantID || r.Status != domain.ReconciliationPending {
		return apperrors.ErrAlreadyFinalized
	}
	r.Status = domain.ReconciliationResolved
	r.ResolvedBy, r.ResolvedAt, r.ResolutionNote = &resolvedBy, &at, &note
	s.records[recordID] = r
	return nil
}

// --- withdrawals ---

func (s *memStore) CreateBankAccount(_ context.Context, account domain.BankAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bankAccounts[account.BankAccountID] = account
	return nil
}

func (s *memStore) FindBankAccountByID(_ context.Context, tenantID, bankAccountID string) (*domain.BankAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.bankAccounts[bankAccountID]
	if !ok || a.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (s *memStore) CreateWithdrawal(_ context.Context, withdrawal domain.Withdrawal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.withdrawals[withdrawal.WithdrawalID] = withdrawal
	return nil
}

func (s *memStore) FindWithdrawalByID(_ context.Context, tenantID, withdrawalID string) (*domain.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[withdrawalID]
	if !ok || w.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}
	return &w, nil
}

func (s *memStore) UpdateWithdrawalStatus(_ context.Context, tenantID, withdrawalID string, from, to domain.WithdrawalStatus, failureReason *string, updatedBy string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.withdrawals[withdrawalID]
	if !ok || w.TenantID != tenantID || w.Status != from {
		return apperrors.ErrAlreadyFinalized
	}
	w.Status = to
	w.FailureReason = failureReason
	if to == domain.WithdrawalCompleted {
		w.CompletedAt = &at
	}
	w.LastUpdatedAt, w.LastUpdatedBy = at, updatedBy
	s.withdrawals[withdrawalID] = w
	return nil
}

var (
	_ portsrepo.TransactionManager             = (*memStore)(nil)
	_ portsrepo.TenantRepositoryFacade         = (*memStore)(nil)
	_ portsrepo.ProductRepositoryFacade        = (*memStore)(nil)
	_ portsrepo.OrderRepositoryFacade          = (*memStore)(nil)
	_ portsrepo.LedgerRepositoryFacade         = (*memStore)(nil)
	_ portsrepo.GatewayLogRepositoryFacade     = (*memStore)(nil)
	_ portsrepo.ReconciliationRepositoryFacade = (*memStore)(nil)
	_ portsrepo.BankAccountRepositoryFacade    = (*memStore)(nil)
	_ portsrepo.WithdrawalRepositoryFacade     = (*memStore)(nil)
)
