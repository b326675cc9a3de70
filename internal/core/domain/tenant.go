package domain

// Tenant is an independent merchant operating a storefront.
type Tenant struct {
	TenantID   string `json:"tenantID"`
	Name       string `json:"name"`
	MerchantID string `json:"merchantID"` // account identifier at the payment gateway
	IsActive   bool   `json:"isActive"`
	AuditFields
}
