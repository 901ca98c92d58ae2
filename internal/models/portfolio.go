package models

// PortfolioOverview represents high-level lending statistics for dashboards.
type PortfolioOverview struct {
	TotalDisbursed        string `json:"total_disbursed"`
	TotalOutstanding      string `json:"total_outstanding"`
	TotalPenaltiesAccrued string `json:"total_penalties_accrued"`
	ActiveAccounts        int    `json:"active_accounts"`
	PastDueAccounts       int    `json:"past_due_accounts"`
	SettledAccounts       int    `json:"settled_accounts"`
	CollectionRate        string `json:"collection_rate"`
	CurrencySymbol        string `json:"currency_symbol"`
}

// StatusDistribution counts loan applications per lifecycle status.
type StatusDistribution struct {
	Draft       int `json:"draft"`
	Submitted   int `json:"submitted"`
	UnderReview int `json:"under_review"`
	Approved    int `json:"approved"`
	Rejected    int `json:"rejected"`
	Modified    int `json:"modified"`
	Closed      int `json:"closed"`
}

// OverdueAgingBucket groups overdue installments by how late they are.
type OverdueAgingBucket struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
	Amount string `json:"amount"`
}
