package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncomeRow is one record of the unified cross-tenant income report. Rows
// from every tenant share this exact shape before the merge stage; TenantKey
// plus SaleID/IncomeID keep each row traceable to its source even though ids
// alone collide across tenants.
type IncomeRow struct {
	TenantKey string `json:"tenant_key"`

	SaleID    int    `json:"sale_id"`
	DisplayID string `json:"display_id"` // development + unit composite

	// Brand and Development come from the shared brand dimension; nil when
	// the development is not in the lookup (outer-join semantics).
	Brand       *string `json:"brand"`
	Development *string `json:"development"`

	Private bool   `json:"private"`
	Stage   int    `json:"stage"`
	Unit    string `json:"unit"`
	Folio   string `json:"folio"`

	CustomerName string `json:"customer_name"`

	// STPReference carries the "STP_" tag when present, empty otherwise.
	STPReference string `json:"stp_reference"`

	Status   string `json:"status"`
	IncomeID int    `json:"income_id"`

	IngressDate *time.Time `json:"ingress_date"`
	CreatedDate *time.Time `json:"created_date"`

	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method"`
	Concept       string          `json:"concept"`
	Bank          string          `json:"bank"`

	// Derived unit economics and advisor attribution. Not part of the fixed
	// export column set but carried for downstream report variants.
	AreaPrice   decimal.Decimal `json:"area_price"`
	AdvisorName string          `json:"advisor_name"`
	AdvisorTeam *string         `json:"advisor_team"`
}

// BusinessKey is the full-tuple grouping key of the finalizer. Two rows
// collapse only when every field matches exactly; a single differing
// trailing field (even bank-name casing) keeps both rows.
type BusinessKey struct {
	SaleID        int
	DisplayID     string
	Brand         string
	Development   string
	Private       bool
	Stage         int
	Unit          string
	Folio         string
	CustomerName  string
	STPReference  string
	Status        string
	IncomeID      int
	IngressDate   string
	CreatedDate   string
	Amount        string
	PaymentMethod string
	Concept       string
	Bank          string
}

// Key builds the comparable grouping tuple. Dates and amounts are rendered
// to strings so the struct stays usable as a map key.
func (r IncomeRow) Key() BusinessKey {
	return BusinessKey{
		SaleID:        r.SaleID,
		DisplayID:     r.DisplayID,
		Brand:         deref(r.Brand),
		Development:   deref(r.Development),
		Private:       r.Private,
		Stage:         r.Stage,
		Unit:          r.Unit,
		Folio:         r.Folio,
		CustomerName:  r.CustomerName,
		STPReference:  r.STPReference,
		Status:        r.Status,
		IncomeID:      r.IncomeID,
		IngressDate:   formatKeyDate(r.IngressDate),
		CreatedDate:   formatKeyDate(r.CreatedDate),
		Amount:        r.Amount.String(),
		PaymentMethod: r.PaymentMethod,
		Concept:       r.Concept,
		Bank:          r.Bank,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatKeyDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
