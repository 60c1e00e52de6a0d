package models

import "github.com/shopspring/decimal"

// IncomeTransaction is a payment recorded against a sale. Only applied
// transactions with a present approval date participate in reporting; the
// source encodes missing dates as the zero date, which SentinelDate maps to
// absent.
type IncomeTransaction struct {
	ID            int             `gorm:"primary_key;column:id" json:"id"`
	SaleID        int             `gorm:"column:venta_id;not null" json:"venta_id"`
	Amount        decimal.Decimal `gorm:"column:monto;type:decimal(14,2)" json:"monto"`
	PaymentMethod string          `gorm:"column:metodo_pago;size:50" json:"metodo_pago"`
	Concept       string          `gorm:"column:concepto;size:200" json:"concepto"`
	Folio         string          `gorm:"column:folio;size:50" json:"folio"`
	Bank          string          `gorm:"column:banco;size:80" json:"banco"`
	Status        string          `gorm:"column:estatus;size:30" json:"estatus"`
	CreatedDate   SentinelDate    `gorm:"column:fecha_creacion;type:datetime" json:"fecha_creacion"`
	ApprovedDate  SentinelDate    `gorm:"column:fecha_aprobacion;type:datetime" json:"fecha_aprobacion"`
	AppliedDate   SentinelDate    `gorm:"column:fecha_aplicacion;type:datetime" json:"fecha_aplicacion"`
}

func (IncomeTransaction) TableName() string { return "ingresos" }

// IncomeStatusApplied is the only status that reaches the report.
const IncomeStatusApplied = "aplicado"

// Reportable applies the reporting invariant: applied status and a present
// approval date.
func (t IncomeTransaction) Reportable() bool {
	return t.Status == IncomeStatusApplied && t.ApprovedDate.Valid
}
