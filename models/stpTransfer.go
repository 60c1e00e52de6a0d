package models

// STPTransferLog records bank-transfer collection accounts assigned to a
// sale over time. Business invariant: at most one row per sale has status
// "activo". The adapter collapses violations deterministically and reports a
// DataIntegrityWarning instead of failing the run.
type STPTransferLog struct {
	ID        int    `gorm:"primary_key;column:id" json:"id"`
	SaleID    int    `gorm:"column:venta_id;not null" json:"venta_id"`
	Reference string `gorm:"column:referencia;size:50" json:"referencia"`
	Status    string `gorm:"column:estatus;size:30" json:"estatus"`
}

func (STPTransferLog) TableName() string { return "registros_stp" }

// STPStatusActive marks the currently-assigned collection account.
const STPStatusActive = "activo"
