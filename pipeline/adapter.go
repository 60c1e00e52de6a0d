package pipeline

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"bitbucket.org/lrdatalab/ingresos_backend/models"
)

// Extractor is the uniform extraction contract every tenant satisfies. The
// schemas are identical across tenants by construction; any residual drift
// is absorbed here so downstream stages see one shape. Extraction is a pure
// read with no side effects.
type Extractor interface {
	TenantKey() string
	Advisors(ctx context.Context) ([]models.Advisor, error)
	Customers(ctx context.Context) ([]models.Customer, error)
	Developments(ctx context.Context) ([]models.Development, error)
	Units(ctx context.Context) ([]models.Unit, error)
	Sales(ctx context.Context) ([]models.Sale, error)
	IncomeTransactions(ctx context.Context) ([]models.IncomeTransaction, error)
	SaleStatuses(ctx context.Context) ([]models.SaleStatus, error)
	STPTransferLogs(ctx context.Context) ([]models.STPTransferLog, error)
}

// IntegrityWarning records a violated business invariant the pipeline
// tolerated. Warnings surface on the run summary and in logs; they never
// abort the run.
type IntegrityWarning struct {
	TenantKey string `json:"tenant_key"`
	SaleID    int    `json:"sale_id"`
	Message   string `json:"message"`
}

// GormExtractor reads one tenant's streams through its gorm connection.
type GormExtractor struct {
	tenantKey string
	db        *gorm.DB
}

func NewGormExtractor(tenantKey string, db *gorm.DB) *GormExtractor {
	return &GormExtractor{tenantKey: tenantKey, db: db}
}

func (e *GormExtractor) TenantKey() string { return e.tenantKey }

func (e *GormExtractor) Advisors(ctx context.Context) ([]models.Advisor, error) {
	var out []models.Advisor
	err := e.db.WithContext(ctx).Find(&out).Error
	return out, err
}

func (e *GormExtractor) Customers(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	err := e.db.WithContext(ctx).Find(&out).Error
	return out, err
}

func (e *GormExtractor) Developments(ctx context.Context) ([]models.Development, error) {
	var out []models.Development
	err := e.db.WithContext(ctx).Find(&out).Error
	return out, err
}

func (e *GormExtractor) Units(ctx context.Context) ([]models.Unit, error) {
	var out []models.Unit
	err := e.db.WithContext(ctx).Find(&out).Error
	return out, err
}

func (e *GormExtractor) Sales(ctx context.Context) ([]models.Sale, error) {
	var out []models.Sale
	err := e.db.WithContext(ctx).Find(&out).Error
	return out, err
}

func (e *GormExtractor) IncomeTransactions(ctx context.Context) ([]models.IncomeTransaction, error) {
	var out []models.IncomeTransaction
	err := e.db.WithContext(ctx).Find(&out).Error
	return out, err
}

func (e *GormExtractor) SaleStatuses(ctx context.Context) ([]models.SaleStatus, error) {
	var out []models.SaleStatus
	err := e.db.WithContext(ctx).Find(&out).Error
	return out, err
}

func (e *GormExtractor) STPTransferLogs(ctx context.Context) ([]models.STPTransferLog, error) {
	var out []models.STPTransferLog
	err := e.db.WithContext(ctx).Where("estatus = ?", models.STPStatusActive).Find(&out).Error
	return out, err
}

// collapseActiveReferences resolves the active STP reference per sale.
// Invariant: at most one active log row per sale. When a tenant violates it,
// the row with the lowest log id wins, so the same input always produces
// the same reference, and one warning per offending sale is emitted.
func collapseActiveReferences(tenantKey string, logs []models.STPTransferLog) (map[int]string, []IntegrityWarning) {
	bySale := make(map[int][]models.STPTransferLog)
	for _, l := range logs {
		if l.Status != models.STPStatusActive {
			continue
		}
		bySale[l.SaleID] = append(bySale[l.SaleID], l)
	}

	refs := make(map[int]string, len(bySale))
	var warnings []IntegrityWarning
	for saleID, entries := range bySale {
		sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
		refs[saleID] = entries[0].Reference
		if len(entries) > 1 {
			warnings = append(warnings, IntegrityWarning{
				TenantKey: tenantKey,
				SaleID:    saleID,
				Message:   fmt.Sprintf("%d active STP references for sale %d, kept log id %d", len(entries), saleID, entries[0].ID),
			})
		}
	}
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].SaleID < warnings[j].SaleID })
	return refs, warnings
}
