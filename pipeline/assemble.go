package pipeline

import (
	"context"
	"fmt"

	"bitbucket.org/lrdatalab/ingresos_backend/models"
	"bitbucket.org/lrdatalab/ingresos_backend/reports"
	"bitbucket.org/lrdatalab/ingresos_backend/utils"
)

// tenantDataset is one tenant's extracted streams, ready for assembly.
type tenantDataset struct {
	tenantKey    string
	advisors     []models.Advisor
	customers    []models.Customer
	developments []models.Development
	units        []models.Unit
	sales        []models.Sale
	income       []models.IncomeTransaction
	statuses     []models.SaleStatus
	stpBySale    map[int]string
}

// extractTenant pulls all streams of one tenant through its extractor.
func extractTenant(ctx context.Context, ex Extractor) (*tenantDataset, []IntegrityWarning, error) {
	ds := &tenantDataset{tenantKey: ex.TenantKey()}

	var err error
	if ds.advisors, err = ex.Advisors(ctx); err != nil {
		return nil, nil, fmt.Errorf("advisors: %w", err)
	}
	if ds.customers, err = ex.Customers(ctx); err != nil {
		return nil, nil, fmt.Errorf("customers: %w", err)
	}
	if ds.developments, err = ex.Developments(ctx); err != nil {
		return nil, nil, fmt.Errorf("developments: %w", err)
	}
	if ds.units, err = ex.Units(ctx); err != nil {
		return nil, nil, fmt.Errorf("units: %w", err)
	}
	if ds.sales, err = ex.Sales(ctx); err != nil {
		return nil, nil, fmt.Errorf("sales: %w", err)
	}
	if ds.income, err = ex.IncomeTransactions(ctx); err != nil {
		return nil, nil, fmt.Errorf("income transactions: %w", err)
	}
	if ds.statuses, err = ex.SaleStatuses(ctx); err != nil {
		return nil, nil, fmt.Errorf("sale statuses: %w", err)
	}

	logs, err := ex.STPTransferLogs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("stp transfer logs: %w", err)
	}
	refs, warnings := collapseActiveReferences(ds.tenantKey, logs)
	ds.stpBySale = refs
	return ds, warnings, nil
}

// assembleRows turns one tenant's dataset into unified report rows: joins
// the streams by id, normalizes names, computes the area price and resolves
// the shared dimensions. Income transactions that are not reportable
// (unapplied, or with an absent approval date) are skipped here; window
// filtering and exclusions happen later in the finalizer.
func assembleRows(ds *tenantDataset, dims *Dimensions, prices AreaPriceTable, qualifierTokens []string) ([]reports.IncomeRow, []IntegrityWarning) {
	customersByID := make(map[int]models.Customer, len(ds.customers))
	for _, c := range ds.customers {
		customersByID[c.ID] = c
	}
	advisorsByID := make(map[int]models.Advisor, len(ds.advisors))
	for _, a := range ds.advisors {
		advisorsByID[a.ID] = a
	}
	developmentsByID := make(map[int]models.Development, len(ds.developments))
	for _, d := range ds.developments {
		developmentsByID[d.ID] = d
	}
	unitsByID := make(map[int]models.Unit, len(ds.units))
	for _, u := range ds.units {
		unitsByID[u.ID] = u
	}
	salesByID := make(map[int]models.Sale, len(ds.sales))
	for _, s := range ds.sales {
		salesByID[s.ID] = s
	}
	statusByID := make(map[int]string, len(ds.statuses))
	for _, s := range ds.statuses {
		statusByID[s.ID] = s.Label
	}

	var rows []reports.IncomeRow
	var warnings []IntegrityWarning

	for _, txn := range ds.income {
		if !txn.Reportable() {
			continue
		}

		sale, ok := salesByID[txn.SaleID]
		if !ok {
			warnings = append(warnings, IntegrityWarning{
				TenantKey: ds.tenantKey,
				SaleID:    txn.SaleID,
				Message:   fmt.Sprintf("income transaction %d references missing sale %d", txn.ID, txn.SaleID),
			})
			continue
		}
		unit, ok := unitsByID[sale.UnitID]
		if !ok {
			warnings = append(warnings, IntegrityWarning{
				TenantKey: ds.tenantKey,
				SaleID:    sale.ID,
				Message:   fmt.Sprintf("sale %d references missing unit %d", sale.ID, sale.UnitID),
			})
			continue
		}
		development := developmentsByID[unit.DevelopmentID]

		customer := customersByID[sale.CustomerID]
		customerName := NormalizeName(customer.FirstName, customer.PaternalName, customer.MaternalName)

		advisor := advisorsByID[sale.AdvisorID]
		advisorName := StripAdvisorQualifiers(
			NormalizeName(advisor.FirstName, advisor.PaternalName, advisor.MaternalName),
			qualifierTokens,
		)

		brand, displayName := dims.ResolveBrand(development.Name)

		var advisorTeam *string
		if team := dims.ResolveTeam(advisorName); team != nil {
			advisorTeam = &team.Team
		}

		stpRef := ""
		if ref, ok := ds.stpBySale[sale.ID]; ok && ref != "" {
			stpRef = "STP_" + ref
		}

		rows = append(rows, reports.IncomeRow{
			TenantKey:     ds.tenantKey,
			SaleID:        sale.ID,
			DisplayID:     fmt.Sprintf("%s-%s", development.Name, unit.Number),
			Brand:         brand,
			Development:   displayName,
			Private:       utils.DereferencePtr(unit.IsPrivate, false),
			Stage:         unit.Stage,
			Unit:          unit.Number,
			Folio:         txn.Folio,
			CustomerName:  customerName,
			STPReference:  stpRef,
			Status:        statusByID[sale.StatusID],
			IncomeID:      txn.ID,
			IngressDate:   txn.AppliedDate.Ptr(),
			CreatedDate:   txn.CreatedDate.Ptr(),
			Amount:        txn.Amount,
			PaymentMethod: txn.PaymentMethod,
			Concept:       txn.Concept,
			Bank:          txn.Bank,
			AreaPrice:     prices.Compute(development.Name, sale, unit),
			AdvisorName:   advisorName,
			AdvisorTeam:   advisorTeam,
		})
	}

	return rows, warnings
}
