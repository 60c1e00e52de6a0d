package pipeline

// These tests are intentionally DB-free: fake extractors stand in for tenant
// databases, so they validate the federation semantics (parallel extraction,
// partial-run policy, merge + finalize) without MySQL.

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/lrdatalab/ingresos_backend/config"
	"bitbucket.org/lrdatalab/ingresos_backend/models"
	"bitbucket.org/lrdatalab/ingresos_backend/reports"
	"bitbucket.org/lrdatalab/ingresos_backend/utils"
)

type fakeExtractor struct {
	key          string
	advisors     []models.Advisor
	customers    []models.Customer
	developments []models.Development
	units        []models.Unit
	sales        []models.Sale
	income       []models.IncomeTransaction
	statuses     []models.SaleStatus
	stpLogs      []models.STPTransferLog
	err          error
}

func (f *fakeExtractor) TenantKey() string { return f.key }

func (f *fakeExtractor) Advisors(ctx context.Context) ([]models.Advisor, error) {
	return f.advisors, f.err
}
func (f *fakeExtractor) Customers(ctx context.Context) ([]models.Customer, error) {
	return f.customers, f.err
}
func (f *fakeExtractor) Developments(ctx context.Context) ([]models.Development, error) {
	return f.developments, f.err
}
func (f *fakeExtractor) Units(ctx context.Context) ([]models.Unit, error) {
	return f.units, f.err
}
func (f *fakeExtractor) Sales(ctx context.Context) ([]models.Sale, error) {
	return f.sales, f.err
}
func (f *fakeExtractor) IncomeTransactions(ctx context.Context) ([]models.IncomeTransaction, error) {
	return f.income, f.err
}
func (f *fakeExtractor) SaleStatuses(ctx context.Context) ([]models.SaleStatus, error) {
	return f.statuses, f.err
}
func (f *fakeExtractor) STPTransferLogs(ctx context.Context) ([]models.STPTransferLog, error) {
	return f.stpLogs, f.err
}

func boolPtr(b bool) *bool { return &b }

func julyTxn(id, saleID int, amount int64, day int) models.IncomeTransaction {
	d := time.Date(2026, time.July, day, 10, 0, 0, 0, time.UTC)
	return models.IncomeTransaction{
		ID:            id,
		SaleID:        saleID,
		Amount:        decimal.NewFromInt(amount),
		PaymentMethod: "Transferencia",
		Concept:       "Mensualidad",
		Folio:         "F-100",
		Bank:          "BBVA",
		Status:        models.IncomeStatusApplied,
		CreatedDate:   models.NewSentinelDate(d),
		ApprovedDate:  models.NewSentinelDate(d),
		AppliedDate:   models.NewSentinelDate(d),
	}
}

// officeTenant sells by floor area: price 1,000,000 over 100 m2.
func officeTenant() *fakeExtractor {
	return &fakeExtractor{
		key:          "gaia",
		advisors:     []models.Advisor{{ID: 1, FirstName: "laura", PaternalName: "gomez"}},
		customers:    []models.Customer{{ID: 1, FirstName: "juan", PaternalName: "perez"}},
		developments: []models.Development{{ID: 1, Name: "Corporativo Uno"}},
		units: []models.Unit{{
			ID: 1, DevelopmentID: 1, AreaM2: decimal.NewFromInt(100),
			Number: "101", Stage: 1, IsPrivate: boolPtr(false),
		}},
		sales: []models.Sale{{
			ID: 1, UnitID: 1, CustomerID: 1, AdvisorID: 1,
			Price: decimal.NewFromInt(1000000), StatusID: 1,
		}},
		income:   []models.IncomeTransaction{julyTxn(1, 1, 250000, 5)},
		statuses: []models.SaleStatus{{ID: 1, Label: "Escriturada"}},
		stpLogs: []models.STPTransferLog{
			{ID: 1, SaleID: 1, Reference: "646180111", Status: models.STPStatusActive},
		},
	}
}

// shareTenant sells by shares: price 500,000 over 50 shares.
func shareTenant() *fakeExtractor {
	return &fakeExtractor{
		key:          "terra",
		advisors:     []models.Advisor{{ID: 1, FirstName: "pedro", PaternalName: "diaz"}},
		customers:    []models.Customer{{ID: 1, FirstName: "ana", PaternalName: "torres"}},
		developments: []models.Development{{ID: 1, Name: "Accion 5"}},
		units: []models.Unit{{
			ID: 1, DevelopmentID: 1, Number: "A-12", Stage: 2, IsPrivate: boolPtr(true),
		}},
		sales: []models.Sale{{
			ID: 1, UnitID: 1, CustomerID: 1, AdvisorID: 1,
			Price: decimal.NewFromInt(500000), Shares: 50, StatusID: 1,
		}},
		income:   []models.IncomeTransaction{julyTxn(1, 1, 100000, 9)},
		statuses: []models.SaleStatus{{ID: 1, Label: "Activa"}},
	}
}

func runnerDims() *Dimensions {
	return NewDimensions(
		[]models.BrandDimension{
			{DevelopmentName: "Corporativo Uno", Brand: "GAIA", DisplayName: "Corporativo Uno Torre A"},
			{DevelopmentName: "Accion 5", Brand: "TERRA", DisplayName: "Accion Cinco"},
		},
		[]models.AdvisorTeamDimension{
			{AdvisorName: "Laura Gomez", Team: "Corporativo"},
		},
	)
}

func runnerSettings() *config.Settings {
	return &config.Settings{
		Tenants: []string{"gaia", "terra"},
		AreaPriceRules: []config.AreaPriceRuleSetting{
			{Development: "Corporativo Uno", Basis: "area"},
			{Development: "Accion 5", Basis: "shares"},
		},
		CustomerExclusionPatterns: []string{"Prueba", "Demo"},
		ExtractionTimeoutSeconds:  60,
	}
}

func TestRun_EndToEndTwoTenants(t *testing.T) {
	runner := NewRunner([]Extractor{officeTenant(), shareTenant()}, runnerDims(), runnerSettings())

	result, err := runner.Run(context.Background(), reports.Window{Year: 2026, Month: time.July})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Partial {
		t.Fatalf("unexpected partial run: %+v", result.DegradedTenants)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(result.Rows))
	}

	byTenant := map[string]reports.IncomeRow{}
	for _, r := range result.Rows {
		byTenant[r.TenantKey] = r
	}

	office := byTenant["gaia"]
	if !office.AreaPrice.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("office area price = %s, want 10000", office.AreaPrice)
	}
	if office.Brand == nil || *office.Brand != "GAIA" || office.Development == nil {
		t.Fatalf("office brand/development not resolved: %+v", office)
	}
	if office.STPReference != "STP_646180111" {
		t.Fatalf("STP reference = %q", office.STPReference)
	}
	if office.CustomerName != "Juan Perez" {
		t.Fatalf("customer = %q", office.CustomerName)
	}
	if office.Status != "Escriturada" {
		t.Fatalf("status = %q", office.Status)
	}

	share := byTenant["terra"]
	if !share.AreaPrice.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("share area price = %s, want 10000", share.AreaPrice)
	}
	if share.Brand == nil || *share.Brand != "TERRA" {
		t.Fatalf("share brand not resolved: %+v", share)
	}
	if share.STPReference != "" {
		t.Fatalf("share STP reference = %q, want empty", share.STPReference)
	}
}

func TestRun_SentinelDateTransactionNeverAppears(t *testing.T) {
	tenant := officeTenant()
	zeroDated := julyTxn(2, 1, 99999, 5)
	zeroDated.AppliedDate = models.SentinelDate{}
	zeroDated.CreatedDate = models.SentinelDate{}
	tenant.income = append(tenant.income, zeroDated)

	runner := NewRunner([]Extractor{tenant}, runnerDims(), runnerSettings())
	result, err := runner.Run(context.Background(), reports.Window{Year: 2026, Month: time.July})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, r := range result.Rows {
		if r.IncomeID == 2 {
			t.Fatal("zero-dated transaction matched a window")
		}
	}
	if len(result.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(result.Rows))
	}
}

func TestRun_TenantFailureDegradesToPartial(t *testing.T) {
	failing := &fakeExtractor{key: "quark", err: errors.New("connection refused")}
	runner := NewRunner([]Extractor{officeTenant(), failing}, runnerDims(), runnerSettings())

	result, err := runner.Run(context.Background(), reports.Window{Year: 2026, Month: time.July})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Partial {
		t.Fatal("run must be flagged partial")
	}
	if len(result.DegradedTenants) != 1 || result.DegradedTenants[0].TenantKey != "quark" {
		t.Fatalf("degraded tenants = %+v", result.DegradedTenants)
	}
	// The healthy tenant's rows are still present.
	if len(result.Rows) != 1 || result.Rows[0].TenantKey != "gaia" {
		t.Fatalf("rows = %+v", result.Rows)
	}
}

// stalledExtractor hangs in Sales until its context is cancelled, standing
// in for a tenant database that stops answering mid-extraction.
type stalledExtractor struct {
	*fakeExtractor
}

func (s *stalledExtractor) Sales(ctx context.Context) ([]models.Sale, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRun_TenantTimeoutDegradesToPartial(t *testing.T) {
	stalled := &stalledExtractor{fakeExtractor: shareTenant()}
	settings := runnerSettings()
	settings.ExtractionTimeoutSeconds = 1

	runner := NewRunner([]Extractor{officeTenant(), stalled}, runnerDims(), settings)
	result, err := runner.Run(context.Background(), reports.Window{Year: 2026, Month: time.July})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Partial {
		t.Fatal("run must be flagged partial")
	}
	if len(result.DegradedTenants) != 1 || result.DegradedTenants[0].TenantKey != "terra" {
		t.Fatalf("degraded tenants = %+v", result.DegradedTenants)
	}
	// The responsive tenant still delivers.
	if len(result.Rows) != 1 || result.Rows[0].TenantKey != "gaia" {
		t.Fatalf("rows = %+v", result.Rows)
	}
}

func TestRun_AbortPolicyFailsWholeRun(t *testing.T) {
	failing := &fakeExtractor{key: "quark", err: errors.New("connection refused")}
	settings := runnerSettings()
	settings.AbortOnTenantFailure = true

	runner := NewRunner([]Extractor{officeTenant(), failing}, runnerDims(), settings)
	if _, err := runner.Run(context.Background(), reports.Window{Year: 2026, Month: time.July}); err == nil {
		t.Fatal("abort policy must fail the run")
	}
}

func TestRun_AllTenantsFailedIsAnError(t *testing.T) {
	runner := NewRunner([]Extractor{
		&fakeExtractor{key: "a", err: errors.New("down")},
		&fakeExtractor{key: "b", err: errors.New("down")},
	}, runnerDims(), runnerSettings())

	_, err := runner.Run(context.Background(), reports.Window{Year: 2026, Month: time.July})
	if !errors.Is(err, utils.ErrorAllTenantsFailed) {
		t.Fatalf("err = %v, want ErrorAllTenantsFailed", err)
	}
}

func TestRun_IntegrityWarningSurfacesOnSummary(t *testing.T) {
	tenant := officeTenant()
	tenant.stpLogs = append(tenant.stpLogs,
		models.STPTransferLog{ID: 2, SaleID: 1, Reference: "646180999", Status: models.STPStatusActive})

	runner := NewRunner([]Extractor{tenant}, runnerDims(), runnerSettings())
	result, err := runner.Run(context.Background(), reports.Window{Year: 2026, Month: time.July})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("warnings = %+v, want exactly one", result.Warnings)
	}
	// Deterministic pick: the lower log id wins.
	if result.Rows[0].STPReference != "STP_646180111" {
		t.Fatalf("STP reference = %q", result.Rows[0].STPReference)
	}
}
