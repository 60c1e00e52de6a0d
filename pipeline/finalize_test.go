package pipeline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"bitbucket.org/lrdatalab/ingresos_backend/reports"
)

var julyWindow = reports.Window{Year: 2026, Month: time.July}

func julyDate(day int) *time.Time {
	t := time.Date(2026, time.July, day, 12, 0, 0, 0, time.UTC)
	return &t
}

func finalizeRow(customer string, incomeID int, day int) reports.IncomeRow {
	return reports.IncomeRow{
		TenantKey:    "gaia",
		SaleID:       1,
		IncomeID:     incomeID,
		CustomerName: customer,
		IngressDate:  julyDate(day),
		CreatedDate:  julyDate(day),
		Amount:       decimal.NewFromInt(1000),
	}
}

func testFinalizeOpts() FinalizeOptions {
	return FinalizeOptions{
		ExcludedDevelopments:      []string{"Demo Interno"},
		CustomerExclusionPatterns: []string{"Prueba", "Demo", "Oficina", "Manivela", "Direccion"},
	}
}

func TestFinalize_ExcludesTestCustomers(t *testing.T) {
	rows := []reports.IncomeRow{
		finalizeRow("Cliente Prueba", 1, 1),
		finalizeRow("Juan Perez", 2, 1),
	}
	out := Finalize(rows, julyWindow, testFinalizeOpts())
	if len(out) != 1 || out[0].CustomerName != "Juan Perez" {
		t.Fatalf("Finalize = %+v", out)
	}
}

func TestFinalize_CustomerExclusionIsCaseSensitive(t *testing.T) {
	rows := []reports.IncomeRow{finalizeRow("Juan prueba", 1, 1)}
	out := Finalize(rows, julyWindow, testFinalizeOpts())
	if len(out) != 1 {
		t.Fatal("lowercase 'prueba' must not match the 'Prueba' pattern")
	}
}

func TestFinalize_ExcludesDevelopments(t *testing.T) {
	dev := "Demo Interno"
	row := finalizeRow("Juan Perez", 1, 1)
	row.Development = &dev

	out := Finalize([]reports.IncomeRow{row}, julyWindow, testFinalizeOpts())
	if len(out) != 0 {
		t.Fatalf("excluded development survived: %+v", out)
	}
}

func TestFinalize_ExcludesBrands(t *testing.T) {
	brand := "MARCA-X"
	row := finalizeRow("Juan Perez", 1, 1)
	row.Brand = &brand

	opts := testFinalizeOpts()
	opts.ExcludedBrands = []string{"MARCA-X"}
	if out := Finalize([]reports.IncomeRow{row}, julyWindow, opts); len(out) != 0 {
		t.Fatalf("excluded brand survived: %+v", out)
	}
}

func TestFinalize_AbsentIngressDateNeverMatchesAnyWindow(t *testing.T) {
	row := finalizeRow("Juan Perez", 1, 1)
	row.IngressDate = nil

	for _, w := range []reports.Window{
		julyWindow,
		{Year: 1, Month: time.January},
		{Year: 0, Month: 0},
	} {
		if out := Finalize([]reports.IncomeRow{row}, w, testFinalizeOpts()); len(out) != 0 {
			t.Fatalf("absent date matched window %v", w)
		}
	}
}

func TestFinalize_WindowSelectsYearAndMonth(t *testing.T) {
	inWindow := finalizeRow("Juan Perez", 1, 10)
	wrongMonth := finalizeRow("Juan Perez", 2, 10)
	d := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	wrongMonth.IngressDate = &d

	out := Finalize([]reports.IncomeRow{inWindow, wrongMonth}, julyWindow, testFinalizeOpts())
	if len(out) != 1 || out[0].IncomeID != 1 {
		t.Fatalf("window filter = %+v", out)
	}
}

func TestFinalize_DedupCollapsesExactTuplesOnly(t *testing.T) {
	a := finalizeRow("Juan Perez", 1, 1)
	a.Bank = "BBVA"
	dup := a
	differentBankCase := a
	differentBankCase.Bank = "Bbva"

	out := Finalize([]reports.IncomeRow{a, dup, differentBankCase}, julyWindow, testFinalizeOpts())
	// Exact duplicates collapse; a differing trailing field keeps both.
	if len(out) != 2 {
		t.Fatalf("dedup produced %d rows, want 2: %+v", len(out), out)
	}
}

func TestFinalize_SortsByCreationDateWithDeterministicTieBreak(t *testing.T) {
	r1 := finalizeRow("Juan Perez", 3, 5)
	r2 := finalizeRow("Juan Perez", 1, 2)
	r3 := finalizeRow("Juan Perez", 2, 2)
	r3.TenantKey = "terra"

	out := Finalize([]reports.IncomeRow{r1, r2, r3}, julyWindow, testFinalizeOpts())
	if len(out) != 3 {
		t.Fatalf("got %d rows", len(out))
	}
	// Day 2 before day 5; within day 2, tenant "gaia" before "terra".
	if out[0].IncomeID != 1 || out[1].IncomeID != 2 || out[2].IncomeID != 3 {
		t.Fatalf("order = %d, %d, %d", out[0].IncomeID, out[1].IncomeID, out[2].IncomeID)
	}
}

func TestFinalize_FoldsCustomerDiacriticsInOutput(t *testing.T) {
	row := finalizeRow("María Gutiérrez", 1, 1)
	out := Finalize([]reports.IncomeRow{row}, julyWindow, testFinalizeOpts())
	if len(out) != 1 || out[0].CustomerName != "Maria Gutierrez" {
		t.Fatalf("Finalize customer name = %+v", out)
	}
}
