package reports

import (
	"testing"
	"time"
)

func TestRenderSubject(t *testing.T) {
	w := Window{Year: 2026, Month: time.July}
	now := time.Date(2026, time.July, 31, 8, 0, 0, 0, time.UTC)

	got := RenderSubject("Reporte Mensual - {mes} {anio}", w, now)
	want := "Reporte Mensual - Julio 2026"
	if got != want {
		t.Fatalf("RenderSubject = %q, want %q", got, want)
	}

	got = RenderSubject("Ingresos al {fecha}", w, now)
	if got != "Ingresos al 2026-07-31" {
		t.Fatalf("RenderSubject = %q", got)
	}

	// No placeholders: unchanged.
	got = RenderSubject("Reporte", w, now)
	if got != "Reporte" {
		t.Fatalf("RenderSubject = %q", got)
	}
}

func TestWindowValidate(t *testing.T) {
	if err := (Window{Year: 2026, Month: time.July}).Validate(); err != nil {
		t.Fatalf("valid window rejected: %v", err)
	}
	if err := (Window{Year: 2026, Month: time.Month(13)}).Validate(); err == nil {
		t.Fatal("month 13 must be rejected")
	}
	if err := (Window{Year: 2026, Month: time.Month(0)}).Validate(); err == nil {
		t.Fatal("month 0 must be rejected")
	}
	if err := (Window{Year: 0, Month: time.July}).Validate(); err == nil {
		t.Fatal("year 0 must be rejected")
	}
}

func TestWindowString(t *testing.T) {
	w := Window{Year: 2026, Month: time.March}
	if w.String() != "2026-03" {
		t.Fatalf("Window.String = %q", w.String())
	}
	w = Window{Year: 2026, Month: time.November}
	if w.String() != "2026-11" {
		t.Fatalf("Window.String = %q", w.String())
	}
}
