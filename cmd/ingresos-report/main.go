package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bitbucket.org/lrdatalab/ingresos_backend/config"
	"bitbucket.org/lrdatalab/ingresos_backend/mailer"
	"bitbucket.org/lrdatalab/ingresos_backend/pipeline"
	"bitbucket.org/lrdatalab/ingresos_backend/reports"
)

// ingresos-report runs the federated income report once and exits. It is
// meant to be invoked by an external scheduler (cron, Cloud Scheduler).
//
// Exit codes: 0 complete, 1 failed, 2 partial (report generated but one or
// more tenants were degraded).
func main() {
	settingsPath := flag.String("settings", "settings.yaml", "Path to the report settings file")
	year := flag.Int("year", 0, "Report year. Defaults to the current year.")
	month := flag.Int("month", 0, "Report month (1-12). Defaults to the current month.")
	validateOnly := flag.Bool("validate", false, "Validate configuration and exit without running")
	noEmail := flag.Bool("no-email", false, "Generate workbooks but do not send email")
	outDir := flag.String("out", "", "Optional output directory override for generated workbooks")
	refresh := flag.Bool("refresh", false, "Drop any cached report for the window before running")
	flag.Parse()

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if *validateOnly {
		fmt.Printf("configuration valid: %d tenants, %d reports\n", len(settings.Tenants), len(settings.Reports))
		return
	}

	ctx := context.Background()

	if err := config.ConnectTenantDatabases(settings.Tenants); err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect tenant databases: %v\n", err)
		os.Exit(1)
	}
	config.ConnectRedis()

	extractors := make([]pipeline.Extractor, 0, len(settings.Tenants))
	for _, key := range settings.Tenants {
		db := config.GetTenantDB(key)
		if db == nil {
			fmt.Fprintf(os.Stderr, "tenant %s has no database connection\n", key)
			os.Exit(1)
		}
		extractors = append(extractors, pipeline.NewGormExtractor(key, db))
	}

	dims, err := pipeline.LoadDimensions(ctx, config.GetLookupDB())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load dimension lookups: %v\n", err)
		os.Exit(1)
	}

	window := reports.CurrentWindow(time.Now())
	if *year != 0 {
		window.Year = *year
	}
	if *month != 0 {
		window.Month = time.Month(*month)
	}
	if err := window.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid report window: %v\n", err)
		os.Exit(1)
	}

	if *refresh {
		if err := pipeline.InvalidateCachedRun(window); err != nil {
			fmt.Fprintf(os.Stderr, "failed to drop cached report: %v\n", err)
			os.Exit(1)
		}
	}

	runner := pipeline.NewRunner(extractors, dims, settings)
	result, err := runner.Run(ctx, window)
	if err != nil {
		fmt.Fprintf(os.Stderr, "report run failed: %v\n", err)
		os.Exit(1)
	}

	var generated []string
	for _, entry := range settings.Reports {
		outPath := entry.OutputFile
		if *outDir != "" {
			outPath = filepath.Join(*outDir, filepath.Base(outPath))
		}
		if dir := filepath.Dir(outPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				fmt.Fprintf(os.Stderr, "failed to create output directory %s: %v\n", dir, err)
				os.Exit(1)
			}
		}
		if err := reports.ExportIncomeExcel(result.Rows, outPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", outPath, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%d rows)\n", outPath, len(result.Rows))
		generated = append(generated, outPath)
	}

	if !*noEmail && len(generated) > 0 {
		subject := reports.RenderSubject(settings.Reports[0].Subject, window, time.Now())
		body := buildBody(result, generated)
		m := mailer.NewMailer(mailer.ConfigFromEnv())
		if err := m.Send(subject, body, settings.Mail.To, settings.Mail.Cc, settings.Mail.Bcc, generated); err != nil {
			fmt.Fprintf(os.Stderr, "failed to send report email: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("report emailed to %d recipients\n", len(settings.Mail.To)+len(settings.Mail.Cc)+len(settings.Mail.Bcc))
	}

	if result.Partial {
		fmt.Fprintf(os.Stderr, "run completed partially; degraded tenants: %v\n", result.DegradedTenants)
		os.Exit(2)
	}
}

func buildBody(result *pipeline.RunResult, files []string) string {
	var b strings.Builder
	b.WriteString("Hola,\n\nSe generaron los siguientes reportes:\n\n")
	for _, f := range files {
		fmt.Fprintf(&b, "  - %s\n", filepath.Base(f))
	}
	fmt.Fprintf(&b, "\nPeriodo: %s\n", result.Window.String())
	fmt.Fprintf(&b, "Filas: %d\n", len(result.Rows))
	fmt.Fprintf(&b, "Advertencias de integridad: %d\n", len(result.Warnings))
	if result.Partial {
		b.WriteString("\nATENCION: reporte PARCIAL. Tenants degradados:\n")
		for _, t := range result.DegradedTenants {
			fmt.Fprintf(&b, "  - %s: %s\n", t.TenantKey, t.Reason)
		}
	}
	fmt.Fprintf(&b, "\nFecha de generacion: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	b.WriteString("\nSaludos,\nSistema Automatizado de Reportes\n")
	return b.String()
}
