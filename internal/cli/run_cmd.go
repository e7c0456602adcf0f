package cli

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kirillkom/claims-reconciler/internal/bootstrap"
	"github.com/kirillkom/claims-reconciler/internal/config"
	"github.com/kirillkom/claims-reconciler/internal/core/domain"
	"github.com/kirillkom/claims-reconciler/internal/infrastructure/fsload"
	"github.com/kirillkom/claims-reconciler/internal/infrastructure/report"
	"github.com/kirillkom/claims-reconciler/internal/observability/logging"
)

func newRunCmd() *cobra.Command {
	var (
		pdfDir      string
		sheetDir    string
		outPath     string
		xlsxPath    string
		rulesPath   string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconcile one batch of claim documents",
		Long: "Loads PDFs and spreadsheets from two directories, pairs them by " +
			"normalized filename, extracts the canonical claim fields from each side, " +
			"and writes a field-by-field reconciliation report.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if cmd.Flags().Changed("rules") {
				cfg.RulesPath = rulesPath
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Concurrency = concurrency
			}

			log := logging.NewJSONLogger("reconciler", cfg.LogLevel)

			app, err := bootstrap.New(cfg, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.MetricsPort != "" {
				serveMetrics(app, cfg.MetricsPort)
			}

			pdfs, err := fsload.LoadDir(pdfDir, domain.MediaPDF, log)
			if err != nil {
				return fmt.Errorf("load pdf dir: %w", err)
			}
			sheets, err := fsload.LoadDir(sheetDir, domain.MediaSpreadsheet, log)
			if err != nil {
				return fmt.Errorf("load spreadsheet dir: %w", err)
			}

			log.Info("batch starting",
				"pdfs", len(pdfs),
				"spreadsheets", len(sheets),
				"fields", app.Fields,
				"concurrency", cfg.Concurrency,
			)

			batch, err := app.Runner.Run(ctx, pdfs, sheets)
			if err != nil {
				return fmt.Errorf("run batch: %w", err)
			}

			if err := writeTextReport(cmd, outPath, batch); err != nil {
				return err
			}
			if xlsxPath != "" {
				if err := writeWorkbookReport(xlsxPath, batch); err != nil {
					return err
				}
			}

			log.Info("batch finished",
				"batch_id", batch.BatchID,
				"pairs", batch.Summary.TotalPairs,
				"clean", batch.Summary.Clean,
				"flagged", batch.Summary.Flagged,
				"failed", batch.Summary.Failed,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&pdfDir, "pdf-dir", "", "directory holding the claim PDFs")
	cmd.Flags().StringVar(&sheetDir, "sheet-dir", "", "directory holding the claim spreadsheets")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "text report path (default stdout)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx-out", "", "also write the report as an xlsx workbook")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "comparison rules file (yaml)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "pairs processed concurrently")
	_ = cmd.MarkFlagRequired("pdf-dir")
	_ = cmd.MarkFlagRequired("sheet-dir")

	return cmd
}

func writeTextReport(cmd *cobra.Command, path string, batch *domain.BatchReport) error {
	if path == "" {
		return report.TextSink{W: cmd.OutOrStdout()}.Write(batch)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := (report.TextSink{W: f}).Write(batch); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

func writeWorkbookReport(path string, batch *domain.BatchReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := report.WriteWorkbook(f, batch); err != nil {
		_ = f.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	return f.Close()
}

// serveMetrics exposes the prometheus registry for the duration of the run.
// The listener dies with the process; batch runs have no shutdown sequence.
func serveMetrics(app *bootstrap.App, port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.Metrics.Handler())
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Error("metrics listener failed", "error", err)
		}
	}()
}
