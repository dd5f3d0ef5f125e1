// Command scan runs one universe scan and prints the ranked results.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"EliteScan/internal/di"
	"EliteScan/internal/domain/models"
	"EliteScan/internal/services/report"
	"EliteScan/pkg/config"
	xutil "EliteScan/pkg/util"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	symbols := flag.String("symbols", "", "comma separated symbols to scan instead of the whole universe")
	optimize := flag.Bool("optimize", false, "sweep the stop/target grid for live setups")
	quiet := flag.Bool("quiet", false, "do not print progress")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *optimize {
		cfg.Backtest.Optimize = true
	}

	svc, cleanup, err := di.InitializeScanService(cfg)
	if err != nil {
		log.Fatalf("initialization failed: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f := report.NewFormatter(cfg.Scan.SymbolSuffix)
	var requested []string
	for _, s := range xutil.SplitCSV(*symbols) {
		requested = append(requested, f.Qualify(s))
	}

	progress := func(p models.Progress) {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "\r[%3.0f%%] %d/%d %-12s", p.Fraction()*100, p.Completed, p.Total, f.DisplaySymbol(p.Symbol))
		}
	}
	rep, err := svc.Run(ctx, requested, progress)
	if !*quiet {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		if errors.Is(err, models.ErrEmptyUniverse) || errors.Is(err, models.ErrNoConfig) {
			log.Fatalf("nothing to scan: %v", err)
		}
		log.Fatalf("scan failed: %v", err)
	}

	printReport(os.Stdout, f, rep)
}

func printReport(w io.Writer, f *report.Formatter, rep *models.ScanReport) {
	if rep.Cancelled {
		fmt.Fprintf(w, "scan cancelled after %d of %d instruments\n", rep.Completed, rep.Total)
	}
	if rep.NoMatches() {
		fmt.Fprintln(w, "No elite setups found today.")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "SYMBOL\tCLASS\tSETUP\tTF\tWIN%\tEXP%\tPAYOFF\tTRADES\tENTRY\tSTOP\tTARGET\t")
		for _, r := range f.Rows(rep.Results) {
			payoff := "-"
			if r.PayoffRatio != nil {
				payoff = fmt.Sprintf("%.2f", *r.PayoffRatio)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%.2f\t%s\t%d\t%.2f\t%.2f\t%.2f\t\n",
				r.Symbol, r.AssetClass, r.Setup, r.Timeframe, r.WinRatePct, r.ExpectancyPct,
				payoff, r.Trades, r.Entry, r.Stop, r.Target)
		}
		_ = tw.Flush()
	}
	fmt.Fprintf(w, "scanned %d instruments: %d results, %d skipped, %d failed\n",
		rep.Completed, len(rep.Results), len(rep.Skipped), len(rep.Failed))
}
