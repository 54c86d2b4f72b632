package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"climate-server/internal/config"
	db "climate-server/internal/db"
	"climate-server/internal/logging"
	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/service"
)

const appName = "climatectl"

var version = "dev"

const usage = `usage: climatectl <command>
  check    validate the dataset schema
  summary  print dataset counts, date range and the reference station
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	command := args[0]
	if command != "check" && command != "summary" {
		fmt.Fprintf(stderr, "unknown command: %s\n%s", command, usage)
		return 2
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "config error: %v\n", err)
		return 1
	}
	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	conn, err := db.Open(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "db open: %v\n", err)
		return 1
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
	}()

	repo := repository.NewRepository(conn)
	switch command {
	case "check":
		err = check(ctx, repo, stdout)
	case "summary":
		err = summary(ctx, repo, service.NewReference(repo, cfg.Reference), stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", command, err)
		return 1
	}
	return 0
}

func check(ctx context.Context, repo repository.ClimateRepository, out io.Writer) error {
	if err := repo.ValidateSchema(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "schema ok")
	return nil
}

func summary(ctx context.Context, repo repository.ClimateRepository, ref service.Reference, out io.Writer) error {
	s, err := repo.GetSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "stations:      %d\n", s.Stations)
	fmt.Fprintf(out, "measurements:  %d\n", s.Measurements)
	if s.Measurements == 0 {
		fmt.Fprintln(out, "dates:         none")
		return nil
	}
	fmt.Fprintf(out, "dates:         %s .. %s\n", s.FirstDate, s.LatestDate)

	window, ok, err := ref.TobsWindow(ctx)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(out, "tobs station:  %s\n", window.StationID)
		fmt.Fprintf(out, "tobs window:   %s .. %s\n", window.Start(), window.End)
	}
	return nil
}
