// apps/go-solver/main.go
//
// Entry point for the Nerdle solver.
// Subcommands:
//   solve   <candidates-file>      interactive solving assistant
//   serve   <candidates-file>      solver API over HTTP
//   gen     <variant> <out-file>   enumerate a candidate universe
//   daily   <candidates-file>      print the deterministic daily puzzle
//   history                        list recent recorded solves
//
// Configuration comes from flags with environment fallbacks (loaded from
// .env in development): LOG_LEVEL, PORT, SAMPLE_SIZE, PREVIEW_LIMIT,
// HISTORY_DB, DAILY_SALT.

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/nerdle/apps/go-solver/internal/candidates"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/daily"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/gen"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/httpserver"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/session"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/solver"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "solve":
		runSolve(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "gen":
		runGen(os.Args[2:])
	case "daily":
		runDaily(os.Args[2:])
	case "history":
		runHistory(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: go-solver <command> [flags] ...

commands:
  solve   <candidates-file>      interactive solving assistant
  serve   <candidates-file>      solver API over HTTP
  gen     <variant> <out-file>   enumerate a candidate universe (classic|maxi|micro)
  daily   <candidates-file>      print the deterministic daily puzzle
  history                        list recent recorded solves (needs HISTORY_DB)`)
}

// solveFlags are shared by the solve and serve commands.
func solveFlags(fs *flag.FlagSet) (sample, preview *int, seed *int64) {
	sample = fs.Int("sample", getEnvInt("SAMPLE_SIZE", solver.DefaultSampleSize),
		"candidate guesses sampled per round")
	preview = fs.Int("preview", getEnvInt("PREVIEW_LIMIT", session.DefaultPreviewLimit),
		"remaining candidates listed per round")
	seed = fs.Int64("seed", 0, "random seed for guess sampling (0 = time-based)")
	return
}

func runSolve(args []string) {
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	sample, preview, seed := solveFlags(fs)
	_ = fs.Parse(args)
	path := fs.Arg(0)
	if path == "" {
		usage()
		os.Exit(2)
	}

	fmt.Printf("Reading options from %s\n", path)
	universe, err := candidates.LoadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load candidates")
	}

	cfg := session.Config{
		SampleSize:   *sample,
		PreviewLimit: *preview,
		Log:          log.Logger,
	}
	if *seed != 0 {
		cfg.Rand = rand.New(rand.NewSource(*seed))
	}

	outcome, err := session.New(universe, os.Stdin, os.Stdout, cfg).Run()
	if err != nil {
		if errors.Is(err, io.EOF) {
			log.Info().Msg("input closed, exiting")
			return
		}
		log.Fatal().Err(err).Msg("session failed")
	}

	recordOutcome(path, outcome)
}

// recordOutcome appends the finished session to the history DB, if configured.
func recordOutcome(source string, outcome session.Outcome) {
	dsn := getEnv("HISTORY_DB", "")
	if dsn == "" {
		return
	}
	db, err := openHistoryDB(dsn)
	if err != nil {
		log.Warn().Err(err).Str("db", dsn).Msg("open history db")
		return
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = insertSolveRecord(ctx, db, SolveRecord{
		Source:    source,
		Solved:    outcome.Solved,
		Solution:  outcome.Solution,
		Guesses:   outcome.Guesses,
		ElapsedMs: int(outcome.Elapsed.Milliseconds()),
	})
	if err != nil {
		log.Warn().Err(err).Msg("record solve")
	}
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	sample, preview, seed := solveFlags(fs)
	_ = fs.Parse(args)
	path := fs.Arg(0)
	if path == "" {
		usage()
		os.Exit(2)
	}

	universe, err := candidates.LoadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load candidates")
	}
	log.Info().Int("options", universe.Len()).Int("length", universe.Length()).Msg("universe loaded")

	srv := httpserver.New(store.NewMemoryStore(), universe, httpserver.Config{
		SampleSize:   *sample,
		PreviewLimit: *preview,
		Seed:         *seed,
		DailySalt:    getEnv("DAILY_SALT", "nerdle"),
	})
	port := getEnv("PORT", "5176")
	log.Info().Str("port", port).Msg("starting go-solver")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func runGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	_ = fs.Parse(args)
	variant, ok := gen.Variants[fs.Arg(0)]
	if !ok || fs.Arg(1) == "" {
		usage()
		os.Exit(2)
	}
	out := fs.Arg(1)

	f, err := os.Create(out)
	if err != nil {
		log.Fatal().Err(err).Str("file", out).Msg("create output file")
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	start := time.Now()
	count := 0
	gen.Generate(variant.Length, variant.Extended, func(eq string) {
		if count%100000 == 0 {
			log.Info().Int("count", count).Str("eq", eq).Msg("generating")
		}
		count++
		_, _ = w.WriteString(eq)
		_ = w.WriteByte('\n')
	})
	if err := w.Flush(); err != nil {
		log.Fatal().Err(err).Msg("flush output file")
	}
	log.Info().
		Str("variant", variant.Name).
		Int("count", count).
		Dur("elapsed", time.Since(start)).
		Str("file", out).
		Msg("generation complete")
}

func runDaily(args []string) {
	fs := flag.NewFlagSet("daily", flag.ExitOnError)
	dateStr := fs.String("date", "", "puzzle date as YYYY-MM-DD (default today)")
	_ = fs.Parse(args)
	path := fs.Arg(0)
	if path == "" {
		usage()
		os.Exit(2)
	}

	date := time.Now()
	if *dateStr != "" {
		var err error
		date, err = time.Parse("2006-01-02", *dateStr)
		if err != nil {
			log.Fatal().Err(err).Str("date", *dateStr).Msg("bad date")
		}
	}

	universe, err := candidates.LoadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load candidates")
	}
	idx := daily.EquationIndex(date, getEnv("DAILY_SALT", "nerdle"), universe.Len())
	fmt.Printf("%s: %s (option %d of %d)\n", daily.DateKey(date), universe.At(idx), idx+1, universe.Len())
}

func runHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "entries to show")
	_ = fs.Parse(args)

	dsn := getEnv("HISTORY_DB", "")
	if dsn == "" {
		log.Fatal().Msg("HISTORY_DB is not set")
	}
	db, err := openHistoryDB(dsn)
	if err != nil {
		log.Fatal().Err(err).Str("db", dsn).Msg("open history db")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	records, err := recentSolveRecords(ctx, db, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("query history")
	}
	for _, r := range records {
		status := "solved"
		if !r.Solved {
			status = "contradiction"
		}
		fmt.Printf("%s  %-13s %-12s %d guesses  %dms  (%s)\n",
			r.CreatedAt, status, r.Solution, r.Guesses, r.ElapsedMs, r.Source)
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
