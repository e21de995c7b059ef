package main

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/DaanHessen/stagger-tui/internal/store"
	"github.com/DaanHessen/stagger-tui/internal/ui"
	"github.com/DaanHessen/stagger-tui/internal/util"
)

var (
	version      = "0.1.0-alpha"
	seedAlphabet = base32.NewEncoding("abcdefghijklmnopqrstuvwxyz234567").WithPadding(base32.NoPadding)
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	seedFlag := flag.String("seed", os.Getenv("STAGGER_SEED"), "Feed seed string (random if omitted)")
	dsn := flag.String("dsn", os.Getenv("DATABASE_URL"), "PostgreSQL DSN (empty disables saved viewports)")
	theme := flag.String("theme", os.Getenv("STAGGER_THEME"), "Theme: catppuccin|dracula|gruvbox|solarized_dark")
	items := flag.Int("items", envInt("STAGGER_ITEMS", 120), "Number of cards in the feed")
	columns := flag.Int("columns", 0, "Fixed column count (0 follows the terminal width)")
	margin := flag.Int("margin", 1, "Rows and cells between cards")
	logFile := flag.String("log", os.Getenv("STAGGER_LOG"), "Write debug log to this file")
	migrations := flag.String("migrations", "", "Migrations directory (default ./db/migrations)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "stagger [--seed s] [--dsn DSN] [--theme name] [--items n] [--columns n] [--margin n] [--log file] | migrate up|down | version\n")
	}
	flag.Parse()

	args := flag.Args()
	if len(args) > 0 {
		switch args[0] {
		case "version":
			fmt.Println("stagger", version)
			return
		case "migrate":
			if len(args) < 2 {
				log.Fatal("migrate requires 'up' or 'down'")
			}
			migrator, err := store.NewMigrator(*dsn, *migrations)
			if err != nil {
				log.Fatal(err)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			switch args[1] {
			case "up":
				if err := migrator.Up(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
					log.Fatal(err)
				}
				fmt.Println("Migrations applied")
			case "down":
				if err := migrator.Down(ctx); err != nil && !errors.Is(err, store.ErrNoChange) {
					log.Fatal(err)
				}
				fmt.Println("Migrations rolled back")
			default:
				log.Fatal("unknown migrate action; use up|down")
			}
			return
		default:
			flag.Usage()
			os.Exit(2)
		}
	}

	seedText := strings.TrimSpace(*seedFlag)
	if seedText == "" {
		generated, err := generateSeed()
		if err != nil {
			log.Fatalf("failed to generate seed: %v", err)
		}
		seedText = generated
	}

	cfg := util.Config{
		DSN:     *dsn,
		Seed:    seedText,
		Theme:   *theme,
		Items:   *items,
		Columns: *columns,
		Margin:  *margin,
		LogFile: *logFile,
	}

	// The alt screen owns the terminal, so the log goes to a file or nowhere.
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "stagger")
		if err != nil {
			log.Fatalf("failed to open log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	log.Printf("starting seed=%s items=%d", cfg.Seed, cfg.Items)

	ctx := context.Background()
	var db *store.DB
	if cfg.Persist() {
		mig, err := store.NewMigrator(cfg.DSN, *migrations)
		if err != nil {
			fatal("migrations init failed: %v", err)
		}
		migCtx, cancelMig := context.WithTimeout(ctx, 30*time.Second)
		defer cancelMig()
		if err := mig.Up(migCtx); err != nil && !errors.Is(err, store.ErrNoChange) {
			fatal("migrations failed: %v", err)
		}
		db, err = store.Open(ctx, cfg)
		if err != nil {
			fatal("failed to open database: %v", err)
		}
		defer db.Close()
	}

	if err := ui.Run(ctx, db, cfg, version); err != nil {
		fatal("%v", err)
	}
}

// fatal reports to stderr even when the log is discarded.
func fatal(format string, args ...any) {
	log.Printf(format, args...)
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func generateSeed() (string, error) {
	buf := make([]byte, 15) // 24 characters base32
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToLower(seedAlphabet.EncodeToString(buf)), nil
}
