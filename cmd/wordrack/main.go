package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jask/wordrack/internal/authority"
	"github.com/jask/wordrack/internal/config"
	"github.com/jask/wordrack/internal/history"
	"github.com/jask/wordrack/internal/logging"
	"github.com/jask/wordrack/internal/render"
	"github.com/jask/wordrack/internal/session"
	"github.com/jask/wordrack/internal/tui"
)

func main() {
	writeConfig := flag.Bool("write-config", false, "write the effective config to the config path and exit")
	showStats := flag.Bool("stats", false, "print the game history record and exit")
	resetHistory := flag.Bool("reset-history", false, "delete every recorded game and exit")
	printKeys := flag.Bool("print-keys", false, "print the key bindings in keys file format and exit")
	flag.Parse()

	// a .env next to the binary may carry WORDRACK_* overrides
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *writeConfig {
		if err := config.Save(cfg); err != nil {
			log.Fatalf("save config: %v", err)
		}
		fmt.Println(config.Path())
		return
	}

	keys := tui.NewKeyRegistry()
	overrides, err := tui.LoadKeyOverrides(cfg.UI.KeysFile)
	if err != nil {
		log.Fatalf("keys: %v", err)
	}
	if err := keys.ApplyKeybindingConfig(overrides); err != nil {
		log.Fatalf("keys: %v", err)
	}
	if *printKeys {
		if err := keys.WriteKeyBindings(os.Stdout); err != nil {
			log.Fatalf("print keys: %v", err)
		}
		return
	}

	logger, closer, err := logging.Setup(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer closer.Close()

	var journal *history.Journal
	if cfg.History.Enabled {
		journal, err = history.Open(cfg.History.Path, logger)
		if err != nil {
			log.Fatalf("history: %v", err)
		}
		defer journal.Close()
	}

	if *showStats || *resetHistory {
		if journal == nil {
			log.Fatalf("history is disabled")
		}
		if err := runHistoryCommand(ctx, journal, *resetHistory); err != nil {
			log.Fatalf("history: %v", err)
		}
		return
	}

	opts := session.DefaultOptions()
	opts.Pacing = session.Pacing{
		AfterPlay:     cfg.Pacing.AfterPlay,
		AfterPass:     cfg.Pacing.AfterPass,
		AfterExchange: cfg.Pacing.AfterExchange,
	}
	opts.Watchdog = cfg.Authority.Watchdog
	opts.AnnouncementTTL = cfg.UI.AnnouncementTTL
	opts.MessageTTL = cfg.UI.MessageTTL
	opts.PassThreshold = cfg.UI.PassThreshold
	opts.AlwaysAllowPass = cfg.UI.AlwaysAllowPass

	client := authority.NewClient(cfg.Authority.BaseURL, cfg.Authority.Timeout)

	// interfaces stay nil when the journal is off
	var rec session.Recorder
	var stats tui.StatsSource
	if journal != nil {
		rec, stats = journal, journal
	}

	s := session.New(ctx, client, opts, rec, logger)
	app := tui.New(ctx, s, tui.Options{
		Renderer: render.Renderer{PassThreshold: cfg.UI.PassThreshold, AlwaysAllowPass: cfg.UI.AlwaysAllowPass},
		Keys:     keys,
		Stats:    stats,
		Log:      logger,
	})

	logger.Info().Str("authority", cfg.Authority.BaseURL).Bool("history", journal != nil).Msg("starting")
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("program exited")
		fmt.Printf("error: %v\n", err)
	}
}

func runHistoryCommand(ctx context.Context, j *history.Journal, reset bool) error {
	if reset {
		if err := j.Reset(ctx); err != nil {
			return err
		}
		fmt.Println("historial borrado")
		return nil
	}
	st, err := j.Stats(ctx)
	if err != nil {
		return err
	}
	printStats(st)
	return nil
}

func printStats(st history.Stats) {
	fmt.Printf("partidas:     %d (%s)\n", st.Games, st.Record())
	fmt.Printf("récord:       %d\n", st.HighScore)
	if st.BestWord != "" {
		fmt.Printf("mejor jugada: %s (%d)\n", st.BestWord, st.BestPoints)
	}
	fmt.Printf("pases:        %d\n", st.Passes)
	fmt.Printf("cambios:      %d\n", st.Exchanges)
	if st.LastFinished != nil {
		fmt.Printf("última:       %s\n", st.LastFinished.Local().Format("2006-01-02 15:04"))
	}
}
