package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/anikino/internal/anilist"
	"github.com/mmcdole/anikino/internal/config"
	"github.com/mmcdole/anikino/internal/domain"
	"github.com/mmcdole/anikino/internal/logging"
	"github.com/mmcdole/anikino/internal/player"
	"github.com/mmcdole/anikino/internal/service"
	"github.com/mmcdole/anikino/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// app holds what every command needs once configuration is loaded
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	client   *anilist.Client
	closeLog func() error
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "anikino",
		Short: "Browse the AniList catalog from the terminal",
		Long: `anikino shows trending, popular and top rated anime as scrollable rows,
with a detail panel for each title and trailers handed to your video player.

Listings are configured in ~/.config/anikino/config.yaml.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("anikino needs an interactive terminal; try 'anikino lookup' for scripted use")
			}
			a, err := setup(configFile)
			if err != nil {
				return err
			}
			defer a.close()
			return a.runTUI()
		},
	}
	root.SetVersionTemplate("anikino {{.Version}}\n")
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ~/.config/anikino/config.yaml)")

	root.AddCommand(newLookupCmd(&configFile), newConfigCmd(&configFile))
	return root
}

func newLookupCmd(configFile *string) *cobra.Command {
	var id int

	cmd := &cobra.Command{
		Use:   "lookup [search]",
		Short: "Print one media item by title or AniList id",
		Example: `  anikino lookup "sousou no frieren"
  anikino lookup --id 154587`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vars := anilist.MediaVariables{ID: id, Search: strings.Join(args, " ")}
			if vars.ID == 0 && vars.Search == "" {
				return errors.New("give a search string or --id")
			}

			a, err := setup(*configFile)
			if err != nil {
				return err
			}
			defer a.close()
			catalog := service.NewCatalogService(a.client, a.logger)
			media, err := catalog.Lookup(cmd.Context(), vars)
			if err != nil {
				return err
			}
			printMedia(cmd.OutOrStdout(), media)
			return nil
		},
	}
	cmd.Flags().IntVar(&id, "id", 0, "AniList media id")
	return cmd
}

func newConfigCmd(configFile *string) *cobra.Command {
	var initFile, force bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Example: `  anikino config
  anikino config --init
  anikino -c ./anikino.yaml config --init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initFile {
				path, err := config.InitConfig(*configFile, force)
				if err != nil {
					if errors.Is(err, config.ErrConfigExists) {
						return fmt.Errorf("%w (use --force to overwrite)", err)
					}
					return fmt.Errorf("failed to save config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
				return nil
			}

			cfg, err := loadConfig(*configFile)
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
	cmd.Flags().BoolVar(&initFile, "init", false, "write the default configuration file")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file with --init")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadConfigFile(path)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// setup loads configuration, starts logging and builds the API client
func setup(configFile string) (*app, error) {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.Open(cfg.Logging, Version)
	if err != nil {
		// Run without a log rather than refuse to start
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		logger, closeLog = logging.Discard(), func() error { return nil }
	}
	slog.SetDefault(logger)

	logger.Info("starting anikino", "config", cfg.File, "endpoint", cfg.API.Endpoint)

	return &app{
		cfg:      cfg,
		logger:   logger,
		client:   anilist.NewClient(cfg.API.Endpoint, Version, cfg.API.Timeout, logger),
		closeLog: closeLog,
	}, nil
}

func (a *app) close() {
	if err := a.closeLog(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log: %v\n", err)
	}
}

func (a *app) runTUI() error {
	launcher := player.NewLauncher(a.cfg.Player.Command, a.cfg.Player.Args, a.logger)
	model := tui.NewModel(a.cfg, a.client, launcher, a.logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}

func printMedia(w io.Writer, m domain.Media) {
	fmt.Fprintf(w, "%s\n", m.Title)

	meta := []string{m.MetaLabel()}
	if y := m.YearLabel(); y != "" {
		meta = append(meta, y)
	}
	if m.Format != "" {
		meta = append(meta, m.Format)
	}
	if m.HasScore() {
		meta = append(meta, m.ScoreLabel())
	}
	fmt.Fprintf(w, "%s\n", strings.Join(meta, " · "))

	if len(m.Genres) > 0 {
		fmt.Fprintf(w, "Genres:   %s\n", strings.Join(m.Genres, ", "))
	}
	if m.Status != "" {
		fmt.Fprintf(w, "Status:   %s\n", m.Status)
	}
	if d := m.FormattedDuration(); d != "" {
		fmt.Fprintf(w, "Duration: %s\n", d)
	}
	if url := m.TrailerURL(); url != "" {
		fmt.Fprintf(w, "Trailer:  %s\n", url)
	}
	fmt.Fprintf(w, "AniList:  https://anilist.co/anime/%s\n", m.ID)
	if m.Description != "" {
		fmt.Fprintf(w, "\n%s\n", m.Description)
	}
}

func printConfig(w io.Writer, cfg *config.Config) {
	file := cfg.File
	if file == "" {
		file = "(defaults)"
	}
	fmt.Fprintf(w, "config file: %s\n\n", file)
	fmt.Fprintf(w, "api.endpoint:   %s\n", cfg.API.Endpoint)
	fmt.Fprintf(w, "api.timeout:    %s\n", cfg.API.Timeout)
	fmt.Fprintf(w, "player.command: %s\n", orAuto(cfg.Player.Command))
	if len(cfg.Player.Args) > 0 {
		fmt.Fprintf(w, "player.args:    %s\n", strings.Join(cfg.Player.Args, " "))
	}
	fmt.Fprintf(w, "ui.accent:      %s\n", cfg.UI.Accent)
	fmt.Fprintf(w, "ui.per_page:    %d\n", cfg.UI.PerPage)
	fmt.Fprintf(w, "ui.spotlight:   %t\n", cfg.UI.Spotlight)
	fmt.Fprintf(w, "logging.file:   %s\n", cfg.Logging.File)
	fmt.Fprintf(w, "logging.level:  %s\n", cfg.Logging.Level)

	fmt.Fprintln(w, "\nlistings:")
	for _, l := range cfg.Listings {
		fmt.Fprintf(w, "  %-10s %s", l.Site, l.Headline)
		if len(l.Sort) > 0 {
			fmt.Fprintf(w, "  sort=%s", strings.Join(l.Sort, ","))
		}
		if l.Season != "" {
			fmt.Fprintf(w, "  season=%s", l.Season)
		}
		if l.SeasonYear != 0 {
			fmt.Fprintf(w, "  year=%d", l.SeasonYear)
		}
		if len(l.Genres) > 0 {
			fmt.Fprintf(w, "  genres=%s", strings.Join(l.Genres, ","))
		}
		if len(l.Format) > 0 {
			fmt.Fprintf(w, "  format=%s", strings.Join(l.Format, ","))
		}
		fmt.Fprintln(w)
	}
}

func orAuto(s string) string {
	if s == "" {
		return "(auto-detect)"
	}
	return s
}
