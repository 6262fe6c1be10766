// Package main provides the CLI entrypoint for chesscoach.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/chesscoach/internal/coach"
	"github.com/verte-zerg/chesscoach/internal/config"
	"github.com/verte-zerg/chesscoach/internal/difficulty"
	"github.com/verte-zerg/chesscoach/internal/generator"
	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/profile"
	"github.com/verte-zerg/chesscoach/internal/replay"
	"github.com/verte-zerg/chesscoach/internal/session"
	"github.com/verte-zerg/chesscoach/internal/stats"
	"github.com/verte-zerg/chesscoach/internal/statsui"
	"github.com/verte-zerg/chesscoach/internal/store"
	"github.com/verte-zerg/chesscoach/internal/tips"
	"github.com/verte-zerg/chesscoach/internal/tui"
)

const (
	defaultPlayer      = "player"
	defaultColor       = "white"
	defaultStorage     = "json"
	defaultWindow      = difficulty.DefaultWindowSize
	defaultTimeLimit   = 2.0
	defaultIdleSecs    = 120
	defaultCurveWindow = 5
)

const (
	storageJSON   = "json"
	storageSQLite = "sqlite"
)

var (
	verbose        bool
	playerID       string
	playerColor    string
	storageBackend string
	profileDir     string
	dbPath         string
	tipsFile       string
	coachSeed      int64
	levelMin       float64
	levelMax       float64
	levelWindow    int
	timeLimit      float64
	idleSeconds    int

	replayLevel       float64
	replayInteractive bool

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "chesscoach",
		Short:         "Adaptive chess coaching sessions",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	flags.StringVar(&playerID, "player", defaultPlayer, "player id")
	flags.StringVar(&playerColor, "color", defaultColor, "color the player plays (white|black)")
	flags.StringVar(&storageBackend, "storage", defaultStorage, "profile storage backend (json|sqlite)")
	flags.StringVar(&profileDir, "profile-dir", config.DefaultProfileDir(), "directory for JSON profiles")
	flags.StringVar(&dbPath, "db-path", config.DefaultDBPath(), "SQLite database path")
	flags.StringVar(&tipsFile, "tips-file", "", "custom tip pack (default: config dir tips.txt when present)")
	flags.Int64Var(&coachSeed, "seed", 0, "seed for coach randomness (0: time based)")
	flags.Float64Var(&levelMin, "min-level", difficulty.MinLevel, "lowest difficulty level")
	flags.Float64Var(&levelMax, "max-level", difficulty.MaxLevel, "highest difficulty level")
	flags.IntVar(&levelWindow, "window", defaultWindow, "recent moves considered for difficulty")
	flags.Float64Var(&timeLimit, "time-limit", defaultTimeLimit, "engine time limit per move in seconds")
	flags.IntVar(&idleSeconds, "idle-seconds", defaultIdleSecs, "seconds without interaction before disengaged")

	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newTipCmd())
	rootCmd.AddCommand(newPlayersCmd())
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadSettings layers flags over environment over the config file.
func loadSettings(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "player", &playerID, fileCfg.Player.ID)
	applyStringConfig(cmd, "color", &playerColor, fileCfg.Player.Color)
	applyStringConfig(cmd, "storage", &storageBackend, fileCfg.Storage.Backend)
	applyStringConfig(cmd, "profile-dir", &profileDir, fileCfg.Storage.ProfileDir)
	applyStringConfig(cmd, "db-path", &dbPath, fileCfg.Storage.DBPath)
	applyStringConfig(cmd, "tips-file", &tipsFile, fileCfg.Coach.TipsFile)
	applyInt64Config(cmd, "seed", &coachSeed, fileCfg.Coach.Seed)
	applyFloatConfig(cmd, "min-level", &levelMin, fileCfg.Difficulty.Min)
	applyFloatConfig(cmd, "max-level", &levelMax, fileCfg.Difficulty.Max)
	applyIntConfig(cmd, "window", &levelWindow, fileCfg.Difficulty.Window)
	applyFloatConfig(cmd, "time-limit", &timeLimit, fileCfg.Engine.TimeLimit)
	applyIntConfig(cmd, "idle-seconds", &idleSeconds, fileCfg.Coach.IdleSecs)

	color, err := model.ParseColor(playerColor)
	if err != nil {
		return model.Config{}, fmt.Errorf("--color: %w", err)
	}
	cfg := model.Config{
		PlayerID:      strings.TrimSpace(playerID),
		PlayerColor:   color,
		MinLevel:      levelMin,
		MaxLevel:      levelMax,
		WindowSize:    levelWindow,
		TimeLimit:     time.Duration(timeLimit * float64(time.Second)),
		Seed:          coachSeed,
		TipsFile:      tipsFile,
		StorageKind:   strings.ToLower(strings.TrimSpace(storageBackend)),
		ProfileDir:    profileDir,
		DBPath:        dbPath,
		IdleThreshold: time.Duration(idleSeconds) * time.Second,
	}
	if fileCfg.Difficulty.Level != nil {
		level := *fileCfg.Difficulty.Level
		cfg.Level = &level
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if err := profile.ValidatePlayerID(cfg.PlayerID); err != nil {
		return fmt.Errorf("--player: %w", err)
	}
	if cfg.MinLevel < difficulty.MinLevel || cfg.MaxLevel > difficulty.MaxLevel || cfg.MinLevel > cfg.MaxLevel {
		return fmt.Errorf("level bounds must satisfy %g <= min <= max <= %g", difficulty.MinLevel, difficulty.MaxLevel)
	}
	if cfg.Level != nil && (*cfg.Level < cfg.MinLevel || *cfg.Level > cfg.MaxLevel) {
		return fmt.Errorf("level must be between %g and %g", cfg.MinLevel, cfg.MaxLevel)
	}
	if cfg.WindowSize <= 0 {
		return fmt.Errorf("--window must be > 0")
	}
	if cfg.TimeLimit <= 0 {
		return fmt.Errorf("--time-limit must be > 0")
	}
	if cfg.IdleThreshold <= 0 {
		return fmt.Errorf("--idle-seconds must be > 0")
	}
	switch cfg.StorageKind {
	case storageJSON, storageSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q (want %s or %s)", cfg.StorageKind, storageJSON, storageSQLite)
	}
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openRepository returns the configured profile backend and its closer.
func openRepository(cfg model.Config) (profile.Repository, func(), error) {
	if cfg.StorageKind == storageSQLite {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open db: %w", err)
		}
		return st, func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}, nil
	}
	return profile.NewFileRepository(cfg.ProfileDir), func() {}, nil
}

// loadTips reads the configured tip pack. The default location is optional.
func loadTips(cfg model.Config) (*tips.Pack, error) {
	path := cfg.TipsFile
	explicit := path != ""
	if !explicit {
		path = config.DefaultTipsPath()
	}
	pack, err := tips.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load tips: %w", err)
	}
	return &pack, nil
}

func newGenerator(cfg model.Config) *generator.Generator {
	if cfg.Seed != 0 {
		return generator.NewSeeded(cfg.Seed)
	}
	return generator.New()
}

func newOrchestrator(ctx context.Context, engine session.Engine, cfg model.Config, repo profile.Repository, clock session.Clock) (*session.Orchestrator, error) {
	pack, err := loadTips(cfg)
	if err != nil {
		return nil, err
	}
	return session.New(ctx, engine, session.Options{
		PlayerID:      cfg.PlayerID,
		PlayerColor:   cfg.PlayerColor,
		Level:         cfg.Level,
		MinLevel:      cfg.MinLevel,
		MaxLevel:      cfg.MaxLevel,
		WindowSize:    cfg.WindowSize,
		TimeLimit:     cfg.TimeLimit,
		IdleThreshold: cfg.IdleThreshold,
		Repository:    repo,
		Rand:          newGenerator(cfg),
		Tips:          pack,
		Clock:         clock,
		Logger:        newLogger(),
	})
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Replay a recorded game script through a coaching session",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplayCmd,
	}
	cmd.Flags().Float64Var(&replayLevel, "level", 0, "force the starting difficulty level")
	cmd.Flags().BoolVarP(&replayInteractive, "interactive", "i", false, "step through the replay in the TUI")
	return cmd
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	script, err := replay.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load script: %w", err)
	}
	if script.Player != "" && !cmd.Flags().Changed("player") {
		cfg.PlayerID = script.Player
	}
	if script.PlayerColor != model.ColorNone && !cmd.Flags().Changed("color") {
		cfg.PlayerColor = script.PlayerColor
	}
	if cmd.Flags().Changed("level") {
		level := replayLevel
		cfg.Level = &level
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	ctx := cmd.Context()
	board := replay.NewBoard(script)
	if replayInteractive {
		orch, err := newOrchestrator(ctx, board, cfg, repo, nil)
		if err != nil {
			return err
		}
		runner := replay.NewRunner(board, orch, nil)
		program := tea.NewProgram(tui.NewModel(ctx, runner, orch), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		return nil
	}

	clock := replay.NewManualClock(time.Now())
	orch, err := newOrchestrator(ctx, board, cfg, repo, clock)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printer := newEventPrinter(out, stats.UseColor(out))
	if err := replay.NewRunner(board, orch, clock).Run(ctx, printer.print); err != nil {
		return fmt.Errorf("replay stopped: %w", err)
	}
	return printer.err
}

// eventPrinter writes replay events as a plain transcript.
type eventPrinter struct {
	w     io.Writer
	color bool
	err   error
}

var (
	illegalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	engineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
	qualityColors = map[model.MoveQuality]lipgloss.Color{
		model.QualityBlunder:    lipgloss.Color("#FF4D4F"),
		model.QualityMistake:    lipgloss.Color("#FA8C16"),
		model.QualityInaccuracy: lipgloss.Color("#FADB14"),
		model.QualityGood:       lipgloss.Color("#95DE64"),
		model.QualityExcellent:  lipgloss.Color("#52C41A"),
		model.QualityBook:       lipgloss.Color("#69C0FF"),
	}
)

func newEventPrinter(w io.Writer, color bool) *eventPrinter {
	return &eventPrinter{w: w, color: color}
}

func (p *eventPrinter) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p *eventPrinter) println(args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, args...)
}

func (p *eventPrinter) print(ev replay.Event) {
	if ev.Ply.Side == replay.SidePlayer && ev.Move != nil {
		p.printMove(ev)
	} else if ev.AI != nil {
		p.printAI(ev)
	}
	if ev.GameOver() {
		p.println()
	}
}

func (p *eventPrinter) printMove(ev replay.Event) {
	prefix := p.style(headerStyle, fmt.Sprintf("[game %d] you %s", ev.Game, ev.Ply.Move))
	switch {
	case ev.Err != nil && !ev.Move.Legal:
		p.println(prefix, p.style(illegalStyle, "error: "+ev.Err.Error()))
	case !ev.Move.Legal:
		p.println(prefix, p.style(illegalStyle, ev.Move.Error))
	default:
		quality := string(ev.Move.Quality)
		if c, ok := qualityColors[ev.Move.Quality]; ok {
			quality = p.style(lipgloss.NewStyle().Foreground(c), quality)
		}
		p.println(prefix, "("+quality+")", ev.Move.Feedback)
		if ev.Err != nil {
			p.println(p.style(illegalStyle, "warning: "+ev.Err.Error()))
		}
	}
}

func (p *eventPrinter) printAI(ev replay.Event) {
	prefix := p.style(headerStyle, fmt.Sprintf("[game %d] engine", ev.Game))
	if ev.Err != nil {
		p.println(prefix, p.style(illegalStyle, "error: "+ev.Err.Error()))
		return
	}
	p.println(prefix, p.style(engineStyle, fmt.Sprintf("%s (level %d, depth %d, randomness %.2f)",
		ev.AI.Move, ev.Params.SkillLevel, ev.Params.Depth, ev.Params.MoveRandomness)))
	if ev.AI.Summary != "" {
		p.println(ev.AI.Summary)
	}
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the player dashboard",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N games")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the dashboard")
	return cmd
}

func statsConfig(player string) (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	return model.StatsConfig{
		PlayerID:    player,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	sc, err := statsConfig(cfg.PlayerID)
	if err != nil {
		return err
	}
	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	if !statsPlain {
		program := tea.NewProgram(statsui.NewModel(repo, sc), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	out := cmd.OutOrStdout()
	p, err := repo.Load(cmd.Context(), cfg.PlayerID)
	if errors.Is(err, profile.ErrNotFound) {
		_, err = fmt.Fprintf(out, "No games recorded for %s.\n", cfg.PlayerID)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	report := stats.BuildReport(p.GameHistory, p.RatingHistory, sc)
	if err := stats.RenderSummary(out, p.Stats); err != nil {
		return err
	}
	if err := stats.RenderPhaseTable(out, p.Stats); err != nil {
		return err
	}
	if err := stats.RenderGames(out, report.Games); err != nil {
		return err
	}
	return stats.RenderCurves(out, report, 0, 0, stats.UseColor(out))
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the player's profile summary and last session",
		Args:  cobra.NoArgs,
		RunE:  runStatusCmd,
	}
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	ctx, now := cmd.Context(), time.Now()
	p, err := profile.LoadOrCreate(ctx, repo, cfg.PlayerID, now)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	last, err := profile.LoadOrCreateSession(ctx, repo, cfg.PlayerID, now)
	if err != nil {
		return fmt.Errorf("failed to load last session: %w", err)
	}
	level := difficulty.New(difficulty.Seed{Level: cfg.Level, Rating: p.Rating}, cfg.MinLevel, cfg.MaxLevel, cfg.WindowSize)

	sum := p.Summary()
	out := cmd.OutOrStdout()
	lines := []string{
		fmt.Sprintf("Player: %s", sum.PlayerID),
		fmt.Sprintf("Rating: %d", sum.Rating),
		fmt.Sprintf("Games: %d (win rate %.1f%%)", sum.GamesPlayed, sum.WinRate),
		fmt.Sprintf("Starting level: %d", level.Level()),
		fmt.Sprintf("Strengths: %s", joinTags(sum.Strengths)),
		fmt.Sprintf("Weaknesses: %s", joinTags(sum.Weaknesses)),
		fmt.Sprintf("Style: %s", joinTags(sum.Style)),
		"",
		"Last session",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return stats.RenderSummary(out, *last)
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}

func newTipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "Print a coaching tip based on the player's profile",
		Args:  cobra.NoArgs,
		RunE:  runTipCmd,
	}
}

func runTipCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	p, err := profile.LoadOrCreate(cmd.Context(), repo, cfg.PlayerID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	pack, err := loadTips(cfg)
	if err != nil {
		return err
	}
	c := coach.New(newGenerator(cfg))
	if pack != nil {
		for phase, lines := range pack.Phase {
			c.AddTips(phase, lines...)
		}
		c.AddEncouragements(pack.General...)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), c.ProfileTip(p.Strengths, p.FocusAreas()))
	return err
}

func newPlayersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List players with a stored profile",
		Args:  cobra.NoArgs,
		RunE:  runPlayersCmd,
	}
}

func runPlayersCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	ids, err := repo.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list players: %w", err)
	}
	if len(ids) == 0 {
		logErrf("No profiles found. Record one with: chesscoach replay <script>\n")
		return nil
	}
	for _, id := range ids {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), id); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List stored games with their ids (sqlite backend)",
		Args:  cobra.NoArgs,
		RunE:  runGamesCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N games")
	return cmd
}

func runGamesCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cfg.StorageKind != storageSQLite {
		return fmt.Errorf("games requires --storage %s; use stats --plain for JSON profiles", storageSQLite)
	}
	sc, err := statsConfig(cfg.PlayerID)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	games, err := st.ListGames(cmd.Context(), sc)
	if err != nil {
		return fmt.Errorf("failed to list games: %w", err)
	}
	if sc.Last > 0 && len(games) > sc.Last {
		games = games[len(games)-sc.Last:]
	}
	out := cmd.OutOrStdout()
	if len(games) == 0 {
		_, err := fmt.Fprintln(out, "No games found.")
		return err
	}
	headers := append([]string{"ID"}, stats.GameHeaders...)
	headers = append(headers, "Rating")
	rows := make([][]string, 0, len(games))
	for i := len(games) - 1; i >= 0; i-- {
		g := games[i]
		row := append([]string{g.ID}, stats.GameRows([]model.GameRecord{g.Record})[0]...)
		rows = append(rows, append(row, fmt.Sprintf("%.0f", g.RatingAfter)))
	}
	rightAlign := map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true, 8: true}
	return stats.RenderTable(out, "Games", headers, rows, rightAlign)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# chesscoach configuration
# Uncomment a value to enable it. CLI flags and CHESSCOACH_* variables override config values.

[player]
# id = %q              # Player id (profile name)
# color = %q            # Color the player plays (white|black)

[difficulty]
# level = 10.0              # Force the starting level (default: from rating)
# min = %.1f                # Lowest level
# max = %.1f               # Highest level
# window = %d               # Recent moves considered

[engine]
# time-limit = %.1f         # Seconds per engine move

[coach]
# seed = 0                  # Fixed seed for reproducible feedback (0: time based)
# tips-file = %q
# idle-seconds = %d        # Seconds without interaction before disengaged

[storage]
# backend = %q           # json or sqlite
# profile-dir = %q
# db-path = %q
`,
		defaultPlayer,
		defaultColor,
		difficulty.MinLevel,
		difficulty.MaxLevel,
		defaultWindow,
		defaultTimeLimit,
		config.DefaultTipsPath(),
		defaultIdleSecs,
		defaultStorage,
		config.DefaultProfileDir(),
		config.DefaultDBPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
