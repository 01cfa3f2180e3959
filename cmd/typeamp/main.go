// Package main provides the CLI entrypoint for typeamp.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/typeamp/typeamp/internal/config"
	"github.com/typeamp/typeamp/internal/generator"
	"github.com/typeamp/typeamp/internal/model"
	"github.com/typeamp/typeamp/internal/session"
	"github.com/typeamp/typeamp/internal/statsui"
	"github.com/typeamp/typeamp/internal/store"
	"github.com/typeamp/typeamp/internal/tui"
	"github.com/typeamp/typeamp/internal/words"
)

const (
	defaultMode        = "time"
	defaultDuration    = 30
	defaultWords       = 25
	defaultDifficulty  = "normal"
	defaultSource      = "english"
	defaultCurveWindow = 20
	defaultFetchSize   = 1000
)

var (
	practiceMode       string
	practiceDuration   int
	practiceWords      int
	practiceDifficulty string
	practiceSource     string
	practicePunct      bool
	practiceAPIURL     string

	statsSource      string
	statsMode        string
	statsDifficulty  string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsChars       string

	fetchSource string
	fetchSize   int
	fetchForce  bool
	fetchAPIURL string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typeamp",
		Short:         "TUI typing practice",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "game mode: time, words, or quote")
	rootCmd.Flags().IntVar(&practiceDuration, "duration", defaultDuration, "test duration in seconds (time mode)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "word target (words mode)")
	rootCmd.Flags().StringVar(&practiceDifficulty, "difficulty", defaultDifficulty, "difficulty: normal, expert, or master")
	rootCmd.Flags().StringVar(&practiceSource, "source", defaultSource, "word list to practice with")
	rootCmd.Flags().BoolVar(&practicePunct, "punctuation", false, "enhance text with punctuation and numbers")
	rootCmd.Flags().StringVar(&practiceAPIURL, "api-url", "", "word source API base URL")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSourcesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newFetchCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	applyIntConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.Duration)
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyStringConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Practice.Difficulty)
	applyStringConfig(cmd, "source", &practiceSource, fileCfg.Practice.Source)
	applyBoolConfig(cmd, "punctuation", &practicePunct, fileCfg.Practice.Punctuation)
	applyStringConfig(cmd, "api-url", &practiceAPIURL, fileCfg.API.URL)

	cfg := model.TestConfig{
		Mode:        model.Mode(practiceMode),
		Duration:    practiceDuration,
		WordCount:   practiceWords,
		Difficulty:  model.Difficulty(practiceDifficulty),
		TextSource:  practiceSource,
		Punctuation: practicePunct,
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sess := session.New(cfg, resolveProvider(practiceAPIURL), generator.New())
	program := tea.NewProgram(tui.NewModel(sess, st), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveProvider picks the word source: the remote API when a URL is
// configured, otherwise locally fetched word lists.
func resolveProvider(apiURL string) words.Provider {
	if strings.TrimSpace(apiURL) != "" {
		return words.NewClient(apiURL)
	}
	return words.NewFileProvider(config.DefaultWordListDir())
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

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List downloaded word lists",
		Args:  cobra.NoArgs,
		RunE:  runSourcesCmd,
	}
}

func runSourcesCmd(cmd *cobra.Command, _ []string) error {
	wordlistDir := config.DefaultWordListDir()
	entries, err := os.ReadDir(wordlistDir)
	if err != nil {
		if os.IsNotExist(err) {
			logErrf("No word lists found. Download with: typeamp fetch --source <name>\n")
			return fmt.Errorf("word list directory does not exist")
		}
		return fmt.Errorf("failed to read word list directory: %w", err)
	}
	sources := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		sources = append(sources, strings.TrimSuffix(name, ".txt"))
	}
	if len(sources) == 0 {
		logErrf("No word lists found. Download with: typeamp fetch --source <name>\n")
		return fmt.Errorf("no word lists found")
	}
	sort.Strings(sources)
	for _, source := range sources {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), source); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSource, "source", "", "word list filter")
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter (time/words/quote)")
	cmd.Flags().StringVar(&statsDifficulty, "difficulty", "", "difficulty filter (normal/expert/master)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsChars, "keys", "", "keys for per-key curves")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Source:      statsSource,
		Mode:        statsMode,
		Difficulty:  statsDifficulty,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Chars:       statsChars,
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	model := statsui.NewModel(st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download word lists for offline practice",
		RunE:  runFetchCmd,
	}
	cmd.Flags().StringVar(&fetchSource, "source", defaultSource, "word list name")
	cmd.Flags().IntVar(&fetchSize, "size", defaultFetchSize, "number of words")
	cmd.Flags().BoolVar(&fetchForce, "force", false, "overwrite existing files")
	cmd.Flags().StringVar(&fetchAPIURL, "api-url", "", "word source API base URL")
	return cmd
}

func runFetchCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "api-url", &fetchAPIURL, fileCfg.API.URL)
	if strings.TrimSpace(fetchAPIURL) == "" {
		return fmt.Errorf("no API URL configured (use --api-url or set [api] url in config)")
	}

	client := words.NewClient(fetchAPIURL)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	outPath, err := words.Fetch(ctx, client, fetchSource, fetchSize, config.DefaultWordListDir(), fetchForce)
	if err != nil {
		return err
	}
	logErrf("Wrote %s\n", outPath)
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typeamp configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# mode = %q           # Game mode: time, words, or quote
# duration = %d         # Test duration in seconds (time mode)
# words = %d            # Word target (words mode)
# difficulty = %q  # Difficulty: normal, expert, or master
# source = %q     # Word list to practice with
# punctuation = false   # Enhance text with punctuation and numbers

[api]
# url = "http://localhost:8080"  # Word source API base URL
`,
		defaultMode,
		defaultDuration,
		defaultWords,
		defaultDifficulty,
		defaultSource,
	)
}

func validateConfig(cfg model.TestConfig) error {
	switch cfg.Mode {
	case model.ModeTime, model.ModeWords, model.ModeQuote:
	default:
		return fmt.Errorf("--mode must be time, words, or quote")
	}
	switch cfg.Difficulty {
	case model.DifficultyNormal, model.DifficultyExpert, model.DifficultyMaster:
	default:
		return fmt.Errorf("--difficulty must be normal, expert, or master")
	}
	if cfg.Mode == model.ModeTime && cfg.Duration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	if cfg.Mode == model.ModeWords && cfg.WordCount <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if strings.TrimSpace(cfg.TextSource) == "" {
		return fmt.Errorf("--source must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
