// Package main provides the CLI entrypoint for typlap.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typlap/internal/audio"
	"github.com/verte-zerg/typlap/internal/config"
	"github.com/verte-zerg/typlap/internal/generator"
	"github.com/verte-zerg/typlap/internal/logutil"
	"github.com/verte-zerg/typlap/internal/model"
	"github.com/verte-zerg/typlap/internal/store"
	"github.com/verte-zerg/typlap/internal/translit"
	"github.com/verte-zerg/typlap/internal/tui"
	"github.com/verte-zerg/typlap/internal/wordlist"
)

const (
	defaultText     = "en"
	defaultLogLevel = "info"
)

var (
	practiceText  string
	practiceFile  string
	practiceSound bool
	practiceSeed  int64

	logLevel string
	logFile  string

	importName string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typlap",
		Short:         "Terminal typing practice with pinyin support",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceText, "text", defaultText, "built-in or imported vocabulary name")
	rootCmd.Flags().StringVar(&practiceFile, "file", "", "vocabulary file (overrides --text)")
	rootCmd.Flags().BoolVar(&practiceSound, "sound", false, "ring the terminal bell on every keystroke")
	rootCmd.Flags().Int64Var(&practiceSeed, "seed", 0, "fixed shuffle seed (0 = random)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", config.DefaultLogPath(), "log file path (empty disables logging)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newTextsCmd())
	rootCmd.AddCommand(newImportCmd())

	return rootCmd
}

func loadSettings(cmd *cobra.Command) (model.Config, model.LogConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, model.LogConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "text", &practiceText, fileCfg.Practice.Text)
	applyStringConfig(cmd, "file", &practiceFile, fileCfg.Practice.File)
	applyBoolConfig(cmd, "sound", &practiceSound, fileCfg.Practice.Sound)
	applyInt64Config(cmd, "seed", &practiceSeed, fileCfg.Practice.Seed)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)

	cfg := model.Config{
		Text:  strings.TrimSpace(practiceText),
		File:  strings.TrimSpace(practiceFile),
		Sound: practiceSound,
		Seed:  practiceSeed,
	}
	logCfg := model.LogConfig{Level: logLevel, File: logFile}
	if cfg.Text == "" && cfg.File == "" {
		return cfg, logCfg, fmt.Errorf("--text must not be empty")
	}
	return cfg, logCfg, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	cfg, logCfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(logCfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := probeTerminal(); err != nil {
		return err
	}

	tr := translit.New()
	words, err := resolveWords(cmd.Context(), cfg, tr)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load vocabulary")
		return err
	}
	logger.Info().
		Str("text", cfg.Text).
		Str("file", cfg.File).
		Int("words", len(words)).
		Msg("starting practice")

	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewSeeded(cfg.Seed)
	}

	var cue audio.Cue = audio.Nop{}
	if cfg.Sound {
		bell := audio.NewBell(os.Stdout)
		defer bell.Close()
		cue = bell
	}

	m := tui.NewModel(tui.Options{
		Words:          words,
		Generator:      gen,
		Transliterator: tr,
		Cue:            cue,
		Logger:         logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return err
	}
	return nil
}

func newLogger(cfg model.LogConfig) (zerolog.Logger, func(), error) {
	logger, closer, err := logutil.New(cfg.Level, cfg.File)
	if err != nil {
		return zerolog.Logger{}, closer, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, closer, nil
}

// probeTerminal rejects non-interactive output and terminals that are too
// small before the alternate screen is entered.
func probeTerminal() error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("typlap needs an interactive terminal")
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return fmt.Errorf("failed to read terminal size: %w", err)
	}
	return tui.CheckViewport(cols, rows)
}

// resolveWords loads the vocabulary: an explicit file first, then an
// imported text, then a built-in one.
func resolveWords(ctx context.Context, cfg model.Config, tr *translit.Transformer) ([]string, error) {
	words, err := lookupWords(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := tr.Validate(words); err != nil {
		return nil, fmt.Errorf("vocabulary cannot be transliterated: %w", err)
	}
	return words, nil
}

func lookupWords(ctx context.Context, cfg model.Config) ([]string, error) {
	if cfg.File != "" {
		words, err := wordlist.LoadWords(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load vocabulary file %s: %w", cfg.File, err)
		}
		return words, nil
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	words, err := st.LoadTokens(ctx, cfg.Text)
	switch {
	case err == nil:
		return words, nil
	case !errors.Is(err, store.ErrTextNotFound):
		return nil, fmt.Errorf("failed to load text %q: %w", cfg.Text, err)
	}
	if words, ok := wordlist.Builtin(cfg.Text); ok {
		return words, nil
	}
	return nil, fmt.Errorf("unknown text %q (run: typlap texts)", cfg.Text)
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
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newTextsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "texts",
		Short: "List built-in and imported vocabularies",
		Args:  cobra.NoArgs,
		RunE:  runTextsCmd,
	}
}

func runTextsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	imported, err := st.ListTexts(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list texts: %w", err)
	}
	return writeTexts(cmd.OutOrStdout(), wordlist.BuiltinNames(), imported)
}

func writeTexts(out io.Writer, builtin []string, imported []model.TextInfo) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, name := range builtin {
		fmt.Fprintf(w, "%s\tbuilt-in\n", name)
	}
	for _, info := range imported {
		fmt.Fprintf(w, "%s\t%d words\t%s\n", info.Name, info.Tokens, info.ImportedAt.Local().Format("2006-01-02 15:04"))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a vocabulary file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importName, "name", "", "name to store the vocabulary under (default: file name)")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	path := args[0]
	name := strings.TrimSpace(importName)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	words, err := wordlist.LoadWords(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	if err := translit.New().Validate(words); err != nil {
		return fmt.Errorf("refusing to import %s: %w", path, err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info := model.TextInfo{Name: name, SourcePath: abs, Tokens: len(words), ImportedAt: time.Now()}
	if err := st.SaveText(cmd.Context(), info, words); err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d words as %q\n", len(words), name); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
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

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
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
	return fmt.Sprintf(`# typlap configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# text = %q               # Built-in or imported vocabulary (see: typlap texts)
# file = ""               # Vocabulary file, overrides text
# sound = false           # Ring the terminal bell on every keystroke
# seed = 0                # Fixed shuffle seed, 0 for random

[log]
# level = %q           # debug, info, warn, error
# file = %q
`,
		defaultText,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	// Best-effort logging to stderr.
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}
