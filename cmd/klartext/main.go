// Package main provides the CLI entrypoint for klartext.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sorenwolf/klartext/internal/alphabet"
	"github.com/sorenwolf/klartext/internal/analysis"
	"github.com/sorenwolf/klartext/internal/cipher"
	"github.com/sorenwolf/klartext/internal/config"
	"github.com/sorenwolf/klartext/internal/lang"
	"github.com/sorenwolf/klartext/internal/model"
	"github.com/sorenwolf/klartext/internal/report"
	"github.com/sorenwolf/klartext/internal/store"
	"github.com/sorenwolf/klartext/internal/tui"
)

const (
	defaultLang     = "en"
	defaultCipher   = analysis.CipherCaesar
	defaultAlphabet = "latin"
)

var (
	rootLang     string
	rootCipher   string
	rootAlphabet string
	rootInput    string
	rootMaxKey   int
	rootWorkers  int

	transformKey      string
	transformInput    string
	transformOutput   string
	transformCipher   string
	transformAlphabet string
	transformBytes    bool

	breakCipher   string
	breakLang     string
	breakAlphabet string
	breakInput    string
	breakMaxKey   int
	breakWorkers  int

	historyOp     string
	historyCipher string
	historyLast   int
	historySince  string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "klartext [text]",
		Short:         "Classical cipher workbench",
		Long:          "Encrypt, decrypt, and break Caesar and Vigenère ciphers.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runWorkbenchCmd,
	}

	rootCmd.Flags().StringVar(&rootLang, "lang", defaultLang, "reference language for breaking")
	rootCmd.Flags().StringVar(&rootCipher, "cipher", defaultCipher, "cipher (caesar or vigenere)")
	rootCmd.Flags().StringVar(&rootAlphabet, "alphabet", "auto", "alphabet (auto, latin, latin-digits, printable, or custom symbols)")
	rootCmd.Flags().StringVarP(&rootInput, "input", "i", "", "input file (default: text argument)")
	rootCmd.Flags().IntVar(&rootMaxKey, "max-key-len", 0, "maximum Vigenère key length to try (0 = auto)")
	rootCmd.Flags().IntVar(&rootWorkers, "workers", 0, "parallel search workers (0 = all CPUs)")

	rootCmd.AddCommand(newTransformCmd(model.OpEncrypt))
	rootCmd.AddCommand(newTransformCmd(model.OpDecrypt))
	rootCmd.AddCommand(newBreakCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runWorkbenchCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &rootLang, fileCfg.Defaults.Lang)
	applyStringConfig(cmd, "cipher", &rootCipher, fileCfg.Defaults.Cipher)
	applyStringConfig(cmd, "alphabet", &rootAlphabet, fileCfg.Defaults.Alphabet)
	applyIntConfig(cmd, "max-key-len", &rootMaxKey, fileCfg.Break.MaxKeyLen)
	applyIntConfig(cmd, "workers", &rootWorkers, fileCfg.Break.Workers)

	if err := validateCipher(rootCipher); err != nil {
		return err
	}

	var text string
	switch {
	case rootInput != "":
		data, err := os.ReadFile(rootInput)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		text = string(data)
	case len(args) == 1:
		text = args[0]
	default:
		return fmt.Errorf("no input: pass text as an argument or use --input")
	}

	profile, err := lang.Load(rootLang)
	if err != nil {
		return err
	}
	alpha, err := resolveAlphabet(rootAlphabet, text)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open history db: %v\n", err)
		st = nil
	} else {
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}

	cfg := model.Config{
		Lang:      rootLang,
		Cipher:    rootCipher,
		Alphabet:  rootAlphabet,
		MaxKeyLen: rootMaxKey,
		Workers:   rootWorkers,
	}
	workbench := tui.NewModel(cfg, st, profile, alpha, text)
	program := tea.NewProgram(workbench, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newTransformCmd(op string) *cobra.Command {
	short := "Encrypt a file or stdin"
	if op == model.OpDecrypt {
		short = "Decrypt a file or stdin"
	}
	cmd := &cobra.Command{
		Use:   op,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTransformCmd(cmd, op)
		},
	}
	cmd.Flags().StringVarP(&transformKey, "key", "k", "", "cipher key (required)")
	cmd.Flags().StringVarP(&transformInput, "input", "i", "", "input file (default: stdin)")
	cmd.Flags().StringVarP(&transformOutput, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&transformCipher, "cipher", "f", defaultCipher, "cipher (caesar or vigenere)")
	cmd.Flags().StringVar(&transformAlphabet, "alphabet", defaultAlphabet, "alphabet (latin, latin-digits, printable, or custom symbols)")
	cmd.Flags().BoolVar(&transformBytes, "bytes", false, "treat input as raw bytes over the 256-value alphabet")
	if err := cmd.MarkFlagRequired("key"); err != nil {
		panic(err)
	}
	return cmd
}

func runTransformCmd(cmd *cobra.Command, op string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "cipher", &transformCipher, fileCfg.Defaults.Cipher)
	applyStringConfig(cmd, "alphabet", &transformAlphabet, fileCfg.Defaults.Alphabet)

	if err := validateCipher(transformCipher); err != nil {
		return err
	}

	data, err := readInput(transformInput)
	if err != nil {
		return err
	}

	var out []byte
	if transformBytes {
		out, err = transformBytesMode(data, op)
	} else {
		out, err = transformTextMode(string(data), op)
	}
	if err != nil {
		return err
	}

	if err := writeOutput(transformOutput, out); err != nil {
		return err
	}

	recordOperation(model.HistoryRecord{
		At:       time.Now(),
		Op:       op,
		Cipher:   transformCipher,
		Lang:     "",
		Key:      transformKey,
		InputLen: inputSymbols(data, transformBytes),
	})
	return nil
}

// inputSymbols counts the symbols a transform processes: runes in text
// mode, bytes in byte mode. History records use this unit throughout.
func inputSymbols(data []byte, bytesMode bool) int {
	if bytesMode {
		return len(data)
	}
	return len([]rune(string(data)))
}

func transformTextMode(text, op string) ([]byte, error) {
	alpha, err := resolveAlphabet(transformAlphabet, text)
	if err != nil {
		return nil, err
	}
	var out string
	if transformCipher == analysis.CipherVigenere {
		if op == model.OpEncrypt {
			out, err = cipher.VigenereEncrypt(text, transformKey, alpha)
		} else {
			out, err = cipher.VigenereDecrypt(text, transformKey, alpha)
		}
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	}
	shift, err := cipher.ParseCaesarKey(transformKey, alpha)
	if err != nil {
		return nil, err
	}
	if op == model.OpEncrypt {
		out = cipher.CaesarEncrypt(text, shift, alpha)
	} else {
		out = cipher.CaesarDecrypt(text, shift, alpha)
	}
	return []byte(out), nil
}

func transformBytesMode(data []byte, op string) ([]byte, error) {
	if transformCipher == analysis.CipherVigenere {
		if op == model.OpEncrypt {
			return cipher.ByteVigenereEncrypt(data, []byte(transformKey))
		}
		return cipher.ByteVigenereDecrypt(data, []byte(transformKey))
	}
	shift, err := byteShiftKey(transformKey)
	if err != nil {
		return nil, err
	}
	if op == model.OpEncrypt {
		return cipher.ByteCaesarEncrypt(data, shift), nil
	}
	return cipher.ByteCaesarDecrypt(data, shift), nil
}

// byteShiftKey folds a byte-mode Caesar key: a number, or the sum of
// the key's bytes.
func byteShiftKey(key string) (int, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return 0, fmt.Errorf("%w: key is empty", cipher.ErrInvalidKey)
	}
	if shift, err := strconv.Atoi(key); err == nil {
		return shift, nil
	}
	sum := 0
	for _, b := range []byte(key) {
		sum = (sum + int(b)) % 256
	}
	return sum, nil
}

func newBreakCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break",
		Short: "Recover the key of a ciphertext",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBreakCmd,
	}
	cmd.Flags().StringVarP(&breakCipher, "cipher", "f", defaultCipher, "cipher to break (caesar or vigenere)")
	cmd.Flags().StringVar(&breakLang, "lang", defaultLang, "reference language")
	cmd.Flags().StringVar(&breakAlphabet, "alphabet", "auto", "alphabet (auto, latin, latin-digits, printable, or custom symbols)")
	cmd.Flags().StringVarP(&breakInput, "input", "i", "", "input file (default: text argument or stdin)")
	cmd.Flags().IntVar(&breakMaxKey, "max-key-len", 0, "maximum Vigenère key length to try (0 = auto)")
	cmd.Flags().IntVar(&breakWorkers, "workers", 0, "parallel search workers (0 = all CPUs)")
	return cmd
}

func runBreakCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &breakLang, fileCfg.Defaults.Lang)
	applyStringConfig(cmd, "alphabet", &breakAlphabet, fileCfg.Defaults.Alphabet)
	applyIntConfig(cmd, "max-key-len", &breakMaxKey, fileCfg.Break.MaxKeyLen)
	applyIntConfig(cmd, "workers", &breakWorkers, fileCfg.Break.Workers)

	if err := validateCipher(breakCipher); err != nil {
		return err
	}

	var text string
	switch {
	case breakInput != "":
		data, err := os.ReadFile(breakInput)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		text = string(data)
	case len(args) == 1:
		text = args[0]
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	profile, err := lang.Load(breakLang)
	if err != nil {
		return err
	}
	alpha, err := resolveAlphabet(breakAlphabet, text)
	if err != nil {
		return err
	}

	// Ctrl-C aborts the candidate search instead of killing the
	// process mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := analysis.Options{MaxKeyLen: breakMaxKey, Workers: breakWorkers}
	var result analysis.Result
	if breakCipher == analysis.CipherVigenere {
		result, err = analysis.BreakVigenere(ctx, text, profile, alpha, opts)
	} else {
		result, err = analysis.BreakCaesar(ctx, text, profile, alpha, opts)
	}
	if err != nil {
		return err
	}

	if err := report.RenderBreak(cmd.OutOrStdout(), result, profile, alpha); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	recordOperation(model.HistoryRecord{
		At:            time.Now(),
		Op:            model.OpBreak,
		Cipher:        result.Cipher,
		Lang:          breakLang,
		Key:           result.Key,
		Distance:      &result.Distance,
		LowConfidence: result.LowConfidence,
		InputLen:      len([]rune(text)),
	})
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available language profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			codes := lang.List()
			if len(codes) == 0 {
				return fmt.Errorf("no language profiles found")
			}
			for _, code := range codes {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), code); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded operations",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyOp, "op", "", "filter by operation (encrypt, decrypt, break)")
	cmd.Flags().StringVar(&historyCipher, "cipher", "", "filter by cipher")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N records")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
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

	records, err := st.ListRecords(context.Background(), model.HistoryFilter{
		Op:     historyOp,
		Cipher: historyCipher,
		Since:  sinceTime,
		Last:   historyLast,
	})
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	return report.RenderHistory(cmd.OutOrStdout(), records)
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

func resolveAlphabet(name, text string) (alphabet.Alphabet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return alphabet.Guess(text), nil
	case "latin":
		return alphabet.Latin, nil
	case "latin-digits":
		return alphabet.LatinDigits, nil
	case "printable":
		return alphabet.Printable, nil
	default:
		a, err := alphabet.FromString(name)
		if err != nil {
			return alphabet.Alphabet{}, fmt.Errorf("invalid --alphabet: %w", err)
		}
		return a, nil
	}
}

func validateCipher(name string) error {
	switch name {
	case analysis.CipherCaesar, analysis.CipherVigenere:
		return nil
	default:
		return fmt.Errorf("unknown cipher %q (expected caesar or vigenere)", name)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// recordOperation appends to the history db, best-effort: a broken
// history store never fails the operation itself.
func recordOperation(rec model.HistoryRecord) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open history db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if _, err := st.InsertRecord(context.Background(), rec); err != nil {
		logErrf("failed to record operation: %v\n", err)
	}
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# klartext configuration
# Uncomment a value to enable it. CLI flags override config values.

[defaults]
# lang = %q          # Reference language for breaking
# cipher = %q      # Default cipher
# alphabet = "auto"    # Alphabet: auto, latin, latin-digits, printable

[break]
# max-key-len = 20     # Maximum Vigenère key length to try
# workers = 0          # Parallel search workers (0 = all CPUs)
`,
		defaultLang,
		defaultCipher,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
