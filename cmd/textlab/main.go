// Command textlab runs the toolkit's demonstrations from the command
// line: each subcommand prints what one primitive does on the sample
// texts or on the corpora under the data directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cours-de-latin/textlab"
	"github.com/cours-de-latin/textlab/internal/config"
	"github.com/cours-de-latin/textlab/internal/logging"
)

var (
	// Global flags
	configPath string
	dataDir    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger

	toolkit *textlab.Toolkit
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var rootCmd = &cobra.Command{
	Use:   "textlab",
	Short: "Natural language processing demonstrations",
	Long: `textlab prints what each text-processing primitive does:
tokenization, stopwords, stemming, contraction and repeat replacement,
collocations, part-of-speech tagging, chunking, classification, WordNet
lookups and chunk transformations.

Corpora are read from the data directory (--data or data_dir in the
configuration file). Trained models are written to models_dir and can be
kept in the model store with "textlab models".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "textlab.yaml", "Configuration file")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data", "d", "", "Corpora directory (overrides data_dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(stopwordsCmd)
	rootCmd.AddCommand(stemCmd)
	rootCmd.AddCommand(contractionsCmd)
	rootCmd.AddCommand(repeatsCmd)
	rootCmd.AddCommand(collocationsCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(chunkCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(synsetsCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(treesCmd)
	rootCmd.AddCommand(modelsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadToolkit opens the data directory once per run.
func loadToolkit() (*textlab.Toolkit, error) {
	if toolkit != nil {
		return toolkit, nil
	}
	logger.Debug("Loading toolkit", zap.String("data_dir", cfg.DataDir))
	tk, err := textlab.New(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load toolkit: %w", err)
	}
	toolkit = tk
	return tk, nil
}

// modelPath returns where a model called name is written.
func modelPath(name string) (string, error) {
	if err := os.MkdirAll(cfg.ModelsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create models directory: %w", err)
	}
	return filepath.Join(cfg.ModelsDir, name+".gob"), nil
}

func heading(title string) {
	fmt.Println()
	fmt.Println(headingStyle.Render(title))
}

func note(format string, args ...any) {
	fmt.Println(subtleStyle.Render(fmt.Sprintf(format, args...)))
}

func quoteList(words []string) string {
	q := make([]string, len(words))
	for i, w := range words {
		q[i] = "'" + w + "'"
	}
	return "[" + strings.Join(q, ", ") + "]"
}
