package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"news-detector-app/internal/config"
	"news-detector-app/internal/logging"
	"news-detector-app/internal/modules/detection/domain"
	"news-detector-app/internal/modules/detection/presentation/handler"
	"news-detector-app/internal/modules/shared/infrastructure/model"
	"news-detector-app/internal/presentation/di"
)

// 設定ファイルのパスを指定する環境変数
const configEnv = "NEWS_DETECTOR_CONFIG"

// 空入力時の警告
const emptyInputWarning = "⚠️ Please enter some text."

// newRootCmd CLIのルートコマンド（サブコマンドなしはserve）
func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "news-detector",
		Short:         "Detect fake news with a pretrained text classifier",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $"+configEnv+" or ~/.news-detector/config.yaml)")

	serve := newServeCmd(&configPath)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(
		serve,
		newAnalyzeCmd(&configPath),
		newNormalizeCmd(&configPath),
		newArtifactCmd(),
	)
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(&AppConfig{
				ConfigPath: resolveConfigPath(*configPath),
				Port:       resolvePort(port),
			})
			if err != nil {
				return fmt.Errorf("failed to create app: %w", err)
			}
			return app.Run()
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default $PORT, server.port or 8080)")
	return cmd
}

func newAnalyzeCmd(configPath *string) *cobra.Command {
	var (
		articleURL string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Classify a news text (read from stdin when no text is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, *configPath)
			if err != nil {
				return err
			}

			container, err := di.NewContainer(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = container.Close() }()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var outcome *domain.AnalysisOutcome
			if articleURL != "" {
				outcome, err = container.DetectionUseCase().AnalyzeURL(ctx, articleURL)
			} else {
				text, readErr := inputText(cmd, args)
				if readErr != nil {
					return readErr
				}
				outcome, err = container.DetectionUseCase().Analyze(ctx, text)
			}

			if errors.Is(err, domain.ErrEmptyInput) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), emptyInputWarning)
				return nil
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(handler.NewOutcomeResponse(outcome))
			}
			printOutcome(cmd.OutOrStdout(), outcome)
			return nil
		},
	}
	cmd.Flags().StringVar(&articleURL, "url", "", "fetch and classify the article at this URL")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newNormalizeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [text...]",
		Short: "Print the normalized text the classifier sees",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, *configPath)
			if err != nil {
				return err
			}

			text, err := inputText(cmd, args)
			if err != nil {
				return err
			}

			n := domain.NewNormalizer(domain.WithMarkupFirst(cfg.Normalizer.MarkupFirst))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), n.Normalize(text))
			return err
		},
	}
}

func newArtifactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artifact",
		Short: "Model artifact utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "convert <vectorizer|classifier> <in> <out>",
		Short:     "Validate an artifact and rewrite it (JSON or MessagePack by extension)",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"vectorizer", "classifier"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := model.ConvertArtifact(args[0], args[1], args[2]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[2])
			return nil
		},
	})
	return cmd
}

// setup 設定を読み込みログ出力を標準エラーに向ける
func setup(cmd *cobra.Command, configPath string) (*config.Config, error) {
	cfg, err := loadConfig(resolveConfigPath(configPath))
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format))
	return cfg, nil
}

// loadConfig 設定ファイルを読み込む（存在しなければデフォルト）
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

// resolveConfigPath --config、環境変数、ホームディレクトリの順
func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(configEnv); env != "" {
		return env
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".news-detector", "config.yaml")
}

// resolvePort --port、$PORT の順（どちらもなければ空）
func resolvePort(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv("PORT")
}

// inputText 引数を空白で連結、引数がなければ標準入力を読む
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func printOutcome(w io.Writer, o *domain.AnalysisOutcome) {
	if o.Label.IsFake() {
		_, _ = fmt.Fprintln(w, "❌ FAKE NEWS")
	} else {
		_, _ = fmt.Fprintln(w, "✅ REAL NEWS")
	}
	_, _ = fmt.Fprintf(w, "Fake: %.2f%%  Real: %.2f%%\n", o.FakeProbability*100, o.RealProbability*100)
	_, _ = fmt.Fprintf(w, "Model Confidence: %.2f%%\n", o.ConfidencePercent())
	_, _ = fmt.Fprintf(w, "Words: %d  Characters: %d\n", o.WordCount, o.CharCount)
	_, _ = fmt.Fprintf(w, "Model: %s\n", o.Model)
}
