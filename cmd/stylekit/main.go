package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shouni/style-image-kit/pkg/config"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

const aboutText = `style-image-kit
ローカル画像とスタイル指定を imagine API に送り、変換結果をプレビュー・保存します。

1. 元画像をアップロードしてスタイルを入力する
2. imagine API で新しい画像を生成する（直前の結果を image_id で連鎖できる）
3. 結果をプレビューし、ファイルに保存する`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !isSilent(err) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "stylekit",
		Short:         "画像をスタイル指定で変換する imagine API クライアント",
		Long:          aboutText,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		newSessionCmd(),
	)
	return rootCmd
}

// loadConfig は設定を読み込み、ログの出力レベルを反映します。
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return cfg, nil
}
