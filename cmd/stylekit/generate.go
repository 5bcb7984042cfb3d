package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		imagePath   string
		style       string
		outPath     string
		previewPath string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "元画像をスタイル指定で一度だけ変換する",
		Example: `  stylekit generate --image photo.png --style "line art" --out result.png
  STYLEKIT_UPLOAD_MODE=reference stylekit generate --style "watercolor"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			a.presenter.SetPreviewPath(previewPath)
			return a.generateOnce(cmd.Context(), imagePath, style, outPath)
		},
	}

	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "元画像のパス (png, jpg, jpeg, webp, bmp)")
	cmd.Flags().StringVarP(&style, "style", "s", "", "スタイル指定")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "生成画像の保存先")
	cmd.Flags().StringVar(&previewPath, "preview", "", "縮小プレビューを PNG で書き出すパス")
	return cmd
}

// generateOnce は読み込み・生成・保存を順に行います。
// エラーは Presenter に表示済みのため、終了コード用にまとめて返します。
func (a *app) generateOnce(ctx context.Context, imagePath, style, outPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var imageData []byte
	if imagePath != "" {
		upload, err := a.loader.Load(ctx, imagePath)
		if err != nil {
			return fmt.Errorf("元画像の読み込みに失敗しました: %w", err)
		}
		imageData = upload.Data
	}

	task, err := a.coordinator.Submit(ctx, style, imageData)
	if err != nil {
		return errSilent{err}
	}
	<-task.Done()
	if err := task.Err(); err != nil {
		return errSilent{err}
	}

	if outPath != "" {
		if err := a.coordinator.Save(ctx, outPath); err != nil {
			return errSilent{err}
		}
	}
	return nil
}

// errSilent は既に表示済みのエラーを表します。
type errSilent struct{ err error }

func (e errSilent) Error() string { return e.err.Error() }
func (e errSilent) Unwrap() error { return e.err }

func isSilent(err error) bool {
	var s errSilent
	return errors.As(err, &s)
}
