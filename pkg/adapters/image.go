package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/shouni/style-image-kit/pkg/domain"
	"github.com/shouni/style-image-kit/pkg/imgutil"
)

// ImageStore は生成結果画像の取得と保存を担当します。
type ImageStore struct {
	httpClient    HTTPClient
	writer        LocalWriter
	validateURL   URLValidator
	previewWidth  int
	previewHeight int
}

// NewImageStore は依存関係を注入して ImageStore を初期化します。
// validateURL が nil の場合、事前の URL 検証は行いません。
func NewImageStore(httpClient HTTPClient, writer LocalWriter, validateURL URLValidator, previewWidth, previewHeight int) (*ImageStore, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if writer == nil {
		return nil, fmt.Errorf("writer is required")
	}
	return &ImageStore{
		httpClient:    httpClient,
		writer:        writer,
		validateURL:   validateURL,
		previewWidth:  previewWidth,
		previewHeight: previewHeight,
	}, nil
}

// FetchPreview は URL から画像を取得し、デコードしてプレビューを作成します。
func (s *ImageStore) FetchPreview(ctx context.Context, rawURL string) (*domain.Preview, error) {
	data, err := s.download(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	preview, err := imgutil.NewPreview(data, s.previewWidth, s.previewHeight)
	if err != nil {
		return nil, domain.DecodeError(fmt.Errorf("生成画像のデコードに失敗しました: %w", err))
	}
	return preview, nil
}

// Save は URL から画像を再ダウンロードし、そのままのバイト列で dest に書き込みます。
// 以前に取得したデータは再利用しません。
func (s *ImageStore) Save(ctx context.Context, rawURL, dest string) error {
	if err := checkDestination(dest); err != nil {
		return err
	}

	data, err := s.download(ctx, rawURL)
	if err != nil {
		return err
	}

	if err := s.writer.WriteToLocal(ctx, dest, bytes.NewReader(data)); err != nil {
		return domain.PermissionError(fmt.Sprintf("保存先に書き込めません: %s", dest), err)
	}
	slog.InfoContext(ctx, "生成画像を保存しました", "dest", dest, "bytes", len(data))
	return nil
}

func (s *ImageStore) download(ctx context.Context, rawURL string) ([]byte, error) {
	if s.validateURL != nil {
		if safe, err := s.validateURL(rawURL); err != nil || !safe {
			slog.WarnContext(ctx, "不正なURLをブロックしました", "url", rawURL, "error", err)
			if err == nil {
				return nil, domain.TransportError(fmt.Errorf("安全ではないURLが指定されました: %s", rawURL))
			}
			return nil, domain.TransportError(fmt.Errorf("安全ではないURLが指定されました: %w", err))
		}
	}

	data, err := s.httpClient.FetchBytes(ctx, rawURL)
	if err != nil {
		return nil, domain.TransportError(err)
	}
	return data, nil
}

// checkDestination は保存先が通常ファイルとして書き込み可能な場所か確認します。
func checkDestination(dest string) error {
	if dest == "" {
		return domain.PermissionError("保存先が指定されていません", nil)
	}
	info, err := os.Stat(dest)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return domain.PermissionError(fmt.Sprintf("保存先を確認できません: %s", dest), err)
	case !info.Mode().IsRegular():
		return domain.PermissionError(fmt.Sprintf("保存先が通常ファイルではありません: %s", dest), nil)
	}
	return nil
}
