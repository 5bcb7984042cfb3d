package adapters

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/style-image-kit/pkg/domain"
	"github.com/shouni/style-image-kit/pkg/imgutil"
)

// uploadExtensions はアップロードを受け付ける拡張子です。
var uploadExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".bmp":  true,
}

// UploadLoader はユーザーが選んだ元画像を読み込みます。
type UploadLoader struct {
	reader        remoteio.InputReader
	previewWidth  int
	previewHeight int
}

// NewUploadLoader は reader を使って元画像を読み込む UploadLoader を作成します。
func NewUploadLoader(reader remoteio.InputReader, previewWidth, previewHeight int) (*UploadLoader, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader is required")
	}
	return &UploadLoader{reader: reader, previewWidth: previewWidth, previewHeight: previewHeight}, nil
}

// Load は path の画像を読み込み、生データとプレビューを返します。
func (l *UploadLoader) Load(ctx context.Context, path string) (*domain.Upload, error) {
	if path == "" {
		return nil, domain.ValidationError("missing image")
	}
	if ext := strings.ToLower(filepath.Ext(path)); !uploadExtensions[ext] {
		return nil, domain.ValidationError(fmt.Sprintf("対応していない画像形式です: %s", filepath.Base(path)))
	}

	rc, err := l.reader.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("画像を開けませんでした: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("画像の読み込みに失敗しました: %w", err)
	}

	preview, err := imgutil.NewPreview(data, l.previewWidth, l.previewHeight)
	if err != nil {
		return nil, domain.DecodeError(fmt.Errorf("%s: %w", filepath.Base(path), err))
	}

	return &domain.Upload{
		Name:    filepath.Base(path),
		Data:    data,
		Preview: preview,
	}, nil
}
