package generator

import (
	"context"

	"github.com/shouni/style-image-kit/pkg/domain"
)

// ImageGenerator はリモートの画像生成 API を呼び出すためのインターフェースです。
// *adapters.ImagineClient がこれを実装します。
type ImageGenerator interface {
	// Generate はリクエストを送信し、構造化レスポンスを返します。code の判定は行いません。
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error)
}

// ResultStore は生成結果画像の取得と保存を担当します。
// *adapters.ImageStore がこれを実装します。
type ResultStore interface {
	// FetchPreview は URL から画像を取得し、プレビューを作成します。
	FetchPreview(ctx context.Context, rawURL string) (*domain.Preview, error)
	// Save は URL から画像を再取得し、dest にそのまま書き込みます。
	Save(ctx context.Context, rawURL, dest string) error
}

// Presenter は UI 側が受け取る通知です。
// 呼び出しはワーカーの goroutine から行われるため、実装はスレッドセーフである必要があります。
type Presenter interface {
	OnBusyChanged(busy bool)
	OnPreviewUpdated(preview *domain.Preview)
	OnError(message string)
	OnInfo(message string)
}
