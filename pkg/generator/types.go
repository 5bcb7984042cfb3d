package generator

import (
	"time"

	"github.com/shouni/style-image-kit/pkg/domain"
)

const (
	DefaultGenerateTimeout = 480 * time.Second
	DefaultFetchTimeout    = 30 * time.Second
)

// Options は Coordinator の動作設定です。
type Options struct {
	GenerateTimeout time.Duration
	FetchTimeout    time.Duration
	// RequireImage が true の場合、元画像なしの Submit を拒否します（multipart モード）。
	RequireImage bool
}

func (o Options) withDefaults() Options {
	if o.GenerateTimeout <= 0 {
		o.GenerateTimeout = DefaultGenerateTimeout
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	return o
}

// Result は成功したタスクの結果です。
type Result struct {
	ImageID  string
	ImageURL string
	Preview  *domain.Preview
}
