package main

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"sync"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/style-image-kit/pkg/adapters"
	"github.com/shouni/style-image-kit/pkg/domain"
)

// cliPresenter は generator.Presenter を端末出力で実装します。
type cliPresenter struct {
	mu          sync.Mutex
	out         io.Writer
	writer      adapters.LocalWriter
	previewPath string
}

func newCLIPresenter(out io.Writer) *cliPresenter {
	return &cliPresenter{out: out, writer: remoteio.NewUniversalIOWriter(nil, nil)}
}

// SetPreviewPath を設定すると、プレビュー画像を PNG で書き出します。
func (p *cliPresenter) SetPreviewPath(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.previewPath = path
}

func (p *cliPresenter) OnBusyChanged(busy bool) {
	if busy {
		p.println("生成中...")
	}
}

func (p *cliPresenter) OnPreviewUpdated(preview *domain.Preview) {
	b := preview.Image.Bounds()
	p.println(fmt.Sprintf("生成結果: %dx%d %s (プレビュー %dx%d)", preview.Width, preview.Height, preview.Format, b.Dx(), b.Dy()))

	p.mu.Lock()
	path := p.previewPath
	p.mu.Unlock()
	if path == "" {
		return
	}
	if err := p.writePreview(path, preview); err != nil {
		slog.Warn("プレビューの書き出しに失敗しました", "path", path, "error", err)
		return
	}
	p.println("プレビューを書き出しました: " + path)
}

func (p *cliPresenter) OnError(message string) {
	p.println("エラー: " + message)
}

func (p *cliPresenter) OnInfo(message string) {
	p.println(message)
}

func (p *cliPresenter) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, s)
}

func (p *cliPresenter) writePreview(path string, preview *domain.Preview) error {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, preview.Image); err != nil {
		return err
	}
	return p.writer.WriteToLocal(context.Background(), path, buf)
}
