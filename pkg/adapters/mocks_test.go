package adapters

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
)

// --- Mocks ---

// mockHTTPClient は HTTPClient を実装するテスト用モックなのだ。
type mockHTTPClient struct {
	fetchFunc    func(ctx context.Context, url string) ([]byte, error)
	postJSONFunc func(ctx context.Context, url string, data any) ([]byte, error)
	postRawFunc  func(ctx context.Context, url string, body []byte, contentType string) ([]byte, error)

	fetchCalls int
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.fetchCalls++
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url)
	}
	return nil, nil
}

func (m *mockHTTPClient) PostJSONAndFetchBytes(ctx context.Context, url string, data any) ([]byte, error) {
	if m.postJSONFunc != nil {
		return m.postJSONFunc(ctx, url, data)
	}
	return nil, nil
}

func (m *mockHTTPClient) PostRawBodyAndFetchBytes(ctx context.Context, url string, body []byte, contentType string) ([]byte, error) {
	if m.postRawFunc != nil {
		return m.postRawFunc(ctx, url, body, contentType)
	}
	return nil, nil
}

// mockWriter は LocalWriter を実装するテスト用モックなのだ。
type mockWriter struct {
	writeFunc func(ctx context.Context, path string, r io.Reader) error

	writeCalls int
}

func (m *mockWriter) WriteToLocal(ctx context.Context, path string, r io.Reader) error {
	m.writeCalls++
	if m.writeFunc != nil {
		return m.writeFunc(ctx, path, r)
	}
	return nil
}

// pngBytes は w x h の PNG を生成するヘルパーなのだ。
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{0, 255, 0, 255})
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// allowAll は検証を常に通す URLValidator なのだ。
func allowAll(string) (bool, error) { return true, nil }
