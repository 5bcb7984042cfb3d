package adapters

import (
	"context"
	"io"
)

// HTTPClient は、このパッケージが利用する httpkit.ClientInterface のサブセットです。
// *httpkit.Client はこのインターフェースを満たします。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
	PostJSONAndFetchBytes(ctx context.Context, url string, data any) ([]byte, error)
	PostRawBodyAndFetchBytes(ctx context.Context, url string, body []byte, contentType string) ([]byte, error)
}

// URLValidator は、取得対象の URL がアクセスしてよいものか検証する関数です。
// 通常は (*httpkit.Client).IsSafeURL を渡します。
type URLValidator func(rawURL string) (bool, error)

// LocalWriter は remoteio.UniversalIOWriter のうち、ローカルファイルへの書き込み部分です。
type LocalWriter interface {
	WriteToLocal(ctx context.Context, path string, contentReader io.Reader) error
}
