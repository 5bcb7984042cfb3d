package main

import (
	"fmt"
	"io"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/style-image-kit/pkg/adapters"
	"github.com/shouni/style-image-kit/pkg/config"
	"github.com/shouni/style-image-kit/pkg/generator"
)

// app はコマンドから利用する依存関係一式です。
type app struct {
	coordinator *generator.Coordinator
	loader      *adapters.UploadLoader
	presenter   *cliPresenter
	mode        adapters.UploadMode
}

func newApp(cfg config.Config, out io.Writer) (*app, error) {
	mode, err := adapters.ParseUploadMode(cfg.UploadMode)
	if err != nil {
		return nil, err
	}

	// 生成とダウンロードでタイムアウトが異なるため、クライアントを分ける
	skip := httpkit.WithSkipNetworkValidation(cfg.AllowPrivateHosts)
	generateHTTP := httpkit.New(cfg.GenerateTimeout, skip)
	fetchHTTP := httpkit.New(cfg.FetchTimeout, skip)

	client, err := adapters.NewImagineClient(generateHTTP, cfg.Endpoint, cfg.Token, adapters.ImagineOptions{
		Mode:           mode,
		Timeout:        cfg.GenerateTimeout,
		PromptTemplate: cfg.PromptTemplate,
		CallbackURL:    cfg.CallbackURL,
		Translation:    cfg.Translation,
	})
	if err != nil {
		return nil, fmt.Errorf("imagine クライアントの初期化に失敗しました: %w", err)
	}

	// 生成結果の URL は API 応答由来なので、取得前に SSRF 検証を行う
	var validateURL adapters.URLValidator
	if !cfg.AllowPrivateHosts {
		validateURL = fetchHTTP.IsSafeURL
	}
	store, err := adapters.NewImageStore(fetchHTTP, remoteio.NewUniversalIOWriter(nil, nil), validateURL, cfg.PreviewSize, cfg.PreviewSize)
	if err != nil {
		return nil, err
	}

	loader, err := adapters.NewUploadLoader(remoteio.NewUniversalInputReader(nil, nil), cfg.PreviewSize, cfg.PreviewSize)
	if err != nil {
		return nil, err
	}

	presenter := newCLIPresenter(out)
	coordinator, err := generator.NewCoordinator(client, store, presenter, generator.Options{
		GenerateTimeout: cfg.GenerateTimeout,
		FetchTimeout:    cfg.FetchTimeout,
		RequireImage:    mode == adapters.UploadMultipart,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		coordinator: coordinator,
		loader:      loader,
		presenter:   presenter,
		mode:        mode,
	}, nil
}
