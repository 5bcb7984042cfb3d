package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"github.com/shouni/style-image-kit/pkg/domain"
	"github.com/shouni/style-image-kit/pkg/imgutil"
)

const (
	actionGenerate = "generate"
	uploadFileName = "image.png"

	// DefaultPromptTemplate はスタイル文字列を埋め込むプロンプトの既定テンプレートです。
	DefaultPromptTemplate = "修改图像为%s风格"
)

// UploadMode は元画像の送り方です。
type UploadMode string

const (
	// UploadMultipart は元画像を PNG として multipart の file パートで送信します。
	UploadMultipart UploadMode = "multipart"
	// UploadReference は画像を送らず、image_id による参照のみで生成します。
	UploadReference UploadMode = "reference"
)

// ParseUploadMode は文字列から UploadMode を取得します。
func ParseUploadMode(s string) (UploadMode, error) {
	switch m := UploadMode(s); m {
	case UploadMultipart, UploadReference:
		return m, nil
	default:
		return "", fmt.Errorf("不明なアップロードモード: %q", s)
	}
}

// ImagineOptions は ImagineClient のリクエスト組み立てに関する設定です。
type ImagineOptions struct {
	Mode           UploadMode
	Timeout        time.Duration // payload の timeout フィールドに秒単位で載せる値
	PromptTemplate string
	CallbackURL    string
	Translation    bool
}

// imaginePayload は imagine エンドポイントへ送る JSON ボディです。
type imaginePayload struct {
	Timeout     int    `json:"timeout"`
	Action      string `json:"action"`
	Prompt      string `json:"prompt"`
	ImageID     string `json:"image_id"`
	CallbackURL string `json:"callback_url,omitempty"`
	Translation bool   `json:"translation"`
}

// ImagineClient は Midjourney 互換の imagine API を呼び出すアダプターです。
type ImagineClient struct {
	httpClient HTTPClient
	endpoint   string
	opts       ImagineOptions
}

// NewImagineClient はエンドポイントとトークンから ImagineClient を初期化します。
// トークンはクエリパラメータ token として付与されます。
func NewImagineClient(httpClient HTTPClient, endpoint, token string, opts ImagineOptions) (*ImagineClient, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("エンドポイントが不正です: %q", endpoint)
	}
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}
	if opts.Mode == "" {
		opts.Mode = UploadMultipart
	}
	if opts.PromptTemplate == "" {
		opts.PromptTemplate = DefaultPromptTemplate
	}

	return &ImagineClient{
		httpClient: httpClient,
		endpoint:   u.String(),
		opts:       opts,
	}, nil
}

// Mode は設定されているアップロードモードを返します。
func (c *ImagineClient) Mode() UploadMode {
	return c.opts.Mode
}

// Generate はリクエストを送信し、構造化レスポンスを返します。
// 通信エラーやボディの解析失敗は TransportError、画像の正規化失敗は DecodeError になります。
// code の判定は呼び出し側で行います。
func (c *ImagineClient) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error) {
	payload := c.buildPayload(req)

	var (
		body []byte
		err  error
	)
	switch c.opts.Mode {
	case UploadMultipart:
		pngData, nerr := imgutil.NormalizeToPNG(req.ImageData)
		if nerr != nil {
			return nil, domain.DecodeError(fmt.Errorf("アップロード画像の変換に失敗しました: %w", nerr))
		}
		form, contentType, ferr := buildMultipartBody(payload, pngData)
		if ferr != nil {
			return nil, ferr
		}
		slog.DebugContext(ctx, "multipart で生成リクエストを送信します", "image_id", payload.ImageID, "bytes", len(form))
		body, err = c.httpClient.PostRawBodyAndFetchBytes(ctx, c.endpoint, form, contentType)
	default:
		slog.DebugContext(ctx, "JSON で生成リクエストを送信します", "image_id", payload.ImageID)
		body, err = c.httpClient.PostJSONAndFetchBytes(ctx, c.endpoint, payload)
	}
	if err != nil {
		return nil, domain.TransportError(err)
	}

	var resp domain.GenerationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, domain.TransportError(fmt.Errorf("レスポンスの解析に失敗しました: %w", err))
	}
	return &resp, nil
}

func (c *ImagineClient) buildPayload(req domain.GenerationRequest) imaginePayload {
	imageID := req.PreviousImageID
	if imageID == "" {
		imageID = domain.NoImageID
	}
	return imaginePayload{
		Timeout:     int(c.opts.Timeout / time.Second),
		Action:      actionGenerate,
		Prompt:      fmt.Sprintf(c.opts.PromptTemplate, req.Style),
		ImageID:     imageID,
		CallbackURL: c.opts.CallbackURL,
		Translation: c.opts.Translation,
	}
}

// buildMultipartBody は payload の各フィールドをフォーム値に、画像を file パートにしたボディを作ります。
func buildMultipartBody(p imaginePayload, pngData []byte) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)

	fields := [][2]string{
		{"timeout", strconv.Itoa(p.Timeout)},
		{"action", p.Action},
		{"prompt", p.Prompt},
		{"image_id", p.ImageID},
		{"translation", strconv.FormatBool(p.Translation)},
	}
	if p.CallbackURL != "" {
		fields = append(fields, [2]string{"callback_url", p.CallbackURL})
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("フォーム値の書き込みに失敗しました: %w", err)
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, uploadFileName))
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("file パートの作成に失敗しました: %w", err)
	}
	if _, err := part.Write(pngData); err != nil {
		return nil, "", fmt.Errorf("file パートの書き込みに失敗しました: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
