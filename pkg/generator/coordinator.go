package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shouni/style-image-kit/pkg/domain"
	"golang.org/x/sync/semaphore"
)

// Coordinator は同時に 1 件だけの生成リクエストを仲介し、その結果を UI 向けの状態に変換します。
// セッション状態は Coordinator だけが保持・更新します。
type Coordinator struct {
	generator ImageGenerator
	store     ResultStore
	presenter Presenter
	opts      Options

	// inFlight は容量 1 のセマフォで、実行中タスクの唯一性を保証します。
	inFlight *semaphore.Weighted

	mu    sync.Mutex
	state domain.SessionState
	task  *Task
}

// NewCoordinator は依存関係を注入して Coordinator を初期化します。
func NewCoordinator(generator ImageGenerator, store ResultStore, presenter Presenter, opts Options) (*Coordinator, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if presenter == nil {
		return nil, fmt.Errorf("presenter is required")
	}

	return &Coordinator{
		generator: generator,
		store:     store,
		presenter: presenter,
		opts:      opts.withDefaults(),
		inFlight:  semaphore.NewWeighted(1),
	}, nil
}

// State はセッション状態のスナップショットを返します。
func (c *Coordinator) State() domain.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current は実行中のタスクを返します。なければ nil です。
func (c *Coordinator) Current() *Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.task
}

// Submit はスタイル変換リクエストを非同期で開始し、タスクのハンドルを返します。
// 入力不備は ValidationError、実行中のタスクがある場合は ErrBusy を返し、通信は行いません。
// 呼び出し元の ctx がキャンセルされてもリクエストは中断されません。
func (c *Coordinator) Submit(ctx context.Context, style string, imageData []byte) (*Task, error) {
	style = strings.TrimSpace(style)
	if style == "" {
		return nil, c.reject(domain.ValidationError("missing style"))
	}
	if c.opts.RequireImage && len(imageData) == 0 {
		return nil, c.reject(domain.ValidationError("missing image"))
	}

	if !c.inFlight.TryAcquire(1) {
		return nil, c.reject(domain.ErrBusy)
	}

	task := newTask(uuid.NewString())

	c.mu.Lock()
	req := domain.GenerationRequest{
		ImageData:       imageData,
		Style:           style,
		PreviousImageID: c.state.PreviousImageID(),
	}
	c.state.InFlight = true
	c.task = task
	c.mu.Unlock()

	slog.InfoContext(ctx, "画像生成リクエストを開始します",
		"request_id", task.ID, "image_id", req.PreviousImageID, "has_image", len(imageData) > 0)
	c.presenter.OnBusyChanged(true)

	go c.run(context.WithoutCancel(ctx), task, req)
	return task, nil
}

// run はワーカー goroutine の本体です。どの終了経路でも finish を通ります。
func (c *Coordinator) run(ctx context.Context, task *Task, req domain.GenerationRequest) {
	var (
		result *Result
		err    error
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("画像生成中に予期しないエラーが発生しました: %v", r)
			result = nil
		}
		c.finish(ctx, task, result, err)
	}()

	result, err = c.generate(ctx, req)
}

func (c *Coordinator) generate(ctx context.Context, req domain.GenerationRequest) (*Result, error) {
	genCtx, cancel := context.WithTimeout(ctx, c.opts.GenerateTimeout)
	resp, err := c.generator.Generate(genCtx, req)
	cancel()
	if err != nil {
		return nil, asDomainError(err)
	}
	if !resp.Succeeded() {
		return nil, domain.APIError(resp.Message)
	}

	c.mu.Lock()
	c.state.CurrentImageID = resp.ImageID
	c.state.GeneratedImageURL = resp.ImageURL
	c.mu.Unlock()

	preview, err := c.fetchResultImage(ctx, resp.ImageURL)
	if err != nil {
		return nil, err
	}
	return &Result{ImageID: resp.ImageID, ImageURL: resp.ImageURL, Preview: preview}, nil
}

// fetchResultImage は生成画像を取得してプレビューを通知し、保存を有効にします。
// 失敗した場合、保存可否は変更しません。
func (c *Coordinator) fetchResultImage(ctx context.Context, rawURL string) (*domain.Preview, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	defer cancel()

	preview, err := c.store.FetchPreview(fetchCtx, rawURL)
	if err != nil {
		return nil, asDomainError(err)
	}
	if preview == nil || preview.Image == nil {
		return nil, domain.DecodeError(errors.New("画像が空です"))
	}

	c.mu.Lock()
	c.state.SaveEnabled = true
	c.mu.Unlock()

	c.presenter.OnPreviewUpdated(preview)
	return preview, nil
}

// finish はセマフォを解放してから UI に通知します。
// 通知を受けた Presenter がそのまま次のリクエストを Submit できる状態にしておく必要があります。
func (c *Coordinator) finish(ctx context.Context, task *Task, result *Result, err error) {
	c.mu.Lock()
	c.state.InFlight = false
	c.task = nil
	c.mu.Unlock()
	c.inFlight.Release(1)

	if err != nil {
		slog.WarnContext(ctx, "画像生成に失敗しました", "request_id", task.ID, "error", err)
		c.presenter.OnError(domain.UserMessage(err))
	} else {
		slog.InfoContext(ctx, "画像生成が完了しました", "request_id", task.ID, "image_id", result.ImageID)
	}
	c.presenter.OnBusyChanged(false)

	task.resolve(result, err)
}

// Save は直前に生成された画像を再ダウンロードして dest に保存します。
// 生成済みの画像がない場合は何もしません。
func (c *Coordinator) Save(ctx context.Context, dest string) error {
	c.mu.Lock()
	rawURL := c.state.GeneratedImageURL
	c.mu.Unlock()

	if rawURL == "" {
		slog.DebugContext(ctx, "保存対象の画像がないためスキップします")
		return nil
	}

	saveCtx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	defer cancel()

	if err := c.store.Save(saveCtx, rawURL, dest); err != nil {
		return c.reject(asDomainError(err))
	}
	c.presenter.OnInfo(fmt.Sprintf("画像を保存しました: %s", dest))
	return nil
}

// reject はエラーを UI に通知してそのまま返します。
func (c *Coordinator) reject(err error) error {
	c.presenter.OnError(domain.UserMessage(err))
	return err
}

// asDomainError は分類されていないエラー（タイムアウト等）を TransportError として扱います。
func asDomainError(err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.TransportError(err)
}
