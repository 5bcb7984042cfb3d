package generator

import (
	"context"
	"image"
	"sync"

	"github.com/shouni/style-image-kit/pkg/domain"
)

// --- Mocks ---

type mockGenerator struct {
	mu           sync.Mutex
	generateFunc func(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error)
	requests     []domain.GenerationRequest
}

func (m *mockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockGenerator) calls() []domain.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.GenerationRequest(nil), m.requests...)
}

type mockStore struct {
	mu         sync.Mutex
	fetchFunc  func(ctx context.Context, rawURL string) (*domain.Preview, error)
	saveFunc   func(ctx context.Context, rawURL, dest string) error
	fetchCalls int
	saveCalls  int
}

func (m *mockStore) FetchPreview(ctx context.Context, rawURL string) (*domain.Preview, error) {
	m.mu.Lock()
	m.fetchCalls++
	m.mu.Unlock()
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, rawURL)
	}
	return &domain.Preview{Image: image.NewRGBA(image.Rect(0, 0, 1, 1)), Width: 1, Height: 1, Format: "png"}, nil
}

func (m *mockStore) Save(ctx context.Context, rawURL, dest string) error {
	m.mu.Lock()
	m.saveCalls++
	m.mu.Unlock()
	if m.saveFunc != nil {
		return m.saveFunc(ctx, rawURL, dest)
	}
	return nil
}

// recordingPresenter は通知を記録する Presenter なのだ。
type recordingPresenter struct {
	mu       sync.Mutex
	busy     []bool
	previews []*domain.Preview
	errs     []string
	infos    []string
}

func (p *recordingPresenter) OnBusyChanged(busy bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy = append(p.busy, busy)
}

func (p *recordingPresenter) OnPreviewUpdated(preview *domain.Preview) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.previews = append(p.previews, preview)
}

func (p *recordingPresenter) OnError(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = append(p.errs, message)
}

func (p *recordingPresenter) OnInfo(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.infos = append(p.infos, message)
}

// presented は recordingPresenter が受け取った通知のコピーなのだ。
type presented struct {
	busy     []bool
	previews []*domain.Preview
	errs     []string
	infos    []string
}

func (p *recordingPresenter) snapshot() presented {
	p.mu.Lock()
	defer p.mu.Unlock()
	return presented{
		busy:     append([]bool(nil), p.busy...),
		previews: append([]*domain.Preview(nil), p.previews...),
		errs:     append([]string(nil), p.errs...),
		infos:    append([]string(nil), p.infos...),
	}
}

// resubmittingPresenter は最初の OnBusyChanged(false) の中で次のリクエストを送る Presenter なのだ。
type resubmittingPresenter struct {
	recordingPresenter
	once        sync.Once
	submit      func() (*Task, error)
	idleState   func() domain.SessionState
	resubmitted chan resubmission
}

type resubmission struct {
	state domain.SessionState
	task  *Task
	err   error
}

func (p *resubmittingPresenter) OnBusyChanged(busy bool) {
	p.recordingPresenter.OnBusyChanged(busy)
	if busy {
		return
	}
	p.once.Do(func() {
		state := p.idleState()
		task, err := p.submit()
		p.resubmitted <- resubmission{state: state, task: task, err: err}
	})
}

func okResponse(id, url string) func(context.Context, domain.GenerationRequest) (*domain.GenerationResponse, error) {
	return func(context.Context, domain.GenerationRequest) (*domain.GenerationResponse, error) {
		return &domain.GenerationResponse{Code: 200, ImageID: id, ImageURL: url}, nil
	}
}
