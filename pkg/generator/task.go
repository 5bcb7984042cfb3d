package generator

import "context"

// Task は 1 回の生成リクエストのハンドルです。
// Coordinator はハンドルが未解決の間、次のタスクを作りません。
type Task struct {
	ID string

	done   chan struct{}
	result *Result
	err    error
}

func newTask(id string) *Task {
	return &Task{ID: id, done: make(chan struct{})}
}

// resolve は一度だけ呼ばれます。
func (t *Task) resolve(result *Result, err error) {
	t.result, t.err = result, err
	close(t.done)
}

// Done はタスク完了時に close されるチャネルを返します。
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait はタスクの完了を待ちます。
// ctx が先に終了した場合は ctx.Err() を返しますが、タスク自体は中断されません。
func (t *Task) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Err は完了したタスクのエラーを返します。未完了なら nil です。
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}
