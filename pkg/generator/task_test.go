package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTask(t *testing.T) {
	t.Run("未完了の間は Err が nil で Wait は ctx に従う", func(t *testing.T) {
		task := newTask("id-1")
		assert.NoError(t, task.Err())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := task.Wait(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("完了後は結果とエラーを返す", func(t *testing.T) {
		task := newTask("id-2")
		want := errors.New("failed")
		task.resolve(nil, want)

		<-task.Done()
		assert.ErrorIs(t, task.Err(), want)
		_, err := task.Wait(context.Background())
		assert.ErrorIs(t, err, want)
	})
}
