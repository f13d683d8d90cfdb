package savequeue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) flush(ctx context.Context, v string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
	return nil
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

func TestQueue_CoalescesRapidSubmissions(t *testing.T) {
	rec := &recorder{}
	q := New(50*time.Millisecond, rec.flush)
	defer q.Close()

	q.Submit("a")
	q.Submit("b")
	q.Submit("c")

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"c"}, rec.snapshot())
}

func TestQueue_SeparateBurstsFlushSeparately(t *testing.T) {
	rec := &recorder{}
	q := New(20*time.Millisecond, rec.flush)
	defer q.Close()

	q.Submit("first")
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	q.Submit("second")
	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"first", "second"}, rec.snapshot())
}

func TestQueue_CloseFlushesPending(t *testing.T) {
	rec := &recorder{}
	q := New(time.Hour, rec.flush)

	q.Submit("pending")
	q.Close()

	assert.Equal(t, []string{"pending"}, rec.snapshot())
}

func TestQueue_SubmitAfterCloseIgnored(t *testing.T) {
	rec := &recorder{}
	q := New(10*time.Millisecond, rec.flush)
	q.Close()

	q.Submit("late")
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestQueue_FlushImmediate(t *testing.T) {
	rec := &recorder{}
	q := New(time.Hour, rec.flush)
	defer q.Close()

	q.Submit("now")
	q.Flush()
	assert.Equal(t, []string{"now"}, rec.snapshot())

	// Nothing pending: a second flush is a no-op.
	q.Flush()
	assert.Equal(t, []string{"now"}, rec.snapshot())
}

func TestQueue_ErrorHandler(t *testing.T) {
	var (
		mu   sync.Mutex
		errs []error
	)
	wantErr := assert.AnError

	q := New(time.Hour, func(ctx context.Context, v string) error {
		return wantErr
	}, WithErrorHandler[string](func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
	}))

	q.Submit("doomed")
	q.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, errs, 1)
	assert.Equal(t, wantErr, errs[0])
}
