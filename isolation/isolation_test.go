package isolation_test

import (
	"context"
	"testing"
	"time"

	"github.com/hscells/sweep/isolation"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleted(t *testing.T) {
	e := isolation.NewInProcess(time.Second)
	out, err := e.Execute(context.Background(), "/tmp/work", func(context.Context) (interface{}, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, isolation.Completed, out.Status)
	assert.Equal(t, 42, out.Result)
	assert.Equal(t, "/tmp/work", out.Diagnostics.Workdir)
}

func TestFailed(t *testing.T) {
	e := isolation.NewInProcess(time.Second)
	out, err := e.Execute(context.Background(), "", func(context.Context) (interface{}, error) {
		return 1, errors.New("boom")
	})
	require.NoError(t, err)
	assert.Equal(t, isolation.Failed, out.Status)
	assert.Nil(t, out.Result)
	assert.EqualError(t, out.Diagnostics.Err, "boom")
}

func TestPanicked(t *testing.T) {
	e := isolation.NewInProcess(time.Second)
	out, err := e.Execute(context.Background(), "", func(context.Context) (interface{}, error) {
		panic("worker died")
	})
	require.NoError(t, err)
	assert.Equal(t, isolation.Failed, out.Status)
	assert.Contains(t, out.Diagnostics.Err.Error(), "worker died")
	assert.NotEmpty(t, out.Diagnostics.Stack)
}

func TestTimedOut(t *testing.T) {
	e := isolation.NewInProcess(20 * time.Millisecond)
	out, err := e.Execute(context.Background(), "", func(ctx context.Context) (interface{}, error) {
		<-ctx.Done()
		time.Sleep(50 * time.Millisecond)
		return "late", nil
	})
	require.NoError(t, err)
	assert.Equal(t, isolation.TimedOut, out.Status)
	assert.Nil(t, out.Result)
	assert.True(t, errors.Is(out.Diagnostics.Err, context.DeadlineExceeded))
}

func TestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := isolation.NewInProcess(0).Execute(ctx, "", func(ctx context.Context) (interface{}, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	require.NoError(t, err)
	assert.Contains(t, []isolation.Status{isolation.Canceled, isolation.Failed}, out.Status)
	assert.Nil(t, out.Result)

	_, err = isolation.NewInProcess(0).Execute(context.Background(), "", nil)
	assert.Error(t, err)
}
