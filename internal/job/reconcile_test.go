package job

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arpit00000/Blog-Devonate/internal/domain"
	"github.com/arpit00000/Blog-Devonate/internal/repo"
	"github.com/arpit00000/Blog-Devonate/internal/testutil"
	"github.com/arpit00000/Blog-Devonate/pkg/utils"
)

type reconcilerFunc func(ctx context.Context) (int64, error)

func (f reconcilerFunc) ReconcileCounters(ctx context.Context) (int64, error) { return f(ctx) }

func TestReconcileJob_FixesDrift(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	posts := repo.NewPostRepo(db)
	p := &domain.Post{ID: utils.NewID(), Title: "t", Content: "c", AuthorID: "a", AuthorName: "A",
		Status: domain.StatusPublished, Likes: 4, Comments: 2}
	require.NoError(t, posts.Create(ctx, p))

	core, logs := observer.New(zap.DebugLevel)
	NewReconcileJob(posts, zap.New(core)).Run()

	got, err := posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, got.Likes)
	assert.EqualValues(t, 0, got.Comments)
	assert.Equal(t, 1, logs.FilterMessage("counters drifted, corrected").Len())

	NewReconcileJob(posts, zap.New(core)).Run()
	assert.Equal(t, 1, logs.FilterMessage("counters consistent").Len())
}

func TestReconcileJob_LogsError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	NewReconcileJob(reconcilerFunc(func(context.Context) (int64, error) {
		return 0, errors.New("db gone")
	}), zap.New(core)).Run()
	assert.Equal(t, 1, logs.FilterMessage("reconcile counters failed").Len())
}

func TestStart(t *testing.T) {
	noop := reconcilerFunc(func(context.Context) (int64, error) { return 0, nil })

	c, err := Start("", noop, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, c.Entries())

	c, err = Start("@every 1h", noop, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()

	_, err = Start("not a cron expression", noop, zap.NewNop())
	assert.Error(t, err)
}
