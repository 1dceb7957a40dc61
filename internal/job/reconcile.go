// Package job 后台定时任务
package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reconciler 按明细记录修正冗余计数
type Reconciler interface {
	ReconcileCounters(ctx context.Context) (int64, error)
}

type ReconcileJob struct {
	posts   Reconciler
	log     *zap.Logger
	timeout time.Duration
}

func NewReconcileJob(posts Reconciler, log *zap.Logger) *ReconcileJob {
	return &ReconcileJob{posts: posts, log: log, timeout: time.Minute}
}

// Run 实现 cron.Job
func (j *ReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	n, err := j.posts.ReconcileCounters(ctx)
	if err != nil {
		j.log.Error("reconcile counters failed", zap.Error(err))
		return
	}
	if n > 0 {
		j.log.Warn("counters drifted, corrected", zap.Int64("rows", n))
		return
	}
	j.log.Debug("counters consistent")
}

// Start spec 为空时不启动；返回的 cron 由调用方 Stop
func Start(spec string, posts Reconciler, log *zap.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.Recover(cronLogger{log})))
	if spec == "" {
		return c, nil
	}
	if _, err := c.AddJob(spec, NewReconcileJob(posts, log)); err != nil {
		return nil, err
	}
	c.Start()
	log.Info("cron started", zap.String("reconcile", spec))
	return c, nil
}

// cronLogger 把 cron 内部日志接到 zap
type cronLogger struct{ l *zap.Logger }

func (c cronLogger) Info(msg string, kv ...interface{}) {
	c.l.Sugar().Debugw(msg, kv...)
}

func (c cronLogger) Error(err error, msg string, kv ...interface{}) {
	c.l.Sugar().Errorw(msg, append(kv, "error", err)...)
}
