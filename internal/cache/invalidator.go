package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/social-graph/pkg/logger"
)

type invalidateAction int

const (
	actionDropIndexes invalidateAction = iota + 1
	actionDropUsers
)

type invalidateJob struct {
	action  invalidateAction
	userIDs []string
}

// Invalidator 异步删除缓存键；队列满时丢弃并告警，索引依靠 TTL 兜底
type Invalidator struct {
	lists *FollowLists
	ch    chan invalidateJob
	wg    sync.WaitGroup
}

func NewInvalidator(lists *FollowLists, queueSize int) *Invalidator {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &Invalidator{lists: lists, ch: make(chan invalidateJob, queueSize)}
}

// Start 启动 workers；返回的函数停止接收并排空队列
func (v *Invalidator) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		v.wg.Add(1)
		go func() {
			defer v.wg.Done()
			for {
				select {
				case job := <-v.ch:
					v.run(job)
				case <-stopCh:
					for {
						select {
						case job := <-v.ch:
							v.run(job)
						default:
							return
						}
					}
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		done := make(chan struct{})
		go func() { v.wg.Wait(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (v *Invalidator) run(job invalidateJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var err error
	switch job.action {
	case actionDropIndexes:
		err = v.lists.DropIndexes(ctx, job.userIDs...)
	case actionDropUsers:
		err = v.lists.DropUsers(ctx, job.userIDs...)
	}
	if err != nil {
		logger.Warn("cache invalidation failed", zap.Strings("users", job.userIDs), zap.Error(err))
	}
}

// FollowsChanged 关注边变化后删除双方索引
func (v *Invalidator) FollowsChanged(userIDs ...string) {
	v.enqueue(invalidateJob{action: actionDropIndexes, userIDs: userIDs})
}

// ProfileChanged 资料变化后删除用户卡片
func (v *Invalidator) ProfileChanged(userIDs ...string) {
	v.enqueue(invalidateJob{action: actionDropUsers, userIDs: userIDs})
}

func (v *Invalidator) enqueue(job invalidateJob) {
	select {
	case v.ch <- job:
	default:
		logger.Warn("invalidator queue full, drop job", zap.Strings("users", job.userIDs))
	}
}

// QueueLen 当前队列长度（采样值）
func (v *Invalidator) QueueLen() int { return len(v.ch) }
