package service

import "time"

// Clock 便于测试注入时间
type Clock func() time.Time

// CacheInvalidator 关系/资料变化后的缓存失效通知，可为 nil
type CacheInvalidator interface {
	FollowsChanged(userIDs ...string)
	ProfileChanged(userIDs ...string)
}

type noopInvalidator struct{}

func (noopInvalidator) FollowsChanged(...string) {}
func (noopInvalidator) ProfileChanged(...string) {}

func orNoop(inv CacheInvalidator) CacheInvalidator {
	if inv == nil {
		return noopInvalidator{}
	}
	return inv
}

func orNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = 10000
)

// pageOffset 与仓储层 pageBounds 同样的上限，缓存路径也不会放大
func pageOffset(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return (page - 1) * pageSize, pageSize
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
