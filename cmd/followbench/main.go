// followbench 压测关注切换与粉丝列表读取（直连数据库 vs Redis 索引缓存）
//
// 环境变量：N 粉丝数，CONC 并发，PAGE 每页条数，READS 读取次数，
// BENCH_SQLITE=1 使用内存 sqlite，REDIS_ADDR 为空时使用进程内 miniredis。
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/config"
	"github.com/d60-Lab/social-graph/internal/cache"
	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
	"github.com/d60-Lab/social-graph/internal/service"
	"github.com/d60-Lab/social-graph/pkg/database"
	"github.com/d60-Lab/social-graph/pkg/errs"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func openDB() *gorm.DB {
	if os.Getenv("BENCH_SQLITE") == "1" {
		return must(database.OpenMemory())
	}
	return must(database.InitDB(must(config.Load())))
}

func openRedis() (*redis.Client, func()) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		return rdb, func() { _ = rdb.Close() }
	}
	mr := must(miniredis.Run())
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return rdb, func() { _ = rdb.Close(); mr.Close() }
}

func main() {
	ctx := context.Background()
	N := envInt("N", 5000)
	CONC := envInt("CONC", 4)
	PAGE := envInt("PAGE", 50)
	READS := envInt("READS", 2000)

	db := openDB()
	defer func() { _ = database.Close(db) }()
	rdb, closeRedis := openRedis()
	defer closeRedis()

	// 种子：celeb 为被关注者，其余用户各关注一次
	runID := strconv.FormatInt(time.Now().UnixNano(), 36)
	celeb := model.User{ID: "celeb-" + runID, Username: "celeb_" + runID, Email: "celeb_" + runID + "@example.com", PasswordHash: "x", MessagesEnabled: true}
	mustDo(db.Create(&celeb).Error)
	users := make([]model.User, N)
	for i := range users {
		id := fmt.Sprintf("%s-%06d", runID, i)
		users[i] = model.User{ID: id, Username: "u_" + id, Email: id + "@example.com", PasswordHash: "x", DisplayName: "u" + strconv.Itoa(i), MessagesEnabled: true}
	}
	mustDo(db.CreateInBatches(&users, 1000).Error)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	notifyRepo := repository.NewNotificationRepository(db)

	lists := cache.NewFollowLists(rdb, 10*time.Minute)
	inv := cache.NewInvalidator(lists, N)
	stopInv := inv.Start(4)
	cached := service.NewRelationshipService(db, userRepo, followRepo, blockRepo, notifyRepo, lists, inv)
	direct := service.NewRelationshipService(db, userRepo, followRepo, blockRepo, notifyRepo, nil, nil)

	// 1. 并发关注
	var conflicts atomic.Int64
	lat := make(chan time.Duration, N)
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)
	workers := CONC
	if workers > N {
		workers = N
	}
	done := make(chan struct{}, workers)
	t0 := time.Now()
	for w := 0; w < workers; w++ {
		go func() {
			for i := range feed {
				st := time.Now()
				_, err := cached.ToggleFollow(ctx, users[i].ID, celeb.ID)
				if errs.IsKind(err, errs.KindConflict) {
					conflicts.Add(1)
				} else if err != nil {
					panic(err)
				}
				lat <- time.Since(st)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}
	close(lat)
	followDur := time.Since(t0)
	followRecs := make([]time.Duration, 0, N)
	for d := range lat {
		followRecs = append(followRecs, d)
	}
	maxQ := inv.QueueLen()
	drainStart := time.Now()
	stopCtx, cancel := context.WithTimeout(ctx, time.Minute)
	if err := stopInv(stopCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		panic(err)
	}
	cancel()
	drainDur := time.Since(drainStart)

	// 2. 粉丝列表读取
	pages := (N + PAGE - 1) / PAGE
	rnd := rand.New(rand.NewSource(42))
	reqs := make([]int, READS)
	for i := range reqs {
		// 偏向前几页，模拟真实翻页分布
		reqs[i] = 1 + int(math.Min(float64(pages-1), math.Abs(rnd.NormFloat64())*3))
	}
	read := func(svc service.RelationshipService) []time.Duration {
		out := make([]time.Duration, 0, len(reqs))
		for _, p := range reqs {
			st := time.Now()
			if _, err := svc.ListFollows(ctx, "", celeb.ID, service.ListFollowers, p, PAGE); err != nil {
				panic(err)
			}
			out = append(out, time.Since(st))
		}
		return out
	}
	directRecs := read(direct)
	cachedRecs := read(cached)
	counters := lists.Counters()

	fmt.Printf("N=%d, CONC=%d, PAGE=%d, READS=%d, driver=%s\n", N, CONC, PAGE, READS, db.Dialector.Name())
	fmt.Printf("ToggleFollow total: %v, per op: %v, p50: %v, p95: %v, p99: %v, conflicts: %d\n",
		followDur, followDur/time.Duration(N), pct(followRecs, 0.50), pct(followRecs, 0.95), pct(followRecs, 0.99), conflicts.Load())
	fmt.Printf("Invalidator: queue after writes=%d, drain=%v\n", maxQ, drainDur)
	fmt.Printf("%-14s avg=%v p95=%v p99=%v\n", "Direct DB", avg(directRecs), pct(directRecs, 0.95), pct(directRecs, 0.99))
	fmt.Printf("%-14s avg=%v p95=%v p99=%v index_loads=%d user_loads=%d\n", "Redis index", avg(cachedRecs), pct(cachedRecs, 0.95), pct(cachedRecs, 0.99),
		counters.IndexLoads, counters.UserLoads)
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}
