package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ============================================================================
// 分布式锁
// ============================================================================
//
// 场景：两个配送员几乎同时认领同一笔 CONFIRMED 订单。
//
// 数据库条件 UPDATE（status=CONFIRMED AND picker_id IS NULL）是最终的
// 正确性保证；锁的作用是把并发认领收敛成串行，避免大量请求打到
// 数据库后才失败。
//
// 加锁：SET key value NX EX timeout
//   - NX: key 不存在才设置，保证互斥
//   - EX: 过期时间，持有者崩溃时锁自动释放
//   - value: 持有者标识，释放时校验，防止误删别人的锁
//
// 释放：Lua 脚本保证"校验+删除"原子执行
//
// ============================================================================

var (
	ErrLockFailed  = errors.New("获取分布式锁失败")
	ErrLockExpired = errors.New("锁已过期")
)

// DistributedLock 分布式锁
type DistributedLock struct {
	client     *redis.Client
	key        string
	value      string
	expiration time.Duration
}

// NewDistributedLock 创建分布式锁
func NewDistributedLock(client *redis.Client, key, value string, expiration time.Duration) *DistributedLock {
	return &DistributedLock{
		client:     client,
		key:        key,
		value:      value,
		expiration: expiration,
	}
}

// TryLock 尝试获取锁（非阻塞）
func (l *DistributedLock) TryLock(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.value, l.expiration).Result()
	if err != nil {
		return false, err
	}
	return success, nil
}

// Lock 阻塞式获取锁（带重试）
func (l *DistributedLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	for i := 0; i < maxRetries; i++ {
		success, err := l.TryLock(ctx)
		if err != nil {
			return err
		}
		if success {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return ErrLockFailed
}

// Unlock 释放锁
// Lua 脚本先校验 value 再删除，避免删掉后来者持有的锁
func (l *DistributedLock) Unlock(ctx context.Context) error {
	script := `
		if redis.call("GET", KEYS[1]) == ARGV[1] then
			return redis.call("DEL", KEYS[1])
		else
			return 0
		end
	`
	_, err := l.client.Eval(ctx, script, []string{l.key}, l.value).Result()
	return err
}

// ============================================================================
// 便捷函数
// ============================================================================

// NewClaimLock 订单认领锁（按订单号维度）
// 同一笔订单的认领串行化；不同订单互不影响
func NewClaimLock(client *redis.Client, orderNo, ownerID string) *DistributedLock {
	key := fmt.Sprintf("order:claim:lock:%s", orderNo)
	return NewDistributedLock(client, key, ownerID, 10*time.Second)
}

// NewOrderCreateLock 下单锁（按幂等键维度），收敛重复提交
func NewOrderCreateLock(client *redis.Client, requestID string) *DistributedLock {
	key := fmt.Sprintf("order:create:lock:%s", requestID)
	return NewDistributedLock(client, key, requestID, 10*time.Second)
}

// NewPayoutLock 提现锁（按用户维度），防止同一余额并发发起多笔提现
func NewPayoutLock(client *redis.Client, holderID int64, ownerID string) *DistributedLock {
	key := fmt.Sprintf("payout:lock:holder:%d", holderID)
	return NewDistributedLock(client, key, ownerID, 30*time.Second)
}
