package cache

import (
	"context"
	"fmt"
	"time"
)

// PremiumState 用户会员状态快照
// expires_at 为 Unix 秒时间戳，0 表示无生效订阅
type PremiumState struct {
	UserID    uint   `json:"user_id"`
	Active    bool   `json:"active"`
	PlanSlug  string `json:"plan_slug"`
	Source    string `json:"source"`
	ExpiresAt int64  `json:"expires_at"`
	UpdatedAt int64  `json:"updated_at"`
}

func premiumStateKey(userID uint) string {
	return fmt.Sprintf("premium:user:%d", userID)
}

// GetPremiumState 获取会员状态快照
func GetPremiumState(ctx context.Context, userID uint) (*PremiumState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state PremiumState
	hit, err := GetJSON(ctx, premiumStateKey(userID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetPremiumState 写入会员状态快照
func SetPremiumState(ctx context.Context, state *PremiumState, ttl time.Duration) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	// 快照有效期不超过订阅剩余时长，避免过期后误判为会员
	if state.Active && state.ExpiresAt > 0 {
		remain := time.Until(time.Unix(state.ExpiresAt, 0))
		if remain > 0 && remain < ttl {
			ttl = remain
		}
	}
	return SetJSON(ctx, premiumStateKey(state.UserID), state, ttl)
}

// DelPremiumState 删除会员状态快照
func DelPremiumState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, premiumStateKey(userID))
}
