package dailycache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/jellyjae/cliftonstrengths/internal/domain"
	"github.com/jellyjae/cliftonstrengths/internal/platform/envutil"
	"github.com/jellyjae/cliftonstrengths/internal/platform/logger"
)

func TestNoopCacheMisses(t *testing.T) {
	c := NewNoop()
	ctx := context.Background()
	if err := c.Set(ctx, "d", "2024-03-15", &types.DayView{Date: "2024-03-15"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "d", "2024-03-15")
	if err != nil || got != nil {
		t.Fatalf("Get: got %+v err %v, want miss", got, err)
	}
}

func TestKey(t *testing.T) {
	if got := Key("abc", "2024-03-15"); got != "strengths:day:abc:2024-03-15" {
		t.Fatalf("Key = %q", got)
	}
}

func TestRedisCacheRoundTrip(t *testing.T) {
	addr := envutil.String("TEST_REDIS_ADDR", "")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis cache tests")
	}
	c, err := NewRedisCache(RedisConfig{Addr: addr, TTL: time.Minute}, logger.Nop())
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	device := "cache-test-" + uuid.NewString()
	view := &types.DayView{
		Date: "2024-03-15",
		Prompts: []types.DayPrompt{
			{ID: uuid.New(), Aspect: types.AspectCareer, PromptID: uuid.New(), PromptText: "do the thing", Completed: true},
		},
	}
	if err := c.Set(ctx, device, view.Date, view); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, device, view.Date)
	if err != nil || got == nil {
		t.Fatalf("Get: got %+v err %v", got, err)
	}
	if len(got.Prompts) != 1 || !got.Prompts[0].Completed || got.Prompts[0].PromptText != "do the thing" {
		t.Fatalf("Get: unexpected view %+v", got)
	}
	if err := c.Invalidate(ctx, device, view.Date); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if got, _ := c.Get(ctx, device, view.Date); got != nil {
		t.Fatalf("Get after Invalidate: %+v", got)
	}
}
