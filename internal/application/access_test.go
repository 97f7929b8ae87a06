package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAccessFilterCachesLookups(t *testing.T) {
	clock := newFakeClock(t0)
	bans := &fakeBanRepo{banned: map[string]bool{"troll": true}}
	filter, err := NewAccessFilter(bans, clock)
	if err != nil {
		t.Fatalf("NewAccessFilter() error = %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		banned, err := filter.IsBanned(ctx, "troll")
		if err != nil || !banned {
			t.Fatalf("IsBanned(troll) = %v, %v", banned, err)
		}
	}
	if bans.calls != 1 {
		t.Errorf("store calls = %d, want 1", bans.calls)
	}

	if banned, _ := filter.IsBanned(ctx, "friend"); banned {
		t.Error("IsBanned(friend) = true")
	}

	// Entries expire so a ban added later is picked up.
	bans.banned["friend"] = true
	clock.Advance(banCacheTTL + time.Second)
	if banned, _ := filter.IsBanned(ctx, "friend"); !banned {
		t.Error("IsBanned(friend) after TTL = false")
	}
}

func TestAccessFilterErrorIsNotCached(t *testing.T) {
	bans := &fakeBanRepo{err: errors.New("timeout")}
	filter, _ := NewAccessFilter(bans, newFakeClock(t0))
	if _, err := filter.IsBanned(context.Background(), "u1"); err == nil {
		t.Fatal("IsBanned() expected an error")
	}
	bans.err = nil
	if banned, err := filter.IsBanned(context.Background(), "u1"); err != nil || banned {
		t.Errorf("IsBanned() = %v, %v after recovery", banned, err)
	}
}
