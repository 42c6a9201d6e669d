package ratelimit

import (
	"net/http"
	"testing"
	"time"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(limit int) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)}
	l := New(&Config{WritesPerMinute: limit, Clock: clock})
	return l, clock
}

func TestAllowWithinLimit(t *testing.T) {
	l, _ := newTestLimiter(3)
	defer l.Close()

	for i := 0; i < 3; i++ {
		if res := l.Allow("1.2.3.4"); !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	res := l.Allow("1.2.3.4")
	if res.Allowed {
		t.Fatal("fourth request within the window should be rejected")
	}
	if res.RetryAfter <= 0 || res.RetryAfter > time.Minute {
		t.Fatalf("unexpected retry-after: %v", res.RetryAfter)
	}
}

func TestWindowReset(t *testing.T) {
	l, clock := newTestLimiter(1)
	defer l.Close()

	if res := l.Allow("1.2.3.4"); !res.Allowed {
		t.Fatal("first request should be allowed")
	}
	if res := l.Allow("1.2.3.4"); res.Allowed {
		t.Fatal("second request should be rejected")
	}

	clock.advance(61 * time.Second)
	if res := l.Allow("1.2.3.4"); !res.Allowed {
		t.Fatal("request after window reset should be allowed")
	}
}

func TestLimitIsPerIP(t *testing.T) {
	l, _ := newTestLimiter(1)
	defer l.Close()

	if res := l.Allow("1.2.3.4"); !res.Allowed {
		t.Fatal("first IP should be allowed")
	}
	if res := l.Allow("5.6.7.8"); !res.Allowed {
		t.Fatal("other IP should have its own window")
	}
}

func TestCleanupDropsStaleEntries(t *testing.T) {
	l, clock := newTestLimiter(1)
	defer l.Close()

	l.Allow("1.2.3.4")
	clock.advance(2 * time.Hour)
	l.cleanup()

	l.mu.Lock()
	remaining := len(l.byIP)
	l.mu.Unlock()
	if remaining != 0 {
		t.Fatalf("expected stale entries to be removed, found %d", remaining)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		trustProxy bool
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.7:43210",
			want:       "203.0.113.7",
		},
		{
			name:       "untrusted proxy ignores forwarded header",
			remoteAddr: "10.0.0.1:80",
			xff:        "203.0.113.7",
			want:       "10.0.0.1",
		},
		{
			name:       "trusted proxy uses rightmost public IP",
			remoteAddr: "10.0.0.1:80",
			xff:        "198.51.100.9, 203.0.113.7, 10.0.0.2",
			trustProxy: true,
			want:       "203.0.113.7",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "203.0.113.7",
			want:       "203.0.113.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &http.Request{RemoteAddr: tt.remoteAddr, Header: http.Header{}}
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			got := GetClientIP(r, tt.trustProxy)
			if got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
