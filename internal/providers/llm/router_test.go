package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"deckgen/internal/domain"
)

type fakeProvider struct {
	name  string
	model string

	mu    sync.Mutex
	errs  []error
	calls int
}

func (f *fakeProvider) Name() string  { return f.name }
func (f *fakeProvider) Model() string { return f.model }

func (f *fakeProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &Response{Content: `{"ok":true}`, Provider: f.name, Model: f.model}, nil
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestRouter(clock *fakeClock, providers ...Provider) *Router {
	return NewRouter(providers, RouterOptions{
		Cooldown:       time.Minute,
		AttemptTimeout: time.Second,
		Clock:          clock.Now,
		Logger:         zerolog.Nop(),
	})
}

func TestRouterPrefersPrimary(t *testing.T) {
	primary := &fakeProvider{name: "groq", model: "llama"}
	secondary := &fakeProvider{name: "gemini", model: "flash"}
	r := newTestRouter(&fakeClock{t: time.Now()}, primary, secondary)

	resp, err := r.Generate(context.Background(), Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Provider != "groq" {
		t.Fatalf("Provider = %q, want groq", resp.Provider)
	}
	if secondary.calls != 0 {
		t.Fatalf("secondary called %d times, want 0", secondary.calls)
	}
}

func TestRouterFailsOverOnRateLimit(t *testing.T) {
	primary := &fakeProvider{name: "groq", model: "llama", errs: []error{&StatusError{Provider: "groq", StatusCode: 429}}}
	secondary := &fakeProvider{name: "gemini", model: "flash"}
	clock := &fakeClock{t: time.Now()}
	r := newTestRouter(clock, primary, secondary)

	resp, err := r.Generate(context.Background(), Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Provider != "gemini" {
		t.Fatalf("Provider = %q, want gemini", resp.Provider)
	}

	status := r.Status()
	if status["groq"].Available {
		t.Fatal("primary should be cooling down")
	}
	if status["groq"].CooldownRemainingSeconds == nil || *status["groq"].CooldownRemainingSeconds <= 0 {
		t.Fatalf("CooldownRemainingSeconds = %v, want positive", status["groq"].CooldownRemainingSeconds)
	}
	if status["gemini"].CooldownRemainingSeconds != nil {
		t.Fatal("secondary should not be cooling down")
	}

	// While the cooldown lasts the primary is skipped entirely.
	if _, err := r.Generate(context.Background(), Request{Prompt: "hi"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if primary.calls != 1 {
		t.Fatalf("primary calls = %d, want 1", primary.calls)
	}
}

func TestRouterCooldownExpires(t *testing.T) {
	primary := &fakeProvider{name: "groq", model: "llama", errs: []error{&StatusError{Provider: "groq", StatusCode: 429}}}
	secondary := &fakeProvider{name: "gemini", model: "flash"}
	clock := &fakeClock{t: time.Now()}
	r := newTestRouter(clock, primary, secondary)

	if _, err := r.Generate(context.Background(), Request{Prompt: "hi"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	clock.Advance(2 * time.Minute)

	resp, err := r.Generate(context.Background(), Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Generate() after cooldown error = %v", err)
	}
	if resp.Provider != "groq" {
		t.Fatalf("Provider = %q, want groq after cooldown elapsed", resp.Provider)
	}
	if !r.Status()["groq"].Available {
		t.Fatal("primary should be available again")
	}
}

func TestRouterHardErrorDoesNotCooldown(t *testing.T) {
	primary := &fakeProvider{name: "groq", model: "llama", errs: []error{&StatusError{Provider: "groq", StatusCode: 401}}}
	secondary := &fakeProvider{name: "gemini", model: "flash"}
	r := newTestRouter(&fakeClock{t: time.Now()}, primary, secondary)

	resp, err := r.Generate(context.Background(), Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if resp.Provider != "gemini" {
		t.Fatalf("Provider = %q, want gemini", resp.Provider)
	}
	if !r.Status()["groq"].Available {
		t.Fatal("auth failure must not put the provider into cooldown")
	}
}

func TestRouterAllProvidersFail(t *testing.T) {
	lastErr := &StatusError{Provider: "gemini", StatusCode: 500}
	primary := &fakeProvider{name: "groq", model: "llama", errs: []error{&StatusError{Provider: "groq", StatusCode: 429}}}
	secondary := &fakeProvider{name: "gemini", model: "flash", errs: []error{lastErr}}
	r := newTestRouter(&fakeClock{t: time.Now()}, primary, secondary)

	_, err := r.Generate(context.Background(), Request{Prompt: "hi"})
	if !errors.Is(err, domain.ErrNoProviderAvailable) {
		t.Fatalf("error = %v, want ErrNoProviderAvailable", err)
	}
	var npa *domain.NoProviderAvailableError
	if !errors.As(err, &npa) {
		t.Fatalf("error %T does not carry the last failure", err)
	}
	if !errors.Is(npa.Last, lastErr) {
		t.Fatalf("Last = %v, want %v", npa.Last, lastErr)
	}
}

func TestRouterAllProvidersCoolingDown(t *testing.T) {
	primary := &fakeProvider{name: "groq", model: "llama", errs: []error{&StatusError{Provider: "groq", StatusCode: 429}}}
	secondary := &fakeProvider{name: "gemini", model: "flash", errs: []error{&StatusError{Provider: "gemini", StatusCode: 429}}}
	r := newTestRouter(&fakeClock{t: time.Now()}, primary, secondary)

	if _, err := r.Generate(context.Background(), Request{Prompt: "hi"}); !errors.Is(err, domain.ErrNoProviderAvailable) {
		t.Fatalf("error = %v, want ErrNoProviderAvailable", err)
	}

	// Second call: both in cooldown, nothing is attempted.
	if _, err := r.Generate(context.Background(), Request{Prompt: "hi"}); !errors.Is(err, domain.ErrNoProviderAvailable) {
		t.Fatalf("error = %v, want ErrNoProviderAvailable", err)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Fatalf("calls = %d/%d, want 1/1", primary.calls, secondary.calls)
	}
}

func TestTransientProviderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limit", &StatusError{StatusCode: 429}, true},
		{"server error", &StatusError{StatusCode: 503}, true},
		{"auth failure", &StatusError{StatusCode: 401}, false},
		{"bad request", &StatusError{StatusCode: 400}, false},
		{"timeout", context.DeadlineExceeded, true},
		{"shape problem", errors.New("empty choices"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := transientProviderError(tc.err); got != tc.want {
				t.Fatalf("transientProviderError(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
