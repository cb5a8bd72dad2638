package ai

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"email-agent/internal/logger"
)

type ClientOptions struct {
	Timeout         time.Duration
	RateLimitRPS    float64
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:         30 * time.Second,
		RateLimitRPS:    2,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}

// Client is the single handle the services use to reach a provider. It is
// built once at startup. A nil provider is valid and makes every call
// unavailable.
type Client struct {
	provider Provider
	limiter  *rate.Limiter
	cb       *gobreaker.CircuitBreaker
	timeout  time.Duration
	logger   *logger.Logger
}

func NewClient(provider Provider, opts ClientOptions, logger *logger.Logger) *Client {
	c := &Client{
		provider: provider,
		timeout:  opts.Timeout,
		logger:   logger,
	}
	if opts.RateLimitRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimitRPS), 1)
	}

	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	name := "llm"
	if provider != nil {
		name = "llm-" + provider.Name()
	}
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("circuit breaker %s: %s -> %s", name, from.String(), to.String())
		},
	})
	return c
}

// Available reports whether a provider is configured and the breaker is not
// open.
func (c *Client) Available() bool {
	return c != nil && c.provider != nil && c.cb.State() != gobreaker.StateOpen
}

func (c *Client) ProviderName() string {
	if c == nil || c.provider == nil {
		return "none"
	}
	return c.provider.Name()
}

// Generate sends prompt to the provider. ok is false when there is no
// provider, the breaker is open, the call failed or the answer was empty.
// Failures are logged here and never returned.
func (c *Client) Generate(ctx context.Context, prompt string) (string, bool) {
	if c == nil || c.provider == nil {
		return "", false
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.logger.Warn("LLM call skipped, rate limiter:", err)
			return "", false
		}
	}

	result, err := c.cb.Execute(func() (interface{}, error) {
		callCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		return c.provider.Generate(callCtx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("LLM call skipped, circuit open:", c.provider.Name())
		} else {
			c.logger.Error("LLM call failed:", err)
		}
		return "", false
	}

	text, _ := result.(string)
	if text == "" {
		c.logger.Warn("LLM returned an empty response from", c.provider.Name())
		return "", false
	}
	return text, true
}
