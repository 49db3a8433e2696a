// Package oracle adapts an LLM chat service into the correction oracle.
// It owns prompt selection, response parsing, retries and rate limiting.
package oracle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
	"github.com/custodia-labs/matn/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Oracle = (*Client)(nil)

// Client asks an LLM to correct one chunk at a time.
type Client struct {
	llm      driven.LLMService
	prompts  driven.PromptStore
	protocol domain.Protocol
	retry    domain.RetryPolicy
	limiter  driven.RateLimiter
	sleep    func(context.Context, time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithProtocol selects rewrite or structured responses.
func WithProtocol(p domain.Protocol) Option {
	return func(c *Client) {
		if p.IsValid() {
			c.protocol = p
		}
	}
}

// WithRetryPolicy replaces the default retry policy.
func WithRetryPolicy(p domain.RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// WithRateLimiter shares a limiter across clients. Nil disables throttling.
func WithRateLimiter(l driven.RateLimiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// withSleep replaces the backoff sleeper in tests.
func withSleep(fn func(context.Context, time.Duration) error) Option {
	return func(c *Client) {
		c.sleep = fn
	}
}

// NewClient creates an oracle over llm. System prompts come from prompts.
func NewClient(llm driven.LLMService, prompts driven.PromptStore, opts ...Option) *Client {
	c := &Client{
		llm:      llm,
		prompts:  prompts,
		protocol: domain.ProtocolRewrite,
		retry:    domain.DefaultRetryPolicy(),
		sleep:    sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Protocol returns the configured response protocol.
func (c *Client) Protocol() domain.Protocol {
	return c.protocol
}

// Correct sends chunk to the LLM and parses the answer.
// Failures after retries are returned as *domain.OracleError. A structured
// body that cannot be parsed is not a failure: it yields zero records.
func (c *Client) Correct(ctx context.Context, chunk domain.Chunk) (domain.OracleOutcome, error) {
	system, err := c.systemPrompt()
	if err != nil {
		return domain.OracleOutcome{}, &domain.OracleError{ChunkIndex: chunk.Index, Kind: domain.ErrorKindUnknown, Err: err}
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: chunk.Text},
	}
	opts := driven.ChatOptions{JSON: c.protocol == domain.ProtocolStructured}

	body, err := c.call(ctx, chunk.Index, messages, opts)
	if err != nil {
		return domain.OracleOutcome{}, err
	}

	if c.protocol == domain.ProtocolRewrite {
		return domain.FullText(body), nil
	}

	records, err := ParseRecords(body)
	if err != nil {
		logger.L().Warn("discarding oracle response",
			zap.Int("chunk", chunk.Index),
			zap.Error(err))
		return domain.Records(nil), nil
	}
	return domain.Records(records), nil
}

// call runs one chat request under the retry policy.
func (c *Client) call(ctx context.Context, index int, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	maxAttempts := c.retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", &domain.OracleError{ChunkIndex: index, Kind: domain.ErrorKindCanceled, Err: err}
			}
		}

		body, err := c.llm.Chat(ctx, messages, opts)
		if err == nil {
			return body, nil
		}

		kind := Classify(ctx, err)
		if kind == domain.ErrorKindRateLimited && c.limiter != nil {
			c.limiter.RetryAfter(retryAfter(err))
		}
		if attempt >= maxAttempts || !c.retry.Retryable(kind) {
			return "", &domain.OracleError{ChunkIndex: index, Kind: kind, Err: err}
		}

		wait := c.retry.Backoff(attempt)
		if ra := retryAfter(err); ra > wait {
			wait = ra
		}
		logger.L().Debug("retrying oracle call",
			zap.Int("chunk", index),
			zap.Int("attempt", attempt),
			zap.String("kind", string(kind)),
			zap.Duration("wait", wait),
			zap.Error(err))

		if err := c.sleep(ctx, wait); err != nil {
			return "", &domain.OracleError{ChunkIndex: index, Kind: domain.ErrorKindCanceled, Err: err}
		}
	}
}

func (c *Client) systemPrompt() (string, error) {
	name := driven.PromptCorrectRewrite
	if c.protocol == domain.ProtocolStructured {
		name = driven.PromptCorrectStructured
	}
	if c.prompts == nil {
		return "", fmt.Errorf("no prompt store for %s", name)
	}
	p, err := c.prompts.Load(name)
	if err != nil {
		return "", fmt.Errorf("loading prompt %s: %w", name, err)
	}
	if p == "" {
		return "", fmt.Errorf("prompt %s is empty", name)
	}
	return p, nil
}
