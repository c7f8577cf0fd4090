package inference

import (
	"context"
	"strings"
	"sync"
	"time"
)

// StaticClient returns canned completions matched by prompt substring. It
// backs offline CLI runs and deterministic tests: the same prompt always
// yields the same completion.
type StaticClient struct {
	mu sync.RWMutex

	// responses maps a prompt substring to a canned completion body.
	responses map[string]string

	// Fallthrough when no substring matches.
	defaultResponse string

	// Optional artificial latency and forced error, for exercising the
	// timeout and failure paths.
	Delay time.Duration
	Err   error

	calls int
}

// NewStaticClient creates an empty static client.
func NewStaticClient() *StaticClient {
	return &StaticClient{responses: make(map[string]string)}
}

// Respond registers a canned completion for prompts containing match.
func (c *StaticClient) Respond(match, content string) *StaticClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[match] = content
	return c
}

// RespondDefault sets the completion used when nothing matches.
func (c *StaticClient) RespondDefault(content string) *StaticClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultResponse = content
	return c
}

// Calls reports how many Generate invocations have completed matching.
func (c *StaticClient) Calls() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.calls
}

// Generate returns the first registered completion whose match appears in the
// prompt. Token usage is approximated from content length so accounting paths
// stay exercised offline.
func (c *StaticClient) Generate(ctx context.Context, req Request) (*Completion, error) {
	if c.Delay > 0 {
		select {
		case <-time.After(c.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if c.Err != nil {
		return nil, c.Err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	content := c.defaultResponse
	for match, body := range c.responses {
		if strings.Contains(req.Prompt, match) {
			content = body
			break
		}
	}
	return &Completion{
		Content:    content,
		TokensUsed: (len(req.Prompt) + len(content)) / 4,
	}, nil
}
