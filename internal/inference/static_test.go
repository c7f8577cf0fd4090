package inference

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticClient_MatchesBySubstring(t *testing.T) {
	client := NewStaticClient().
		Respond("market analyst", "market body").
		RespondDefault("default body")

	got, err := client.Generate(context.Background(), Request{Prompt: "You are a market analyst today."})
	require.NoError(t, err)
	assert.Equal(t, "market body", got.Content)

	got, err = client.Generate(context.Background(), Request{Prompt: "unrelated prompt"})
	require.NoError(t, err)
	assert.Equal(t, "default body", got.Content)

	assert.Equal(t, 2, client.Calls())
}

func TestStaticClient_TokenEstimate(t *testing.T) {
	client := NewStaticClient().RespondDefault("abcd")
	got, err := client.Generate(context.Background(), Request{Prompt: "1234"})
	require.NoError(t, err)
	assert.Equal(t, 2, got.TokensUsed)
}

func TestStaticClient_ForcedError(t *testing.T) {
	client := NewStaticClient()
	client.Err = errors.New("outage")

	_, err := client.Generate(context.Background(), Request{Prompt: "anything"})
	require.EqualError(t, err, "outage")
	assert.Zero(t, client.Calls())
}

func TestStaticClient_DelayHonorsContext(t *testing.T) {
	client := NewStaticClient().RespondDefault("slow body")
	client.Delay = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Generate(ctx, Request{Prompt: "p"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
