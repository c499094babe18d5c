package cli

import (
	"context"

	"github.com/sullytools/editguru/internal/llm"
)

// SpinnerClient decorates a completion backend with a stderr activity
// indicator, so the operator can tell a slow completion from a hang.
type SpinnerClient struct {
	Client  llm.Client
	Spinner *Spinner
	Message string
}

func (c *SpinnerClient) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	msg := c.Message
	if msg == "" {
		msg = "AI is processing..."
	}
	c.Spinner.Start(msg)
	defer c.Spinner.Stop()
	return c.Client.Complete(ctx, req)
}
