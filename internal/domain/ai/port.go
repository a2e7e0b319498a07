package ai

import "context"

type Client interface {
	Summarize(ctx context.Context, findingsJSON string) (string, error)
}
