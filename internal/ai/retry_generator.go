package ai

import "context"

// RetryGenerator wraps any Generator with RetryWithBackoff. It retries
// transport failures only; content problems are the repair loop's job.
type RetryGenerator struct {
	Inner    Generator
	RetryCfg RetryConfig
}

// GenerateText delegates to the inner generator, retrying on failure.
func (r *RetryGenerator) GenerateText(ctx context.Context, messages []Message, opts Options) (string, error) {
	var text string
	err := RetryWithBackoff(ctx, r.RetryCfg, func() error {
		var err error
		text, err = r.Inner.GenerateText(ctx, messages, opts)
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
