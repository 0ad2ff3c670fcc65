package anthropic

import (
	"context"
	"errors"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/quietfoundry/rolodex/extractor"
)

type anthropicExtractor struct {
	options extractor.Options
	client  *anthropic.Client
}

func (e *anthropicExtractor) Extract(ctx context.Context, text string) (string, error) {
	fullPrompt := extractor.Prompt + "\n" + text

	req := anthropic.MessageNewParams{
		Model:     anthropic.Model(e.options.Model),
		MaxTokens: 256,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(fullPrompt)),
		},
	}

	rsp, err := e.client.Messages.New(ctx, req)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, content := range rsp.Content {
		if block, ok := content.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(block.Text)
		}
	}

	result := b.String()
	if len(result) == 0 {
		return "", errors.New("no response from Anthropic")
	}

	return result, nil
}

func NewExtractor(opts ...extractor.Option) extractor.Extractor {
	options := extractor.NewOptions(opts...)

	e := &anthropicExtractor{
		options: options,
	}

	client := anthropic.NewClient(
		anthropicopt.WithAPIKey(options.ApiKey),
	)

	e.client = &client

	return e
}
