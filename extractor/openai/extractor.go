package openai

import (
	"context"
	"errors"

	"github.com/quietfoundry/rolodex/extractor"
	"github.com/sashabaranov/go-openai"
)

type openAIExtractor struct {
	options extractor.Options
	client  *openai.Client
}

func (e *openAIExtractor) Extract(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: e.options.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: extractor.Prompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	}

	rsp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}

	if len(rsp.Choices) == 0 || len(rsp.Choices[0].Message.Content) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return rsp.Choices[0].Message.Content, nil
}

func NewExtractor(opts ...extractor.Option) extractor.Extractor {
	options := extractor.NewOptions(opts...)

	e := &openAIExtractor{
		options: options,
	}

	client := openai.NewClient(options.ApiKey)

	e.client = client

	return e
}
