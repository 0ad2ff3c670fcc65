package server

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	Address            string
	UserHeader         string
	ConversationHeader string
	UpstreamTimeout    time.Duration
	Context            context.Context
}

func WithAddress(addr string) Option {
	return func(o *Options) {
		o.Address = addr
	}
}

// WithUserHeader sets the header the user identifier is read from.
// The header name is configuration, not a fixed contract.
func WithUserHeader(name string) Option {
	return func(o *Options) {
		o.UserHeader = name
	}
}

func WithConversationHeader(name string) Option {
	return func(o *Options) {
		o.ConversationHeader = name
	}
}

// WithUpstreamTimeout bounds each request's calls to the embedding
// provider, extractor, and record store. Zero disables the bound.
func WithUpstreamTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.UpstreamTimeout = d
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Address:            ":8080",
		UserHeader:         "X-User-Id",
		ConversationHeader: "X-Conversation-Id",
		Context:            context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
