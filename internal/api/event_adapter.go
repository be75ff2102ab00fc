package api

import (
	"afmdash/domain/feed"
)

// SSEViewBroadcaster adapts the SSEHub to ports.ViewObserver
type SSEViewBroadcaster struct {
	sseHub *SSEHub
}

// NewSSEViewBroadcaster creates a new SSE view broadcaster
func NewSSEViewBroadcaster(sseHub *SSEHub) *SSEViewBroadcaster {
	return &SSEViewBroadcaster{sseHub: sseHub}
}

// OnView publishes the compact summary of v
func (b *SSEViewBroadcaster) OnView(v feed.View) {
	b.sseHub.Broadcast(v.Summarize())
}
