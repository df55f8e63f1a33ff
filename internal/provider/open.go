// Package provider opens a collaboration provider from a server URL.
package provider

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"go-groupchat/internal/collab"
	"go-groupchat/internal/memory"
	"go-groupchat/internal/redis"
	"go-groupchat/internal/ws"
)

var (
	hubsMu sync.Mutex
	hubs   = map[string]*memory.Hub{}
)

// Open picks an implementation from the URL scheme:
//
//	ws://, wss://  hosted websocket server
//	redis://, rediss://  Redis list + hash + pub/sub
//	mem://name  in-process hub shared by every Open in this process
func Open(ctx context.Context, opts collab.Options) (collab.Provider, error) {
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse provider url: %w", err)
	}

	switch u.Scheme {
	case "ws", "wss":
		return ws.Connect(ctx, opts)
	case "redis", "rediss":
		return redis.Connect(ctx, opts)
	case "mem":
		return Hub(u.Host).Connect(opts.Room), nil
	default:
		return nil, fmt.Errorf("%w: %q", collab.ErrUnsupportedScheme, u.Scheme)
	}
}

// Hub returns the process-wide in-memory hub registered under name.
func Hub(name string) *memory.Hub {
	hubsMu.Lock()
	defer hubsMu.Unlock()

	h, ok := hubs[name]
	if !ok {
		h = memory.NewHub()
		hubs[name] = h
	}
	return h
}
