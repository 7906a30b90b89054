package hub

import (
	"context"

	"github.com/alphadose/haxmap"
	"github.com/panjf2000/ants/v2"
	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/middleware/logger"
)

// Client is one live subscriber.
type Client struct {
	ID     string
	UserID int64
	Role   common.Role
	Send   func(data []byte) error
}

// Hub fans messages out to connected clients on a bounded worker pool.
type Hub struct {
	clients *haxmap.Map[string, *Client]
	pool    *ants.Pool
}

func New(size int) (*Hub, error) {
	pool, err := ants.NewPool(size)
	if err != nil {
		return nil, err
	}
	return &Hub{
		clients: haxmap.New[string, *Client](),
		pool:    pool,
	}, nil
}

func (h *Hub) Join(c *Client) {
	h.clients.Set(c.ID, c)
}

func (h *Hub) Leave(id string) {
	h.clients.Del(id)
}

func (h *Hub) Len() int {
	return int(h.clients.Len())
}

// Dispatch queues data for every client accepted by allow. It returns the
// number of clients queued.
func (h *Hub) Dispatch(ctx context.Context, data []byte, allow func(c *Client) bool) int {
	queued := 0
	h.clients.ForEach(func(id string, c *Client) bool {
		if allow != nil && !allow(c) {
			return true
		}
		err := h.pool.Submit(func() {
			if err := c.Send(data); err != nil {
				logger.Warnf(ctx, "send to client %s err: %+v", id, err)
			}
		})
		if err != nil {
			logger.Errorf(ctx, "submit dispatch task for client %s err: %+v", id, err)
			return true
		}
		queued++
		return true
	})
	return queued
}

func (h *Hub) Close() {
	h.pool.Release()
}
