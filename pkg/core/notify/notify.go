package notify

import (
	"context"

	"github.com/scienceol/lims/pkg/common/uuid"
)

type Action string

const (
	OrderChange Action = "order-change"
)

type SendMsg struct {
	Channel   Action    `json:"action"`
	OrderID   int64     `json:"orderId"`
	UserID    int64     `json:"userId"`
	Data      any       `json:"data"`
	UUID      uuid.UUID `json:"uuid"`
	Timestamp int64     `json:"timestamp"`
}

type HandleFunc func(ctx context.Context, msg string) error

type MsgCenter interface {
	Registry(ctx context.Context, msgName Action, handleFunc HandleFunc) error
	Broadcast(ctx context.Context, msg *SendMsg) error
	Close(ctx context.Context) error
}

// Prober reports the transport a centre runs on and whether it is reachable.
type Prober interface {
	Mode() string
	Ping(ctx context.Context) error
}

type nop struct{}

// Nop drops every message. Used when no broker is configured.
func Nop() MsgCenter {
	return nop{}
}

func (nop) Registry(context.Context, Action, HandleFunc) error { return nil }
func (nop) Broadcast(context.Context, *SendMsg) error          { return nil }
func (nop) Close(context.Context) error                        { return nil }
func (nop) Mode() string                                       { return "disabled" }
func (nop) Ping(context.Context) error                         { return nil }

// OrderEvent is the payload of an OrderChange message.
type OrderEvent struct {
	Kind       string  `json:"kind"`
	OrderID    int64   `json:"orderId"`
	Status     string  `json:"status"`
	RequestIDs []int64 `json:"requestIds"`
	Owners     []int64 `json:"owners"`
}
