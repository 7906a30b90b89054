package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/common/uuid"
)

// Local delivers messages to handlers in the same process. It serves single
// node deployments that run without redis.
type Local struct {
	mu       sync.RWMutex
	handlers map[Action]HandleFunc
}

func NewLocal() *Local {
	return &Local{handlers: make(map[Action]HandleFunc)}
}

func (l *Local) Registry(_ context.Context, msgName Action, handleFunc HandleFunc) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.handlers[msgName]; ok {
		return code.NotifyActionAlreadyRegistryErr.WithMsg(string(msgName))
	}
	l.handlers[msgName] = handleFunc
	return nil
}

func (l *Local) Broadcast(ctx context.Context, msg *SendMsg) error {
	l.mu.RLock()
	handle, ok := l.handlers[msg.Channel]
	l.mu.RUnlock()
	if !ok {
		return nil
	}

	msg.Timestamp = time.Now().Unix()
	if msg.UUID.IsNil() {
		msg.UUID = uuid.NewV4()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return code.NotifySendMsgErr.WithErr(err)
	}
	return handle(ctx, string(data))
}

func (l *Local) Close(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers = make(map[Action]HandleFunc)
	return nil
}

func (l *Local) Mode() string { return "local" }

func (l *Local) Ping(context.Context) error { return nil }
