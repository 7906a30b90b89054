package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/common/uuid"
	"github.com/scienceol/lims/pkg/core/notify"
	"github.com/scienceol/lims/pkg/middleware/logger"
	"github.com/scienceol/lims/pkg/middleware/redis"
	"github.com/scienceol/lims/pkg/utils"
)

// Events broadcasts between processes over redis pub/sub.
type Events struct {
	actions sync.Map
	subs    sync.Map
	client  *r.Client
	wait    sync.WaitGroup
}

var (
	once   sync.Once
	center notify.MsgCenter
)

// NewEvents returns the process wide center, backed by the redis client
// from InitRedis. Without a client messages stay in process.
func NewEvents() notify.MsgCenter {
	once.Do(func() {
		client := redis.GetClient()
		if client == nil {
			center = notify.NewLocal()
			return
		}
		center = New(client)
	})
	return center
}

func New(client *r.Client) *Events {
	return &Events{client: client}
}

func (e *Events) Mode() string { return "redis" }

func (e *Events) Ping(ctx context.Context) error {
	return e.client.Ping(ctx).Err()
}

func (e *Events) Registry(ctx context.Context, msgName notify.Action, handleFunc notify.HandleFunc) error {
	if _, ok := e.actions.LoadOrStore(msgName, handleFunc); ok {
		return code.NotifyActionAlreadyRegistryErr.WithMsg(string(msgName))
	}

	sub := e.client.Subscribe(ctx, string(msgName))
	if _, err := sub.Receive(ctx); err != nil {
		e.actions.Delete(msgName)
		_ = sub.Close()
		return code.NotifySendMsgErr.WithErr(err)
	}
	e.subs.Store(msgName, sub)

	e.wait.Add(1)
	utils.SafelyGo(func() {
		defer e.wait.Done()
		defer e.actions.Delete(msgName)
		defer e.subs.Delete(msgName)

		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					logger.Infof(ctx, "exit redis channel name: %s", msgName)
					return
				}
				if msg == nil {
					continue
				}
				if err := handleFunc(ctx, msg.Payload); err != nil {
					logger.Errorf(ctx, "handle redis msg fail name: %s, err: %+v", msgName, err)
				}
			case <-ctx.Done():
				logger.Infof(ctx, "exit redis channel name: %s", msgName)
				if err := sub.Close(); err != nil {
					logger.Errorf(ctx, "close subscription fail msg name: %s, err: %+v", msgName, err)
				}
				return
			}
		}
	}, func(err error) {
		logger.Errorf(ctx, "Registry handle msg err: %+v", err)
	})
	return nil
}

func (e *Events) Broadcast(ctx context.Context, msg *notify.SendMsg) error {
	msg.Timestamp = time.Now().Unix()
	if msg.UUID.IsNil() {
		msg.UUID = uuid.NewV4()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return code.NotifySendMsgErr.WithErr(err)
	}
	if err := e.client.Publish(ctx, string(msg.Channel), data).Err(); err != nil {
		logger.Errorf(ctx, "send msg fail action: %s, err: %+v", msg.Channel, err)
		return code.NotifySendMsgErr.WithErr(err)
	}
	return nil
}

// Close ends every subscription and waits for the handlers to return.
func (e *Events) Close(ctx context.Context) error {
	e.subs.Range(func(key, value any) bool {
		if sub, ok := value.(*r.PubSub); ok {
			if err := sub.Close(); err != nil {
				logger.Errorf(ctx, "close subscription %v err: %+v", key, err)
			}
		}
		return true
	})
	e.wait.Wait()
	return nil
}
