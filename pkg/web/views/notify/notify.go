package notify

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/olahol/melody"
	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/common/uuid"
	"github.com/scienceol/lims/pkg/core/notify"
	"github.com/scienceol/lims/pkg/core/notify/hub"
	"github.com/scienceol/lims/pkg/middleware/auth"
	"github.com/scienceol/lims/pkg/middleware/logger"
	"github.com/scienceol/lims/pkg/repo/model"
)

const (
	maxMessageSize = 1 << 16
	clientKey      = "client_id"
)

type orderMsg struct {
	notify.SendMsg
	Data notify.OrderEvent `json:"data"`
}

type Handle struct {
	wsClient *melody.Melody
	hub      *hub.Hub
}

// NewNotifyHandle subscribes to order changes on center and pushes them to
// the websocket clients allowed to see them.
func NewNotifyHandle(ctx context.Context, center notify.MsgCenter, h *hub.Hub) (*Handle, error) {
	wsClient := melody.New()
	wsClient.Config.MaxMessageSize = maxMessageSize

	n := &Handle{wsClient: wsClient, hub: h}
	n.initOrderWebSocket()
	if err := center.Registry(ctx, notify.OrderChange, n.onOrderChange); err != nil {
		return nil, err
	}
	return n, nil
}

// canSee lets officers and admins see every order, others only orders
// holding one of their requests.
func canSee(c *hub.Client, event *notify.OrderEvent) bool {
	if c.Role == common.ProcurementOfficer || c.Role == common.Admin {
		return true
	}
	return slices.Contains(event.Owners, c.UserID)
}

func (n *Handle) onOrderChange(ctx context.Context, msg string) error {
	data := &orderMsg{}
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return code.UnmarshalWSDataErr.WithErr(err)
	}
	sent := n.hub.Dispatch(ctx, []byte(msg), func(c *hub.Client) bool {
		return canSee(c, &data.Data)
	})
	logger.Debugf(ctx, "order %d change pushed to %d clients", data.OrderID, sent)
	return nil
}

// Orders godoc
// @Summary  Stream order change events over a websocket
// @Tags     orders
// @Security BearerAuth
// @Router   /v1/ws/orders [get]
func (n *Handle) Orders(ctx *gin.Context) {
	userInfo := auth.GetCurrentUser(ctx)
	if userInfo == nil {
		common.ReplyErr(ctx, code.UnLogin)
		return
	}
	if err := n.wsClient.HandleRequestWithKeys(ctx.Writer, ctx.Request, map[string]any{
		auth.USERKEY: userInfo,
		"ctx":        ctx,
		clientKey:    uuid.NewV4().String(),
	}); err != nil {
		logger.Errorf(ctx, "Orders HandleRequestWithKeys err: %+v", err)
	}
}

func (n *Handle) initOrderWebSocket() {
	n.wsClient.HandleConnect(func(s *melody.Session) {
		id := s.MustGet(clientKey).(string)
		user := s.MustGet(auth.USERKEY).(*model.UserData)
		n.hub.Join(&hub.Client{
			ID:     id,
			UserID: user.ID,
			Role:   user.Role,
			Send:   s.Write,
		})
		if ctx, ok := s.Get("ctx"); ok {
			logger.Infof(ctx.(context.Context), "order ws connect client: %s user: %d", id, user.ID)
		}
	})

	n.wsClient.HandleDisconnect(func(s *melody.Session) {
		id := s.MustGet(clientKey).(string)
		n.hub.Leave(id)
		if ctx, ok := s.Get("ctx"); ok {
			logger.Infof(ctx.(context.Context), "order ws client disconnected: %s", id)
		}
	})

	n.wsClient.HandleError(func(s *melody.Session, err error) {
		if errors.Is(err, melody.ErrMessageBufferFull) {
			return
		}
		if closeErr, ok := err.(*websocket.CloseError); ok {
			if closeErr.Code == websocket.CloseGoingAway {
				return
			}
		}
		if ctx, ok := s.Get("ctx"); ok {
			logger.Errorf(ctx.(context.Context), "order ws error keys: %+v, err: %+v", s.Keys, err)
		}
	})

	// clients only listen
	n.wsClient.HandleMessage(func(_ *melody.Session, _ []byte) {})
}

func (n *Handle) Close() error {
	return n.wsClient.Close()
}
