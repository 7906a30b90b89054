package hub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/scienceol/lims/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	mu   sync.Mutex
	got  map[string][]byte
	done chan struct{}
}

func (s *sink) client(id string, userID int64, role common.Role) *Client {
	return &Client{ID: id, UserID: userID, Role: role, Send: func(data []byte) error {
		s.mu.Lock()
		s.got[id] = data
		s.mu.Unlock()
		s.done <- struct{}{}
		return nil
	}}
}

func TestDispatchFiltersClients(t *testing.T) {
	h, err := New(4)
	require.NoError(t, err)
	defer h.Close()

	s := &sink{got: map[string][]byte{}, done: make(chan struct{}, 3)}
	h.Join(s.client("officer", 1, common.ProcurementOfficer))
	h.Join(s.client("owner", 2, common.Researcher))
	h.Join(s.client("stranger", 3, common.Researcher))
	assert.Equal(t, 3, h.Len())

	queued := h.Dispatch(context.Background(), []byte("evt"), func(c *Client) bool {
		return c.Role == common.ProcurementOfficer || c.UserID == 2
	})
	require.Equal(t, 2, queued)

	for i := 0; i < queued; i++ {
		select {
		case <-s.done:
		case <-time.After(time.Second):
			t.Fatal("dispatch timed out")
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	assert.Equal(t, []byte("evt"), s.got["officer"])
	assert.Equal(t, []byte("evt"), s.got["owner"])
	assert.NotContains(t, s.got, "stranger")

	h.Leave("owner")
	assert.Equal(t, 2, h.Len())
}
