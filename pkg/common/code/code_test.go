package code

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDetailsMessageCarriesEveryLine(t *testing.T) {
	err := OrderReagentConflict.WithDetails(
		"Order with id 1 includes reagentRequests with id[s] - 1, 2 which has status Ordered",
		"Order with id 4 includes reagentRequests with id[s] - 9 which has status Ordered",
	)
	c, msg, details := Parse(fmt.Errorf("create: %w", err))
	assert.Equal(t, OrderReagentConflict, c)
	assert.Equal(t, "Order with id 1 includes reagentRequests with id[s] - 1, 2 which has status Ordered; "+
		"Order with id 4 includes reagentRequests with id[s] - 9 which has status Ordered", msg)
	assert.Len(t, details, 2)
	assert.Equal(t, http.StatusConflict, c.HTTPStatus())
}

func TestParseFallsBackToUndefined(t *testing.T) {
	c, msg, _ := Parse(errors.New("boom"))
	assert.Equal(t, UnDefineErr, c)
	assert.Equal(t, UnDefineErr.String(), msg)

	c, _, _ = Parse(nil)
	assert.Equal(t, Success, c)
}
