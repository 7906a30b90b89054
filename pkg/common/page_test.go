package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageReqLimit(t *testing.T) {
	assert.Equal(t, DefaultTake, (&PageReq{}).Limit())

	take := 25
	assert.Equal(t, 25, (&PageReq{Take: &take}).Limit())

	huge := 1 << 50
	assert.Equal(t, MaxTake, (&PageReq{Take: &huge}).Limit())
}
