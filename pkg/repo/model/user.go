package model

import (
	"github.com/scienceol/lims/pkg/common"
)

// UserData is the authenticated caller resolved by the auth middleware.
type UserData struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  common.Role `json:"role"`
}

// UserInfo is the OAuth2 userinfo envelope.
type UserInfo struct {
	Status string    `json:"status"`
	Msg    string    `json:"msg"`
	Data   *UserData `json:"data"`
}
