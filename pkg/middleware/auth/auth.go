package auth

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/lims/internal/config"
	"github.com/scienceol/lims/pkg/repo/model"
	"golang.org/x/oauth2"
)

var (
	oauthConfig *oauth2.Config
	oauthOnce   sync.Once
	USERKEY     = "AUTH_USER_KEY"
)

type userCtxKey struct{}

func GetOAuthConfig() *oauth2.Config {
	oauthOnce.Do(func() {
		authConf := config.Global().OAuth2
		oauthConfig = &oauth2.Config{
			ClientID:     authConf.ClientID,
			ClientSecret: authConf.ClientSecret,
			Scopes:       authConf.Scopes,
			Endpoint: oauth2.Endpoint{
				TokenURL: authConf.TokenURL,
				AuthURL:  authConf.AuthURL,
			},
		}
	})
	return oauthConfig
}

// WithUser binds user to a plain context, e.g. for gRPC handlers or jobs.
func WithUser(ctx context.Context, user *model.UserData) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

func GetCurrentUser(ctx context.Context) *model.UserData {
	if gCtx, ok := ctx.(*gin.Context); ok {
		if user, exists := gCtx.Get(USERKEY); exists {
			if ud, ok := user.(*model.UserData); ok {
				return ud
			}
		}
		return nil
	}
	ud, _ := ctx.Value(userCtxKey{}).(*model.UserData)
	return ud
}
