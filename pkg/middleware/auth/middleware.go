package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/lims/internal/config"
	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/middleware/logger"
	"github.com/scienceol/lims/pkg/repo/model"
	"github.com/scienceol/lims/pkg/utils"
	"golang.org/x/oauth2"
)

type AuthType string

const (
	AuthTypeBearer AuthType = "Bearer"
)

type AuthFunc func(ctx *gin.Context, token string) *model.UserData

// ValidateToken resolves an OAuth2 access token through the userinfo
// endpoint.
func ValidateToken(ctx context.Context, tokenType string, token string) (*model.UserData, error) {
	client := GetOAuthConfig().Client(ctx, &oauth2.Token{
		AccessToken: token,
		TokenType:   tokenType,
	})
	resp, err := client.Get(config.Global().OAuth2.UserInfoURL)
	if err != nil {
		logger.Errorf(ctx, "Failed to get user info: %v", err)
		return nil, code.InvalidToken
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, code.InvalidToken
	}
	result := &model.UserInfo{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil || result.Status != "ok" || result.Data == nil {
		return nil, code.InvalidToken
	}
	if !result.Data.Role.Valid() {
		return nil, code.InvalidToken.WithMsgf("unknown role %q", result.Data.Role)
	}
	return result.Data, nil
}

// ParseUser verifies a signed JWT issued for this service.
func ParseUser(token string) (*model.UserData, error) {
	conf := config.Global().Auth
	claims := &utils.Claims{}
	if err := utils.ParseJWT(token, conf.JWTSecret, conf.JWTIssuer, claims); err != nil {
		return nil, code.InvalidToken.WithErr(err)
	}
	role := common.Role(claims.Role)
	if claims.UserID <= 0 || !role.Valid() {
		return nil, code.InvalidToken
	}
	return &model.UserData{ID: claims.UserID, Role: role, Name: claims.Subject}, nil
}

func AuthWeb() gin.HandlerFunc {
	authFuncMap := map[AuthType]AuthFunc{}
	switch config.Global().Auth.AuthSource {
	case config.AuthOAuth2:
		authFuncMap[AuthTypeBearer] = getOAuthUser
	default:
		authFuncMap[AuthTypeBearer] = getJWTUser
	}
	return Auth(authFuncMap)
}

func abort(ctx *gin.Context, c code.ErrCode) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, &common.Resp{
		Code:  c,
		Error: &common.Error{Msg: c.String()},
	})
}

func Auth(authFuncMap map[AuthType]AuthFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		cookie, _ := ctx.Cookie("access_token")
		authHeader := utils.Or(ctx.GetHeader("Authorization"), cookie, ctx.Query("access_token"))
		if authHeader == "" {
			abort(ctx, code.UnLogin)
			return
		}
		tokens := strings.SplitN(authHeader, " ", 2)
		if len(tokens) != 2 {
			abort(ctx, code.LoginFormatErr)
			return
		}
		var userInfo *model.UserData
		if f, ok := authFuncMap[AuthType(tokens[0])]; ok {
			userInfo = f(ctx, tokens[1])
		}
		if userInfo == nil {
			abort(ctx, code.InvalidToken)
			return
		}
		ctx.Set(USERKEY, userInfo)
		ctx.Next()
	}
}

func getJWTUser(ctx *gin.Context, token string) *model.UserData {
	user, err := ParseUser(token)
	if err != nil {
		logger.Warnf(ctx, "parse jwt token err: %v", err)
		return nil
	}
	return user
}

func getOAuthUser(ctx *gin.Context, token string) *model.UserData {
	user, err := ValidateToken(ctx, string(AuthTypeBearer), token)
	if err != nil {
		logger.Warnf(ctx, "Token validation failed: %v", err)
		return nil
	}
	return user
}

// Resolve verifies a bearer token with the configured auth source.
func Resolve(ctx context.Context, token string) (*model.UserData, error) {
	if config.Global().Auth.AuthSource == config.AuthOAuth2 {
		return ValidateToken(ctx, string(AuthTypeBearer), token)
	}
	return ParseUser(token)
}
