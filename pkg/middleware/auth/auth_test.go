package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/scienceol/lims/internal/config"
	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/repo/model"
	"github.com/scienceol/lims/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, userID int64, role common.Role, exp time.Time) string {
	t.Helper()
	token, err := utils.SignJWT(config.Global().Auth.JWTSecret, &utils.Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	require.NoError(t, err)
	return token
}

func TestParseUser(t *testing.T) {
	user, err := ParseUser(sign(t, 9, common.Researcher, time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.EqualValues(t, 9, user.ID)
	assert.Equal(t, common.Researcher, user.Role)

	_, err = ParseUser(sign(t, 9, common.Researcher, time.Now().Add(-time.Hour)))
	require.Error(t, err)

	_, err = ParseUser(sign(t, 9, common.Role("Janitor"), time.Now().Add(time.Hour)))
	require.Error(t, err)

	_, err = ParseUser("not-a-token")
	require.Error(t, err)
}

func TestAllowed(t *testing.T) {
	cases := []struct {
		role common.Role
		obj  string
		act  common.Perm
		want bool
	}{
		{common.ProcurementOfficer, ObjOrder, common.Create, true},
		{common.Researcher, ObjOrder, common.Create, false},
		{common.Admin, ObjOrder, common.Read, true},
		{common.Admin, ObjOrder, common.Update, false},
		{common.Researcher, ObjRequest, common.Create, true},
		{common.Admin, ObjRequest, common.Create, false},
		{common.Researcher, ObjRequest, common.Update, false},
		{common.Researcher, ObjRequest, common.UpdateOwn, true},
		{common.ProcurementOfficer, ObjReagent, common.Create, true},
		{common.Researcher, ObjReagent, common.Create, false},
	}
	for _, c := range cases {
		ok, err := Allowed(c.role, c.obj, c.act)
		require.NoError(t, err)
		assert.Equal(t, c.want, ok, "%s %s %s", c.role, c.obj, c.act)
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.GET("/orders", AuthWeb(), Require(ObjOrder, common.Create), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, GetCurrentUser(ctx))
	})

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		g.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, http.StatusUnauthorized, do("garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do("Bearer nope").Code)
	assert.Equal(t, http.StatusForbidden, do("Bearer "+sign(t, 1, common.Researcher, time.Now().Add(time.Hour))).Code)

	w := do("Bearer " + sign(t, 2, common.ProcurementOfficer, time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"ProcurementOfficer"`)
}

func TestWithUser(t *testing.T) {
	ctx := WithUser(context.Background(), &model.UserData{ID: 3, Role: common.Admin})
	user := GetCurrentUser(ctx)
	require.NotNil(t, user)
	assert.EqualValues(t, 3, user.ID)
	assert.Nil(t, GetCurrentUser(context.Background()))
}
