package auth

import (
	"net/http"
	"sync"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/middleware/logger"
)

const (
	ObjOrder   = "order"
	ObjRequest = "reagent_request"
	ObjReagent = "reagent"
	ObjCAS     = "cas"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

var policies = [][]string{
	{string(common.Admin), ObjOrder, string(common.Read)},
	{string(common.Researcher), ObjOrder, string(common.Read)},
	{string(common.ProcurementOfficer), ObjOrder, string(common.Read)},
	{string(common.ProcurementOfficer), ObjOrder, string(common.Create)},
	{string(common.ProcurementOfficer), ObjOrder, string(common.Update)},

	{string(common.Researcher), ObjRequest, string(common.Create)},
	{string(common.ProcurementOfficer), ObjRequest, string(common.Create)},
	{string(common.Researcher), ObjRequest, string(common.Read)},
	{string(common.ProcurementOfficer), ObjRequest, string(common.Read)},
	{string(common.ProcurementOfficer), ObjRequest, string(common.Update)},
	{string(common.Researcher), ObjRequest, string(common.UpdateOwn)},
	{string(common.ProcurementOfficer), ObjRequest, string(common.UpdateOwn)},

	{string(common.Researcher), ObjCAS, string(common.Read)},
	{string(common.ProcurementOfficer), ObjCAS, string(common.Read)},

	{string(common.ProcurementOfficer), ObjReagent, string(common.Create)},
}

var (
	enforcer     *casbin.Enforcer
	enforcerOnce sync.Once
	enforcerErr  error
)

func Enforcer() (*casbin.Enforcer, error) {
	enforcerOnce.Do(func() {
		m, err := casbinmodel.NewModelFromString(rbacModel)
		if err != nil {
			enforcerErr = err
			return
		}
		e, err := casbin.NewEnforcer(m)
		if err != nil {
			enforcerErr = err
			return
		}
		if _, err := e.AddPolicies(policies); err != nil {
			enforcerErr = err
			return
		}
		enforcer = e
	})
	return enforcer, enforcerErr
}

// Allowed reports whether role may perform act on obj.
func Allowed(role common.Role, obj string, act common.Perm) (bool, error) {
	e, err := Enforcer()
	if err != nil {
		return false, err
	}
	return e.Enforce(string(role), obj, string(act))
}

// Require rejects callers whose role may not perform act on obj. It must
// run after AuthWeb.
func Require(obj string, act common.Perm) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user := GetCurrentUser(ctx)
		if user == nil {
			abort(ctx, code.UnLogin)
			return
		}
		ok, err := Allowed(user.Role, obj, act)
		if err != nil {
			logger.Errorf(ctx, "enforce %s %s for %s err: %+v", obj, act, user.Role, err)
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, &common.Resp{
				Code:  code.UnDefineErr,
				Error: &common.Error{Msg: code.UnDefineErr.String()},
			})
			return
		}
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusForbidden, &common.Resp{
				Code:  code.PermissionDenied,
				Error: &common.Error{Msg: code.PermissionDenied.String()},
			})
			return
		}
		ctx.Next()
	}
}
