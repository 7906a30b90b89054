package request

import (
	"context"
	"strings"

	"github.com/scienceol/lims/pkg/common"
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/core/lifecycle"
	"github.com/scienceol/lims/pkg/core/request"
	"github.com/scienceol/lims/pkg/middleware/auth"
	"github.com/scienceol/lims/pkg/middleware/db"
	"github.com/scienceol/lims/pkg/middleware/logger"
	"github.com/scienceol/lims/pkg/repo"
	"github.com/scienceol/lims/pkg/repo/model"
	requestStore "github.com/scienceol/lims/pkg/repo/request"
)

type Option func(*requestImpl)

// WithPubChem enables CAS lookups. With enrich set, requests created with a
// CAS number and no structure get the PubChem SMILES filled in.
func WithPubChem(client repo.PubChemRepo, enrich bool) Option {
	return func(r *requestImpl) {
		r.pubchem = client
		r.enrich = enrich
	}
}

type requestImpl struct {
	ds      *db.Datastore
	store   repo.ReagentRequestRepo
	pubchem repo.PubChemRepo
	enrich  bool
}

func New(ds *db.Datastore, opts ...Option) request.Service {
	r := &requestImpl{
		ds:    ds,
		store: requestStore.New(ds),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// scopeFor limits everyone but procurement officers to their own requests.
func scopeFor(user *model.UserData) repo.RequestScope {
	if user.Role == common.ProcurementOfficer {
		return repo.ScopeAll()
	}
	return repo.OwnedBy(user.ID)
}

func (r *requestImpl) Create(ctx context.Context, req *request.CreateReq) (*model.ReagentRequest, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}
	data := req.ToModel(user.ID)
	r.fillStructure(ctx, data)
	if err := r.store.CreateRequest(ctx, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (r *requestImpl) fillStructure(ctx context.Context, data *model.ReagentRequest) {
	if !r.enrich || r.pubchem == nil || data.CASNumber == nil || data.StructureSmiles != nil {
		return
	}
	cas := strings.TrimSpace(*data.CASNumber)
	if cas == "" {
		return
	}
	info, err := r.pubchem.GetCompoundByCAS(ctx, cas)
	if err != nil {
		logger.Warnf(ctx, "enrich request structure cas: %s err: %+v", cas, err)
		return
	}
	if info.SMILES != "" {
		data.StructureSmiles = &info.SMILES
	}
}

func (r *requestImpl) List(ctx context.Context, req *request.ListReq) (*request.ListResp, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}
	list, total, err := r.store.ListRequests(ctx, req.Query(scopeFor(user)))
	if err != nil {
		return nil, err
	}
	return &request.ListResp{Requests: list, Size: total}, nil
}

func (r *requestImpl) Get(ctx context.Context, id int64) (*model.ReagentRequest, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}
	data, err := r.store.GetRequest(ctx, id, repo.ScopeAll())
	if err != nil {
		return nil, err
	}
	if owner, ok := scopeFor(user).Owner(); ok && owner != data.UserID {
		return nil, code.PermissionDenied.WithMsg("Access to this Reagent Request is denied")
	}
	return data, nil
}

func (r *requestImpl) Edit(ctx context.Context, req *request.EditReq) (*model.ReagentRequest, error) {
	if err := lifecycle.CheckOverride(req.Status, req.Package); err != nil {
		return nil, err
	}
	return r.store.OverrideFields(ctx, req.ID, &repo.RequestOverride{
		Status:              req.Status,
		ProcurementComments: req.ProcurementComments,
		DesiredQuantity:     req.DesiredQuantity,
		Package:             req.Package,
	})
}

func (r *requestImpl) UpdateOwn(ctx context.Context, req *request.OwnEditReq) (*model.ReagentRequest, error) {
	user := auth.GetCurrentUser(ctx)
	if user == nil {
		return nil, code.UnLogin
	}

	var updated *model.ReagentRequest
	err := r.ds.ExecTx(ctx, func(txCtx context.Context) error {
		current, err := r.store.GetRequestForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}
		if current.UserID != user.ID {
			return code.ReagentRequestNotFound
		}
		if err := lifecycle.CheckOwnerEdit(current.Status); err != nil {
			return err
		}
		updated, err = r.store.UpdateFields(txCtx, req.ID, req.Fields())
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *requestImpl) LookupCAS(ctx context.Context, cas string) (*repo.CompoundInfo, error) {
	if r.pubchem == nil {
		return nil, code.ReagentCASQueryErr.WithMsg("cas lookup is not configured")
	}
	cas = strings.TrimSpace(cas)
	if cas == "" {
		return nil, code.ParamErr.WithMsg("cas is required")
	}
	return r.pubchem.GetCompoundByCAS(ctx, cas)
}
