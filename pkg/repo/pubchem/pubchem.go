package pubchem

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/scienceol/lims/pkg/common/code"
	"github.com/scienceol/lims/pkg/middleware/logger"
	"github.com/scienceol/lims/pkg/repo"
)

const properties = "Title,MolecularFormula,IUPACName,IsomericSMILES,CanonicalSMILES,SMILES"

type property struct {
	Title            string `json:"Title"`
	MolecularFormula string `json:"MolecularFormula"`
	IUPACName        string `json:"IUPACName"`
	IsomericSMILES   string `json:"IsomericSMILES"`
	CanonicalSMILES  string `json:"CanonicalSMILES"`
	SMILES           string `json:"SMILES"`
}

type propertyResponse struct {
	PropertyTable struct {
		Properties []property `json:"Properties"`
	} `json:"PropertyTable"`
}

type pubchemImpl struct {
	client *resty.Client
}

func New(baseURL string, timeout time.Duration) repo.PubChemRepo {
	return &pubchemImpl{
		client: resty.New().
			SetTimeout(timeout).
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json"),
	}
}

func (p *pubchemImpl) GetCompoundByCAS(ctx context.Context, cas string) (*repo.CompoundInfo, error) {
	propResp := &propertyResponse{}
	res, err := p.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"cas":   cas,
			"props": properties,
		}).
		SetResult(propResp).
		Get("/rest/pug/compound/name/{cas}/property/{props}/JSON")
	if err != nil {
		logger.Errorf(ctx, "request pubchem properties cas: %s err: %v", cas, err)
		return nil, code.RPCHttpErr.WithErr(err)
	}

	switch res.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, code.ReagentCASNotFindErr.WithMsgf("cas %s not found", cas)
	default:
		return nil, code.RPCHttpCodeErr.WithMsgf("pubchem property query failed: status %d", res.StatusCode())
	}
	if len(propResp.PropertyTable.Properties) == 0 {
		return nil, code.ReagentCASNotFindErr.WithMsgf("cas %s not found", cas)
	}

	prop := propResp.PropertyTable.Properties[0]
	name := prop.Title
	if name == "" {
		name = prop.IUPACName
	}
	smiles := prop.IsomericSMILES
	if smiles == "" {
		smiles = prop.CanonicalSMILES
	}
	if smiles == "" {
		smiles = prop.SMILES
	}

	return &repo.CompoundInfo{
		Name:             name,
		MolecularFormula: prop.MolecularFormula,
		SMILES:           smiles,
	}, nil
}
