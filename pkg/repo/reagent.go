package repo

import (
	"context"

	"github.com/scienceol/lims/pkg/repo/model"
)

type ReagentRepo interface {
	CreateReagent(ctx context.Context, r *model.Reagent) error
}

type CompoundInfo struct {
	Name             string `json:"name"`
	MolecularFormula string `json:"molecularFormula"`
	SMILES           string `json:"smiles"`
}

type PubChemRepo interface {
	GetCompoundByCAS(ctx context.Context, cas string) (*CompoundInfo, error)
}
