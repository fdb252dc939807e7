package compound

import (
	"time"

	"github.com/scienceol/chemlookup/pkg/common"
	"github.com/scienceol/chemlookup/pkg/common/uuid"
	"github.com/scienceol/chemlookup/pkg/repo"
)

type LookupReq struct {
	Namespace   repo.Namespace `json:"namespace" form:"namespace"`
	Term        string         `json:"term" form:"q"`
	StripStereo bool           `json:"strip_stereo" form:"strip_stereo"`
	NoCache     bool           `json:"no_cache" form:"no_cache"`
}

type LookupResp struct {
	Namespace  repo.Namespace       `json:"namespace" yaml:"namespace"`
	Query      string               `json:"query" yaml:"query"`
	Annotation string               `json:"annotation,omitempty" yaml:"annotation,omitempty"`
	Source     repo.Source          `json:"source" yaml:"source"`
	First      *repo.CompoundInfo   `json:"first" yaml:"first"`
	Compounds  []*repo.CompoundInfo `json:"compounds" yaml:"compounds"`
}

type BatchReq struct {
	Items       []*LookupReq `json:"items" binding:"required"`
	Concurrency int          `json:"concurrency"`
}

type BatchItem struct {
	Namespace repo.Namespace `json:"namespace" yaml:"namespace"`
	Query     string         `json:"query" yaml:"query"`
	Result    *LookupResp    `json:"result,omitempty" yaml:"result,omitempty"`
	Error     string         `json:"error,omitempty" yaml:"error,omitempty"`
}

type BatchResp struct {
	Items  []*BatchItem `json:"items" yaml:"items"`
	Failed int          `json:"failed" yaml:"failed"`
}

type HistoryReq struct {
	common.PageReq

	Namespace *repo.Namespace `form:"namespace"`
	Query     *string         `form:"q"`
	CID       *int64          `form:"cid"`
}

type HistoryItem struct {
	UUID             uuid.UUID      `json:"uuid" yaml:"uuid"`
	CreatedAt        time.Time      `json:"created_at" yaml:"created_at"`
	Namespace        repo.Namespace `json:"namespace" yaml:"namespace"`
	Query            string         `json:"query" yaml:"query"`
	CID              int64          `json:"cid" yaml:"cid"`
	IUPACName        string         `json:"iupac_name" yaml:"iupac_name"`
	MolecularFormula string         `json:"molecular_formula" yaml:"molecular_formula"`
	ResultCount      int            `json:"result_count" yaml:"result_count"`
	Source           repo.Source    `json:"source" yaml:"source"`
}
