package compound

import (
	"github.com/gin-gonic/gin"

	"github.com/scienceol/chemlookup/pkg/common"
	"github.com/scienceol/chemlookup/pkg/common/code"
	core "github.com/scienceol/chemlookup/pkg/core/compound"
	impl "github.com/scienceol/chemlookup/pkg/core/compound/compound"
	"github.com/scienceol/chemlookup/pkg/middleware/logger"
	"github.com/scienceol/chemlookup/pkg/repo"
	"github.com/scienceol/chemlookup/pkg/utils"
)

type Handle struct {
	cService core.Service
}

func NewCompoundHandle() *Handle {
	return NewHandle(impl.New())
}

func NewHandle(s core.Service) *Handle {
	return &Handle{cService: s}
}

// Smiles serves GET /api/v1/compound/smiles?q=<smiles>. q must be
// percent-encoded, a bare + in a query string decodes to a space.
func (h *Handle) Smiles(ctx *gin.Context) {
	h.lookup(ctx, repo.NamespaceSMILES)
}

func (h *Handle) Name(ctx *gin.Context) {
	h.lookup(ctx, repo.NamespaceName)
}

func (h *Handle) CID(ctx *gin.Context) {
	req := &core.LookupReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse CID param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	req.Namespace = repo.NamespaceCID
	req.Term = ctx.Param("cid")

	resp, err := h.cService.Lookup(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) lookup(ctx *gin.Context, ns repo.Namespace) {
	req := &core.LookupReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse %s lookup param err: %+v", ns, err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	req.Namespace = ns

	resp, err := h.cService.Lookup(ctx, req)
	common.Reply(ctx, err, resp)
}

// CIDs resolves identifiers only: GET /api/v1/compound/cids?namespace=smiles&q=...
func (h *Handle) CIDs(ctx *gin.Context) {
	req := &core.LookupReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse CIDs param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	if req.Namespace == "" {
		req.Namespace = repo.NamespaceSMILES
	}

	cids, err := h.cService.CIDs(ctx, req)
	common.Reply(ctx, err, map[string][]int64{"cids": cids})
}

func (h *Handle) Batch(ctx *gin.Context) {
	req := &core.BatchReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "parse Batch param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	for _, item := range req.Items {
		if item != nil && item.Namespace == "" {
			item.Namespace = repo.NamespaceSMILES
		}
	}
	req.Items = utils.FilterSlice(req.Items, func(item *core.LookupReq) (*core.LookupReq, bool) {
		return item, item != nil
	})

	resp, err := h.cService.Batch(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) History(ctx *gin.Context) {
	req := &core.HistoryReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse History param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}

	resp, err := h.cService.History(ctx, req)
	common.Reply(ctx, err, resp)
}
