package compound

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/scienceol/chemlookup/internal/config"
	"github.com/scienceol/chemlookup/pkg/common"
	"github.com/scienceol/chemlookup/pkg/common/code"
	core "github.com/scienceol/chemlookup/pkg/core/compound"
	"github.com/scienceol/chemlookup/pkg/middleware/db"
	"github.com/scienceol/chemlookup/pkg/middleware/logger"
	"github.com/scienceol/chemlookup/pkg/repo"
	"github.com/scienceol/chemlookup/pkg/repo/cache"
	"github.com/scienceol/chemlookup/pkg/repo/lookup"
	"github.com/scienceol/chemlookup/pkg/repo/model"
	"github.com/scienceol/chemlookup/pkg/repo/pubchem"
	"github.com/scienceol/chemlookup/pkg/utils"
)

const instrumentation = "github.com/scienceol/chemlookup/pkg/core/compound"

type compoundImpl struct {
	pubchem     repo.PubChemRepo
	cache       repo.CompoundCache
	store       repo.LookupRepo // nil when history is disabled
	concurrency int

	tracer  trace.Tracer
	lookups metric.Int64Counter
	latency metric.Float64Histogram
}

// New wires the service from the global config. History is recorded only
// when the store is enabled and postgres has been initialised.
func New() core.Service {
	conf := config.Global()

	var store repo.LookupRepo
	if conf.Store.Enable && db.DB() != nil {
		store = lookup.NewLookupRepo()
	}

	return NewWithRepo(pubchem.NewPubChemRepo(), cache.New(&conf.Cache), store, conf.Batch.Concurrency)
}

func NewWithRepo(pubchemRepo repo.PubChemRepo, cacheRepo repo.CompoundCache, store repo.LookupRepo, concurrency int) core.Service {
	if cacheRepo == nil {
		cacheRepo = cache.NewNone()
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	meter := otel.Meter(instrumentation)
	lookups, _ := meter.Int64Counter("chemlookup.lookup.count",
		metric.WithDescription("compound lookups by namespace, source and result"))
	latency, _ := meter.Float64Histogram("chemlookup.lookup.duration",
		metric.WithDescription("compound lookup latency"),
		metric.WithUnit("s"))

	return &compoundImpl{
		pubchem:     pubchemRepo,
		cache:       cacheRepo,
		store:       store,
		concurrency: concurrency,
		tracer:      otel.Tracer(instrumentation),
		lookups:     lookups,
		latency:     latency,
	}
}

// Lookup 业务实现：
// - 解析/校验查询
// - 先查缓存，未命中再请求 PubChem
// - 记录查询历史
func (c *compoundImpl) Lookup(ctx context.Context, req *core.LookupReq) (*core.LookupResp, error) {
	q, err := core.ParseQuery(req.Namespace, req.Term)
	if err != nil {
		return nil, err
	}
	if req.StripStereo {
		q = q.StripStereo()
	}

	ctx, span := c.tracer.Start(ctx, "compound.Lookup", trace.WithAttributes(
		attribute.String("compound.namespace", string(q.Namespace)),
		attribute.String("compound.query", q.Term),
	))
	defer span.End()
	start := time.Now()

	source := repo.SourceCache
	compounds, hit := c.fromCache(ctx, q, req.NoCache)
	if !hit {
		source = repo.SourceRemote
		compounds, err = c.pubchem.GetCompounds(ctx, q.Namespace, q.Term)
		if err != nil {
			c.observe(ctx, q, source, "error", start)
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		if len(compounds) > 0 {
			c.toCache(ctx, q, compounds)
		}
	}

	if len(compounds) == 0 {
		c.observe(ctx, q, source, "not_found", start)
		span.SetStatus(otelcodes.Error, "not found")
		return nil, c.notFound(q)
	}

	resp := &core.LookupResp{
		Namespace:  q.Namespace,
		Query:      q.Term,
		Annotation: q.Annotation(),
		Source:     source,
		First:      compounds[0],
		Compounds:  compounds,
	}
	span.SetAttributes(
		attribute.Int64("compound.cid", resp.First.CID),
		attribute.Int("compound.count", len(compounds)),
		attribute.String("compound.source", string(source)),
	)

	c.record(ctx, resp)
	c.observe(ctx, q, source, "ok", start)
	return resp, nil
}

func (c *compoundImpl) fromCache(ctx context.Context, q core.Query, skip bool) ([]*repo.CompoundInfo, bool) {
	if skip {
		return nil, false
	}
	data, ok, err := c.cache.Get(ctx, q.Key())
	if err != nil {
		logger.Warnf(ctx, "cache get %s err: %+v", q.Key(), err)
		return nil, false
	}
	return data, ok && len(data) > 0
}

func (c *compoundImpl) toCache(ctx context.Context, q core.Query, data []*repo.CompoundInfo) {
	if err := c.cache.Set(ctx, q.Key(), data); err != nil {
		logger.Warnf(ctx, "cache set %s err: %+v", q.Key(), err)
	}
}

func (c *compoundImpl) record(ctx context.Context, resp *core.LookupResp) {
	if c.store == nil {
		return
	}

	records, err := json.Marshal(resp.Compounds)
	if err != nil {
		logger.Warnf(ctx, "marshal lookup records err: %+v", err)
		records = nil
	}

	first := resp.First
	data := &model.CompoundLookup{
		Namespace:        string(resp.Namespace),
		Query:            resp.Query,
		CID:              first.CID,
		Title:            first.Title,
		IUPACName:        first.IUPACName,
		MolecularFormula: first.MolecularFormula,
		MolecularWeight:  first.MolecularWeight,
		SMILES:           first.SMILES,
		InChIKey:         first.InChIKey,
		ResultCount:      len(resp.Compounds),
		Source:           string(resp.Source),
		Records:          datatypes.JSON(records),
	}
	if err := c.store.Record(ctx, data); err != nil {
		logger.Warnf(ctx, "record lookup %s %s err: %+v", resp.Namespace, resp.Query, err)
	}
}

func (c *compoundImpl) observe(ctx context.Context, q core.Query, source repo.Source, result string, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("namespace", string(q.Namespace)),
		attribute.String("source", string(source)),
		attribute.String("result", result),
	)
	c.lookups.Add(ctx, 1, attrs)
	c.latency.Record(ctx, time.Since(start).Seconds(), attrs)
}

// Batch 并发查询，结果顺序与入参一致
func (c *compoundImpl) Batch(ctx context.Context, req *core.BatchReq) (*core.BatchResp, error) {
	if len(req.Items) == 0 {
		return nil, code.BatchEmptyErr
	}

	size := req.Concurrency
	if size <= 0 {
		size = c.concurrency
	}
	if size > len(req.Items) {
		size = len(req.Items)
	}

	pool, err := ants.NewPool(size)
	if err != nil {
		logger.Errorf(ctx, "failed to create ants pool, using default: %+v", err)
		pool, _ = ants.NewPool(ants.DefaultAntsPoolSize)
	}
	defer pool.Release()

	items := make([]*core.BatchItem, len(req.Items))
	wg := sync.WaitGroup{}
	for i, item := range req.Items {
		if item == nil {
			items[i] = &core.BatchItem{Error: code.ParamErr.WithMsg("empty batch item").Error()}
			continue
		}
		items[i] = &core.BatchItem{Namespace: item.Namespace, Query: item.Term}
		out := items[i]
		in := item

		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			var (
				resp *core.LookupResp
				lerr error
			)
			if perr := utils.SafelyRun(func() {
				resp, lerr = c.Lookup(ctx, in)
			}); perr != nil {
				lerr = code.LookupErr.WithErr(perr)
			}
			if lerr != nil {
				out.Error = lerr.Error()
				return
			}
			out.Result = resp
		}); err != nil {
			wg.Done()
			out.Error = code.LookupErr.WithErr(err).Error()
		}
	}
	wg.Wait()

	resp := &core.BatchResp{Items: items}
	for _, item := range items {
		if item.Error != "" {
			resp.Failed++
		}
	}
	return resp, nil
}

// CIDs 仅解析 CID，0 表示 PubChem 无此结构
func (c *compoundImpl) CIDs(ctx context.Context, req *core.LookupReq) ([]int64, error) {
	q, err := core.ParseQuery(req.Namespace, req.Term)
	if err != nil {
		return nil, err
	}
	if req.StripStereo {
		q = q.StripStereo()
	}

	cids, err := c.pubchem.GetCIDs(ctx, q.Namespace, q.Term)
	if err != nil {
		return nil, err
	}

	cids = utils.FilterSlice(cids, func(cid int64) (int64, bool) {
		return cid, cid > 0
	})
	if len(cids) == 0 {
		return nil, c.notFound(q)
	}
	return cids, nil
}

// notFound points SMILES misses at PubChem's rendering of the structure.
func (c *compoundImpl) notFound(q core.Query) error {
	if smiles := q.SMILES(); smiles != "" {
		return code.CompoundNotFound.WithMsgf("no compound matches %s, structure image %s",
			q, c.pubchem.StructureImageURL(smiles))
	}
	return code.CompoundNotFound.WithMsgf("no compound matches %s", q)
}

// History 查询历史记录
func (c *compoundImpl) History(ctx context.Context, req *core.HistoryReq) (*common.PageResp[[]*core.HistoryItem], error) {
	if c.store == nil {
		return nil, code.StoreDisabled
	}

	if req.Namespace != nil && !req.Namespace.Valid() {
		return nil, code.NamespaceInvalid.WithMsgf("namespace %q", *req.Namespace)
	}

	req.Normalize()
	list, total, err := c.store.List(ctx, repo.LookupQuery{
		Namespace: req.Namespace,
		QueryLike: req.Query,
		CID:       req.CID,
		OrderBy:   "id desc",
		Offset:    req.Offest(),
		Limit:     req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	return &common.PageResp[[]*core.HistoryItem]{
		Data: utils.FilterSlice(list, func(l *model.CompoundLookup) (*core.HistoryItem, bool) {
			return &core.HistoryItem{
				UUID:             l.UUID,
				CreatedAt:        l.CreatedAt,
				Namespace:        repo.Namespace(l.Namespace),
				Query:            l.Query,
				CID:              l.CID,
				IUPACName:        l.IUPACName,
				MolecularFormula: l.MolecularFormula,
				ResultCount:      l.ResultCount,
				Source:           repo.Source(l.Source),
			}, true
		}),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
