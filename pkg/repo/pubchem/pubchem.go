package pubchem

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/scienceol/chemlookup/internal/config"
	"github.com/scienceol/chemlookup/pkg/common/code"
	"github.com/scienceol/chemlookup/pkg/middleware/logger"
	"github.com/scienceol/chemlookup/pkg/repo"
	"github.com/scienceol/chemlookup/pkg/utils"
)

const (
	// Legacy names are still accepted; newer servers answer with SMILES and
	// ConnectivitySMILES keys instead.
	properties = "Title,IUPACName,MolecularFormula,MolecularWeight,IsomericSMILES,CanonicalSMILES,InChIKey"

	propertyPath    = "/rest/pug/compound/{namespace}/property/{props}/JSON"
	cidPropertyPath = "/rest/pug/compound/cid/{cid}/property/{props}/JSON"
	cidsPath        = "/rest/pug/compound/{namespace}/cids/TXT"
	cidCidsPath     = "/rest/pug/compound/cid/{cid}/cids/TXT"
)

// PUG-REST fault codes.
const (
	faultNotFound   = "PUGREST.NotFound"
	faultBadRequest = "PUGREST.BadRequest"
	faultServerBusy = "PUGREST.ServerBusy"
	faultTimeout    = "PUGREST.Timeout"
)

type property struct {
	CID                int64      `json:"CID"`
	Title              string     `json:"Title"`
	MolecularFormula   string     `json:"MolecularFormula"`
	MolecularWeight    flexString `json:"MolecularWeight"`
	IUPACName          string     `json:"IUPACName"`
	IsomericSMILES     string     `json:"IsomericSMILES"`
	CanonicalSMILES    string     `json:"CanonicalSMILES"`
	SMILES             string     `json:"SMILES"`
	ConnectivitySMILES string     `json:"ConnectivitySMILES"`
	InChIKey           string     `json:"InChIKey"`
}

type PropertyResponse struct {
	PropertyTable struct {
		Properties []property `json:"Properties"`
	} `json:"PropertyTable"`
}

type Fault struct {
	Code    string   `json:"Code"`
	Message string   `json:"Message"`
	Details []string `json:"Details"`
}

type FaultResponse struct {
	Fault *Fault `json:"Fault"`
}

// flexString accepts both JSON strings and numbers; PubChem has served
// MolecularWeight as either.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

type pubchemImpl struct {
	client  *resty.Client
	baseURL string
	limiter *rate.Limiter
}

func NewPubChemRepo() repo.PubChemRepo {
	return NewWithConfig(&config.Global().PubChem)
}

func NewWithConfig(conf *config.PubChem) repo.PubChemRepo {
	baseURL := strings.TrimRight(conf.Addr, "/")

	limit := rate.Inf
	if conf.RateLimit > 0 {
		limit = rate.Limit(conf.RateLimit)
	}

	p := &pubchemImpl{
		baseURL: baseURL,
		limiter: rate.NewLimiter(limit, 1),
	}
	p.client = resty.New().
		SetTimeout(time.Duration(conf.Timeout)*time.Second).
		EnableTrace().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "chemlookup").
		SetRetryCount(conf.RetryCount).
		SetRetryWaitTime(time.Duration(conf.RetryWait)*time.Millisecond).
		SetRetryMaxWaitTime(10*time.Second).
		AddRetryCondition(retryable).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			return p.limiter.Wait(r.Context())
		})

	return p
}

func retryable(resp *resty.Response, err error) bool {
	if err != nil || resp == nil {
		return true
	}
	switch resp.StatusCode() {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (p *pubchemImpl) GetCompounds(ctx context.Context, namespace repo.Namespace, term string) ([]*repo.CompoundInfo, error) {
	propResp := &PropertyResponse{}
	faultResp := &FaultResponse{}

	req := p.client.R().
		SetContext(ctx).
		SetResult(propResp).
		SetError(faultResp)

	var (
		res *resty.Response
		err error
	)
	switch namespace {
	case repo.NamespaceCID:
		res, err = req.SetPathParams(map[string]string{
			"cid":   term,
			"props": properties,
		}).Get(cidPropertyPath)
	case repo.NamespaceSMILES, repo.NamespaceName:
		// POST keeps '/', '#', '|' and spaces out of the URL path.
		res, err = req.SetPathParams(map[string]string{
			"namespace": string(namespace),
			"props":     properties,
		}).SetFormData(map[string]string{
			string(namespace): term,
		}).Post(propertyPath)
	default:
		return nil, code.NamespaceInvalid.WithMsgf("namespace %q", namespace)
	}
	if err != nil {
		logger.Errorf(ctx, "Failed to request properties from PubChem: %v", err)
		return nil, code.RPCHttpErr.WithErr(err)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, faultErr(ctx, res.StatusCode(), faultResp.Fault)
	}

	return utils.FilterSlice(propResp.PropertyTable.Properties, func(prop property) (*repo.CompoundInfo, bool) {
		// CID 0 is a structure PubChem does not hold.
		if prop.CID <= 0 {
			return nil, false
		}
		return p.toCompoundInfo(&prop), true
	}), nil
}

func (p *pubchemImpl) GetCIDs(ctx context.Context, namespace repo.Namespace, term string) ([]int64, error) {
	req := p.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain")

	var (
		res *resty.Response
		err error
	)
	switch namespace {
	case repo.NamespaceCID:
		res, err = req.SetPathParam("cid", term).Get(cidCidsPath)
	case repo.NamespaceSMILES, repo.NamespaceName:
		res, err = req.SetPathParam("namespace", string(namespace)).
			SetFormData(map[string]string{string(namespace): term}).
			Post(cidsPath)
	default:
		return nil, code.NamespaceInvalid.WithMsgf("namespace %q", namespace)
	}
	if err != nil {
		logger.Errorf(ctx, "Failed to request cids from PubChem: %v", err)
		return nil, code.RPCHttpErr.WithErr(err)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, faultErr(ctx, res.StatusCode(), nil)
	}

	cids := make([]int64, 0, 1)
	for _, line := range strings.Split(res.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cid, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, code.RPCHttpCodeRespErr.WithMsgf("unexpected cid line %q", line)
		}
		cids = append(cids, cid)
	}
	return cids, nil
}

func (p *pubchemImpl) toCompoundInfo(prop *property) *repo.CompoundInfo {
	smiles := prop.SMILES
	if smiles == "" {
		smiles = prop.IsomericSMILES
	}
	if smiles == "" {
		smiles = prop.CanonicalSMILES
	}
	if smiles == "" {
		smiles = prop.ConnectivitySMILES
	}

	return &repo.CompoundInfo{
		CID:              prop.CID,
		Title:            prop.Title,
		IUPACName:        prop.IUPACName,
		MolecularFormula: prop.MolecularFormula,
		MolecularWeight:  string(prop.MolecularWeight),
		SMILES:           smiles,
		InChIKey:         prop.InChIKey,
		ImageURL:         fmt.Sprintf("%s/image/imagefly.cgi?width=500&height=500&cid=%d", p.baseURL, prop.CID),
		PageURL:          fmt.Sprintf("%s/compound/%d", p.baseURL, prop.CID),
	}
}

func (p *pubchemImpl) StructureImageURL(smiles string) string {
	return fmt.Sprintf("%s/rest/pug/compound/smiles/%s/PNG", p.baseURL, url.PathEscape(smiles))
}

func faultErr(ctx context.Context, status int, f *Fault) error {
	msg := fmt.Sprintf("status %d", status)
	faultCode := ""
	if f != nil {
		faultCode = f.Code
		msg = f.Message
		if len(f.Details) > 0 {
			msg = fmt.Sprintf("%s: %s", msg, strings.Join(f.Details, "; "))
		}
	}

	switch {
	case faultCode == faultNotFound || (faultCode == "" && status == http.StatusNotFound):
		return code.CompoundNotFound.WithMsg(msg)
	case faultCode == faultBadRequest || (faultCode == "" && status == http.StatusBadRequest):
		return code.QueryInvalid.WithMsg(msg)
	case faultCode == faultServerBusy, faultCode == faultTimeout:
		logger.Warnf(ctx, "PubChem unavailable: %s %s", faultCode, msg)
		return code.RPCHttpCodeErr.WithMsgf("PubChem %s: %s", faultCode, msg)
	default:
		logger.Errorf(ctx, "PubChem query failed: status %d fault %q %s", status, faultCode, msg)
		return code.RPCHttpCodeErr.WithMsgf("PubChem query failed: status %d", status)
	}
}
