package compound

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/chemlookup/pkg/common"
	"github.com/scienceol/chemlookup/pkg/common/code"
	core "github.com/scienceol/chemlookup/pkg/core/compound"
	"github.com/scienceol/chemlookup/pkg/repo"
	"github.com/scienceol/chemlookup/pkg/repo/cache"
	"github.com/scienceol/chemlookup/pkg/repo/model"
)

type mockPubChem struct {
	mock.Mock
}

func (m *mockPubChem) GetCompounds(ctx context.Context, namespace repo.Namespace, term string) ([]*repo.CompoundInfo, error) {
	args := m.Called(ctx, namespace, term)
	data, _ := args.Get(0).([]*repo.CompoundInfo)
	return data, args.Error(1)
}

func (m *mockPubChem) GetCIDs(ctx context.Context, namespace repo.Namespace, term string) ([]int64, error) {
	args := m.Called(ctx, namespace, term)
	data, _ := args.Get(0).([]int64)
	return data, args.Error(1)
}

func (m *mockPubChem) StructureImageURL(smiles string) string {
	return "https://pubchem.example.org/rest/pug/compound/smiles/" + smiles + "/PNG"
}

type mockStore struct {
	mock.Mock
	mu      sync.Mutex
	records []*model.CompoundLookup
}

func (m *mockStore) Record(ctx context.Context, data *model.CompoundLookup) error {
	m.mu.Lock()
	m.records = append(m.records, data)
	m.mu.Unlock()
	return m.Called(ctx, data).Error(0)
}

func (m *mockStore) List(ctx context.Context, q repo.LookupQuery) ([]*model.CompoundLookup, int64, error) {
	args := m.Called(ctx, q)
	data, _ := args.Get(0).([]*model.CompoundLookup)
	return data, args.Get(1).(int64), args.Error(2)
}

var (
	isobutyric = &repo.CompoundInfo{CID: 6590, IUPACName: "2-methylpropanoic acid", MolecularFormula: "C4H8O2"}
	aspirin    = &repo.CompoundInfo{CID: 2244, IUPACName: "2-acetyloxybenzoic acid", MolecularFormula: "C9H8O4"}
)

const annotated = "CC(C(=O)O)C |$_AV:1;2;1;O';O;3$|"

func TestLookupUsesCacheOnSecondCall(t *testing.T) {
	ctx := context.Background()
	pc := &mockPubChem{}
	pc.On("GetCompounds", mock.Anything, repo.NamespaceSMILES, annotated).
		Return([]*repo.CompoundInfo{isobutyric}, nil).Once()

	svc := NewWithRepo(pc, cache.NewMemory(time.Hour), nil, 1)

	resp, err := svc.Lookup(ctx, &core.LookupReq{Namespace: repo.NamespaceSMILES, Term: annotated})
	require.NoError(t, err)
	assert.Equal(t, repo.SourceRemote, resp.Source)
	assert.Equal(t, isobutyric, resp.First)
	assert.Equal(t, "$_AV:1;2;1;O';O;3$", resp.Annotation)

	resp, err = svc.Lookup(ctx, &core.LookupReq{Namespace: repo.NamespaceSMILES, Term: "  " + annotated + "\n"})
	require.NoError(t, err)
	assert.Equal(t, repo.SourceCache, resp.Source)
	assert.Equal(t, int64(6590), resp.First.CID)

	pc.AssertExpectations(t)
}

func TestLookupNoCacheBypassesCache(t *testing.T) {
	ctx := context.Background()
	pc := &mockPubChem{}
	pc.On("GetCompounds", mock.Anything, repo.NamespaceCID, "2244").
		Return([]*repo.CompoundInfo{aspirin}, nil).Twice()

	svc := NewWithRepo(pc, cache.NewMemory(time.Hour), nil, 1)
	for i := 0; i < 2; i++ {
		resp, err := svc.Lookup(ctx, &core.LookupReq{Namespace: repo.NamespaceCID, Term: "2244", NoCache: true})
		require.NoError(t, err)
		assert.Equal(t, repo.SourceRemote, resp.Source)
	}
	pc.AssertExpectations(t)
}

func TestLookupEmptyResultIsNotFound(t *testing.T) {
	pc := &mockPubChem{}
	pc.On("GetCompounds", mock.Anything, repo.NamespaceName, "phenyl propyl ether").
		Return([]*repo.CompoundInfo{}, nil)

	svc := NewWithRepo(pc, nil, nil, 1)
	_, err := svc.Lookup(context.Background(), &core.LookupReq{Namespace: repo.NamespaceName, Term: "phenyl propyl ether"})
	require.Error(t, err)
	assert.ErrorIs(t, err, code.CompoundNotFound)
}

func TestLookupPassesRemoteErrors(t *testing.T) {
	pc := &mockPubChem{}
	pc.On("GetCompounds", mock.Anything, repo.NamespaceCID, "1").
		Return(nil, code.RPCHttpErr.WithErr(errors.New("dial tcp: timeout")))

	svc := NewWithRepo(pc, nil, nil, 1)
	_, err := svc.Lookup(context.Background(), &core.LookupReq{Namespace: repo.NamespaceCID, Term: "1"})
	assert.ErrorIs(t, err, code.RPCHttpErr)
}

func TestLookupRejectsBadQuery(t *testing.T) {
	pc := &mockPubChem{}
	svc := NewWithRepo(pc, nil, nil, 1)

	_, err := svc.Lookup(context.Background(), &core.LookupReq{Namespace: repo.NamespaceCID, Term: "aspirin"})
	assert.ErrorIs(t, err, code.QueryInvalid)

	_, err = svc.Lookup(context.Background(), &core.LookupReq{Namespace: "inchi", Term: "InChI=1S/CH4/h1H4"})
	assert.ErrorIs(t, err, code.NamespaceInvalid)

	pc.AssertNotCalled(t, "GetCompounds", mock.Anything, mock.Anything, mock.Anything)
}

func TestLookupStripStereo(t *testing.T) {
	pc := &mockPubChem{}
	pc.On("GetCompounds", mock.Anything, repo.NamespaceSMILES, "CC=CC").
		Return([]*repo.CompoundInfo{{CID: 7845, MolecularFormula: "C4H8"}}, nil)

	svc := NewWithRepo(pc, nil, nil, 1)
	resp, err := svc.Lookup(context.Background(), &core.LookupReq{
		Namespace:   repo.NamespaceSMILES,
		Term:        `C/C=C\C`,
		StripStereo: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "CC=CC", resp.Query)
	pc.AssertExpectations(t)
}

func TestLookupRecordsHistoryAndToleratesStoreErrors(t *testing.T) {
	pc := &mockPubChem{}
	pc.On("GetCompounds", mock.Anything, repo.NamespaceCID, "2244").
		Return([]*repo.CompoundInfo{aspirin}, nil)

	store := &mockStore{}
	store.On("Record", mock.Anything, mock.Anything).Return(errors.New("db down"))

	svc := NewWithRepo(pc, nil, store, 1)
	resp, err := svc.Lookup(context.Background(), &core.LookupReq{Namespace: repo.NamespaceCID, Term: "2244"})
	require.NoError(t, err)
	assert.Equal(t, int64(2244), resp.First.CID)

	require.Len(t, store.records, 1)
	rec := store.records[0]
	assert.Equal(t, "cid", rec.Namespace)
	assert.Equal(t, "2244", rec.Query)
	assert.Equal(t, "C9H8O4", rec.MolecularFormula)
	assert.Equal(t, 1, rec.ResultCount)
	assert.Equal(t, "remote", rec.Source)
	assert.JSONEq(t, `[{"cid":2244,"iupac_name":"2-acetyloxybenzoic acid","molecular_formula":"C9H8O4"}]`, string(rec.Records))
}

func TestBatchKeepsOrderAndCollectsErrors(t *testing.T) {
	pc := &mockPubChem{}
	pc.On("GetCompounds", mock.Anything, repo.NamespaceCID, "2244").
		Return([]*repo.CompoundInfo{aspirin}, nil)
	pc.On("GetCompounds", mock.Anything, repo.NamespaceSMILES, annotated).
		Return([]*repo.CompoundInfo{isobutyric}, nil)
	pc.On("GetCompounds", mock.Anything, repo.NamespaceName, "unobtainium").
		Return(nil, code.CompoundNotFound.WithMsg("No CID found"))

	svc := NewWithRepo(pc, cache.NewMemory(time.Hour), nil, 3)
	resp, err := svc.Batch(context.Background(), &core.BatchReq{Items: []*core.LookupReq{
		{Namespace: repo.NamespaceCID, Term: "2244"},
		{Namespace: repo.NamespaceName, Term: "unobtainium"},
		{Namespace: repo.NamespaceSMILES, Term: annotated},
		{Namespace: repo.NamespaceCID, Term: "-1"},
	}})
	require.NoError(t, err)
	require.Len(t, resp.Items, 4)
	assert.Equal(t, 2, resp.Failed)

	assert.Equal(t, int64(2244), resp.Items[0].Result.First.CID)
	assert.Contains(t, resp.Items[1].Error, "compound not found")
	assert.Equal(t, int64(6590), resp.Items[2].Result.First.CID)
	assert.Contains(t, resp.Items[3].Error, "invalid query")
	assert.Equal(t, "-1", resp.Items[3].Query)
}

func TestBatchRecoversPanics(t *testing.T) {
	pc := &mockPubChem{}
	pc.On("GetCompounds", mock.Anything, repo.NamespaceCID, "1").
		Run(func(mock.Arguments) { panic("boom") })

	svc := NewWithRepo(pc, nil, nil, 1)
	resp, err := svc.Batch(context.Background(), &core.BatchReq{Items: []*core.LookupReq{
		{Namespace: repo.NamespaceCID, Term: "1"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Failed)
	assert.Contains(t, resp.Items[0].Error, "boom")
}

func TestBatchEmpty(t *testing.T) {
	svc := NewWithRepo(&mockPubChem{}, nil, nil, 1)
	_, err := svc.Batch(context.Background(), &core.BatchReq{})
	assert.ErrorIs(t, err, code.BatchEmptyErr)
}

func TestCIDs(t *testing.T) {
	pc := &mockPubChem{}
	pc.On("GetCIDs", mock.Anything, repo.NamespaceName, "glucose").Return([]int64{5793, 107526}, nil)
	pc.On("GetCIDs", mock.Anything, repo.NamespaceSMILES, "C1=CC=CC=CC=CC=CC=CC=CC=CC=C1").Return([]int64{0}, nil)

	svc := NewWithRepo(pc, nil, nil, 1)
	cids, err := svc.CIDs(context.Background(), &core.LookupReq{Namespace: repo.NamespaceName, Term: "glucose"})
	require.NoError(t, err)
	assert.Equal(t, []int64{5793, 107526}, cids)

	_, err = svc.CIDs(context.Background(), &core.LookupReq{Namespace: repo.NamespaceSMILES, Term: "C1=CC=CC=CC=CC=CC=CC=CC=CC=C1"})
	assert.ErrorIs(t, err, code.CompoundNotFound)
	assert.Contains(t, err.Error(), "https://pubchem.example.org/rest/pug/compound/smiles/C1=CC=CC=CC=CC=CC=CC=CC=CC=C1/PNG")
}

func TestLookupSMILESNotFoundCarriesStructureImage(t *testing.T) {
	pc := &mockPubChem{}
	pc.On("GetCompounds", mock.Anything, repo.NamespaceSMILES, "F/C=C/F |r|").
		Return([]*repo.CompoundInfo{}, nil)

	svc := NewWithRepo(pc, nil, nil, 1)
	_, err := svc.Lookup(context.Background(), &core.LookupReq{Namespace: repo.NamespaceSMILES, Term: "F/C=C/F |r|"})
	assert.ErrorIs(t, err, code.CompoundNotFound)
	assert.Contains(t, code.Msg(err), "structure image https://pubchem.example.org/rest/pug/compound/smiles/F/C=C/F/PNG")

	pc.On("GetCompounds", mock.Anything, repo.NamespaceName, "unobtainium").Return([]*repo.CompoundInfo{}, nil)
	_, err = svc.Lookup(context.Background(), &core.LookupReq{Namespace: repo.NamespaceName, Term: "unobtainium"})
	assert.ErrorIs(t, err, code.CompoundNotFound)
	assert.NotContains(t, code.Msg(err), "structure image")
}

func TestBatchNilItem(t *testing.T) {
	pc := &mockPubChem{}
	pc.On("GetCompounds", mock.Anything, repo.NamespaceCID, "2244").Return([]*repo.CompoundInfo{aspirin}, nil)

	svc := NewWithRepo(pc, nil, nil, 2)
	resp, err := svc.Batch(context.Background(), &core.BatchReq{Items: []*core.LookupReq{
		nil,
		{Namespace: repo.NamespaceCID, Term: "2244"},
	}})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 1, resp.Failed)
	assert.ErrorContains(t, errors.New(resp.Items[0].Error), "empty batch item")
	assert.Equal(t, int64(2244), resp.Items[1].Result.First.CID)
}

func TestHistory(t *testing.T) {
	svc := NewWithRepo(&mockPubChem{}, nil, nil, 1)
	_, err := svc.History(context.Background(), &core.HistoryReq{})
	assert.ErrorIs(t, err, code.StoreDisabled)

	store := &mockStore{}
	ns := repo.NamespaceCID
	store.On("List", mock.Anything, repo.LookupQuery{
		Namespace: &ns,
		OrderBy:   "id desc",
		Offset:    10,
		Limit:     10,
	}).Return([]*model.CompoundLookup{
		{Namespace: "cid", Query: "2244", CID: 2244, IUPACName: "2-acetyloxybenzoic acid", ResultCount: 1, Source: "remote"},
	}, int64(11), nil)

	svc = NewWithRepo(&mockPubChem{}, nil, store, 1)
	page, err := svc.History(context.Background(), &core.HistoryReq{
		PageReq:   common.PageReq{Page: 2, PageSize: 10},
		Namespace: &ns,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, repo.SourceRemote, page.Data[0].Source)
	assert.Equal(t, int64(2244), page.Data[0].CID)
	store.AssertExpectations(t)
}
