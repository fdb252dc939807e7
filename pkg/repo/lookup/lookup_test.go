package lookup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/scienceol/chemlookup/pkg/common/code"
	"github.com/scienceol/chemlookup/pkg/middleware/db"
	"github.com/scienceol/chemlookup/pkg/repo"
	"github.com/scienceol/chemlookup/pkg/repo/model"
)

func newMockRepo(t *testing.T) (repo.LookupRepo, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	return New(db.NewDatastore(gdb)), mock
}

func TestRecord(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO "compound_lookup"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	data := &model.CompoundLookup{
		Namespace:        "cid",
		Query:            "2244",
		CID:              2244,
		IUPACName:        "2-acetyloxybenzoic acid",
		MolecularFormula: "C9H8O4",
		ResultCount:      1,
		Source:           "remote",
	}
	require.NoError(t, r.Record(context.Background(), data))

	assert.Equal(t, int64(7), data.ID)
	assert.False(t, data.UUID.IsNil())
	assert.False(t, data.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordError(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO "compound_lookup"`).
		WillReturnError(errors.New("connection reset"))

	err := r.Record(context.Background(), &model.CompoundLookup{Namespace: "cid", Query: "1"})
	assert.ErrorIs(t, err, code.CreateDataErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	r, mock := newMockRepo(t)

	ns := repo.NamespaceSMILES
	like := "CC"

	mock.ExpectQuery(`SELECT count\(\*\) FROM "compound_lookup" WHERE namespace = .+ AND query ILIKE .+`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "compound_lookup" WHERE namespace = .+ AND query ILIKE .+ ORDER BY id desc LIMIT .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "namespace", "query", "cid", "iupac_name", "molecular_formula", "result_count", "source", "created_at", "updated_at"}).
			AddRow(2, "smiles", "CCO", 702, "ethanol", "C2H6O", 1, "remote", now, now).
			AddRow(1, "smiles", "CC(=O)O", 176, "acetic acid", "C2H4O2", 1, "cache", now, now))

	list, total, err := r.List(context.Background(), repo.LookupQuery{Namespace: &ns, QueryLike: &like})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, int64(702), list[0].CID)
	assert.Equal(t, "acetic acid", list[1].IUPACName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCID(t *testing.T) {
	r, mock := newMockRepo(t)

	cid := int64(2244)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "compound_lookup" WHERE cid = .+`).
		WithArgs(cid).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "compound_lookup" WHERE cid = .+ ORDER BY id desc LIMIT .+ OFFSET .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "namespace", "query", "cid", "iupac_name", "inchikey"}).
			AddRow(3, "name", "aspirin", 2244, "2-acetyloxybenzoic acid", "BSYNRYMUTXBXSQ-UHFFFAOYSA-N"))

	list, total, err := r.List(context.Background(), repo.LookupQuery{CID: &cid, Offset: 20, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2244), list[0].CID)
	assert.Equal(t, "BSYNRYMUTXBXSQ-UHFFFAOYSA-N", list[0].InChIKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompoundLookupColumns(t *testing.T) {
	s, err := schema.Parse(&model.CompoundLookup{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	for field, column := range map[string]string{
		"CID":       "cid",
		"IUPACName": "iupac_name",
		"InChIKey":  "inchikey",
		"SMILES":    "smiles",
	} {
		f := s.LookUpField(field)
		require.NotNil(t, f, field)
		assert.Equal(t, column, f.DBName, field)
	}
}

func TestListCountError(t *testing.T) {
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "compound_lookup"`).
		WillReturnError(errors.New("relation does not exist"))

	_, _, err := r.List(context.Background(), repo.LookupQuery{})
	assert.ErrorIs(t, err, code.QueryRecordErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
