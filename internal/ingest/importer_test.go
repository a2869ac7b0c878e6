package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cellarist/decanter/internal/model"
	"github.com/cellarist/decanter/internal/service"
	"github.com/cellarist/decanter/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestImporter_ImportFile(t *testing.T) {
	tc := testutil.SetupTestCatalog(t)
	importer := NewImporter(tc.Store)

	csv := `LWIN,DISPLAY_NAME,PRODUCER_NAME,COUNTRY,COLOUR,VINTAGE
1023456,Château Margaux,Château Margaux,France,Red,2015
1052830,Sassicaia,Tenuta San Guido,Italy,Red,2016
,Penfolds Grange,Penfolds,Australia,Red,2014
`

	stats, err := importer.ImportFile(context.Background(), writeCatalogFile(t, csv))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.Inserted)
	assert.Zero(t, stats.Updated)
	assert.Zero(t, stats.Skipped)
	assert.Zero(t, stats.Errors)
}

func TestImporter_SecondRunUpdatesInsteadOfInserting(t *testing.T) {
	tc := testutil.SetupTestCatalog(t)
	importer := NewImporter(tc.Store)
	ctx := context.Background()

	csv := `LWIN,DISPLAY_NAME,COUNTRY
1023456,Château Margaux,France
`
	path := writeCatalogFile(t, csv)

	first, err := importer.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Inserted)

	second, err := importer.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Zero(t, second.Inserted)
	assert.Equal(t, 1, second.Updated)

	wines, err := tc.Store.FindMany(ctx, service.Eq("lwin7", "1023456"), 10)
	require.NoError(t, err)
	assert.Len(t, wines, 1)
}

func TestImporter_GateRejectionsCountAsSkipped(t *testing.T) {
	tc := testutil.SetupTestCatalog(t)
	importer := NewImporter(tc.Store)

	// Second row has neither a name nor an identity code.
	csv := `LWIN,DISPLAY_NAME,PRODUCER_NAME
1023456,Château Margaux,Château Margaux
,,Anonymous Producer
1052830,Sassicaia,Tenuta San Guido
`

	stats, err := importer.ImportFile(context.Background(), writeCatalogFile(t, csv))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 1, stats.Skipped)
	assert.Zero(t, stats.Errors, "gate rejections are skips, not errors")
}

func TestImporter_RowErrorsDoNotAbortTheRun(t *testing.T) {
	tc := testutil.SetupTestCatalog(t)
	importer := NewImporter(tc.Store)

	// The middle row carries a malformed 6-digit LWIN; storage-level
	// validation rejects it, the rest of the file still lands.
	csv := `LWIN,DISPLAY_NAME
1023456,Château Margaux
102345,Broken Code
1052830,Sassicaia
`

	stats, err := importer.ImportFile(context.Background(), writeCatalogFile(t, csv))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 1, stats.Errors)
	assert.Zero(t, stats.Skipped)
}

func TestImporter_StoreFailuresCountAsErrors(t *testing.T) {
	boom := errors.New("disk full")
	mock := &testutil.MockCatalog{
		InsertFunc: func(_ context.Context, wine *model.Wine) (*model.Wine, error) {
			if wine.Name == "Sassicaia" {
				return nil, boom
			}
			return wine, nil
		},
	}
	importer := NewImporter(mock)

	csv := `LWIN,DISPLAY_NAME
1023456,Château Margaux
1052830,Sassicaia
1077890,Penfolds Grange
`

	stats, err := importer.ImportFile(context.Background(), writeCatalogFile(t, csv))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 1, stats.Errors)
	assert.Len(t, mock.Inserted, 2)
}

func TestImporter_EmptyFileFailsToStart(t *testing.T) {
	importer := NewImporter(&testutil.MockCatalog{})

	_, err := importer.ImportFile(context.Background(), writeCatalogFile(t, ""))
	assert.Error(t, err, "an unreadable source is the one failure that aborts a run")
}

func TestImporter_MissingFileFailsToStart(t *testing.T) {
	importer := NewImporter(&testutil.MockCatalog{})

	_, err := importer.ImportFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestImporter_RecordsImportRun(t *testing.T) {
	tc := testutil.SetupTestCatalog(t)
	importer := NewImporter(tc.Store)
	ctx := context.Background()

	csv := `LWIN,DISPLAY_NAME
1023456,Château Margaux
`
	path := writeCatalogFile(t, csv)
	_, err := importer.ImportFile(ctx, path)
	require.NoError(t, err)

	runs, err := tc.Store.ListImportRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, path, runs[0].SourceFile)
	assert.Equal(t, 1, runs[0].Total)
	assert.Equal(t, 1, runs[0].Inserted)
	assert.False(t, runs[0].StartedAt.IsZero())
}

func TestImporter_ShortRowsReadAsAbsentCells(t *testing.T) {
	tc := testutil.SetupTestCatalog(t)
	importer := NewImporter(tc.Store)
	ctx := context.Background()

	// Row supplies fewer cells than the header names.
	csv := `LWIN,DISPLAY_NAME,COUNTRY,REGION
1023456,Château Margaux
`

	stats, err := importer.ImportFile(ctx, writeCatalogFile(t, csv))
	require.NoError(t, err)
	require.Equal(t, 1, stats.Inserted)

	wine, err := tc.Store.FindOne(ctx, service.Eq("lwin7", "1023456"))
	require.NoError(t, err)
	require.NotNil(t, wine)
	assert.Empty(t, wine.Country)
	assert.Empty(t, wine.Region)
}

func TestImporter_CanceledContextStopsTheRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	importer := NewImporter(&testutil.MockCatalog{})
	csv := `LWIN,DISPLAY_NAME
1023456,Château Margaux
`

	_, err := importer.ImportFile(ctx, writeCatalogFile(t, csv))
	assert.ErrorIs(t, err, context.Canceled)
}
