package catalog_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"WoodLoft/internal/catalog"
)

func writeDoc(t *testing.T, products []catalog.Product) string {
	t.Helper()

	raw, err := json.Marshal(products)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestOpenFileStore_MissingOrMalformed(t *testing.T) {
	_, err := catalog.OpenFileStore(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err = catalog.OpenFileStore(path)
	require.Error(t, err)
}

func TestFileStore_AddAssignsIDs(t *testing.T) {
	ctx := context.Background()

	s, err := catalog.OpenFileStore(writeDoc(t, []catalog.Product{}))
	require.NoError(t, err)

	p, err := s.Add(ctx, catalog.Fields{Name: "Стул", Price: 50, ImageURL: "x"})
	require.NoError(t, err)
	require.Equal(t, 1, p.ID)

	s, err = catalog.OpenFileStore(writeDoc(t, []catalog.Product{
		{ID: 2, Name: "Стол", Price: 120},
		{ID: 7, Name: "Полка", Price: 30},
	}))
	require.NoError(t, err)

	p, err = s.Add(ctx, catalog.Fields{Name: "Табурет", Price: 25})
	require.NoError(t, err)
	require.Equal(t, 8, p.ID)
}

func TestFileStore_UpdateMissing(t *testing.T) {
	s, err := catalog.OpenFileStore(writeDoc(t, []catalog.Product{{ID: 1, Name: "Стул", Price: 50}}))
	require.NoError(t, err)

	err = s.Update(context.Background(), 99, catalog.Fields{Name: "x", Price: 1})
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestFileStore_DeleteAbsentKeepsList(t *testing.T) {
	ctx := context.Background()
	path := writeDoc(t, []catalog.Product{{ID: 1, Name: "Стул", Price: 50}})

	s, err := catalog.OpenFileStore(path)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, 99))

	got, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Delete rewrites the document unconditionally; it must still reload.
	reopened, err := catalog.OpenFileStore(path)
	require.NoError(t, err)

	got, err = reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestFileStore_MutationsPersistAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := writeDoc(t, []catalog.Product{{ID: 1, Name: "Стул", Price: 50, ImageURL: "x"}})

	s, err := catalog.OpenFileStore(path)
	require.NoError(t, err)

	_, err = s.Add(ctx, catalog.Fields{Name: "Стол", Price: 120, ImageURL: "y"})
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, 1, catalog.Fields{Name: "Стул дубовый", Price: 65, ImageURL: "x"}))
	require.NoError(t, s.Delete(ctx, 2))

	reopened, err := catalog.OpenFileStore(path)
	require.NoError(t, err)

	got, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []catalog.Product{{ID: 1, Name: "Стул дубовый", Price: 65, ImageURL: "x"}}, got)
}

func TestFileStore_DocumentIsIndented(t *testing.T) {
	path := writeDoc(t, []catalog.Product{})

	s, err := catalog.OpenFileStore(path)
	require.NoError(t, err)

	_, err = s.Add(context.Background(), catalog.Fields{Name: "Стул", Price: 50})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "\n    {")
	require.Contains(t, string(raw), "Стул")
}
