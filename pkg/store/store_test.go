package store

import (
	"context"
	stderrors "errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repeatyourselfpls/family-tree-v2/pkg/errors"
	"github.com/repeatyourselfpls/family-tree-v2/pkg/family"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "trees.db"), log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func lovelace() *family.Node {
	root := family.New("Ada", family.WithSpouse("William"),
		family.WithPerson(family.Person{Birth: "1815", Death: "1852"}))
	root.AddDescendant("Byron")
	root.AddDescendant("Anne").AddSpouse("Wilfrid")
	return root
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	rec, err := s.Save(ctx, "lovelace", lovelace())
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "lovelace", rec.Name)
	assert.Equal(t, 3, rec.Nodes)
	assert.Equal(t, 2, rec.Spouses)

	root, err := s.Load(ctx, "lovelace")
	require.NoError(t, err)
	assert.Equal(t, "Ada", root.Name)
	require.NotNil(t, root.Spouse)
	assert.Equal(t, "William", root.Spouse.Name)
	assert.Equal(t, "1815", root.Person.Birth)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "Byron", root.Children[0].Name)
	assert.Equal(t, "Wilfrid", root.Children[1].Spouse.Name)
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	s.now = func() time.Time { return t0 }
	first, err := s.Save(ctx, "lovelace", lovelace())
	require.NoError(t, err)

	s.now = func() time.Time { return t1 }
	edited := lovelace()
	edited.AddDescendant("Ralph")
	second, err := s.Save(ctx, "lovelace", edited)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "ID survives overwrite")
	assert.True(t, second.CreatedAt.Equal(t0), "created_at = %v, want %v", second.CreatedAt, t0)

	rec, err := s.Get(ctx, "lovelace")
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Nodes)
	assert.True(t, rec.UpdatedAt.Equal(t1), "updated_at = %v, want %v", rec.UpdatedAt, t1)
	assert.NotEmpty(t, rec.Data)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, name := range []string{"windsor", "lovelace", "curie"} {
		_, err := s.Save(ctx, name, family.New(name))
		require.NoError(t, err)
	}

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "curie", list[0].Name)
	assert.Equal(t, "lovelace", list[1].Name)
	assert.Equal(t, "windsor", list[2].Name)
	assert.Nil(t, list[0].Data, "List omits documents")
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	_, err := s.Save(ctx, "lovelace", lovelace())
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "lovelace"))

	err = s.Delete(ctx, "lovelace")
	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, errors.ErrCodeTreeNotFound))

	_, err = s.Load(ctx, "lovelace")
	assert.True(t, stderrors.Is(err, ErrNotFound))
}

func TestSaveValidation(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	_, err := s.Save(ctx, "../escape", lovelace())
	assert.Error(t, err)

	_, err = s.Save(ctx, "lovelace", nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s, err := Open(Memory, log.New(io.Discard))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Save(ctx, "lovelace", lovelace())
	require.NoError(t, err)

	root, err := s.Load(ctx, "lovelace")
	require.NoError(t, err)
	assert.Equal(t, "Ada", root.Name)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "trees.db")

	s, err := Open(path, log.New(io.Discard))
	require.NoError(t, err)
	_, err = s.Save(ctx, "lovelace", lovelace())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, log.New(io.Discard))
	require.NoError(t, err)
	defer s.Close()

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "lovelace", list[0].Name)
}
