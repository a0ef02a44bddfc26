package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPhotoStoreSaveAndOpen(t *testing.T) {
	store, err := NewPhotoStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	ref, size, err := store.Save("draft-1", "before.jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)
	assert.True(t, strings.HasPrefix(ref, "draft-1/"))
	assert.True(t, strings.HasSuffix(ref, ".jpg"))

	f, err := store.Open(ref)
	require.NoError(t, err)
	defer f.Close()

	content, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(content))
}

func TestPhotoStoreUniqueRefs(t *testing.T) {
	store, err := NewPhotoStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	ref1, _, err := store.Save("draft-1", "a.jpg", strings.NewReader("one"))
	require.NoError(t, err)
	ref2, _, err := store.Save("draft-1", "a.jpg", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, ref1, ref2)
}

func TestPhotoStoreRejectsEscapingRefs(t *testing.T) {
	store, err := NewPhotoStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	_, err = store.Open("../../etc/passwd")
	assert.Error(t, err)

	_, _, err = store.Save("../escape", "x.jpg", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestPhotoStoreOpenMissing(t *testing.T) {
	store, err := NewPhotoStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	_, err = store.Open("draft-1/nope.jpg")
	assert.Error(t, err)
}
