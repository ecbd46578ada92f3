package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsonstream/jsonstream"
	"github.com/jsonstream/jsonstream/jsonvalue"
	"github.com/jsonstream/jsonstream/session"
)

func newParser(t *testing.T) *jsonstream.Parser[*jsonvalue.Value] {
	t.Helper()
	return jsonstream.New[*jsonvalue.Value](jsonstream.ValueStream, jsonvalue.NewBuilder(), nil)
}

func TestStorePutResume(t *testing.T) {
	store, err := session.NewStore[*jsonvalue.Value](8)
	require.NoError(t, err)

	p := newParser(t)
	_, err = p.Absorb([]byte(`1 2 `))
	require.NoError(t, err)

	id := store.Put(p)
	assert.Equal(t, 1, store.Len())

	resumed, ok := store.Resume(id)
	require.True(t, ok)

	out, err := resumed.Absorb([]byte(`3`))
	require.NoError(t, err)
	out2, err := resumed.Finish()
	require.NoError(t, err)
	out = append(out, out2...)
	require.Len(t, out, 1)
	n, err := out[0].AsInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestStoreResumeIsIndependentOfCachedCopy(t *testing.T) {
	store, err := session.NewStore[*jsonvalue.Value](8)
	require.NoError(t, err)

	p := newParser(t)
	id := store.Put(p)

	first, ok := store.Resume(id)
	require.True(t, ok)
	_, err = first.Absorb([]byte(`1 `))
	require.NoError(t, err)

	second, ok := store.Resume(id)
	require.True(t, ok)
	out, err := second.Absorb([]byte(`2 `))
	require.NoError(t, err)
	out2, err := second.Finish()
	require.NoError(t, err)
	out = append(out, out2...)

	require.Len(t, out, 1)
	n, err := out[0].AsInteger()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestStoreResumeUnknownID(t *testing.T) {
	store, err := session.NewStore[*jsonvalue.Value](8)
	require.NoError(t, err)

	_, ok := store.Resume(newParser(t).ID())
	assert.False(t, ok)
}

func TestStoreDrop(t *testing.T) {
	store, err := session.NewStore[*jsonvalue.Value](8)
	require.NoError(t, err)

	id := store.Put(newParser(t))
	require.Equal(t, 1, store.Len())

	store.Drop(id)
	assert.Equal(t, 0, store.Len())

	_, ok := store.Resume(id)
	assert.False(t, ok)
}
