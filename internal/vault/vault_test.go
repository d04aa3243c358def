package vault

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeKV struct {
	data  map[string]map[string]any
	calls int
	err   error
}

func (f *fakeKV) Get(_ context.Context, mount, rel string) (map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.data[mount+"/"+rel]
	if !ok {
		return nil, errors.New("secret not found")
	}
	return d, nil
}

func TestParseRef(t *testing.T) {
	path, key, err := ParseRef("vault:kv/folio/db#password")
	require.NoError(t, err)
	assert.Equal(t, "kv/folio/db", path)
	assert.Equal(t, "password", key)

	for _, bad := range []string{"kv/folio#x", "vault:kv#x", "vault:kv/folio", "vault:kv/folio#", "vault:#x"} {
		_, _, err := ParseRef(bad)
		assert.ErrorIs(t, err, ErrBadRef, bad)
	}
}

func TestGetKV_CachesWithinTTL(t *testing.T) {
	kv := &fakeKV{data: map[string]map[string]any{
		"kv/folio/db": {"password": "s3cret", "port": 3306},
	}}
	c := newClient(kv, zap.NewNop())
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	v, err := c.GetKV(ctx, "kv/folio/db", "password", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", v)

	_, _ = c.GetKV(ctx, "kv/folio/db", "password", time.Minute)
	assert.Equal(t, 1, kv.calls)

	now = now.Add(2 * time.Minute)
	_, _ = c.GetKV(ctx, "kv/folio/db", "password", time.Minute)
	assert.Equal(t, 2, kv.calls)

	_, err = c.GetKV(ctx, "kv/folio/db", "port", 0)
	assert.ErrorContains(t, err, "not a string")

	_, err = c.GetKV(ctx, "kv/folio/db", "missing", 0)
	assert.ErrorContains(t, err, "not found")
}

func TestResolve(t *testing.T) {
	kv := &fakeKV{data: map[string]map[string]any{"kv/folio/db": {"password": "pw"}}}
	c := newClient(kv, zap.NewNop())

	v, err := c.Resolve(context.Background(), "vault:kv/folio/db#password")
	require.NoError(t, err)
	assert.Equal(t, "pw", v)

	kv.err = errors.New("sealed")
	_, err = c.Resolve(context.Background(), "vault:kv/other/db#password")
	assert.ErrorContains(t, err, "sealed")
}
