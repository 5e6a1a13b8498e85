package identitysvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tspagiari/oficinas/core"
	inmemstore "github.com/tspagiari/oficinas/storage/docstore/inmem"
)

func TestLocalService(t *testing.T) {
	ctx := context.Background()
	svc := NewLocalService(inmemstore.New())

	id, err := svc.CreateIdentity(ctx, "Ana@Example.org", "pw123456")
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	// email comparison is case insensitive
	_, err = svc.CreateIdentity(ctx, "ana@example.org", "otherpass")
	assert.Equal(t, core.ErrEmailInUse, err)

	got, err := svc.Authenticate(ctx, "ANA@example.org", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = svc.Authenticate(ctx, "ana@example.org", "wrong")
	assert.Equal(t, core.ErrInvalidCredentials, err)

	_, err = svc.Authenticate(ctx, "ghost@example.org", "pw123456")
	assert.Equal(t, core.ErrInvalidCredentials, err)

	assert.NoError(t, svc.SignOut(ctx))
}
