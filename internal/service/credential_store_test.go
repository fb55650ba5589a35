package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCredentialStoreHashAndVerify(t *testing.T) {
	store, err := NewCredentialStore(bcrypt.MinCost)
	require.NoError(t, err)

	first, err := store.Hash("s3cret!")
	require.NoError(t, err)
	second, err := store.Hash("s3cret!")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", first)
	assert.NotEqual(t, first, second, "digests must be salted")
	assert.True(t, store.Verify("s3cret!", first))
	assert.True(t, store.Verify("s3cret!", second))
	assert.False(t, store.Verify("S3cret!", first))
	assert.False(t, store.Verify("s3cret!", "not-a-digest"))
}

func TestCredentialStoreVerifyMissingAlwaysFails(t *testing.T) {
	store, err := NewCredentialStore(bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, store.VerifyMissing("collab-portal/unknown-account"))
	assert.False(t, store.VerifyMissing(""))
}

func TestCredentialStoreFallsBackToDefaultCost(t *testing.T) {
	store, err := NewCredentialStore(99)
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, store.cost)
}
