package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xchain-backend/internal/errs"
	"xchain-backend/internal/models"
)

func TestRequestAddress(t *testing.T) {
	f := newFixture(t)

	addr, err := f.addresses.RequestAddress(f.ctx, "alice", "alice", "eth", 0)
	require.NoError(t, err)
	assert.Equal(t, models.AddressStatusRequested, addr.Status)
	assert.Empty(t, addr.XinTo)

	_, err = f.addresses.RequestAddress(f.ctx, "alice", "alice", "eth", 0)
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)

	_, err = f.addresses.RequestAddress(f.ctx, "bob", "alice", "eth", 1)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = f.addresses.RequestAddress(f.ctx, "alice", "alice", "sol", 0)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, f.registry.AddChain(f.ctx, f.bridge.Self, "arb", "eth", ""))
	_, err = f.addresses.RequestAddress(f.ctx, "alice", "alice", "arb", 0)
	assert.ErrorIs(t, err, errs.ErrInvalidParam)

	_, err = f.addresses.RequestAddress(f.ctx, "alice", "alice", "eth", math.MaxUint32)
	assert.ErrorIs(t, err, errs.ErrInvalidParam)
}

func TestRequestAddressSharedCustodial(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.registry.AddChain(f.ctx, f.bridge.Self, "trx", "trx", "TCommonDeposit"))

	addr, err := f.addresses.RequestAddress(f.ctx, "alice", "alice", "trx", 0)
	require.NoError(t, err)
	assert.Equal(t, models.AddressStatusProvisioned, addr.Status)
	assert.Equal(t, addr.IDString(), addr.XinTo)

	found, err := f.addresses.GetAddressByXinTo(f.ctx, addr.XinTo)
	require.NoError(t, err)
	assert.Equal(t, addr.ID, found.ID)
}

func TestAssignAddress(t *testing.T) {
	f := newFixture(t)
	_, err := f.addresses.RequestAddress(f.ctx, "alice", "alice", "eth", 0)
	require.NoError(t, err)
	_, err = f.addresses.RequestAddress(f.ctx, "bob", "bob", "eth", 0)
	require.NoError(t, err)

	_, err = f.addresses.AssignAddress(f.ctx, "alice", "alice", "eth", 0, "0xabc")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	addr, err := f.addresses.AssignAddress(f.ctx, makerAcct, "alice", "eth", 0, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, models.AddressStatusProvisioned, addr.Status)
	assert.Equal(t, "0xabc", addr.XinTo)

	// same address, same record
	_, err = f.addresses.AssignAddress(f.ctx, makerAcct, "alice", "eth", 0, "0xabc")
	require.NoError(t, err)

	_, err = f.addresses.AssignAddress(f.ctx, makerAcct, "bob", "eth", 0, "0xabc")
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)

	_, err = f.addresses.AssignAddress(f.ctx, makerAcct, "bob", "eth", 0, "")
	assert.ErrorIs(t, err, errs.ErrIllegalAddress)

	_, err = f.addresses.AssignAddress(f.ctx, makerAcct, "bob", "eth", 0, string(make([]byte, f.bridge.MaxAddressLength)))
	assert.ErrorIs(t, err, errs.ErrIllegalAddress)

	_, err = f.addresses.AssignAddress(f.ctx, makerAcct, "bob", "eth", 9, "0xdef")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	list, err := f.addresses.ListAddresses(f.ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "0xabc", list[0].XinTo)
}
