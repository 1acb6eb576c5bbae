package token

import (
	"math"
	"testing"

	"github.com/iov-one/raise"
	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(b byte) raise.Address {
	return raise.NewAddress([]byte{b})
}

func TestCreateAndInfo(t *testing.T) {
	db := store.MemStore()
	l := NewLedger("IOV")

	require.NoError(t, l.Create(db, "reference token", 9))

	info, err := l.Info(db)
	require.NoError(t, err)
	assert.Equal(t, "reference token", info.Name)
	assert.Equal(t, uint8(9), info.Decimals)
	assert.Equal(t, uint64(0), info.Supply)

	factor, err := l.ScalingFactor(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000000000), factor)

	err = l.Create(db, "again", 9)
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestInfoOfMissingLedger(t *testing.T) {
	db := store.MemStore()
	l := NewLedger("GONE")

	_, err := l.Info(db)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestIssueMoveRetire(t *testing.T) {
	db := store.MemStore()
	l := NewLedger("IOV")
	require.NoError(t, l.Create(db, "reference token", 0))

	alice, bob := addr(1), addr(2)

	require.NoError(t, l.Issue(db, alice, 100))

	balance, err := l.BalanceOf(db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balance)

	info, err := l.Info(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), info.Supply)

	require.NoError(t, l.Move(db, alice, bob, 30))
	balance, err = l.BalanceOf(db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(70), balance)
	balance, err = l.BalanceOf(db, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), balance)

	// moving does not change supply
	info, err = l.Info(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), info.Supply)

	// retire destroys units and shrinks supply
	require.NoError(t, l.Retire(db, bob, 30))
	balance, err = l.BalanceOf(db, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance)
	info, err = l.Info(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(70), info.Supply)
}

func TestMoveInsufficientFunds(t *testing.T) {
	db := store.MemStore()
	l := NewLedger("IOV")
	require.NoError(t, l.Create(db, "reference token", 0))

	alice, bob := addr(1), addr(2)
	require.NoError(t, l.Issue(db, alice, 10))

	err := l.Move(db, alice, bob, 11)
	assert.True(t, ErrInsufficientFunds.Is(err))

	// a failing move leaves balances untouched
	balance, err := l.BalanceOf(db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), balance)
}

func TestMoveZero(t *testing.T) {
	db := store.MemStore()
	l := NewLedger("IOV")
	require.NoError(t, l.Create(db, "reference token", 0))

	err := l.Move(db, addr(1), addr(2), 0)
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestRetireMoreThanHeld(t *testing.T) {
	db := store.MemStore()
	l := NewLedger("IOV")
	require.NoError(t, l.Create(db, "reference token", 0))

	alice := addr(1)
	require.NoError(t, l.Issue(db, alice, 5))

	err := l.Retire(db, alice, 6)
	assert.True(t, ErrInsufficientFunds.Is(err))
}

func TestIssueOverflow(t *testing.T) {
	db := store.MemStore()
	l := NewLedger("IOV")
	require.NoError(t, l.Create(db, "reference token", 0))

	alice := addr(1)
	require.NoError(t, l.Issue(db, alice, math.MaxUint64))

	err := l.Issue(db, alice, 1)
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestLedgersAreIsolated(t *testing.T) {
	db := store.MemStore()
	value := NewLedger("IOV")
	shares := NewLedger("SHR")
	require.NoError(t, value.Create(db, "reference token", 9))
	require.NoError(t, shares.Create(db, "offering shares", 0))

	alice := addr(1)
	require.NoError(t, value.Issue(db, alice, 100))

	balance, err := shares.BalanceOf(db, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), balance)
}
