package raise

import (
	"testing"

	"github.com/iov-one/raise/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionParse(t *testing.T) {
	c := NewCondition("offering", "escrow", []byte("SHR"))
	ext, typ, data, err := c.Parse()
	require.NoError(t, err)
	assert.Equal(t, "offering", ext)
	assert.Equal(t, "escrow", typ)
	assert.Equal(t, []byte("SHR"), data)

	// data may contain any bytes, including separators and newlines
	c = NewCondition("sigs", "secp256k", []byte{'/', '\n', 0})
	_, _, data, err = c.Parse()
	require.NoError(t, err)
	assert.Equal(t, []byte{'/', '\n', 0}, data)
}

func TestConditionValidate(t *testing.T) {
	assert.NoError(t, NewCondition("offering", "escrow", []byte("x")).Validate())
	assert.Error(t, Condition("no-separators").Validate())
	assert.Error(t, NewCondition("ab", "escrow", []byte("x")).Validate())
	assert.Error(t, NewCondition("toolongext", "escrow", []byte("x")).Validate())
	assert.Error(t, NewCondition("offering", "escrow", nil).Validate())
}

func TestAddressDerivation(t *testing.T) {
	a := NewCondition("offering", "escrow", []byte("SHR")).Address()
	b := NewCondition("offering", "escrow", []byte("SHR")).Address()
	c := NewCondition("offering", "escrow", []byte("IOV")).Address()

	assert.NoError(t, a.Validate())
	assert.Len(t, []byte(a), AddressLength)
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}

func TestParseAddress(t *testing.T) {
	addr := NewAddress([]byte("some data"))

	got, err := ParseAddress(addr.String())
	require.NoError(t, err)
	assert.True(t, addr.Equals(got))

	_, err = ParseAddress("not hex")
	assert.True(t, errors.ErrInput.Is(err))

	// valid hex of the wrong length
	_, err = ParseAddress("abcd")
	assert.True(t, errors.ErrInput.Is(err))
}

func TestAddressClone(t *testing.T) {
	orig := NewAddress([]byte("clone me"))
	dup := orig.Clone()
	require.True(t, orig.Equals(dup))
	dup[0]++
	assert.False(t, orig.Equals(dup))
}
