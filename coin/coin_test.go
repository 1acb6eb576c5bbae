package coin

import (
	"math"
	"testing"

	"github.com/iov-one/raise/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	got, err := Add(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got)

	_, err = Add(math.MaxUint64, 1)
	assert.True(t, errors.ErrOverflow.Is(err))

	got, err = Add(math.MaxUint64, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got)
}

func TestSub(t *testing.T) {
	got, err := Sub(5, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), got)

	_, err = Sub(2, 5)
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestMul(t *testing.T) {
	got, err := Mul(6, 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got)

	got, err = Mul(0, math.MaxUint64)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got)

	_, err = Mul(math.MaxUint64, 2)
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestScale(t *testing.T) {
	cases := map[string]struct {
		decimals uint8
		want     uint64
		wantErr  *errors.Error
	}{
		"zero decimals":  {decimals: 0, want: 1},
		"two decimals":   {decimals: 2, want: 100},
		"ten decimals":   {decimals: 10, want: 10000000000},
		"max decimals":   {decimals: 18, want: 1000000000000000000},
		"over the limit": {decimals: 19, wantErr: errors.ErrInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := Scale(tc.decimals)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsTicker(t *testing.T) {
	assert.True(t, IsTicker("IOV"))
	assert.True(t, IsTicker("GOLD"))
	assert.False(t, IsTicker("io"))
	assert.False(t, IsTicker("TOOLONG"))
	assert.False(t, IsTicker("go1d"))
}
