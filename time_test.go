package raise

import (
	"testing"
	"time"

	"github.com/iov-one/raise/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnixTimeRoundTrip(t *testing.T) {
	now := time.Now()
	ut := AsUnixTime(now)
	assert.Equal(t, now.Unix(), ut.Time().Unix())
}

func TestUnixTimeAdd(t *testing.T) {
	ut := UnixTime(1000)
	assert.Equal(t, UnixTime(1060), ut.Add(time.Minute))
	assert.Equal(t, UnixTime(940), ut.Add(-time.Minute))
	// sub-second durations are dropped
	assert.Equal(t, ut, ut.Add(999*time.Millisecond))
}

func TestUnixTimeValidate(t *testing.T) {
	assert.NoError(t, UnixTime(0).Validate())
	assert.NoError(t, UnixTime(1234567890).Validate())
	assert.True(t, errors.ErrInput.Is(UnixTime(-1).Validate()))
}

func TestUnixTimeUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    UnixTime
		wantErr bool
	}{
		"number":        {raw: `1600000000`, want: 1600000000},
		"zero":          {raw: `0`, want: 0},
		"negative":      {raw: `-5`, wantErr: true},
		"string time":   {raw: `"2020-09-13T12:26:40Z"`, want: 1600000000},
		"garbage":       {raw: `"not a time"`, wantErr: true},
		"empty payload": {raw: `{}`, wantErr: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var got UnixTime
			err := got.UnmarshalJSON([]byte(tc.raw))
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
