package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDateJSON tests the accepted date encodings
func TestDateJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"2025-11-10"`, "2025-11-10"},
		{`"2025-11-10T15:04:05Z"`, "2025-11-10"},
		{`null`, ""},
		{`""`, ""},
	}

	for _, tc := range cases {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(tc.in), &d), tc.in)
		assert.Equal(t, tc.want, d.String(), tc.in)
	}

	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"10/11/2025"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20251110`), &d))
}

func TestDateMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Date `json:"a"`
		B Date `json:"b"`
	}{A: NewDate(2025, time.November, 7)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"2025-11-07","b":null}`, string(out))
}

func TestDateBefore(t *testing.T) {
	a := NewDate(2025, time.November, 7)
	b := NewDate(2025, time.November, 12)
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}

// TestDateValueScan tests the driver round trip keeps the calendar day
func TestDateValueScan(t *testing.T) {
	d := NewDate(2025, time.November, 10)
	v, err := d.Value()
	require.NoError(t, err)

	var back Date
	require.NoError(t, back.Scan(v))
	assert.Equal(t, "2025-11-10", back.String())
}
