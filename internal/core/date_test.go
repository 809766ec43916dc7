package core

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcelSerialRoundTrip(t *testing.T) {
	d := FromExcelSerial(45352)
	assert.Equal(t, NewDate(2024, time.March, 1), d)
	assert.Equal(t, float64(45352), d.ExcelSerial())
	assert.Equal(t, NewDate(1899, time.December, 31), FromExcelSerial(1))
	assert.Equal(t, float64(0), FromExcelSerial(0).ExcelSerial())
}

func TestParseDate(t *testing.T) {
	march := NewDate(2024, time.March, 1)
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2024-03-01", march, false},
		{"serial:45352", march, false},
		{"1709251200000", march, false},
		{"", 0, true},
		{"01/03/2024", 0, true},
		{"serial:abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateJSON(t *testing.T) {
	var v struct {
		A Date `json:"a"`
		B Date `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":1709251200000,"b":"2024-03-01"}`), &v))
	assert.Equal(t, v.A, v.B)
	assert.Equal(t, "2024-03-01", v.A.String())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1709251200000,"b":1709251200000}`, string(out))
}

func TestDateOfTruncates(t *testing.T) {
	at := time.Date(2024, time.March, 1, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, NewDate(2024, time.March, 1), DateOf(at))
	require.ErrorIs(t, Date(0).Validate(), ErrZeroDate)
}
