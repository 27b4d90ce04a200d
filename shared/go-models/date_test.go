package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDate_JSONRoundTrip(t *testing.T) {
	var a struct {
		Acquired *Date `json:"acquisition_date,omitempty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"acquisition_date":"2024-01-15"}`), &a))
	require.NotNil(t, a.Acquired)
	require.True(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC).Equal(a.Acquired.Time))

	out, err := json.Marshal(a)
	require.NoError(t, err)
	require.JSONEq(t, `{"acquisition_date":"2024-01-15"}`, string(out))
}

func TestDate_RejectsOtherFormats(t *testing.T) {
	var d Date
	require.Error(t, json.Unmarshal([]byte(`"2024-01-15T10:00:00Z"`), &d))
	require.Error(t, json.Unmarshal([]byte(`"15/01/2024"`), &d))
	require.Error(t, json.Unmarshal([]byte(`20240115`), &d))
}

func TestDate_NullLeavesPointerNil(t *testing.T) {
	var a struct {
		Acquired *Date `json:"acquisition_date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"acquisition_date":null}`), &a))
	require.Nil(t, a.Acquired)
}

func TestDateOfDropsClock(t *testing.T) {
	d := DateOf(time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC))
	require.Equal(t, "2024-01-15", d.String())
	require.Zero(t, d.Hour())
}
