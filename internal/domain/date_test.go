package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2026, Month: time.October, Day: 19}, d)
	assert.Equal(t, "2026-10-19", d.String())

	_, err = ParseDate("19/10/2026")
	assert.Error(t, err)
}

func TestDateDaysUntil(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to string
		want     int
	}{
		{"2026-10-19", "2026-10-19", 0},
		{"2026-10-19", "2026-10-20", 1},
		{"2026-10-19", "2026-10-18", -1},
		{"2026-02-27", "2026-03-01", 2},
		{"2026-03-28", "2026-03-30", 2}, // across a DST switch in many zones
		{"2025-12-31", "2026-01-05", 5},
	}

	for _, tc := range tests {
		t.Run(tc.from+"->"+tc.to, func(t *testing.T) {
			t.Parallel()

			got := MustParseDate(tc.from).DaysUntil(MustParseDate(tc.to))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDateAddDays(t *testing.T) {
	t.Parallel()

	assert.Equal(t, MustParseDate("2026-11-01"), MustParseDate("2026-10-30").AddDays(2))
	assert.Equal(t, MustParseDate("2026-10-29"), MustParseDate("2026-10-30").AddDays(-1))
}

func TestDateOfUsesLocation(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*60*60)
	instant := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, MustParseDate("2026-10-19"), DateOf(instant))
	assert.Equal(t, MustParseDate("2026-10-20"), DateOf(instant.In(tokyo)))
}

func TestDateJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(MustParseDate("2026-01-02"))
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-01-02"`, string(data))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-01-02T00:00:00.000Z"`), &d))
	assert.Equal(t, MustParseDate("2026-01-02"), d)

	assert.Error(t, json.Unmarshal([]byte(`20260102`), &d))
}

func TestDateScan(t *testing.T) {
	t.Parallel()

	var d Date
	require.NoError(t, d.Scan(time.Date(2026, 5, 6, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, MustParseDate("2026-05-06"), d)

	require.NoError(t, d.Scan("2026-05-07 00:00:00+00:00"))
	assert.Equal(t, MustParseDate("2026-05-07"), d)

	require.NoError(t, d.Scan([]byte("2026-05-08")))
	assert.Equal(t, MustParseDate("2026-05-08"), d)

	assert.Error(t, d.Scan(42))
}

func TestOptionalDateJSON(t *testing.T) {
	t.Parallel()

	var body struct {
		DueDate OptionalDate `json:"dueDate,omitzero"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.False(t, body.DueDate.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":null}`), &body))
	assert.True(t, body.DueDate.Set)
	assert.Nil(t, body.DueDate.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":"2026-12-24"}`), &body))
	require.NotNil(t, body.DueDate.Value)
	assert.Equal(t, MustParseDate("2026-12-24"), *body.DueDate.Value)

	body.DueDate = OptionalDate{}
	data, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))

	body.DueDate = ClearDate()
	data, err = json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dueDate":null}`, string(data))
}
