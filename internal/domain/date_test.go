package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("SGT", 8*60*60)
	// 2024-07-19 20:00 UTC is already 2024-07-20 in Singapore
	instant := time.Date(2024, 7, 19, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-07-19", DateOf(instant).String())
	assert.Equal(t, "2024-07-20", DateOf(instant.In(loc)).String())
}

func TestDateJSON(t *testing.T) {
	type row struct {
		Due  Date  `json:"due"`
		Next *Date `json:"next"`
	}

	var r row
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-07-01","next":null}`), &r))
	assert.Equal(t, "2024-07-01", r.Due.String())
	assert.Nil(t, r.Next)

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-07-01","next":null}`, string(out))
}

func TestDateJSON_AcceptsTimestamp(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-06-01T10:00:00Z"`), &d))
	assert.Equal(t, "2024-06-01", d.String())
}

func TestDateJSON_RejectsGarbage(t *testing.T) {
	for _, in := range []string{
		`"01/07/2024"`,
		`"2024-07-019"`,
		`"2024-07-01garbage"`,
		`"2024-07-01T99:99:99"`,
		`"2024-07-01T10:00:00"`,
	} {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(in), &d), in)
	}
}

func TestDateJSON_TimestampKeepsItsOffset(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-07-20T01:00:00+08:00"`), &d))
	assert.Equal(t, "2024-07-20", d.String())
}

func TestDaysSince_FarApart(t *testing.T) {
	due := NewDate(1700, time.January, 1)
	today := NewDate(2024, time.July, 20)

	want := int(today.Time().Unix()-due.Time().Unix()) / 86400
	assert.Equal(t, want, today.DaysSince(due))
	assert.Greater(t, today.DaysSince(due), 106000)
	assert.Equal(t, -want, due.DaysSince(today))
	assert.Equal(t, 19, today.DaysSince(NewDate(2024, time.July, 1)))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-07-15", d.String())

	require.NoError(t, d.Scan("2024-08-01"))
	assert.Equal(t, "2024-08-01", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDateValue(t *testing.T) {
	v, err := MustParseDate("2024-07-20").Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-07-20", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
