package claims

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `ClaimID,EventDate,EventLocation,ClaimantLocation,EventLatitude,EventLongitude,ClaimantLatitude,ClaimantLongitude
A2.1-001,2022-03-01,Kharkiv,Lviv,50.0,30.0,49.84,24.03
A3.1-002,2022-04-11,Mariupol,Kyiv,bad,30.0,50.45,30.52

B1-099,2022-05-02,Odesa,,46.48,30.72
,2022-05-03,Dnipro,Dnipro,48.46,35.04,48.46,35.04
A2.1-003,2022-06-07,Sumy
`

func parseSample(t *testing.T) *Table {
	t.Helper()
	tbl, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return tbl
}

func ids(s Schema, rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		id, _ := s.Identifier(r)
		out = append(out, id)
	}
	return out
}

func TestParseKeepsShortRowsAndSkipsBlankLines(t *testing.T) {
	tbl := parseSample(t)
	assert.Len(t, tbl.Header, 8)
	require.Len(t, tbl.Rows, 5)
	assert.Zero(t, tbl.Skipped)

	short := tbl.Rows[4]
	assert.Equal(t, "A2.1-003", short["ClaimID"])
	_, ok := short.Get("EventLatitude")
	assert.False(t, ok, "missing trailing column must be absent")

	odesa := tbl.Rows[2]
	v, ok := odesa.Get("ClaimantLocation")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	_, ok = odesa.Get("ClaimantLongitude")
	assert.False(t, ok)
}

func TestParseHeaderOnly(t *testing.T) {
	tbl, err := Parse(strings.NewReader("ClaimID,EventDate\n"))
	require.NoError(t, err)
	assert.Empty(t, tbl.Rows)
}

func TestParseEmptyDocument(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestParseStripsBOMAndHeaderSpace(t *testing.T) {
	tbl, err := Parse(strings.NewReader("\ufeffClaimID , EventDate\nX-1,2022\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ClaimID", "EventDate"}, tbl.Header)
	assert.Equal(t, "X-1", tbl.Rows[0]["ClaimID"])
}

func TestParseExtraFieldsDropped(t *testing.T) {
	tbl, err := Parse(strings.NewReader("a,b\n1,2,3\n"))
	require.NoError(t, err)
	assert.Equal(t, Row{"a": "1", "b": "2"}, tbl.Rows[0])
}

func TestCategory(t *testing.T) {
	tests := []struct {
		id   string
		want string
		ok   bool
	}{
		{"A2.1-001", "A2.1", true},
		{"B1-099-x", "B1", true},
		{"C7", "C7", true},
		{"-5", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := Category(tt.id)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestCategoriesFromAllRows(t *testing.T) {
	s := DefaultSchema()
	rows := parseSample(t).Rows
	// A3.1 has no usable event coordinates but still appears.
	assert.Equal(t, []string{"A2.1", "A3.1", "B1"}, s.Categories(rows))
	assert.Equal(t, map[string]int{"A2.1": 2, "A3.1": 1, "B1": 1}, s.CategoryCounts(rows))
}

func TestCategoriesCaseSensitive(t *testing.T) {
	s := DefaultSchema()
	rows := []Row{{"ClaimID": "a-1"}, {"ClaimID": "A-2"}, {"ClaimID": "a-3"}}
	assert.Equal(t, []string{"A", "a"}, s.Categories(rows))
}

func TestFilterByCategoryAndLocation(t *testing.T) {
	s := DefaultSchema()
	rows := []Row{
		{"ClaimID": "A2.1-001", "EventLatitude": "50.0", "EventLongitude": "30.0"},
		{"ClaimID": "A3.1-002", "EventLatitude": "bad", "EventLongitude": "30.0"},
	}
	got := s.Filter(rows, "", Event)
	assert.Equal(t, []string{"A2.1-001"}, ids(s, got))

	assert.Empty(t, s.Filter(rows, "A3.1", Event))
}

func TestFilterByLocationType(t *testing.T) {
	s := DefaultSchema()
	rows := parseSample(t).Rows

	assert.Equal(t, []string{"A2.1-001", "B1-099"}, ids(s, s.Filter(rows, "", Event)))
	assert.Equal(t, []string{"A2.1-001", "A3.1-002"}, ids(s, s.Filter(rows, "", Claimant)))
}

func TestFilterCategoryIsSubset(t *testing.T) {
	s := DefaultSchema()
	rows := parseSample(t).Rows
	for _, loc := range []LocationType{Event, Claimant} {
		all := s.Filter(rows, "", loc)
		for _, cat := range append(s.Categories(rows), "Z9") {
			sub := s.Filter(rows, cat, loc)
			for _, r := range sub {
				c, _ := s.Category(r)
				assert.Equal(t, cat, c)
				assert.Contains(t, all, r)
			}
		}
	}
}

func TestCoordinatesStrict(t *testing.T) {
	s := DefaultSchema()
	for _, v := range []string{"", "bad", "50abc", "NaN", "Inf", "-Inf", "0x1p5", "-0X1.8p1", "5_0"} {
		r := Row{"ClaimID": "X-1", "EventLatitude": v, "EventLongitude": "30"}
		_, _, ok := s.Coordinates(r, Event)
		assert.False(t, ok, "lat %q", v)
	}
	r := Row{"ClaimID": "X-1", "EventLatitude": " 50.5 ", "EventLongitude": "-1e1"}
	lat, lon, ok := s.Coordinates(r, Event)
	require.True(t, ok)
	assert.Equal(t, 50.5, lat)
	assert.Equal(t, -10.0, lon)
}

func TestProject(t *testing.T) {
	s := DefaultSchema()
	rows := parseSample(t).Rows

	got := s.Project(s.Filter(rows, "", Claimant), Claimant)
	want := []Point{
		{Lat: 49.84, Lon: 24.03, Label: "A2.1-001\nLviv\n2022-03-01", ID: "A2.1-001", Category: "A2.1", Location: "Lviv", Date: "2022-03-01"},
		{Lat: 50.45, Lon: 30.52, Label: "A3.1-002\nKyiv\n2022-04-11", ID: "A3.1-002", Category: "A3.1", Location: "Kyiv", Date: "2022-04-11"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Project mismatch (-want +got):\n%s", diff)
	}

	// Project applies the same validity rule on unfiltered input.
	assert.Len(t, s.Project(rows, Event), 2)
}

func TestBounds(t *testing.T) {
	_, ok := Bounds(nil)
	assert.False(t, ok)

	b, ok := Bounds([]Point{{Lat: 50, Lon: 30}, {Lat: 46, Lon: 35}})
	require.True(t, ok)
	assert.Equal(t, 30.0, b.MinX)
	assert.Equal(t, 35.0, b.MaxX)
	assert.Equal(t, 46.0, b.MinY)
	assert.Equal(t, 50.0, b.MaxY)
}

func TestSchemaValidateAndDefaults(t *testing.T) {
	s := Schema{ID: "id"}.WithDefaults()
	assert.Equal(t, "id", s.ID)
	assert.Equal(t, "EventLatitude", s.EventLat)

	missing := DefaultSchema().Validate([]string{"ClaimID", "EventDate", "EventLatitude", "EventLongitude"})
	assert.Equal(t, []string{"EventLocation", "ClaimantLocation", "ClaimantLatitude", "ClaimantLongitude"}, missing)
}

func TestParseLocationType(t *testing.T) {
	l, err := ParseLocationType("Claimant")
	require.NoError(t, err)
	assert.Equal(t, Claimant, l)
	assert.Equal(t, Event, l.Toggle())
	assert.Equal(t, "claimant", l.String())

	_, err = ParseLocationType("home")
	assert.Error(t, err)
}
