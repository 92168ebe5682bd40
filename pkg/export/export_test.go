package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perdasilva/dutyroster/pkg/roster"
	"github.com/perdasilva/dutyroster/pkg/schedule"
)

func sampleTable() *schedule.Table {
	slots := make([]roster.WeekendSlot, 4)
	for i := range slots {
		slots[i] = roster.WeekendSlot{Index: i + 1, HasSaturday: true, HasSunday: true}
	}
	return &schedule.Table{
		Slots:          slots,
		TargetDutyDays: 2,
		Relaxed:        []string{"Hoa"},
		Rows: []schedule.Row{
			{
				Site: "FLE", Name: "Hoa",
				Days:          []schedule.Label{schedule.LabelSaturday, schedule.LabelNone, schedule.LabelSaturday, schedule.LabelNone},
				SaturdayCount: 2, TotalDutyDays: 2, Relaxed: true,
			},
			{
				Site: "FLE", Name: "Khai",
				Days:          []schedule.Label{schedule.LabelNone, schedule.LabelSunday, schedule.LabelNone, schedule.LabelSaturday},
				SaturdayCount: 1, SundayCount: 1, TotalDutyDays: 2,
			},
			{
				Site: "OH", Name: "KietLat",
				Days:          []schedule.Label{schedule.LabelNone, schedule.LabelSaturday, schedule.LabelNone, schedule.LabelSaturday},
				SaturdayCount: 2, TotalDutyDays: 2,
			},
		},
	}
}

func TestFromTable(t *testing.T) {
	data := FromTable(sampleTable(), "run 1")
	assert.Equal(t, []string{"Site", "Name", "Week1", "Week2", "Week3", "Week4", "SatCount", "SunCount", "Total"}, data.Headers)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, []bool{true, false, false}, data.Marked)
	assert.Equal(t, []string{"run 1"}, data.Notes)

	khai := data.Rows[1]
	assert.Equal(t, "Khai", khai[HeaderName])
	assert.Equal(t, "", khai["Week1"])
	assert.Equal(t, "Sun", khai["Week2"])
	assert.Equal(t, "Sat", khai["Week4"])
	assert.Equal(t, "1", khai[HeaderSatCount])
	assert.Equal(t, "1", khai[HeaderSunCount])
	assert.Equal(t, "2", khai[HeaderTotal])

	require.Len(t, data.Summary, 2)
	assert.Equal(t, map[string]string{
		HeaderName: SummarySaturdays, "Week1": "1", "Week2": "1", "Week3": "1", "Week4": "2", HeaderSatCount: "5",
	}, data.Summary[0])
	assert.Equal(t, map[string]string{
		HeaderName: SummarySundays, "Week1": "0", "Week2": "1", "Week3": "0", "Week4": "0", HeaderSunCount: "1",
	}, data.Summary[1])
}

func TestCSVExporter(t *testing.T) {
	out, err := NewCSVExporter().Render(FromTable(sampleTable(), "Run 1", "Carry-over exclusion lifted for: Hoa"))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 8)
	assert.Equal(t, []string{"Site", "Name", "Week1", "Week2", "Week3", "Week4", "SatCount", "SunCount", "Total"}, records[0])
	assert.Equal(t, []string{"FLE", "Hoa*", "Sat", "", "Sat", "", "2", "0", "2"}, records[1])
	assert.Equal(t, []string{"FLE", "Khai", "", "Sun", "", "Sat", "1", "1", "2"}, records[2])
	assert.Equal(t, []string{"OH", "KietLat", "", "Sat", "", "Sat", "2", "0", "2"}, records[3])
	assert.Equal(t, []string{"", "Saturday duty", "1", "1", "1", "2", "5", "", ""}, records[4])
	assert.Equal(t, []string{"", "Sunday duty", "0", "1", "0", "0", "", "1", ""}, records[5])
	assert.Equal(t, []string{"Run 1", "", "", "", "", "", "", "", ""}, records[6])
	assert.Equal(t, "Carry-over exclusion lifted for: Hoa", records[7][0])

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestCellFill(t *testing.T) {
	type tc struct {
		Name   string
		Header string
		Value  string
		Marked bool
		Fill   rgb
		Filled bool
	}

	for _, tt := range []tc{
		{Name: "saturday", Header: "Week1", Value: "Sat", Fill: saturdayFill, Filled: true},
		{Name: "sunday", Header: "Week2", Value: "Sun", Fill: sundayFill, Filled: true},
		{Name: "both days", Header: "Week3", Value: "Sat+Sun", Fill: bothFill, Filled: true},
		{Name: "day off", Header: "Week4", Value: ""},
		{Name: "marked name", Header: HeaderName, Value: "Hoa", Marked: true, Fill: markedFill, Filled: true},
		{Name: "unmarked name", Header: HeaderName, Value: "Khai"},
		{Name: "marked row duty cell", Header: "Week1", Value: "Sat", Marked: true, Fill: saturdayFill, Filled: true},
		{Name: "marked row site", Header: HeaderSite, Value: "FLE", Marked: true},
		{Name: "count", Header: HeaderSatCount, Value: "2"},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			fill, ok := cellFill(tt.Header, tt.Value, tt.Marked)
			assert.Equal(t, tt.Filled, ok)
			assert.Equal(t, tt.Fill, fill)
		})
	}
}

func TestPDFExporter(t *testing.T) {
	out, err := NewPDFExporter().Render(FromTable(sampleTable(), "relaxed: Hoa"), "Duty roster")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().Render(Dataset{}, "")
	assert.Error(t, err)
}

func TestTextRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, NewTextRenderer().Render(buf, sampleTable(), "Duty roster"))
	out := buf.String()

	assert.Contains(t, out, "=== Duty roster ===")
	assert.Contains(t, out, "FLE")
	assert.Contains(t, out, "Hoa*")
	assert.Contains(t, out, "Total:2")
	assert.Contains(t, out, "carry-over exclusion lifted: Hoa")
	assert.Regexp(t, `Saturday duty\s+\| 1\s+\| 1\s+\| 1\s+\| 2`, out)
	assert.Regexp(t, `Sunday duty\s+\| 0\s+\| 1\s+\| 0\s+\| 0`, out)
	assert.Less(t, strings.Index(out, "FLE"), strings.Index(out, "OH"))
}

func TestFileWriter(t *testing.T) {
	dir := t.TempDir()
	w := &FileWriter{
		Dir:     filepath.Join(dir, "out"),
		Base:    "roster-2026-01",
		Formats: []string{FormatCSV, FormatPDF, FormatText},
		Title:   "Duty roster",
	}
	paths, err := w.Write(context.Background(), sampleTable())
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "out", "roster-2026-01.csv"), paths[0])
	assert.Equal(t, filepath.Join(dir, "out", "roster-2026-01.pdf"), paths[1])
	assert.Equal(t, filepath.Join(dir, "out", "roster-2026-01.txt"), paths[2])
	for _, path := range paths {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.NotZero(t, info.Size())
	}

	w.Formats = []string{"xlsx"}
	_, err = w.Write(context.Background(), sampleTable())
	assert.ErrorContains(t, err, "unsupported export format")
}
