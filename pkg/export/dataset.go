package export

import (
	"strconv"

	"github.com/perdasilva/dutyroster/pkg/schedule"
)

const (
	HeaderSite     = "Site"
	HeaderName     = "Name"
	HeaderSatCount = "SatCount"
	HeaderSunCount = "SunCount"
	HeaderTotal    = "Total"

	SummarySaturdays = "Saturday duty"
	SummarySundays   = "Sunday duty"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	// Marked flags rows to highlight, by row position.
	Marked []bool
	// Summary rows follow the body: per-weekend duty totals.
	Summary []map[string]string
	// Notes are printed under the table.
	Notes []string
}

func (d Dataset) marked(i int) bool {
	return i < len(d.Marked) && d.Marked[i]
}

// record lays row out in header order. A marked row's name gets a
// trailing star.
func (d Dataset) record(row map[string]string, marked bool) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
		if header == HeaderName && marked {
			record[i] += "*"
		}
	}
	return record
}

// FromTable flattens a roster table into one row per employee with a
// column per weekend and the duty counts, followed by the weekend totals.
func FromTable(table *schedule.Table, notes ...string) Dataset {
	headers := []string{HeaderSite, HeaderName}
	for i := range table.Slots {
		headers = append(headers, table.SlotHeader(i))
	}
	headers = append(headers, HeaderSatCount, HeaderSunCount, HeaderTotal)

	data := Dataset{
		Headers: headers,
		Rows:    make([]map[string]string, 0, len(table.Rows)),
		Marked:  make([]bool, 0, len(table.Rows)),
		Notes:   notes,
	}
	for _, row := range table.Rows {
		record := map[string]string{
			HeaderSite:     row.Site,
			HeaderName:     row.Name,
			HeaderSatCount: strconv.Itoa(row.SaturdayCount),
			HeaderSunCount: strconv.Itoa(row.SundayCount),
			HeaderTotal:    strconv.Itoa(row.TotalDutyDays),
		}
		for i, label := range row.Days {
			record[table.SlotHeader(i)] = label.Short()
		}
		data.Rows = append(data.Rows, record)
		data.Marked = append(data.Marked, row.Relaxed)
	}

	saturdays, sundays := table.Totals()
	data.Summary = []map[string]string{
		summaryRow(table, SummarySaturdays, HeaderSatCount, saturdays),
		summaryRow(table, SummarySundays, HeaderSunCount, sundays),
	}
	return data
}

func summaryRow(table *schedule.Table, name, countHeader string, counts []int) map[string]string {
	row := map[string]string{HeaderName: name}
	total := 0
	for i, n := range counts {
		row[table.SlotHeader(i)] = strconv.Itoa(n)
		total += n
	}
	row[countHeader] = strconv.Itoa(total)
	return row
}
