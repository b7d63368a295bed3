package models

// URLColumn is the header of the only column of a ResultTable.
const URLColumn = "URL"

// ResultTable is the single-column projection of a URLList. It is derived
// data and is rebuilt whenever the list or the keyword changes.
type ResultTable struct {
	Columns []string
	Rows    []string
}

func (t ResultTable) Len() int {
	return len(t.Rows)
}

// Records returns the table as CSV records, header first.
func (t ResultTable) Records() [][]string {
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, t.Columns)
	for _, row := range t.Rows {
		records = append(records, []string{row})
	}
	return records
}
