package core

// TableView is a serializable rendering of a Table, optionally truncated.
type TableView struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Total     int        `json:"total"`
	Truncated bool       `json:"truncated,omitempty"`
}

// NewTableView renders t with at most limit rows. limit <= 0 keeps all rows.
func NewTableView(t *Table, limit int) TableView {
	n := t.Len()
	if limit > 0 && n > limit {
		n = limit
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = t.Row(i)
	}
	return TableView{
		Columns:   t.Columns(),
		Rows:      rows,
		Total:     t.Len(),
		Truncated: n < t.Len(),
	}
}

// ReportView is the wire form of a CompareReport, shared by the JSON API and
// the CLI's json and yaml output.
type ReportView struct {
	ID           string       `json:"id"`
	Mode         string       `json:"mode"`
	First        FileInfo     `json:"first"`
	Second       FileInfo     `json:"second"`
	Stats        CompareStats `json:"stats"`
	OnlyInFirst  TableView    `json:"onlyInFirst"`
	OnlyInSecond TableView    `json:"onlyInSecond"`
	Combined     *TableView   `json:"combined,omitempty"`
	DurationMS   int64        `json:"durationMs"`
}

// View renders the report, keeping at most limit rows per table.
func (r *CompareReport) View(limit int) ReportView {
	v := ReportView{
		ID:           r.ID,
		Mode:         r.Mode.String(),
		First:        r.First,
		Second:       r.Second,
		Stats:        r.Stats,
		OnlyInFirst:  NewTableView(r.OnlyInFirst, limit),
		OnlyInSecond: NewTableView(r.OnlyInSecond, limit),
		DurationMS:   r.Duration.Milliseconds(),
	}
	if r.Combined != nil {
		c := NewTableView(r.Combined, limit)
		v.Combined = &c
	}
	return v
}
