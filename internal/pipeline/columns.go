package pipeline

// Direction is a table header sort direction.
type Direction string

const (
	None Direction = ""
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Column describes one table column: its visibility key, header title,
// and the field its sort options are named after.
type Column struct {
	Key       string
	Title     string
	SortField string
	Right     bool
}

// Columns lists the table columns in display order.
var Columns = []Column{
	{Key: "number", Title: "Claim #", SortField: "number"},
	{Key: "status", Title: "Status", SortField: "status"},
	{Key: "holder", Title: "Holder", SortField: "holder"},
	{Key: "policyNumber", Title: "Policy #", SortField: "policyNumber"},
	{Key: "amount", Title: "Amount", SortField: "formattedClaimAmount", Right: true},
	{Key: "processingFee", Title: "Fee", SortField: "formattedProcessingFee", Right: true},
	{Key: "totalAmount", Title: "Total", SortField: "formattedTotalAmount", Right: true},
	{Key: "incidentDate", Title: "Incident", SortField: "formattedIncidentDate"},
	{Key: "createdAt", Title: "Created", SortField: "formattedCreatedDate"},
}

// ColumnByKey looks up a column by its visibility key.
func ColumnByKey(key string) (Column, bool) {
	for _, c := range Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// TableSort is the header-driven sort state. A zero TableSort means the
// table is unsorted by header.
type TableSort struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Active reports whether a header sort is in effect.
func (s TableSort) Active() bool {
	return s.Column != "" && s.Direction != None
}

// Option maps the header sort to a SortOption. The second result is false
// when no header sort is active or the column is unknown.
func (s TableSort) Option() (SortOption, bool) {
	if !s.Active() {
		return "", false
	}
	col, ok := ColumnByKey(s.Column)
	if !ok {
		return "", false
	}
	return SortOption(col.SortField + "-" + string(s.Direction)), true
}

// Indicator returns the arrow shown next to column's header, or "".
func (s TableSort) Indicator(column string) string {
	if s.Column != column {
		return ""
	}
	switch s.Direction {
	case Asc:
		return "↑"
	case Desc:
		return "↓"
	}
	return ""
}

// CycleColumnSort advances the header sort for column: a new column starts
// ascending, then descending, then clears.
func CycleColumnSort(column string, current TableSort) TableSort {
	dir := Asc
	if current.Column == column {
		switch current.Direction {
		case Asc:
			dir = Desc
		case Desc:
			dir = None
		}
	}
	if dir == None {
		return TableSort{}
	}
	return TableSort{Column: column, Direction: dir}
}
