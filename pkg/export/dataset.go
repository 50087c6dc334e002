package export

// Field is a labelled value shown above the table in rendered reports.
type Field struct {
	Label string
	Value string
}

// Dataset defines tabular export content. Each row must have one cell per header.
type Dataset struct {
	Title   string
	Summary []Field
	Headers []string
	Rows    [][]string
}
