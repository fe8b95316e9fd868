package domain

// OutputFormat declares the shape of a problem's expected output, used by the
// comparator to pick a comparison strategy.
type OutputFormat string

const (
	FormatString OutputFormat = "string"
	FormatNumber OutputFormat = "number"
	FormatArray  OutputFormat = "array"
	FormatMatrix OutputFormat = "matrix"
	FormatTree   OutputFormat = "tree"
	FormatGraph  OutputFormat = "graph"
)

// Problem represents the subset of a problem record the judging core reads
type Problem struct {
	ID           string       `db:"id"`
	Title        string       `db:"title"`
	Difficulty   string       `db:"difficulty"`
	OutputFormat OutputFormat `db:"output_format"`
}

// Template represents a per-(problem, language) code template
type Template struct {
	ProblemID string `db:"problem_id"`
	Language  string `db:"language"`
	Template  string `db:"template"`
}
