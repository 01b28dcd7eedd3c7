package importer

// RowError records one rejected CSV row
type RowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// FileResult summarizes the import of one CSV file
type FileResult struct {
	File     string     `json:"file"`
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors,omitempty"`
}

func (r *FileResult) reject(line int, message string) {
	r.Failed++
	r.Errors = append(r.Errors, RowError{Line: line, Message: message})
}

// Report collects per-file results for a directory import
type Report struct {
	Files []FileResult `json:"files"`
}

// TotalImported sums imported rows across all files
func (r *Report) TotalImported() int {
	var total int
	for _, f := range r.Files {
		total += f.Imported
	}
	return total
}

// TotalFailed sums rejected rows across all files
func (r *Report) TotalFailed() int {
	var total int
	for _, f := range r.Files {
		total += f.Failed
	}
	return total
}
