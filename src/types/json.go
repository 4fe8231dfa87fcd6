package types

// TestResult ... outcome of one test case
type TestResult struct {
	Name   string  `json:"name"`
	Status Status  `json:"status"`
	Time   float64 `json:"time"`   // seconds
	Memory int     `json:"memory"` // KB
	Input  string  `json:"input"`
	Output string  `json:"output"`
	Expect string  `json:"expect"`
}

// Result ... the report of one judging run
type Result struct {
	Status     Status       `json:"status"`
	MaxTime    float64      `json:"max_time"`
	MaxMemory  int          `json:"max_memory"`
	CompileLog string       `json:"compile_log"`
	Detail     []TestResult `json:"detail"`
}

func NewResult() *Result {
	return &Result{Status: StatusAC, Detail: make([]TestResult, 0)}
}

// Aggregate sets MaxTime and MaxMemory to the maxima over Detail.
func (r *Result) Aggregate() {
	r.MaxTime, r.MaxMemory = 0, 0
	for _, elem := range r.Detail {
		if elem.Time > r.MaxTime {
			r.MaxTime = elem.Time
		}
		if elem.Memory > r.MaxMemory {
			r.MaxMemory = elem.Memory
		}
	}
}
