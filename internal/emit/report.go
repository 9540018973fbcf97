package emit

// Status is the outcome of one operation in a run.
type Status string

const (
	StatusGenerated Status = "generated"
	StatusSkipped   Status = "skipped"
)

// Failure codes for errors that do not come from synthesis.
const (
	CodeFingerprintFailed = "FINGERPRINT_FAILED"
	CodeRenderFailed      = "RENDER_FAILED"
)

// OpResult records what happened to one operation.
type OpResult struct {
	Seq         int64  `json:"seq"` // 1-based position among the dialect's operations
	Operation   string `json:"operation"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Status      Status `json:"status"`
	Code        string `json:"code,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Report summarizes one Generate call.
type Report struct {
	RunID     string     `json:"run_id"`
	Dialect   string     `json:"dialect"`
	Extension string     `json:"extension,omitempty"`
	Results   []OpResult `json:"results"`  // input order
	Failures  []OpResult `json:"failures"` // the skipped subset of Results
}

// Generated counts operations that were written.
func (r *Report) Generated() int {
	return len(r.Results) - len(r.Failures)
}

// OK reports whether every selected operation was generated.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}
