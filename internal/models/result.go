package models

// CascadeResult reports the outcome of a multi-file update (category rename,
// tag rename/delete). There is no rollback across files: already-applied
// rewrites are real, so failures are carried alongside the count instead of
// being raised as an error.
type CascadeResult struct {
	Updated int      `json:"updated"`
	Failed  []string `json:"failed,omitempty"` // identities whose rewrite failed
}

// Partial reports whether the cascade completed for only some of the
// affected files.
func (r CascadeResult) Partial() bool { return len(r.Failed) > 0 }
