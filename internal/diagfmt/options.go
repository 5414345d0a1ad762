package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	ShowText bool // echo the offending line under each diagnostic
	Summary  bool // trailing "N errors, M warnings" line
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max         int // output cut-off, 0 means everything
	IncludeText bool
}
