package cleanup

// Report summarizes one cleanup pass.
type Report struct {
	Creeps            int  // creep entities deleted
	Missions          int  // mission entities deleted
	Operations        int  // operation entities deleted
	Skipped           int  // entries whose target was already dead
	DeleteFailures    int  // deletions that returned an error
	NotifyFailures    int  // owner/child notifications rejected by the receiver
	CascadeIterations int  // expansion rounds that produced new entries
	CapReached        bool // expansion stopped at the iteration limit
}

// Empty reports whether the pass did nothing.
func (r Report) Empty() bool {
	return r.Creeps == 0 && r.Missions == 0 && r.Operations == 0 && r.Skipped == 0
}
