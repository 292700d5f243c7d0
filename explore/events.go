package explore

import "github.com/lukemcguire/pasteprobe/result"

// Event reports progress for a single candidate.
type Event struct {
	Attempt   int                // Attempts so far, including this one
	Result    result.ProbeResult // Zero for skipped candidates
	Available int                // Available URLs collected so far
	Taken     int                // Taken attempts so far
	Skipped   bool               // Candidate was disallowed by robots.txt
	Duplicate bool               // Candidate was generated before in this session
	Opened    bool               // URL was opened in the viewer
	OpenError string             // Viewer failure, if any
}
