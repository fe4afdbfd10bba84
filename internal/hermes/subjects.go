package hermes

import "time"

const (
	SubjectRankingsRecomputed = "force.rankings.recomputed"
	SubjectDatasetReloaded    = "force.dataset.reloaded"
	SubjectDatasetReload      = "force.dataset.reload"
	SubjectDatasetFailed      = "force.dataset.failed"

	StreamName   = "FORCERANK_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

// DuplicateWindow is how long the stream remembers event ids.
const DuplicateWindow = 2 * time.Minute

// StreamSubjects are captured by the JetStream stream.
var StreamSubjects = []string{"force.rankings.>", "force.dataset.>"}
