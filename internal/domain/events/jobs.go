package events

var JobsChangedTopic = "JobsChangedEvent"

type JobsOperation string

const (
	JobCreated  JobsOperation = "created"
	JobUpdated  JobsOperation = "updated"
	JobDeleted  JobsOperation = "deleted"
	JobsRefresh JobsOperation = "refresh"
)

// JobsChanged invalidates every listing and cached job detail. JobID is empty for a scheduled refresh.
type JobsChanged struct {
	Operation JobsOperation
	JobID     string
}
