package activity

// DefaultListLimit applies when ListActivityOptions.Limit is unset.
const DefaultListLimit = 50

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	ProjectID    string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
