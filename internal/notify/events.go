package notify

// TaskAssignedEvent is sent when a task is assigned (or reassigned) to someone.
type TaskAssignedEvent struct {
	ProjectID    uint
	TaskID       uint
	HierarchyID  string
	Title        string
	ProjectName  string
	AssignerName string
	AssigneeName string
	Priority     string
}

// TaskStatusChangedEvent is sent when a task moves between board columns.
type TaskStatusChangedEvent struct {
	ProjectID   uint
	TaskID      uint
	HierarchyID string
	Title       string
	ProjectName string
	FromStatus  string
	ToStatus    string
	ActorName   string
}

// FRStatusChangedEvent is sent when a functional requirement's status
// changes, whether by hand or derived from its tasks.
type FRStatusChangedEvent struct {
	ProjectID   uint
	FRID        uint
	HierarchyID string
	Title       string
	ProjectName string
	FromStatus  string
	ToStatus    string
}

// SprintStartedEvent is sent when a sprint is activated.
type SprintStartedEvent struct {
	ProjectID   uint
	SprintID    uint
	Name        string
	ProjectName string
	Goal        string
}

// SprintCompletedEvent is sent when a sprint is closed. MovedToBacklog
// counts the unfinished tasks pushed back for replanning.
type SprintCompletedEvent struct {
	ProjectID       uint
	SprintID        uint
	Name            string
	ProjectName     string
	MovedToBacklog  int64
}

// LeaveDecidedEvent is sent when a leave request is approved or rejected.
type LeaveDecidedEvent struct {
	LeaveID       uint
	RequesterName string
	ApproverName  string
	Type          string
	Status        string
	Comment       string
}
