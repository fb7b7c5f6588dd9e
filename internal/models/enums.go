package models

// Status is the workflow state of a ticket. Any valid status may follow
// any other, including a rejected ticket going back to new.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
)

var validStatuses = map[Status]bool{
	StatusNew:        true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusRejected:   true,
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

// Priority is the urgency a ticket author assigns.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// DefaultPriority is used when the author leaves priority blank.
const DefaultPriority = PriorityMedium

var validPriorities = map[Priority]bool{
	PriorityLow:      true,
	PriorityMedium:   true,
	PriorityHigh:     true,
	PriorityCritical: true,
}

func (p Priority) String() string {
	return string(p)
}

func (p Priority) IsValid() bool {
	return validPriorities[p]
}

// ParsePriority maps raw input onto the enumerated set. Blank and unknown
// values fall back to DefaultPriority; ok is false only for the unknown case.
func ParsePriority(raw string) (p Priority, ok bool) {
	if raw == "" {
		return DefaultPriority, true
	}
	p = Priority(raw)
	if !p.IsValid() {
		return DefaultPriority, false
	}
	return p, true
}
