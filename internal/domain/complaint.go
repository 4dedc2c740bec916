package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
	StatusRejected   ComplaintStatus = "Rejected"
)

// Valid reports whether the status is one of the four known values.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// ComplaintCategory enumerates submission categories.
type ComplaintCategory string

const (
	CategoryProduct ComplaintCategory = "Product"
	CategoryService ComplaintCategory = "Service"
	CategorySupport ComplaintCategory = "Support"
)

// Valid reports whether the category is one of the known values.
func (c ComplaintCategory) Valid() bool {
	switch c {
	case CategoryProduct, CategoryService, CategorySupport:
		return true
	}
	return false
}

// ComplaintPriority enumerates submission urgency.
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "Low"
	PriorityMedium ComplaintPriority = "Medium"
	PriorityHigh   ComplaintPriority = "High"
)

// Valid reports whether the priority is one of the known values.
func (p ComplaintPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Field length limits, in characters, enforced at creation.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 1000
)

// Complaint is the core tracked entity. Status starts at Pending and is
// mutated only by admins; any status may transition to any other.
type Complaint struct {
	ID          string
	Title       string
	Description string
	Category    ComplaintCategory
	Priority    ComplaintPriority
	Status      ComplaintStatus
	UserID      string
	CreatedAt   time.Time
}

// ComplaintWithOwner joins a complaint with its owner's contact fields
// for admin listings.
type ComplaintWithOwner struct {
	Complaint
	OwnerName  string
	OwnerEmail string
}
