package domain

import "time"

type ClassStatus string

const (
	ClassStatusScheduled ClassStatus = "SCHEDULED"
	ClassStatusOngoing   ClassStatus = "ONGOING"
	ClassStatusCompleted ClassStatus = "COMPLETED"
	ClassStatusCancelled ClassStatus = "CANCELLED"
)

// ClassSchedule rows are created and edited by an external scheduling tool;
// this service only reads them and advances status once the class has ended.
type ClassSchedule struct {
	ID              int32       `json:"id"`
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	Instructor      string      `json:"instructor"`
	StartTime       time.Time   `json:"start_time"`
	EndTime         time.Time   `json:"end_time"`
	MaxCapacity     int32       `json:"max_capacity"`
	RequiredCredits int32       `json:"required_credits"`
	Region          string      `json:"region"`
	Location        string      `json:"location,omitempty"`
	ClassType       string      `json:"class_type,omitempty"`
	Status          ClassStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// Overlaps reports whether two half-open time windows intersect.
func (s *ClassSchedule) Overlaps(other *ClassSchedule) bool {
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}

// ScheduleAvailability is the catalog view: a schedule plus live occupancy.
type ScheduleAvailability struct {
	ClassSchedule
	BookedCount   int32 `json:"booked_count"`
	WaitlistCount int32 `json:"waitlist_count"`
}
