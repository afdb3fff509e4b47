package models

type EventType string

const (
	EventTypeSwapCreated   EventType = "swap.created"
	EventTypeSwapAccepted  EventType = "swap.accepted"
	EventTypeSwapRejected  EventType = "swap.rejected"
	EventTypeSwapCancelled EventType = "swap.cancelled"
	EventTypeSwapCompleted EventType = "swap.completed"
	EventTypeBadgeAwarded  EventType = "badge.awarded"
)

type SwapEvent struct {
	EventType       EventType `json:"event_type"`
	SwapID          string    `json:"swap_id"`
	RequesterID     string    `json:"requester_id"`
	RequestedUserID string    `json:"requested_user_id"`
	Status          string    `json:"status"`
	Timestamp       int64     `json:"timestamp"`
}

type BadgeEvent struct {
	EventType EventType `json:"event_type"`
	UserID    string    `json:"user_id"`
	BadgeID   string    `json:"badge_id"`
	BadgeName string    `json:"badge_name"`
	Timestamp int64     `json:"timestamp"`
}

// UserRegisterEvent arrives from the auth service when an account is
// created.
type UserRegisterEvent struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// ProfileViewedEvent arrives from the profile service when someone opens a
// user's profile page.
type ProfileViewedEvent struct {
	UserID   string `json:"user_id"`
	ViewerID string `json:"viewer_id"`
}
