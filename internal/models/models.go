package models

import "time"

// Role is the authorization role of a user
type Role string

const (
	RoleUser    Role = "user"
	RoleSupport Role = "support"
	RoleAdmin   Role = "admin"
)

// RegistrationStatus is the approval state of a registration
type RegistrationStatus string

const (
	StatusPending  RegistrationStatus = "pending"
	StatusApproved RegistrationStatus = "approved"
)

// User represents an account in the system
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is the public projection of a user embedded in other entities
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Category groups competitions
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Competition represents an event users can register for.
// RegistrationsCount is a denormalized cache of registration cardinality.
type Competition struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	CategoryID         string    `json:"category_id"`
	CategoryName       string    `json:"category_name,omitempty"`
	Venue              string    `json:"venue"`
	Building           string    `json:"building"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	DayNumber          int       `json:"day_number"`
	RegistrationsCount int       `json:"registrations_count"`
	IsUpcoming         bool      `json:"is_upcoming"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Registration is a (user, competition) pair, unique together
type Registration struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	CompetitionID string             `json:"competition_id"`
	Status        RegistrationStatus `json:"status"`
	User          *UserSummary       `json:"user,omitempty"`
	Competition   *Competition       `json:"competition,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ChatMessage is an immutable peer-to-peer support message
type ChatMessage struct {
	ID         string       `json:"id"`
	SenderID   string       `json:"sender_id"`
	ReceiverID string       `json:"receiver_id"`
	Message    string       `json:"message"`
	Timestamp  time.Time    `json:"timestamp"`
	Sender     *UserSummary `json:"sender,omitempty"`
	Receiver   *UserSummary `json:"receiver,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Conversation is a derived grouping: the counterpart and the most recent
// message exchanged with them. Not a stored entity.
type Conversation struct {
	User        UserSummary `json:"user"`
	LastMessage ChatMessage `json:"last_message"`
}

// CompetitionCount is one row of the admin stats breakdown, recomputed
// from registration cardinality rather than the denormalized counter
type CompetitionCount struct {
	CompetitionID string `json:"competition_id"`
	Title         string `json:"title"`
	Count         int64  `json:"count"`
}

// AdminStats aggregates platform-wide totals
type AdminStats struct {
	TotalUsers                 int64              `json:"total_users"`
	TotalCompetitions          int64              `json:"total_competitions"`
	TotalRegistrations         int64              `json:"total_registrations"`
	RegistrationsByCompetition []CompetitionCount `json:"registrations_by_competition"`
}
