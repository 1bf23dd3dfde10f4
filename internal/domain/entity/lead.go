package entity

import "time"

// LeadKind identifies which public form produced a lead
type LeadKind string

const (
	LeadContact LeadKind = "contact"
	LeadQuote   LeadKind = "quote_request"
	LeadMeeting LeadKind = "meeting_request"
)

// ContactSubmission is a message sent through the public contact form
type ContactSubmission struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// QuoteRequest asks the company to price a piece of work
type QuoteRequest struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   string    `json:"company"`
	Service   string    `json:"service"`
	Budget    string    `json:"budget"`
	Timeline  string    `json:"timeline"`
	Details   string    `json:"details"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// MeetingRequest asks for a call or visit
type MeetingRequest struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	PreferredDate string    `json:"preferred_date"`
	PreferredTime string    `json:"preferred_time"`
	Topic         string    `json:"topic"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
