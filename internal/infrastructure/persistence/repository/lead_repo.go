package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
	"github.com/techvibe/backoffice/internal/infrastructure/persistence/sqlite"
)

// LeadRepository implements port.LeadRepository over the three public form tables
type LeadRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *sql.DB, logger *zap.Logger) port.LeadRepository {
	return &LeadRepository{
		db:     db,
		logger: logger,
	}
}

func (r *LeadRepository) insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// CreateContact stores a contact form message
func (r *LeadRepository) CreateContact(ctx context.Context, s *entity.ContactSubmission) error {
	s.CreatedAt = time.Now().UTC()
	if s.Status == "" {
		s.Status = entity.LeadStatusNew
	}

	id, err := r.insert(ctx, `
		INSERT INTO contact_submissions (name, email, phone, subject, message, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.Name, s.Email, s.Phone, s.Subject, s.Message, s.Status, s.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create contact submission", zap.Error(err))
		return fmt.Errorf("failed to create contact submission: %w", err)
	}
	s.ID = id
	return nil
}

// CreateQuoteRequest stores a quote request
func (r *LeadRepository) CreateQuoteRequest(ctx context.Context, q *entity.QuoteRequest) error {
	q.CreatedAt = time.Now().UTC()
	if q.Status == "" {
		q.Status = entity.LeadStatusNew
	}

	id, err := r.insert(ctx, `
		INSERT INTO quote_requests (name, email, phone, company, service, budget, timeline, details, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, q.Name, q.Email, q.Phone, q.Company, q.Service, q.Budget, q.Timeline, q.Details, q.Status, q.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create quote request", zap.Error(err))
		return fmt.Errorf("failed to create quote request: %w", err)
	}
	q.ID = id
	return nil
}

// CreateMeetingRequest stores a meeting request
func (r *LeadRepository) CreateMeetingRequest(ctx context.Context, m *entity.MeetingRequest) error {
	m.CreatedAt = time.Now().UTC()
	if m.Status == "" {
		m.Status = entity.LeadStatusNew
	}

	id, err := r.insert(ctx, `
		INSERT INTO meeting_requests (name, email, phone, preferred_date, preferred_time, topic, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.Name, m.Email, m.Phone, m.PreferredDate, m.PreferredTime, m.Topic, m.Status, m.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create meeting request", zap.Error(err))
		return fmt.Errorf("failed to create meeting request: %w", err)
	}
	m.ID = id
	return nil
}

// ListContacts returns contact submissions newest first
func (r *LeadRepository) ListContacts(ctx context.Context) ([]*entity.ContactSubmission, error) {
	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, `
		SELECT id, name, email, phone, subject, message, status, created_at
		FROM contact_submissions ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", err)
	}
	defer rows.Close()

	var out []*entity.ContactSubmission
	for rows.Next() {
		var s entity.ContactSubmission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Subject, &s.Message, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact submission: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// ListQuoteRequests returns quote requests newest first
func (r *LeadRepository) ListQuoteRequests(ctx context.Context) ([]*entity.QuoteRequest, error) {
	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, `
		SELECT id, name, email, phone, company, service, budget, timeline, details, status, created_at
		FROM quote_requests ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list quote requests: %w", err)
	}
	defer rows.Close()

	var out []*entity.QuoteRequest
	for rows.Next() {
		var q entity.QuoteRequest
		if err := rows.Scan(&q.ID, &q.Name, &q.Email, &q.Phone, &q.Company, &q.Service, &q.Budget, &q.Timeline, &q.Details, &q.Status, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quote request: %w", err)
		}
		out = append(out, &q)
	}
	return out, rows.Err()
}

// ListMeetingRequests returns meeting requests newest first
func (r *LeadRepository) ListMeetingRequests(ctx context.Context) ([]*entity.MeetingRequest, error) {
	rows, err := sqlite.ExecutorFrom(ctx, r.db).QueryContext(ctx, `
		SELECT id, name, email, phone, preferred_date, preferred_time, topic, status, created_at
		FROM meeting_requests ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list meeting requests: %w", err)
	}
	defer rows.Close()

	var out []*entity.MeetingRequest
	for rows.Next() {
		var m entity.MeetingRequest
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.PreferredDate, &m.PreferredTime, &m.Topic, &m.Status, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meeting request: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// UpdateStatus sets the follow-up status of a lead
func (r *LeadRepository) UpdateStatus(ctx context.Context, kind entity.LeadKind, id int64, status string) error {
	table, err := leadTable(kind)
	if err != nil {
		return err
	}

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET status = ? WHERE id = ?`, table), status, id)
	if err != nil {
		r.logger.Error("Failed to update lead status", zap.String("kind", string(kind)), zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to update lead status: %w", err)
	}
	return checkAffected(result)
}

// Delete removes a lead
func (r *LeadRepository) Delete(ctx context.Context, kind entity.LeadKind, id int64) error {
	table, err := leadTable(kind)
	if err != nil {
		return err
	}

	result, err := sqlite.ExecutorFrom(ctx, r.db).ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return fmt.Errorf("failed to delete lead: %w", err)
	}
	return checkAffected(result)
}
