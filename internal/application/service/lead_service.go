package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/techvibe/backoffice/internal/application/dispatcher"
	"github.com/techvibe/backoffice/internal/application/port"
	"github.com/techvibe/backoffice/internal/domain/entity"
	"github.com/techvibe/backoffice/internal/domain/event"
	"github.com/techvibe/backoffice/pkg/utils"
)

// LeadService accepts public form submissions and lets staff follow them up
type LeadService interface {
	SubmitContact(ctx context.Context, s *entity.ContactSubmission) error
	SubmitQuoteRequest(ctx context.Context, r *entity.QuoteRequest) error
	SubmitMeetingRequest(ctx context.Context, r *entity.MeetingRequest) error
	ListContacts(ctx context.Context) ([]*entity.ContactSubmission, error)
	ListQuoteRequests(ctx context.Context) ([]*entity.QuoteRequest, error)
	ListMeetingRequests(ctx context.Context) ([]*entity.MeetingRequest, error)
	SetStatus(ctx context.Context, kind entity.LeadKind, id int64, status string) error
	Delete(ctx context.Context, kind entity.LeadKind, id int64) error
}

type leadServiceImpl struct {
	repo       port.LeadRepository
	dispatcher dispatcher.Dispatcher
	logger     Logger
}

// NewLeadService creates a new LeadService
func NewLeadService(repo port.LeadRepository, dispatcher dispatcher.Dispatcher, logger Logger) LeadService {
	return &leadServiceImpl{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func validateContact(name, email *string) error {
	*name = utils.SanitizeString(*name)
	*email = strings.TrimSpace(*email)

	if err := utils.ValidateRequired(map[string]string{"name": *name, "email": *email}, "name", "email"); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	if err := utils.ValidateEmail(*email); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	return nil
}

func (s *leadServiceImpl) SubmitContact(ctx context.Context, sub *entity.ContactSubmission) error {
	if err := validateContact(&sub.Name, &sub.Email); err != nil {
		return err
	}
	sub.Message = utils.SanitizeString(sub.Message)
	sub.Status = entity.LeadStatusNew

	if err := s.repo.CreateContact(ctx, sub); err != nil {
		s.logger.Error("Failed to store contact submission", "error", err)
		return err
	}

	s.announce(ctx, entity.LeadContact, port.LeadSummary{
		ID: sub.ID, Name: sub.Name, Email: sub.Email, Phone: sub.Phone,
		Subject: sub.Subject, Body: sub.Message,
	})
	return nil
}

func (s *leadServiceImpl) SubmitQuoteRequest(ctx context.Context, req *entity.QuoteRequest) error {
	if err := validateContact(&req.Name, &req.Email); err != nil {
		return err
	}
	req.Details = utils.SanitizeString(req.Details)
	req.Status = entity.LeadStatusNew

	if err := s.repo.CreateQuoteRequest(ctx, req); err != nil {
		s.logger.Error("Failed to store quote request", "error", err)
		return err
	}

	body := req.Details
	if req.Budget != "" || req.Timeline != "" {
		body = fmt.Sprintf("%s\nBudget: %s\nTimeline: %s", req.Details, req.Budget, req.Timeline)
	}
	s.announce(ctx, entity.LeadQuote, port.LeadSummary{
		ID: req.ID, Name: req.Name, Email: req.Email, Phone: req.Phone,
		Subject: req.Service, Body: body,
	})
	return nil
}

func (s *leadServiceImpl) SubmitMeetingRequest(ctx context.Context, req *entity.MeetingRequest) error {
	if err := validateContact(&req.Name, &req.Email); err != nil {
		return err
	}
	req.Topic = utils.SanitizeString(req.Topic)
	req.Status = entity.LeadStatusNew

	if err := s.repo.CreateMeetingRequest(ctx, req); err != nil {
		s.logger.Error("Failed to store meeting request", "error", err)
		return err
	}

	s.announce(ctx, entity.LeadMeeting, port.LeadSummary{
		ID: req.ID, Name: req.Name, Email: req.Email, Phone: req.Phone,
		Subject: req.Topic,
		Body:    strings.TrimSpace(req.PreferredDate + " " + req.PreferredTime),
	})
	return nil
}

func (s *leadServiceImpl) ListContacts(ctx context.Context) ([]*entity.ContactSubmission, error) {
	return s.repo.ListContacts(ctx)
}

func (s *leadServiceImpl) ListQuoteRequests(ctx context.Context) ([]*entity.QuoteRequest, error) {
	return s.repo.ListQuoteRequests(ctx)
}

func (s *leadServiceImpl) ListMeetingRequests(ctx context.Context) ([]*entity.MeetingRequest, error) {
	return s.repo.ListMeetingRequests(ctx)
}

func (s *leadServiceImpl) SetStatus(ctx context.Context, kind entity.LeadKind, id int64, status string) error {
	if !entity.IsValidLeadStatus(status) {
		return fmt.Errorf("%w: lead status %q", entity.ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatus(ctx, kind, id, status)
}

func (s *leadServiceImpl) Delete(ctx context.Context, kind entity.LeadKind, id int64) error {
	return s.repo.Delete(ctx, kind, id)
}

// announce publishes lead.received without waiting for the notification handlers
func (s *leadServiceImpl) announce(ctx context.Context, kind entity.LeadKind, summary port.LeadSummary) {
	s.logger.Info("Lead received", "kind", kind, "id", summary.ID)
	if s.dispatcher == nil {
		return
	}

	s.dispatcher.DispatchAsync(ctx, event.NewEvent(event.TypeLeadReceived, string(kind), summary.ID, map[string]interface{}{
		"kind":    string(kind),
		"name":    summary.Name,
		"email":   summary.Email,
		"phone":   summary.Phone,
		"subject": summary.Subject,
		"body":    summary.Body,
	}))
}

// NewLeadNotificationHandler forwards lead.received events to the sales channel
func NewLeadNotificationHandler(notifier port.LeadNotifier, logger Logger) dispatcher.Handler {
	return func(ctx context.Context, evt *event.Event) error {
		kind := entity.LeadKind(evt.GetPayloadString("kind"))
		summary := port.LeadSummary{
			ID:      evt.AggregateID,
			Name:    evt.GetPayloadString("name"),
			Email:   evt.GetPayloadString("email"),
			Phone:   evt.GetPayloadString("phone"),
			Subject: evt.GetPayloadString("subject"),
			Body:    evt.GetPayloadString("body"),
		}

		if err := notifier.NotifyLead(ctx, kind, summary); err != nil {
			logger.Error("Failed to notify sales about lead", "kind", kind, "id", summary.ID, "error", err)
			return fmt.Errorf("notify lead: %w", err)
		}
		return nil
	}
}
