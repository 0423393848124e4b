package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/choosepure-waitlist/domain/notification"
	"github.com/akeren/choosepure-waitlist/internal/log"
	"github.com/akeren/choosepure-waitlist/internal/models"
	apperrors "github.com/akeren/choosepure-waitlist/pkg/errors"
	"github.com/akeren/choosepure-waitlist/pkg/validation"
	"github.com/prometheus/client_golang/prometheus"
)

type WaitlistService interface {
	// Join handles a public signup: validate, persist, then notify the
	// registrant and the admin.
	Join(ctx context.Context, req *JoinWaitlistRequest) (*JoinWaitlistResponse, error)

	// AddMember records an entry on behalf of an admin. No emails are sent.
	AddMember(ctx context.Context, req *JoinWaitlistRequest) (*WaitlistMemberResponse, error)

	// ListMembers returns every entry, newest first.
	ListMembers(ctx context.Context) (*ListMembersResponse, error)

	// DeleteMember removes the entry identified by id.
	DeleteMember(ctx context.Context, id uint) error
}

type Config struct {
	// CommunityLink is returned to registrants and embedded in the welcome email.
	CommunityLink string
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
	notifier   notification.Notifier
	config     Config
	signups    *prometheus.CounterVec
}

func NewWaitlistService(
	logger *log.Logger,
	repository WaitlistRepository,
	notifier notification.Notifier,
	config Config,
	reg prometheus.Registerer,
) WaitlistService {
	signups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "waitlist_signups_total",
		Help: "Waitlist submissions by source and outcome.",
	}, []string{"source", "outcome"})
	if reg != nil {
		if err := reg.Register(signups); err != nil {
			logger.Warn("Waitlist metrics not registered", "error", err)
		}
	}

	return &waitlistService{
		logger:     logger,
		repository: repository,
		notifier:   notifier,
		config:     config,
		signups:    signups,
	}
}

func (s *waitlistService) Join(ctx context.Context, req *JoinWaitlistRequest) (*JoinWaitlistResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Join received empty request")
		return nil, apperrors.NewInvalidRequestError(validation.ErrMissingField.Error(), validation.ErrMissingField)
	}

	if err := validation.ValidateContact(req.contactFields()); err != nil {
		logger.Warn("Waitlist submission rejected", "reason", err.Error())
		s.signups.WithLabelValues(models.WaitlistSourceSelfSubmitted, "invalid").Inc()
		return nil, apperrors.NewInvalidRequestError(err.Error(), err)
	}

	entry := ToWaitlistEntryModel(req, models.WaitlistSourceSelfSubmitted)

	saved, err := s.repository.CreateEntry(ctx, entry)
	switch {
	case err == nil:
		entry = saved
		s.signups.WithLabelValues(models.WaitlistSourceSelfSubmitted, "created").Inc()
		logger.Info("Waitlist entry created", "entry_id", entry.ID)
	case errors.Is(err, ErrDuplicateEmail):
		logger.Info("Duplicate waitlist submission")
		s.signups.WithLabelValues(models.WaitlistSourceSelfSubmitted, "duplicate").Inc()
		return nil, err
	case apperrors.IsType(err, apperrors.ErrorTypeServiceUnavailable):
		logger.Error("Waitlist store unavailable", "error", err)
		s.signups.WithLabelValues(models.WaitlistSourceSelfSubmitted, "unavailable").Inc()
		return nil, err
	default:
		// Registrants never see internal persistence failures; the details
		// still reach the admin alert below.
		logger.Error("Failed to persist waitlist entry; responding with success", "error", err)
		s.signups.WithLabelValues(models.WaitlistSourceSelfSubmitted, "unsaved").Inc()
		entry.CreatedAt = time.Now()
	}

	s.notifier.NotifySignup(ctx, entry, s.config.CommunityLink)

	return &JoinWaitlistResponse{WhatsappLink: s.config.CommunityLink}, nil
}

func (s *waitlistService) AddMember(ctx context.Context, req *JoinWaitlistRequest) (*WaitlistMemberResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("AddMember received empty request")
		return nil, apperrors.NewInvalidRequestError(validation.ErrMissingField.Error(), validation.ErrMissingField)
	}

	if err := validation.ValidateContact(req.contactFields()); err != nil {
		logger.Warn("Admin waitlist entry rejected", "reason", err.Error())
		return nil, apperrors.NewInvalidRequestError(err.Error(), err)
	}

	entry, err := s.repository.CreateEntry(ctx, ToWaitlistEntryModel(req, models.WaitlistSourceAdminAdded))
	if err != nil {
		logger.Error("Failed to add waitlist member", "error", err)
		return nil, err
	}

	s.signups.WithLabelValues(models.WaitlistSourceAdminAdded, "created").Inc()
	logger.Info("Waitlist member added by admin", "entry_id", entry.ID)

	response := ToWaitlistMemberResponse(entry)
	return &response, nil
}

func (s *waitlistService) ListMembers(ctx context.Context) (*ListMembersResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	entries, err := s.repository.ListEntries(ctx)
	if err != nil {
		logger.Error("Failed to list waitlist members", "error", err)
		return nil, err
	}

	members := make([]WaitlistMemberResponse, 0, len(entries))
	for _, entry := range entries {
		members = append(members, ToWaitlistMemberResponse(entry))
	}

	return &ListMembersResponse{Members: members, Count: len(members)}, nil
}

func (s *waitlistService) DeleteMember(ctx context.Context, id uint) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if id == 0 {
		logger.Error("DeleteMember received invalid ID")
		return apperrors.NewInvalidRequestError("Invalid ID parameter", nil)
	}

	if err := s.repository.DeleteEntry(ctx, id); err != nil {
		logger.Error("Failed to delete waitlist member", "id", id, "error", err)
		return err
	}

	logger.Info("Waitlist member deleted", "id", id)
	return nil
}
