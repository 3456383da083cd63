package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/observability"
	"github.com/campushub/tutoring-api/internal/repository"
)

var (
	// ErrRequestNotFound covers both missing requests and requests owned
	// by someone else. Ownership mismatches are indistinguishable from
	// absence on purpose.
	ErrRequestNotFound = errors.New("tutoring request not found")
	// ErrSessionNotFound is the session-level equivalent.
	ErrSessionNotFound = errors.New("tutoring session not found")
	// ErrInvalidSessionWindow indicates the tutor proposed a degenerate
	// session window.
	ErrInvalidSessionWindow = errors.New("session window must have start before end")
	// ErrRequestNotActionable is returned when the request's current
	// state does not allow the attempted transition.
	ErrRequestNotActionable = errors.New("request state does not allow this action")
	// ErrSlotUnavailable is returned when the chosen slot was claimed by
	// a concurrent request. Exactly one of the racing requests wins.
	ErrSlotUnavailable = errors.New("availability slot is no longer open")
)

// BookingService drives the request/session matching workflow between
// students and tutors. State transitions, slot claims and audit entries
// commit atomically in the repository; notifications go out after commit
// and are best-effort.
type BookingService interface {
	CreateRequest(ctx context.Context, studentID, tutorID uint, payload dto.TutoringRequestCreate) (dto.TutoringRequestResponse, error)
	GetOwn(ctx context.Context, id, studentID uint) (dto.TutoringRequestResponse, error)
	ListForStudent(ctx context.Context, studentID uint) ([]dto.TutoringRequestResponse, error)
	ListForTutor(ctx context.Context, tutorUserID uint, status string) ([]dto.TutoringRequestResponse, error)

	Accept(ctx context.Context, id, tutorUserID uint, payload dto.AcceptRequest) (dto.TutoringRequestResponse, error)
	Decline(ctx context.Context, id, tutorUserID uint) (dto.TutoringRequestResponse, error)
	Cancel(ctx context.Context, id, studentID uint) (dto.TutoringRequestResponse, error)
	Confirm(ctx context.Context, id, studentID uint) (dto.TutoringRequestResponse, error)

	ListSessions(ctx context.Context, tutorUserID uint, upcoming bool) ([]dto.SessionResponse, error)
	RecordFeedback(ctx context.Context, sessionID, studentID uint, payload dto.FeedbackRequest) (dto.SessionResponse, error)
	RecordSummary(ctx context.Context, sessionID, tutorUserID uint, payload dto.SummaryRequest) (dto.SessionResponse, error)
}

type bookingService struct {
	bookings        repository.BookingRepository
	sessions        repository.SessionRepository
	tutors          repository.TutorRepository
	notifications   NotificationService
	validator       *validator.Validate
	logger          zerolog.Logger
	tracer          trace.Tracer
	requireApproval bool
	now             func() time.Time
}

// NewBookingService constructs the booking workflow service.
func NewBookingService(bookings repository.BookingRepository, sessions repository.SessionRepository, tutors repository.TutorRepository, notifications NotificationService, validate *validator.Validate, logger zerolog.Logger, requireApproval bool) BookingService {
	return &bookingService{
		bookings:        bookings,
		sessions:        sessions,
		tutors:          tutors,
		notifications:   notifications,
		validator:       validate,
		logger:          logger.With().Str("component", "booking_service").Logger(),
		tracer:          otel.Tracer("github.com/campushub/tutoring-api/internal/service/booking"),
		requireApproval: requireApproval,
		now:             time.Now,
	}
}

func (s *bookingService) CreateRequest(ctx context.Context, studentID, tutorID uint, payload dto.TutoringRequestCreate) (dto.TutoringRequestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TutoringRequestResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "booking.create_request", trace.WithAttributes(
		attribute.Int64("booking.tutor_id", int64(tutorID)),
	))
	defer span.End()

	profile, err := s.tutors.GetByID(spanCtx, tutorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TutoringRequestResponse{}, ErrTutorNotFound
		}
		return dto.TutoringRequestResponse{}, err
	}
	// Unapproved tutors are hidden from students, so requests against
	// them look like a missing tutor.
	if s.requireApproval && !profile.IsApproved {
		return dto.TutoringRequestResponse{}, ErrTutorNotFound
	}

	request := models.TutoringRequest{
		StudentID: studentID,
		TutorID:   tutorID,
		SlotID:    payload.SlotID,
		Topic:     payload.Topic,
		Details:   payload.Details,
	}

	if err := s.bookings.CreateRequest(spanCtx, &request); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotAlreadyBooked):
			observability.SlotConflicts().Inc()
			return dto.TutoringRequestResponse{}, ErrSlotUnavailable
		case errors.Is(err, gorm.ErrRecordNotFound):
			return dto.TutoringRequestResponse{}, ErrSlotNotFound
		default:
			span.RecordError(err)
			return dto.TutoringRequestResponse{}, err
		}
	}

	observability.BookingEvents().WithLabelValues("created").Inc()
	s.logger.Info().Uint("request_id", request.ID).Uint("tutor_id", tutorID).Msg("tutoring request created")

	s.notify(spanCtx, profile.UserID, "request.created",
		fmt.Sprintf("New tutoring request: %s", request.Topic),
		fmt.Sprintf("/requests/%d", request.ID))

	return dto.NewTutoringRequestResponse(request), nil
}

func (s *bookingService) GetOwn(ctx context.Context, id, studentID uint) (dto.TutoringRequestResponse, error) {
	request, err := s.bookings.GetForStudent(ctx, id, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TutoringRequestResponse{}, ErrRequestNotFound
		}
		return dto.TutoringRequestResponse{}, err
	}

	return dto.NewTutoringRequestResponse(request), nil
}

func (s *bookingService) ListForStudent(ctx context.Context, studentID uint) ([]dto.TutoringRequestResponse, error) {
	requests, err := s.bookings.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewTutoringRequestResponseSlice(requests), nil
}

func (s *bookingService) ListForTutor(ctx context.Context, tutorUserID uint, status string) ([]dto.TutoringRequestResponse, error) {
	profile, err := s.tutors.GetByUserID(ctx, tutorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}

	requests, err := s.bookings.ListByTutor(ctx, profile.ID, status)
	if err != nil {
		return nil, err
	}

	return dto.NewTutoringRequestResponseSlice(requests), nil
}

func (s *bookingService) Accept(ctx context.Context, id, tutorUserID uint, payload dto.AcceptRequest) (dto.TutoringRequestResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TutoringRequestResponse{}, err
	}

	start, err := time.Parse(time.RFC3339, payload.StartTime)
	if err != nil {
		return dto.TutoringRequestResponse{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, payload.EndTime)
	if err != nil {
		return dto.TutoringRequestResponse{}, fmt.Errorf("invalid end time: %w", err)
	}
	if !start.Before(end) {
		return dto.TutoringRequestResponse{}, ErrInvalidSessionWindow
	}

	spanCtx, span := s.tracer.Start(ctx, "booking.accept", trace.WithAttributes(
		attribute.Int64("booking.request_id", int64(id)),
	))
	defer span.End()

	profile, err := s.tutors.GetByUserID(spanCtx, tutorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TutoringRequestResponse{}, ErrTutorNotFound
		}
		return dto.TutoringRequestResponse{}, err
	}

	audit := s.auditEntry(tutorUserID, models.RoleTutor, AuditActionRequestAccepted, id, datatypes.JSONMap{
		"start_time": start.Format(time.RFC3339),
		"end_time":   end.Format(time.RFC3339),
	})

	request, session, err := s.bookings.Accept(spanCtx, id, profile.ID, start, end, audit)
	if err != nil {
		return dto.TutoringRequestResponse{}, s.mapTransitionErr(err, span)
	}
	request.Session = &session

	observability.BookingEvents().WithLabelValues("accepted").Inc()
	s.logger.Info().Uint("request_id", id).Uint("session_id", session.ID).Msg("tutoring request accepted")

	s.notify(spanCtx, request.StudentID, "request.accepted",
		fmt.Sprintf("Your tutoring request %q was accepted", request.Topic),
		fmt.Sprintf("/requests/%d", request.ID))

	return dto.NewTutoringRequestResponse(request), nil
}

func (s *bookingService) Decline(ctx context.Context, id, tutorUserID uint) (dto.TutoringRequestResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "booking.decline", trace.WithAttributes(
		attribute.Int64("booking.request_id", int64(id)),
	))
	defer span.End()

	profile, err := s.tutors.GetByUserID(spanCtx, tutorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TutoringRequestResponse{}, ErrTutorNotFound
		}
		return dto.TutoringRequestResponse{}, err
	}

	audit := s.auditEntry(tutorUserID, models.RoleTutor, AuditActionRequestDeclined, id, nil)

	request, err := s.bookings.Decline(spanCtx, id, profile.ID, audit)
	if err != nil {
		return dto.TutoringRequestResponse{}, s.mapTransitionErr(err, span)
	}

	observability.BookingEvents().WithLabelValues("declined").Inc()

	s.notify(spanCtx, request.StudentID, "request.declined",
		fmt.Sprintf("Your tutoring request %q was declined", request.Topic),
		fmt.Sprintf("/requests/%d", request.ID))

	return dto.NewTutoringRequestResponse(request), nil
}

func (s *bookingService) Cancel(ctx context.Context, id, studentID uint) (dto.TutoringRequestResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "booking.cancel", trace.WithAttributes(
		attribute.Int64("booking.request_id", int64(id)),
	))
	defer span.End()

	audit := s.auditEntry(studentID, models.RoleStudent, AuditActionRequestCancelled, id, nil)

	request, session, err := s.bookings.Cancel(spanCtx, id, studentID, audit)
	if err != nil {
		return dto.TutoringRequestResponse{}, s.mapTransitionErr(err, span)
	}
	request.Session = session

	observability.BookingEvents().WithLabelValues("cancelled").Inc()
	s.logger.Info().Uint("request_id", id).Msg("tutoring request cancelled")

	if profile, err := s.tutors.GetByID(spanCtx, request.TutorID); err == nil {
		s.notify(spanCtx, profile.UserID, "request.cancelled",
			fmt.Sprintf("Tutoring request %q was cancelled by the student", request.Topic),
			fmt.Sprintf("/requests/%d", request.ID))
	}

	return dto.NewTutoringRequestResponse(request), nil
}

// Confirm re-validates the session window after acceptance. Acceptance
// takes the tutor's proposed times verbatim, so a window that already
// passed is caught here before the student commits to it.
func (s *bookingService) Confirm(ctx context.Context, id, studentID uint) (dto.TutoringRequestResponse, error) {
	request, err := s.bookings.GetForStudent(ctx, id, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TutoringRequestResponse{}, ErrRequestNotFound
		}
		return dto.TutoringRequestResponse{}, err
	}

	if request.Status != models.RequestStatusAccepted || request.Session == nil {
		return dto.TutoringRequestResponse{}, ErrRequestNotActionable
	}

	session := *request.Session
	if !session.StartTime.Before(session.EndTime) || !session.StartTime.After(s.now()) {
		return dto.TutoringRequestResponse{}, ErrInvalidSessionWindow
	}

	if session.Status != models.SessionStatusScheduled {
		session.Status = models.SessionStatusScheduled
		if err := s.sessions.UpdateStatus(ctx, session.ID, models.SessionStatusScheduled); err != nil {
			return dto.TutoringRequestResponse{}, err
		}
		request.Session = &session
	}

	return dto.NewTutoringRequestResponse(request), nil
}

func (s *bookingService) ListSessions(ctx context.Context, tutorUserID uint, upcoming bool) ([]dto.SessionResponse, error) {
	profile, err := s.tutors.GetByUserID(ctx, tutorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTutorNotFound
		}
		return nil, err
	}

	sessions, err := s.sessions.ListByTutor(ctx, profile.ID, upcoming, s.now())
	if err != nil {
		return nil, err
	}

	return dto.NewSessionResponseSlice(sessions), nil
}

func (s *bookingService) RecordFeedback(ctx context.Context, sessionID, studentID uint, payload dto.FeedbackRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	session, request, err := s.sessions.GetWithRequest(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionNotFound
		}
		return dto.SessionResponse{}, err
	}
	if request.StudentID != studentID {
		return dto.SessionResponse{}, ErrSessionNotFound
	}

	// Overwrites are allowed; feedback is not write-once.
	session.StudentFeedback = payload.Feedback
	if err := s.sessions.Save(ctx, &session); err != nil {
		return dto.SessionResponse{}, err
	}

	return dto.NewSessionResponse(session), nil
}

func (s *bookingService) RecordSummary(ctx context.Context, sessionID, tutorUserID uint, payload dto.SummaryRequest) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	profile, err := s.tutors.GetByUserID(ctx, tutorUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrTutorNotFound
		}
		return dto.SessionResponse{}, err
	}

	session, request, err := s.sessions.GetWithRequest(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SessionResponse{}, ErrSessionNotFound
		}
		return dto.SessionResponse{}, err
	}
	if request.TutorID != profile.ID {
		return dto.SessionResponse{}, ErrSessionNotFound
	}
	if session.Status == models.SessionStatusCancelled {
		return dto.SessionResponse{}, ErrRequestNotActionable
	}

	session.TutorNotes = payload.Notes
	session.Status = payload.Status
	if err := s.sessions.Save(ctx, &session); err != nil {
		return dto.SessionResponse{}, err
	}

	if session.Status == models.SessionStatusCompleted {
		observability.BookingEvents().WithLabelValues("completed").Inc()
		s.notify(ctx, request.StudentID, "session.completed",
			"Your tutoring session was marked completed. You can leave feedback now.",
			fmt.Sprintf("/sessions/%d", session.ID))
	}

	return dto.NewSessionResponse(session), nil
}

// notify is best-effort: a failed outbox write never rolls back a
// committed workflow transition.
func (s *bookingService) notify(ctx context.Context, userID uint, kind, message, link string) {
	if s.notifications == nil {
		return
	}

	_, err := s.notifications.Publish(ctx, dto.NotificationCreateRequest{
		UserID:  userID,
		Type:    kind,
		Message: message,
		Link:    link,
	})
	if err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Str("type", kind).Msg("failed to publish workflow notification")
	}
}

func (s *bookingService) auditEntry(actorID uint, role, action string, requestID uint, metadata datatypes.JSONMap) models.AuditLog {
	id := requestID
	return models.AuditLog{
		ActorID:    actorID,
		ActorRole:  role,
		Action:     action,
		EntityType: "tutoring_request",
		EntityID:   &id,
		Metadata:   metadata,
	}
}

func (s *bookingService) mapTransitionErr(err error, span trace.Span) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRequestNotFound
	case errors.Is(err, repository.ErrInvalidTransition):
		return ErrRequestNotActionable
	default:
		span.RecordError(err)
		return err
	}
}
