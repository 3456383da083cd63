package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushub/tutoring-api/internal/dto"
	"github.com/campushub/tutoring-api/internal/models"
	"github.com/campushub/tutoring-api/internal/repository"
)

var (
	// ErrStudySessionNotFound covers missing blocks and blocks owned by
	// another student.
	ErrStudySessionNotFound = errors.New("study session not found")
	// ErrStudySessionOverlap rejects a block that intersects an existing one.
	ErrStudySessionOverlap = errors.New("study session overlaps with an existing one")
	// ErrInvalidStudyWindow rejects inverted windows and starts in the past.
	ErrInvalidStudyWindow = errors.New("study session window is invalid")
)

// Study plan generation walks backwards from the assignment due date in
// fixed-length blocks, only scheduling blocks that start within waking
// study hours.
const (
	studyBlockDuration = time.Hour
	studyDayStartHour  = 9
	studyDayEndHour    = 20
)

// StudySessionService manages a student's personal study planner:
// manually scheduled blocks plus auto-generated plans for assignments.
type StudySessionService interface {
	List(ctx context.Context, userID uint) ([]dto.StudySessionResponse, error)
	Create(ctx context.Context, userID uint, payload dto.StudySessionCreateRequest) (dto.StudySessionResponse, error)
	Update(ctx context.Context, id, userID uint, payload dto.StudySessionUpdateRequest) (dto.StudySessionResponse, error)
	SetStatus(ctx context.Context, id, userID uint, payload dto.StudySessionStatusRequest) (dto.StudySessionResponse, error)
	Delete(ctx context.Context, id, userID uint) error
	GeneratePlan(ctx context.Context, userID uint, payload dto.StudyPlanRequest) ([]dto.StudySessionResponse, error)
}

type studySessionService struct {
	sessions    repository.StudySessionRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewStudySessionService constructs the study planner service.
func NewStudySessionService(sessions repository.StudySessionRepository, assignments repository.AssignmentRepository, validate *validator.Validate, logger zerolog.Logger) StudySessionService {
	return &studySessionService{
		sessions:    sessions,
		assignments: assignments,
		validator:   validate,
		logger:      logger.With().Str("component", "study_session_service").Logger(),
		now:         time.Now,
	}
}

func (s *studySessionService) List(ctx context.Context, userID uint) ([]dto.StudySessionResponse, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewStudySessionResponseSlice(sessions), nil
}

func (s *studySessionService) Create(ctx context.Context, userID uint, payload dto.StudySessionCreateRequest) (dto.StudySessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudySessionResponse{}, err
	}

	start, end, err := s.parseWindow(payload.StartTime, payload.EndTime)
	if err != nil {
		return dto.StudySessionResponse{}, err
	}

	if err := s.ensureFree(ctx, userID, start, end, 0); err != nil {
		return dto.StudySessionResponse{}, err
	}

	session := models.StudySession{
		UserID:       userID,
		AssignmentID: payload.AssignmentID,
		Title:        payload.Title,
		StartTime:    start,
		EndTime:      end,
		Status:       models.StudySessionStatusPlanned,
		Notes:        payload.Notes,
	}
	if err := s.sessions.Create(ctx, &session); err != nil {
		return dto.StudySessionResponse{}, err
	}

	s.logger.Info().Uint("user_id", userID).Uint("session_id", session.ID).Msg("study session scheduled")

	return dto.NewStudySessionResponse(session), nil
}

func (s *studySessionService) Update(ctx context.Context, id, userID uint, payload dto.StudySessionUpdateRequest) (dto.StudySessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudySessionResponse{}, err
	}

	session, err := s.sessions.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudySessionResponse{}, ErrStudySessionNotFound
		}
		return dto.StudySessionResponse{}, err
	}

	start, end, err := s.parseWindow(payload.StartTime, payload.EndTime)
	if err != nil {
		return dto.StudySessionResponse{}, err
	}

	// The session being edited must not conflict with itself.
	if err := s.ensureFree(ctx, userID, start, end, session.ID); err != nil {
		return dto.StudySessionResponse{}, err
	}

	session.Title = payload.Title
	session.AssignmentID = payload.AssignmentID
	session.StartTime = start
	session.EndTime = end
	session.Status = payload.Status
	session.Notes = payload.Notes

	if err := s.sessions.Save(ctx, &session); err != nil {
		return dto.StudySessionResponse{}, err
	}

	return dto.NewStudySessionResponse(session), nil
}

func (s *studySessionService) SetStatus(ctx context.Context, id, userID uint, payload dto.StudySessionStatusRequest) (dto.StudySessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudySessionResponse{}, err
	}

	session, err := s.sessions.GetForUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudySessionResponse{}, ErrStudySessionNotFound
		}
		return dto.StudySessionResponse{}, err
	}

	session.Status = payload.Status
	if err := s.sessions.Save(ctx, &session); err != nil {
		return dto.StudySessionResponse{}, err
	}

	return dto.NewStudySessionResponse(session), nil
}

func (s *studySessionService) Delete(ctx context.Context, id, userID uint) error {
	if err := s.sessions.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudySessionNotFound
		}
		return err
	}

	return nil
}

// GeneratePlan schedules hourly study blocks for one of the student's
// assignments, walking backwards from the due date and skipping hours
// that are already taken or fall outside the study day. It schedules as
// many of the requested hours as fit between now and the due date.
func (s *studySessionService) GeneratePlan(ctx context.Context, userID uint, payload dto.StudyPlanRequest) ([]dto.StudySessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	assignment, err := s.assignments.GetForStudent(ctx, payload.AssignmentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	now := s.now()
	if assignment.IsPastDue(now) {
		return nil, ErrAssignmentPastDue
	}

	var blocks []models.StudySession
	cursor := assignment.DueDate
	remaining := payload.TotalHours

	for remaining > 0 {
		cursor = cursor.Add(-studyBlockDuration)
		if cursor.Before(now) {
			break
		}

		hour := cursor.Hour()
		if hour < studyDayStartHour || hour > studyDayEndHour {
			continue
		}

		end := cursor.Add(studyBlockDuration)
		count, err := s.sessions.CountOverlapping(ctx, userID, cursor, end, 0)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			continue
		}

		blocks = append(blocks, models.StudySession{
			UserID:       userID,
			AssignmentID: &assignment.ID,
			Title:        fmt.Sprintf("%s Study Session", assignment.Title),
			StartTime:    cursor,
			EndTime:      end,
			Status:       models.StudySessionStatusPlanned,
			Notes:        fmt.Sprintf("Auto-generated for %s", assignment.Title),
		})
		remaining--
	}

	if err := s.sessions.CreateBatch(ctx, blocks); err != nil {
		return nil, err
	}

	if remaining > 0 {
		s.logger.Warn().
			Uint("user_id", userID).
			Uint("assignment_id", assignment.ID).
			Int("unscheduled_hours", remaining).
			Msg("study plan generated partially, not enough free hours before the due date")
	}

	return dto.NewStudySessionResponseSlice(blocks), nil
}

func (s *studySessionService) parseWindow(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end time: %w", err)
	}

	if !start.Before(end) || start.Before(s.now()) {
		return time.Time{}, time.Time{}, ErrInvalidStudyWindow
	}

	return start, end, nil
}

func (s *studySessionService) ensureFree(ctx context.Context, userID uint, start, end time.Time, excludeID uint) error {
	count, err := s.sessions.CountOverlapping(ctx, userID, start, end, excludeID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrStudySessionOverlap
	}

	return nil
}
