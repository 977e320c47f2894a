package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/curriculum-api/internal/dto"
	"github.com/noah-isme/curriculum-api/internal/models"
	appErrors "github.com/noah-isme/curriculum-api/pkg/errors"
)

type subjectEditor interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Subject, error)
	Update(ctx context.Context, exec sqlx.ExtContext, subject *models.Subject) error
}

type assignmentEditor interface {
	assignmentStore
	Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error
}

type prerequisiteStore interface {
	Exists(ctx context.Context, exec sqlx.ExtContext, link models.Prerequisite) (bool, error)
	ExistsByCode(ctx context.Context, exec sqlx.ExtContext, subjectID int64, previousCode string, except models.Prerequisite) (bool, error)
	Create(ctx context.Context, exec sqlx.ExtContext, link models.Prerequisite) error
	Update(ctx context.Context, exec sqlx.ExtContext, from, to models.Prerequisite) error
	Delete(ctx context.Context, exec sqlx.ExtContext, link models.Prerequisite) error
}

// SubjectRepositories groups the stores used by SubjectService.
type SubjectRepositories struct {
	Subjects      subjectEditor
	Plans         planFinder
	Assignments   assignmentEditor
	Prerequisites prerequisiteStore
}

// SubjectService edits subjects one at a time: their fields, their placement in plans and
// their prerequisite links.
type SubjectService struct {
	uow       unitOfWork
	repos     SubjectRepositories
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs the service.
func NewSubjectService(uow unitOfWork, repos SubjectRepositories, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{uow: uow, repos: repos, validator: validate, logger: logger}
}

// UpdateSubject replaces the code, names, hours and visibility of a subject. A code already
// used in the same program is a conflict.
func (s *SubjectService) UpdateSubject(ctx context.Context, id int64, req dto.UpdateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	code := normalizeSubjectCode(req.SubjectCode)
	nameTH := strings.TrimSpace(req.NameSubjectThai)
	if code == "" || nameTH == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "subject_code and name_subject_thai are required")
	}
	hours := models.SubCredit{Credit: req.Credit, Lecture: req.LectureHours, Lab: req.LabHours, SelfStudy: req.SelfStudyHours}
	subCreditID, ok := models.LookupSubCredit(hours)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("no sub-credit profile for %s", hours))
	}

	var updated *models.Subject
	err := s.uow.WithinTransaction(ctx, func(exec sqlx.ExtContext) error {
		subject, err := s.repos.Subjects.FindByID(ctx, exec, id)
		if err != nil {
			return notFoundOr(err, "subject not found")
		}
		subject.SubjectCode = code
		subject.NameSubjectThai = nameTH
		subject.NameSubjectEng = optional(req.NameSubjectEng)
		subject.Credit = hours.Credit
		subject.SubCreditID = subCreditID
		subject.SubjectTypeID = models.DeriveSubjectType(hours.Lecture, hours.Lab)
		subject.IsVisible = *req.IsVisible
		if err := s.repos.Subjects.Update(ctx, exec, subject); err != nil {
			return notFoundOr(err, "subject not found")
		}
		updated = subject
		return nil
	})
	if err != nil {
		return nil, ClassifyStoreError(err, "failed to update subject")
	}

	s.logger.Info("subject updated", zap.Int64("subject_id", id), zap.String("subject_code", code))
	return updated, nil
}

// AssignSubject places a subject into a plan of its own program. A subject already placed
// in the plan is a conflict.
func (s *SubjectService) AssignSubject(ctx context.Context, req dto.AssignSubjectRequest) (*models.SubjectAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	assignment := &models.SubjectAssignment{
		SubjectID:    req.SubjectID,
		CoursePlanID: req.CoursePlanID,
		StudyYear:    req.StudyYear,
		StudyTerm:    req.StudyTerm,
		ChooseOne:    req.ChooseOne,
	}
	err := s.uow.WithinTransaction(ctx, func(exec sqlx.ExtContext) error {
		subject, err := s.repos.Subjects.FindByID(ctx, exec, req.SubjectID)
		if err != nil {
			return notFoundOr(err, "subject not found")
		}
		plan, err := s.repos.Plans.FindByID(ctx, exec, req.CoursePlanID)
		if err != nil {
			return notFoundOr(err, "course plan not found")
		}
		if !plan.IsVisible {
			return appErrors.Clone(appErrors.ErrNotFound, "course plan not found")
		}
		if subject.CourseID != plan.CourseID {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("subject %s belongs to program %d, plan %d to program %d", subject.SubjectCode, subject.CourseID, plan.ID, plan.CourseID))
		}
		placed, err := placeSubject(ctx, exec, s.repos.Assignments, assignment)
		if err != nil {
			return err
		}
		if !placed {
			return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("subject %s is already placed in plan %d", subject.SubjectCode, plan.ID))
		}
		return nil
	})
	if err != nil {
		return nil, ClassifyStoreError(err, "failed to assign subject")
	}

	s.logger.Info("subject assigned",
		zap.Int64("assignment_id", assignment.ID),
		zap.Int64("subject_id", assignment.SubjectID),
		zap.Int64("plan_id", assignment.CoursePlanID),
	)
	return assignment, nil
}

// RemoveAssignment deletes a placement.
func (s *SubjectService) RemoveAssignment(ctx context.Context, id int64) error {
	if err := s.repos.Assignments.Delete(ctx, nil, id); err != nil {
		return ClassifyStoreError(notFoundOr(err, "subject assignment not found"), "failed to remove subject assignment")
	}
	s.logger.Info("subject assignment removed", zap.Int64("assignment_id", id))
	return nil
}

// CreatePrerequisite links a subject to one that must be passed first. A subject may not
// require itself, nor require two subjects sharing a code.
func (s *SubjectService) CreatePrerequisite(ctx context.Context, req dto.PrerequisiteRequest) (*models.Prerequisite, error) {
	link, err := s.prerequisiteFrom(req)
	if err != nil {
		return nil, err
	}
	err = s.uow.WithinTransaction(ctx, func(exec sqlx.ExtContext) error {
		if err := s.checkPrerequisite(ctx, exec, link, models.Prerequisite{}); err != nil {
			return err
		}
		return s.repos.Prerequisites.Create(ctx, exec, link)
	})
	if err != nil {
		return nil, ClassifyStoreError(err, "failed to create prerequisite")
	}

	s.logger.Info("prerequisite created", zap.Int64("subject_id", link.SubjectID), zap.Int64("previous_subject_id", link.PreviousSubjectID))
	return &link, nil
}

// UpdatePrerequisite moves an existing link to a new pair of subjects.
func (s *SubjectService) UpdatePrerequisite(ctx context.Context, req dto.UpdatePrerequisiteRequest) (*models.Prerequisite, error) {
	from, err := s.prerequisiteFrom(req.Original)
	if err != nil {
		return nil, err
	}
	to, err := s.prerequisiteFrom(req.PrerequisiteRequest)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTransaction(ctx, func(exec sqlx.ExtContext) error {
		if err := s.checkPrerequisite(ctx, exec, to, from); err != nil {
			return err
		}
		if err := s.repos.Prerequisites.Update(ctx, exec, from, to); err != nil {
			return notFoundOr(err, "prerequisite link not found")
		}
		return nil
	})
	if err != nil {
		return nil, ClassifyStoreError(err, "failed to update prerequisite")
	}

	s.logger.Info("prerequisite updated",
		zap.Int64("subject_id", to.SubjectID),
		zap.Int64("previous_subject_id", to.PreviousSubjectID),
		zap.Int64("original_previous_subject_id", from.PreviousSubjectID),
	)
	return &to, nil
}

// DeletePrerequisite removes a link.
func (s *SubjectService) DeletePrerequisite(ctx context.Context, req dto.PrerequisiteRequest) error {
	link, err := s.prerequisiteFrom(req)
	if err != nil {
		return err
	}
	if err := s.repos.Prerequisites.Delete(ctx, nil, link); err != nil {
		return ClassifyStoreError(notFoundOr(err, "prerequisite link not found"), "failed to delete prerequisite")
	}
	s.logger.Info("prerequisite deleted", zap.Int64("subject_id", link.SubjectID), zap.Int64("previous_subject_id", link.PreviousSubjectID))
	return nil
}

func (s *SubjectService) prerequisiteFrom(req dto.PrerequisiteRequest) (models.Prerequisite, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Prerequisite{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "subject_id and previous_subject_id are required")
	}
	if req.SubjectID == req.PreviousSubjectID {
		return models.Prerequisite{}, appErrors.Clone(appErrors.ErrValidation, "a subject cannot be its own prerequisite")
	}
	return models.Prerequisite{SubjectID: req.SubjectID, PreviousSubjectID: req.PreviousSubjectID}, nil
}

// checkPrerequisite verifies both subjects exist and that link duplicates nothing but except.
func (s *SubjectService) checkPrerequisite(ctx context.Context, exec sqlx.ExtContext, link, except models.Prerequisite) error {
	if _, err := s.repos.Subjects.FindByID(ctx, exec, link.SubjectID); err != nil {
		return notFoundOr(err, fmt.Sprintf("subject %d not found", link.SubjectID))
	}
	previous, err := s.repos.Subjects.FindByID(ctx, exec, link.PreviousSubjectID)
	if err != nil {
		return notFoundOr(err, fmt.Sprintf("prerequisite subject %d not found", link.PreviousSubjectID))
	}
	if link == except {
		return nil
	}

	exists, err := s.repos.Prerequisites.Exists(ctx, exec, link)
	if err != nil {
		return err
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "prerequisite link already exists")
	}
	exists, err = s.repos.Prerequisites.ExistsByCode(ctx, exec, link.SubjectID, previous.SubjectCode, except)
	if err != nil {
		return err
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("subject %d already requires a subject coded %s", link.SubjectID, previous.SubjectCode))
	}
	return nil
}

// notFoundOr maps sql.ErrNoRows to a NOT_FOUND error with message and returns other
// errors unchanged.
func notFoundOr(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	return err
}
