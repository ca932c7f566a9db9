package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/terraincognita07/gymdesk/internal/db"
	"github.com/terraincognita07/gymdesk/internal/models"
	"github.com/terraincognita07/gymdesk/internal/storage"
	"go.uber.org/zap"
)

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	FindByID(ctx context.Context, memberID uint) (models.Member, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByNormalizedEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]models.Member, error)
	SearchByUsername(ctx context.Context, term string) ([]models.Member, error)
	ListDueOnOrBefore(ctx context.Context, asOf time.Time) ([]models.Member, error)
	FindNextDueOnOrAfter(ctx context.Context, asOf time.Time) (models.Member, bool, error)
	Delete(ctx context.Context, memberID uint) error
	UpdateInTransaction(ctx context.Context, memberID uint, mutate func(member *models.Member) error) (models.Member, error)
}

type PhotoStore interface {
	Allowed(filename string) bool
	// Save reports whether the stored name already belonged to another file.
	Save(filename string, content io.Reader) (stored string, replaced bool, err error)
	Remove(stored string) error
}

type MemberService struct {
	members  MemberRepository
	photos   PhotoStore
	location *time.Location
	log      *zap.Logger
	now      func() time.Time
}

func NewMemberService(members MemberRepository, photos PhotoStore, location *time.Location, log *zap.Logger) *MemberService {
	if location == nil {
		location = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MemberService{
		members:  members,
		photos:   photos,
		location: location,
		log:      log.Named("members"),
		now:      time.Now,
	}
}

func (service *MemberService) Today() time.Time {
	return CalendarDate(service.now(), service.location)
}

func (service *MemberService) CreateMember(ctx context.Context, input CreateMemberInput) (models.Member, error) {
	input = normalizeCreateMemberInput(input)
	if err := validateCreateMemberInput(input); err != nil {
		return models.Member{}, err
	}
	if input.Photo.present() && (service.photos == nil || !service.photos.Allowed(input.Photo.Filename)) {
		return models.Member{}, newValidationError("photo", "unsupported file type")
	}

	if err := service.ensureUnique(ctx, input.Username, input.Email); err != nil {
		return models.Member{}, err
	}

	admission := CalendarDate(input.AdmissionDate, time.UTC)
	dueDate := AddMembershipPeriod(admission)
	if input.DueDate != nil {
		dueDate = CalendarDate(*input.DueDate, time.UTC)
	}

	member := models.Member{
		Username:      input.Username,
		Email:         input.Email,
		PhoneNumber:   input.Phone,
		AdmissionDate: admission,
		AmountPaid:    input.AmountPaid,
		DueDate:       dueDate,
		LastPaid:      service.Today(),
	}

	photoCreated := false
	if input.Photo.present() {
		stored, replaced, err := service.photos.Save(input.Photo.Filename, input.Photo.Content)
		if errors.Is(err, storage.ErrInvalidFilename) {
			return models.Member{}, newValidationError("photo", "unsupported file type")
		}
		if err != nil {
			return models.Member{}, fmt.Errorf("save member photo: %w", err)
		}
		member.PhotoPath = &stored
		photoCreated = !replaced
	}

	if err := service.members.Create(ctx, &member); err != nil {
		if photoCreated {
			service.discardPhoto(member.PhotoPath)
		}
		if errors.Is(err, db.ErrUniqueViolation) {
			return models.Member{}, &DuplicateMemberError{Field: duplicateFieldFromError(err)}
		}
		return models.Member{}, fmt.Errorf("create member: %w", err)
	}

	service.log.Info("member created",
		zap.Uint("member_id", member.ID),
		zap.Time("due_date", member.DueDate),
		zap.Bool("has_photo", member.HasPhoto()),
	)
	return member, nil
}

func (service *MemberService) ensureUnique(ctx context.Context, username string, email string) error {
	usernameTaken, err := service.members.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if usernameTaken {
		return &DuplicateMemberError{Field: "username"}
	}

	emailTaken, err := service.members.ExistsByNormalizedEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if emailTaken {
		return &DuplicateMemberError{Field: "email"}
	}
	return nil
}

func (service *MemberService) discardPhoto(photoPath *string) {
	if photoPath == nil || service.photos == nil {
		return
	}
	if err := service.photos.Remove(*photoPath); err != nil {
		service.log.Warn("remove orphaned photo failed", zap.String("photo", *photoPath), zap.Error(err))
	}
}

func (service *MemberService) ListMembers(ctx context.Context, search string) ([]models.Member, error) {
	term := strings.TrimSpace(search)
	if term == "" {
		return service.members.List(ctx)
	}
	return service.members.SearchByUsername(ctx, term)
}

func (service *MemberService) GetMember(ctx context.Context, memberID uint) (models.Member, error) {
	member, err := service.members.FindByID(ctx, memberID)
	if err != nil {
		return models.Member{}, mapNotFound(err)
	}
	return member, nil
}

func (service *MemberService) CountMembers(ctx context.Context) (int64, error) {
	return service.members.Count(ctx)
}

func (service *MemberService) RecordPayment(ctx context.Context, memberID uint, amount float64) (models.Member, error) {
	today := service.Today()
	member, err := service.members.UpdateInTransaction(ctx, memberID, func(member *models.Member) error {
		return ApplyPayment(member, amount, today)
	})
	if err != nil {
		return models.Member{}, mapNotFound(err)
	}

	service.log.Info("payment recorded",
		zap.Uint("member_id", member.ID),
		zap.Float64("amount", member.AmountPaid),
		zap.Time("due_date", member.DueDate),
	)
	return member, nil
}

func (service *MemberService) DeleteMember(ctx context.Context, memberID uint) error {
	if err := service.members.Delete(ctx, memberID); err != nil {
		return mapNotFound(err)
	}
	service.log.Info("member deleted", zap.Uint("member_id", memberID))
	return nil
}

func (service *MemberService) ListDueOrOverdue(ctx context.Context, asOf time.Time) ([]models.Member, error) {
	return service.members.ListDueOnOrBefore(ctx, CalendarDate(asOf, time.UTC))
}

// NearestUpcomingDueDate returns nil when no member is due on or after asOf.
func (service *MemberService) NearestUpcomingDueDate(ctx context.Context, asOf time.Time) (*time.Time, error) {
	member, found, err := service.members.FindNextDueOnOrAfter(ctx, CalendarDate(asOf, time.UTC))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	dueDate := member.DueDate
	return &dueDate, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return ErrMemberNotFound
	}
	return err
}

func duplicateFieldFromError(err error) string {
	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "email"):
		return "email"
	case strings.Contains(message, "username"):
		return "username"
	default:
		return ""
	}
}
