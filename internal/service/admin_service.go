package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/notshop-backend/internal/logger"
	"github.com/ignatzorin/notshop-backend/internal/models"
	"github.com/ignatzorin/notshop-backend/internal/pkg/apperror"
	"github.com/ignatzorin/notshop-backend/internal/repository"
	"github.com/ignatzorin/notshop-backend/internal/session"
	"github.com/ignatzorin/notshop-backend/internal/validation"
)

type AdminProfileRepository interface {
	ListWithRoles(ctx context.Context, limit, offset int) ([]models.AdminUserView, error)
	SetRole(ctx context.Context, userID uuid.UUID, role string) error
	ToggleVerified(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

type IPBanRepository interface {
	IPBanLookup
	List(ctx context.Context) ([]models.IPBan, error)
	Create(ctx context.Context, ban *models.IPBan) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	List(ctx context.Context, limit int) ([]models.Announcement, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BanInput параметры новой блокировки.
type BanInput struct {
	IPAddress string
	Reason    *string
	ExpiresAt *time.Time
}

// AdminService операции админ-панели. Права проверяются по сессии из контекста.
type AdminService struct {
	profiles      AdminProfileRepository
	ledger        *LedgerService
	bans          IPBanRepository
	announcements AnnouncementRepository
	orders        *OrderService
	events        ProfileEvents
	now           func() time.Time
}

func NewAdminService(
	profiles AdminProfileRepository,
	ledger *LedgerService,
	bans IPBanRepository,
	announcements AnnouncementRepository,
	orders *OrderService,
	events ProfileEvents,
) *AdminService {
	return &AdminService{
		profiles:      profiles,
		ledger:        ledger,
		bans:          bans,
		announcements: announcements,
		orders:        orders,
		events:        eventsOrNoop(events),
		now:           time.Now,
	}
}

func requireAdmin(ctx context.Context) (session.Session, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return session.Session{}, apperror.ErrUnauthorized
	}
	if !sess.IsAdmin() {
		return session.Session{}, apperror.ErrForbidden
	}
	return sess, nil
}

// ListUsers возвращает пользователей с ролями.
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]models.AdminUserView, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.profiles.ListWithRoles(ctx, limit, offset)
}

// SetRole назначает роль пользователю.
func (s *AdminService) SetRole(ctx context.Context, userID uuid.UUID, role string) error {
	sess, err := requireAdmin(ctx)
	if err != nil {
		return err
	}
	if _, ok := models.ValidRoles[role]; !ok {
		return apperror.Validation("неизвестная роль")
	}
	if sess.UserID == userID && role != models.RoleAdmin {
		return apperror.New(apperror.ErrCodeConflict, "нельзя снять с себя роль администратора")
	}
	if err := s.profiles.SetRole(ctx, userID, role); err != nil {
		return err
	}

	logger.Component("admin").WithFields(logrus.Fields{
		"admin_id": sess.UserID,
		"user_id":  userID,
		"role":     role,
	}).Info("admin: роль изменена")
	return nil
}

// AdjustBalance зачисляет или списывает средства без проверки нижней границы.
func (s *AdminService) AdjustBalance(ctx context.Context, userID uuid.UUID, amount float64, idempotencyKey string) (*ApplyResult, error) {
	sess, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	actor := sess.UserID
	return s.ledger.Apply(ctx, ApplyInput{
		UserID:         userID,
		Amount:         amount,
		Reason:         models.LedgerReasonAdminAdjustment,
		ActorID:        &actor,
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
	})
}

// LedgerHistory возвращает журнал баланса пользователя.
func (s *AdminService) LedgerHistory(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.LedgerEntry, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.ledger.History(ctx, userID, limit, offset)
}

// ToggleVerified переключает отметку верификации.
func (s *AdminService) ToggleVerified(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	profile, err := s.profiles.ToggleVerified(ctx, userID)
	if err != nil {
		return nil, mapProfileError(err)
	}
	s.events.ProfileUpdated(ctx, profile)
	return profile, nil
}

// ListBans возвращает блокировки, новые первыми.
func (s *AdminService) ListBans(ctx context.Context) ([]models.IPBan, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.bans.List(ctx)
}

// BanIP блокирует адрес.
func (s *AdminService) BanIP(ctx context.Context, in BanInput) (*models.IPBan, error) {
	sess, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}

	ip := strings.TrimSpace(in.IPAddress)
	if err := validation.ValidateIPAddress(ip); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	reason := trimOptional(in.Reason)
	if err := validation.ValidateOptionalText("причина", reason, validation.MaxBanReasonLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(s.now()) {
		return nil, apperror.Validation("срок блокировки должен быть в будущем")
	}

	admin := sess.UserID
	ban := &models.IPBan{
		IPAddress: ip,
		Reason:    reason,
		ExpiresAt: in.ExpiresAt,
		BannedBy:  &admin,
	}
	if err := s.bans.Create(ctx, ban); err != nil {
		return nil, err
	}

	logger.Component("admin").WithFields(logrus.Fields{
		"admin_id": admin,
		"ip":       ip,
	}).Info("admin: адрес заблокирован")
	return ban, nil
}

// UnbanIP снимает блокировку.
func (s *AdminService) UnbanIP(ctx context.Context, id uuid.UUID) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.bans.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrIPBanNotFound) {
			return apperror.ErrIPBanNotFound
		}
		return err
	}
	return nil
}

// CreateAnnouncement публикует объявление администрации.
func (s *AdminService) CreateAnnouncement(ctx context.Context, title, body string) (*models.Announcement, error) {
	sess, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if err := validation.ValidateNonEmpty("заголовок", title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateNonEmpty("текст", body); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("заголовок", title, 0, validation.MaxAnnouncementTitle); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateLength("текст", body, 0, validation.MaxAnnouncementBodyLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	author := sess.UserID
	a := &models.Announcement{Title: title, Body: body, CreatedBy: &author}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAnnouncement удаляет объявление администрации.
func (s *AdminService) DeleteAnnouncement(ctx context.Context, id uuid.UUID) error {
	if _, err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.announcements.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrAnnouncementGone) {
			return apperror.ErrAnnouncementMissing
		}
		return err
	}
	return nil
}

// ListReports возвращает жалобы по заказам.
func (s *AdminService) ListReports(ctx context.Context, status string, limit, offset int) ([]models.Report, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.orders.ListReports(ctx, status, limit, offset)
}
