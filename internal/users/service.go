package users

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/balcao/balcao/internal/rbac"
	rootshared "github.com/balcao/balcao/internal/shared"
)

// AuditRecorder persists audit trail entries.
type AuditRecorder interface {
	Record(ctx context.Context, log rootshared.AuditLog) error
}

// Service handles account administration.
type Service struct {
	repo   Repository
	audit  AuditRecorder
	logger *slog.Logger
	cost   int
}

// NewService builds a Service.
func NewService(repo Repository, audit AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, logger: logger, cost: bcrypt.DefaultCost}
}

func (s *Service) List(ctx context.Context, req ListRequest) ([]User, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateRequest, actor uuid.UUID) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.Create(ctx, User{
		Name:  strings.TrimSpace(req.Name),
		Email: normalizeEmail(req.Email),
		Role:  req.Role,
	}, string(hash))
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, "users.create", user.ID, map[string]any{"perfil": user.Role})
	return user, nil
}

// Update changes profile fields. Admins cannot demote or deactivate
// themselves.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest, actor uuid.UUID) (*User, error) {
	active := req.IsActive != nil && *req.IsActive
	if id == actor && (!active || req.Role != rbac.RoleAdmin) {
		return nil, rootshared.Validation("não é possível alterar o próprio perfil ou desativar a própria conta", map[string]string{"perfil": "inalterável para a própria conta"})
	}
	user, err := s.repo.Update(ctx, id, User{
		Name:     strings.TrimSpace(req.Name),
		Email:    normalizeEmail(req.Email),
		Role:     req.Role,
		IsActive: active,
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, actor, "users.update", user.ID, map[string]any{"perfil": user.Role, "ativo": user.IsActive})
	return user, nil
}

func (s *Service) SetPassword(ctx context.Context, id uuid.UUID, req PasswordRequest, actor uuid.UUID) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return err
	}
	if err := s.repo.SetPassword(ctx, id, string(hash)); err != nil {
		return err
	}
	s.record(ctx, actor, "users.password", id, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actor uuid.UUID, action string, id uuid.UUID, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(context.WithoutCancel(ctx), rootshared.AuditLog{
		ActorID:  actor,
		Action:   action,
		Entity:   "usuarios",
		EntityID: id.String(),
		Meta:     meta,
	})
	if err != nil {
		s.logger.Warn("audit user change", slog.String("action", action), slog.Any("error", err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
