package settings

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	rootshared "github.com/balcao/balcao/internal/shared"
)

// AuditRecorder persists audit trail entries.
type AuditRecorder interface {
	Record(ctx context.Context, log rootshared.AuditLog) error
}

type Service struct {
	repo   Repository
	audit  AuditRecorder
	logger *slog.Logger
}

func NewService(repo Repository, audit AuditRecorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Setting, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, key string) (*Setting, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, key)
}

// Set creates or replaces the value of key.
func (s *Service) Set(ctx context.Context, key string, req UpdateRequest, actor uuid.UUID) (*Setting, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if req.Value == nil {
		return nil, rootshared.Validation("valor obrigatório", map[string]string{"valor": "campo obrigatório"})
	}
	setting, err := s.repo.Upsert(ctx, key, *req.Value, req.Description, actor)
	if err != nil {
		return nil, err
	}
	if s.audit != nil {
		entry := rootshared.AuditLog{
			ActorID:  actor,
			Action:   "config.update",
			Entity:   "configuracao",
			EntityID: key,
			Meta:     map[string]any{"valor": setting.Value},
		}
		if err := s.audit.Record(context.WithoutCancel(ctx), entry); err != nil {
			s.logger.Warn("audit log", slog.String("action", entry.Action), slog.Any("error", err))
		}
	}
	return setting, nil
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return rootshared.Validation("chave inválida", map[string]string{"chave": "use 1 a 100 caracteres entre a-z, 0-9, _ e ."})
	}
	return nil
}
