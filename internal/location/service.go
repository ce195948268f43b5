package location

import (
	"context"
	"log/slog"
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	logger.Debug("Initializing location service")

	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAll(ctx context.Context) ([]Location, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int) (*Location, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetConnectionsFrom(ctx context.Context, fromID int) ([]Connection, error) {
	return s.repo.GetConnectionsFrom(ctx, fromID)
}

func (s *Service) Create(ctx context.Context, loc *Location) (*Location, error) {
	return s.repo.Create(ctx, loc)
}

func (s *Service) CreateConnection(ctx context.Context, conn *Connection) (*Connection, error) {
	return s.repo.CreateConnection(ctx, conn)
}
