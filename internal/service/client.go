package service

import (
	"context"
	"strings"

	"scooter-rent-backend/internal/domain"
	"scooter-rent-backend/internal/logger"
	"scooter-rent-backend/internal/repository"
)

type clientService struct {
	clientRepo repository.ClientRepository
}

func NewClientService(clientRepo repository.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func (s *clientService) CreateClient(ctx context.Context, client *domain.Client) error {
	logger.EnterMethod("clientService.CreateClient", "telegramID", client.TelegramID)

	client.FullName = strings.TrimSpace(client.FullName)
	if client.FullName == "" {
		return domain.ValidationErrorf("full name is required")
	}
	if client.TelegramID == 0 {
		return domain.ValidationErrorf("telegram id is required")
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		logger.ExitMethodWithError("clientService.CreateClient", err)
		return err
	}

	logger.ExitMethod("clientService.CreateClient", "clientID", client.ID)
	return nil
}

func (s *clientService) GetClient(ctx context.Context, id int32) (*domain.Client, error) {
	return s.clientRepo.GetByID(ctx, id)
}

func (s *clientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clientRepo.List(ctx)
}
