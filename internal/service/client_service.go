package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/enquiry-console/internal/cache"
	"github.com/spec-kit/enquiry-console/internal/domain"
	"github.com/spec-kit/enquiry-console/internal/events"
	"github.com/spec-kit/enquiry-console/internal/repository"
	apperrors "github.com/spec-kit/enquiry-console/pkg/util/errorutil"
)

const clientListKey = "clients:all"

// ClientService manages converted clients. The full list is cached; a cache
// failure falls through to Postgres.
type ClientService struct {
	clients    repository.ClientRepository
	cache      cache.Cache
	ttl        time.Duration
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ClientDependencies bundles collaborators.
type ClientDependencies struct {
	ClientRepo repository.ClientRepository
	Cache      cache.Cache
	TTL        time.Duration
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// ClientCreateInput describes a conversion.
type ClientCreateInput struct {
	Name            string
	Phone           string
	SourceEnquiryID *string
}

// NewClientService builds the service.
func NewClientService(deps ClientDependencies) *ClientService {
	c := deps.Cache
	if c == nil {
		c = cache.NewNoop()
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{
		clients:    deps.ClientRepo,
		cache:      c,
		ttl:        deps.TTL,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// List returns all clients.
func (s *ClientService) List(ctx context.Context) ([]domain.Client, error) {
	if raw, ok, err := s.cache.Get(ctx, clientListKey); err != nil {
		s.logger.Warn("client cache read failed", zap.Error(err))
	} else if ok {
		var cached []domain.Client
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		s.logger.Warn("discarding undecodable client cache entry")
	}

	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	if raw, err := json.Marshal(clients); err == nil {
		if err := s.cache.Set(ctx, clientListKey, raw, s.ttl); err != nil {
			s.logger.Warn("client cache write failed", zap.Error(err))
		}
	}
	return clients, nil
}

// Create records a conversion and invalidates the cached list.
func (s *ClientService) Create(ctx context.Context, actor *domain.Handler, input ClientCreateInput) (*domain.Client, error) {
	if input.Name == "" || domain.NormalizePhone(input.Phone) == "" {
		return nil, apperrors.NewValidationError("name and phone required", nil)
	}
	client := &domain.Client{
		Name:            input.Name,
		Phone:           input.Phone,
		SourceEnquiryID: input.SourceEnquiryID,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.cache.Delete(ctx, clientListKey); err != nil {
		s.logger.Warn("client cache invalidation failed", zap.Error(err))
	}

	if s.dispatcher != nil {
		leadID := ""
		if client.SourceEnquiryID != nil {
			leadID = *client.SourceEnquiryID
		}
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventClientAdded,
			LeadID:    leadID,
			Actor:     actorOf(actor),
			Timestamp: time.Now(),
			Payload:   events.ClientAddedPayload{ClientID: client.ID, Name: client.Name},
		})
	}
	return client, nil
}
