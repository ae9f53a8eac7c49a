package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/dto"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	requests  domain.RequestRepository
	users     domain.UserRepository
	validator *Validator
	logger    *zerolog.Logger
}

func NewRequestService(
	requests domain.RequestRepository,
	users domain.UserRepository,
	validator *Validator,
	logger *zerolog.Logger,
) *RequestService {
	return &RequestService{requests: requests, users: users, validator: validator, logger: logger}
}

func (s *RequestService) Create(ctx context.Context, requesterID int64, description string) (dto.RequestView, error) {
	if err := s.validator.UserExists(ctx, requesterID); err != nil {
		return dto.RequestView{}, err
	}
	requester, err := s.users.GetUserByID(ctx, requesterID)
	if err != nil {
		return dto.RequestView{}, err
	}

	req := &models.ItemRequest{Description: description, Requester: *requester}
	if err := s.requests.CreateRequest(ctx, req); err != nil {
		return dto.RequestView{}, err
	}
	s.logger.Info().Int64("request_id", req.ID).Int64("requester_id", requesterID).Msg("Item request created")
	return dto.NewRequestView(*req), nil
}

// ListOwn returns the caller's requests, newest first, with the items created for them.
func (s *RequestService) ListOwn(ctx context.Context, requesterID int64) ([]dto.RequestView, error) {
	if err := s.validator.UserExists(ctx, requesterID); err != nil {
		return nil, err
	}
	reqs, err := s.requests.GetRequestsByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return dto.NewRequestViews(reqs), nil
}

// ListOthers pages through everybody else's requests, newest first.
func (s *RequestService) ListOthers(ctx context.Context, userID int64, page models.Page) ([]dto.RequestView, error) {
	if err := s.validator.UserExists(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.requests.GetRequestsExcept(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return dto.NewRequestViews(reqs), nil
}

func (s *RequestService) Get(ctx context.Context, userID, requestID int64) (dto.RequestView, error) {
	if err := s.validator.UserExists(ctx, userID); err != nil {
		return dto.RequestView{}, err
	}
	if err := s.validator.RequestExists(ctx, requestID); err != nil {
		return dto.RequestView{}, err
	}
	req, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return dto.RequestView{}, err
	}
	return dto.NewRequestView(*req), nil
}
