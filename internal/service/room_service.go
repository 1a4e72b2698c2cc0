package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mozhilabs/chat-server/internal/models"
	"github.com/mozhilabs/chat-server/internal/repository"
)

var ErrInviteeNotFound = errors.New("invitee not found")

// RoomService creates chat rooms by email invite and lists a user's rooms
// with their member profiles attached.
type RoomService struct {
	rooms repository.RoomRepository
	users repository.UserRepository
	hub   Broadcaster
	log   *zap.SugaredLogger
}

func NewRoomService(rooms repository.RoomRepository, users repository.UserRepository, hub Broadcaster, log *zap.SugaredLogger) *RoomService {
	return &RoomService{rooms: rooms, users: users, hub: hub, log: log}
}

// CreateByInvite opens a two-party room between the caller and the user
// registered under inviteeEmail, then announces it on the realtime channel
// so the invitee's client can pick it up.
func (s *RoomService) CreateByInvite(ctx context.Context, callerID, inviteeEmail string) (*models.Room, error) {
	caller, err := s.users.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	invitee, err := s.users.FindByEmail(ctx, inviteeEmail)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, ErrInviteeNotFound
	}
	if err != nil {
		return nil, err
	}

	room := &models.Room{
		ID:           uuid.NewString(),
		Name:         "Chat with " + invitee.Name,
		Participants: []string{caller.ID.Hex(), invitee.ID.Hex()},
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	room.Members = []models.PublicUser{caller.Public(), invitee.Public()}

	s.log.Infow("room created", "room", room.ID, "creator", callerID, "invitee", invitee.ID.Hex())
	s.hub.BroadcastAll("room:created", room)
	return room, nil
}

// ListForUser returns the caller's rooms, newest first, with members
// populated from the user collection.
func (s *RoomService) ListForUser(ctx context.Context, userID string) ([]*models.Room, error) {
	rooms, err := s.rooms.FindByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	idSet := make(map[string]bool)
	for _, r := range rooms {
		for _, p := range r.Participants {
			idSet[p] = true
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.PublicUser, len(users))
	for _, u := range users {
		byID[u.ID.Hex()] = u.Public()
	}

	for _, r := range rooms {
		r.Members = make([]models.PublicUser, 0, len(r.Participants))
		for _, p := range r.Participants {
			if pu, ok := byID[p]; ok {
				r.Members = append(r.Members, pu)
			}
		}
	}
	return rooms, nil
}
