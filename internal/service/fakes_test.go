package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mozhilabs/chat-server/internal/models"
	"github.com/mozhilabs/chat-server/internal/repository"
)

type broadcastEvent struct {
	roomID string
	event  string
	data   any
}

type fakeBroadcaster struct {
	roomEvents   []broadcastEvent
	globalEvents []broadcastEvent
}

func (f *fakeBroadcaster) BroadcastRoom(roomID, event string, data any) {
	f.roomEvents = append(f.roomEvents, broadcastEvent{roomID: roomID, event: event, data: data})
}

func (f *fakeBroadcaster) BroadcastAll(event string, data any) {
	f.globalEvents = append(f.globalEvents, broadcastEvent{event: event, data: data})
}

type fakeUserRepo struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]*models.User{},
		byEmail: map[string]*models.User{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.byID[u.ID.Hex()] = u
	f.byEmail[strings.ToLower(u.Email)] = u
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByIDs(_ context.Context, ids []string) ([]*models.User, error) {
	var out []*models.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateProfile(_ context.Context, id string, fields map[string]any) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if name, ok := fields["name"].(string); ok {
		u.Name = name
	}
	if lang, ok := fields["preferred_language"].(string); ok {
		u.PreferredLanguage = lang
	}
	if avatar, ok := fields["avatar"].(string); ok {
		u.Avatar = avatar
	}
	return u, nil
}

type fakeRoomRepo struct {
	rooms map[string]*models.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: map[string]*models.Room{}}
}

func (f *fakeRoomRepo) Create(_ context.Context, room *models.Room) error {
	f.rooms[room.ID] = room
	return nil
}

func (f *fakeRoomRepo) FindByID(_ context.Context, id string) (*models.Room, error) {
	if r, ok := f.rooms[id]; ok {
		return r, nil
	}
	return nil, repository.ErrRoomNotFound
}

func (f *fakeRoomRepo) FindByParticipant(_ context.Context, userID string) ([]*models.Room, error) {
	var out []*models.Room
	for _, r := range f.rooms {
		for _, p := range r.Participants {
			if p == userID {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

type fakeMessageRepo struct {
	msgs       []*models.Message
	insertFail error
}

func (f *fakeMessageRepo) Insert(_ context.Context, m *models.Message) error {
	if f.insertFail != nil {
		return f.insertFail
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	f.msgs = append(f.msgs, m)
	return nil
}

func (f *fakeMessageRepo) ListByRoom(_ context.Context, roomID string) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.msgs {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	return out, nil
}
