package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mozhilabs/chat-server/internal/events"
	"github.com/mozhilabs/chat-server/internal/metrics"
	"github.com/mozhilabs/chat-server/internal/models"
	"github.com/mozhilabs/chat-server/internal/repository"
	"github.com/mozhilabs/chat-server/internal/translate"
)

var ErrRoomForbidden = errors.New("not a participant of this room")

type autoTranslator interface {
	AutoTranslate(ctx context.Context, text string, target translate.Language) translate.Result
}

// MessageService runs the ingestion pipeline: translate into both language
// variants, persist, announce downstream and broadcast to the room.
type MessageService struct {
	messages   repository.MessageRepository
	rooms      repository.RoomRepository
	users      repository.UserRepository
	translator autoTranslator
	hub        Broadcaster
	events     *events.Publisher
	log        *zap.SugaredLogger
}

func NewMessageService(
	messages repository.MessageRepository,
	rooms repository.RoomRepository,
	users repository.UserRepository,
	translator autoTranslator,
	hub Broadcaster,
	publisher *events.Publisher,
	log *zap.SugaredLogger,
) *MessageService {
	return &MessageService{
		messages:   messages,
		rooms:      rooms,
		users:      users,
		translator: translator,
		hub:        hub,
		events:     publisher,
		log:        log,
	}
}

// Ingest translates the submitted text into both variants, stores the
// message and broadcasts it to the room's subscribers. The broadcast only
// happens after a successful insert.
func (s *MessageService) Ingest(ctx context.Context, text, senderID, roomID string, at time.Time) (*models.Message, error) {
	start := time.Now()

	en := s.translator.AutoTranslate(ctx, text, translate.English)
	ta := s.translator.AutoTranslate(ctx, text, translate.Tamil)

	msg := &models.Message{
		ID:           uuid.NewString(),
		Text:         en.TranslatedText,
		OriginalText: text,
		SenderID:     senderID,
		RoomID:       roomID,
		Timestamp:    at,
		IsTranslated: en.IsTranslated || ta.IsTranslated,
		Translations: models.Translations{
			EN: en.TranslatedText,
			TA: ta.TranslatedText,
		},
	}

	if err := s.messages.Insert(ctx, msg); err != nil {
		metrics.MessagesIngested.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.MessagesIngested.WithLabelValues("success").Inc()
	metrics.IngestDuration.Observe(time.Since(start).Seconds())

	if sender, err := s.users.FindByID(ctx, senderID); err == nil {
		pu := sender.Public()
		msg.Sender = &pu
	} else {
		s.log.Warnw("sender lookup failed", "sender", senderID, "error", err)
	}

	if err := s.events.MessageSent(ctx, msg); err != nil {
		s.log.Warnw("publish message.sent", "message", msg.ID, "error", err)
	}

	s.hub.BroadcastRoom(roomID, "message:received", msg)
	return msg, nil
}

// HistoryForRoom returns the room's messages in chronological order, with
// sender profiles attached. Callers must be participants of the room.
func (s *MessageService) HistoryForRoom(ctx context.Context, roomID, callerID string) ([]*models.Message, error) {
	room, err := s.rooms.FindByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	member := false
	for _, p := range room.Participants {
		if p == callerID {
			member = true
			break
		}
	}
	if !member {
		return nil, ErrRoomForbidden
	}

	msgs, err := s.messages.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	idSet := make(map[string]bool)
	for _, m := range msgs {
		idSet[m.SenderID] = true
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
	for _, m := range msgs {
		if pu, ok := byID[m.SenderID]; ok {
			sender := pu
			m.Sender = &sender
		}
	}
	return msgs, nil
}
