package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/plantpals/messaging/internal/backend"
	"github.com/plantpals/messaging/internal/model"
)

// Store implements backend.Store using a GORM database handle.
type Store struct {
	db *gorm.DB
}

// Open opens a SQLite database, migrates the messaging tables, and returns
// a store over it.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return New(db)
}

// New wraps an existing database handle.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Profile{}, &Plant{}, &SwapRequest{}, &Message{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// ListConversations returns the conversations where the actor plays the
// given role, with plant and participant profiles joined.
func (s *Store) ListConversations(ctx context.Context, actorID string, role backend.Role) ([]model.Conversation, error) {
	q := s.db.WithContext(ctx).
		Preload("Plant").
		Preload("Plant.Owner").
		Preload("Requester")

	switch role {
	case backend.RoleRequester:
		q = q.Where("requester_id = ?", actorID)
	case backend.RoleOwner:
		q = q.Joins("JOIN plants ON plants.id = swap_requests.plant_id").
			Where("plants.owner_id = ?", actorID)
	default:
		return nil, fmt.Errorf("unknown role %q", role)
	}

	var rows []SwapRequest
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list swap requests: %w", err)
	}

	convs := make([]model.Conversation, 0, len(rows))
	for i := range rows {
		convs = append(convs, toConversation(&rows[i]))
	}
	return convs, nil
}

// LatestMessage returns the most recent message of a conversation, nil
// when it has none.
func (s *Store) LatestMessage(ctx context.Context, conversationID string) (*model.Message, error) {
	var row Message
	err := s.db.WithContext(ctx).
		Preload("Sender").
		Where("swap_request_id = ?", conversationID).
		Order("sent_at DESC, id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest message: %w", err)
	}
	msg := toMessage(&row)
	return &msg, nil
}

// MessageHistory returns all messages of a conversation ascending by sent
// time, ids breaking ties.
func (s *Store) MessageHistory(ctx context.Context, conversationID string) ([]model.Message, error) {
	var rows []Message
	err := s.db.WithContext(ctx).
		Preload("Sender").
		Where("swap_request_id = ?", conversationID).
		Order("sent_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch message history: %w", err)
	}

	msgs := make([]model.Message, 0, len(rows))
	for i := range rows {
		msgs = append(msgs, toMessage(&rows[i]))
	}
	return msgs, nil
}

// InsertMessage persists a new message with a server-assigned id and
// timestamp and touches the parent swap request.
func (s *Store) InsertMessage(ctx context.Context, conversationID, senderID, content string) (*model.Message, error) {
	now := time.Now().UTC()
	row := Message{
		ID:            uuid.Must(uuid.NewV7()).String(),
		SwapRequestID: conversationID,
		SenderID:      senderID,
		Content:       content,
		SentAt:        now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv SwapRequest
		if err := tx.Select("id").First(&conv, "id = ?", conversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return backend.ErrNotFound
			}
			return err
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Model(&SwapRequest{}).
			Where("id = ?", conversationID).
			Update("updated_at", now).Error
	})
	if err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}

	// Sender profile is denormalized onto reads; look it up best-effort.
	var sender Profile
	if err := s.db.WithContext(ctx).First(&sender, "id = ?", senderID).Error; err == nil {
		row.Sender = sender
	}

	msg := toMessage(&row)
	return &msg, nil
}

func toConversation(row *SwapRequest) model.Conversation {
	conv := model.Conversation{
		ID:        row.ID,
		Status:    model.Status(row.Status),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
		Plant: model.Plant{
			ID:       row.Plant.ID,
			OwnerID:  row.Plant.OwnerID,
			Name:     row.Plant.Name,
			ImageURL: row.Plant.ImageURL,
		},
		Requester: toProfile(&row.Requester),
		Owner:     toProfile(&row.Plant.Owner),
	}
	if row.Message != nil {
		conv.Note = *row.Message
	}
	return conv
}

func toMessage(row *Message) model.Message {
	msg := model.Message{
		ID:             row.ID,
		ConversationID: row.SwapRequestID,
		SenderID:       row.SenderID,
		Content:        row.Content,
		SentAt:         row.SentAt,
		Read:           row.Read,
	}
	if row.Sender.ID != "" {
		sender := toProfile(&row.Sender)
		msg.Sender = &sender
	}
	return msg
}

func toProfile(row *Profile) model.Profile {
	p := model.Profile{
		ID:        row.ID,
		AvatarURL: row.AvatarURL,
	}
	if row.Username != nil {
		p.Username = *row.Username
	}
	return p
}
