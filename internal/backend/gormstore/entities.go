// Package gormstore implements the durable backend.Store over a SQL
// database using GORM, against the original PlantPals schema.
package gormstore

import (
	"time"
)

// SwapRequest is the swap_requests table; its id doubles as the
// conversation id.
type SwapRequest struct {
	ID          string    `gorm:"column:id;primaryKey"`
	PlantID     string    `gorm:"column:plant_id;index"`
	RequesterID string    `gorm:"column:requester_id;index"`
	Status      string    `gorm:"column:status"`
	Message     *string   `gorm:"column:message"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`

	Plant     Plant   `gorm:"foreignKey:PlantID"`
	Requester Profile `gorm:"foreignKey:RequesterID"`
}

func (SwapRequest) TableName() string { return "swap_requests" }

// Message is the messages table.
type Message struct {
	ID            string    `gorm:"column:id;primaryKey"`
	SwapRequestID string    `gorm:"column:swap_request_id;index"`
	SenderID      string    `gorm:"column:sender_id"`
	Content       string    `gorm:"column:content"`
	SentAt        time.Time `gorm:"column:sent_at;index"`
	Read          bool      `gorm:"column:read"`

	Sender Profile `gorm:"foreignKey:SenderID"`
}

func (Message) TableName() string { return "messages" }

// Profile is the profiles table.
type Profile struct {
	ID        string    `gorm:"column:id;primaryKey"`
	Username  *string   `gorm:"column:username"`
	AvatarURL *string   `gorm:"column:avatar_url"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Profile) TableName() string { return "profiles" }

// Plant is the plants table, reduced to what messaging reads.
type Plant struct {
	ID       string  `gorm:"column:id;primaryKey"`
	OwnerID  string  `gorm:"column:owner_id;index"`
	Name     string  `gorm:"column:name"`
	ImageURL *string `gorm:"column:image_url"`

	Owner Profile `gorm:"foreignKey:OwnerID"`
}

func (Plant) TableName() string { return "plants" }
