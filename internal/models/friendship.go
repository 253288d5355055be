package models

import "time"

// FriendshipStatus defines the state of a friend request.
type FriendshipStatus string

const (
	// StatusPending means the request has been sent and the target has not answered yet.
	StatusPending FriendshipStatus = "pending"

	// StatusAccepted means the target accepted the request.
	StatusAccepted FriendshipStatus = "accepted"

	// StatusRejected means the target turned the request down.
	StatusRejected FriendshipStatus = "rejected"
)

// Friendship is a directed friend-request edge from Initiator to Target.
// (initiator_id, target_id) is unique and an edge can never point at its own initiator.
type Friendship struct {
	ID          uint             `gorm:"primaryKey"`
	InitiatorID uint             `gorm:"not null;uniqueIndex:idx_friendships_pair;check:chk_friendships_not_self,initiator_id <> target_id"`
	TargetID    uint             `gorm:"not null;uniqueIndex:idx_friendships_pair;index"`
	Status      FriendshipStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Initiator User `gorm:"foreignKey:InitiatorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Target    User `gorm:"foreignKey:TargetID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Involves reports whether userID is one of the two ends of the edge.
func (f Friendship) Involves(userID uint) bool {
	return f.InitiatorID == userID || f.TargetID == userID
}
