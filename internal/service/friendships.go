package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fitsocial/backend/internal/models"
)

// Direction tells whether the caller sent or received a friend request.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// FriendshipView is an edge as seen by one of its two ends.
type FriendshipView struct {
	models.Friendship
	Direction Direction
}

func viewFor(f models.Friendship, callerID uint) FriendshipView {
	d := DirectionReceived
	if f.InitiatorID == callerID {
		d = DirectionSent
	}
	return FriendshipView{Friendship: f, Direction: d}
}

// Friendships maintains the friend-request graph.
type Friendships struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewFriendships(db *gorm.DB, l *zap.SugaredLogger) *Friendships {
	return &Friendships{
		db:     db,
		logger: l,
	}
}

// Create sends a friend request from the caller to the user whose username,
// or failing that email, equals identifier exactly.
func (s *Friendships) Create(ctx context.Context, callerID uint, identifier string) (*FriendshipView, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, invalid("a username or email is required")
	}

	target, err := s.resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if target.ID == callerID {
		return nil, invalid("you cannot add yourself as a friend")
	}

	var existing int64
	err = s.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("(initiator_id = ? AND target_id = ?) OR (initiator_id = ? AND target_id = ?)",
			callerID, target.ID, target.ID, callerID).
		Count(&existing).Error
	if err != nil {
		return nil, errors.Wrap(err, "check existing friendship")
	}
	if existing > 0 {
		return nil, conflict("a friendship with this user already exists")
	}

	edge := models.Friendship{
		InitiatorID: callerID,
		TargetID:    target.ID,
		Status:      models.StatusPending,
	}
	if err := s.db.WithContext(ctx).Omit("Initiator", "Target").Create(&edge).Error; err != nil {
		if isDuplicate(err) {
			return nil, conflict("a friendship with this user already exists")
		}
		return nil, errors.Wrap(err, "create friendship")
	}

	s.logger.Infow("friend request sent", "friendship_id", edge.ID, "initiator_id", callerID, "target_id", target.ID)
	return s.load(ctx, edge.ID, callerID)
}

// List returns every edge the caller is part of, in insertion order.
func (s *Friendships) List(ctx context.Context, callerID uint) ([]FriendshipView, error) {
	var edges []models.Friendship
	err := s.db.WithContext(ctx).
		Preload("Initiator").Preload("Target").
		Where("initiator_id = ? OR target_id = ?", callerID, callerID).
		Order("id").
		Find(&edges).Error
	if err != nil {
		return nil, errors.Wrap(err, "list friendships")
	}

	views := make([]FriendshipView, 0, len(edges))
	for _, e := range edges {
		views = append(views, viewFor(e, callerID))
	}
	return views, nil
}

// Respond lets the target of a pending request accept or reject it. A request
// is answered once.
func (s *Friendships) Respond(ctx context.Context, callerID, id uint, status models.FriendshipStatus) (*FriendshipView, error) {
	edge, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if edge.TargetID != callerID {
		return nil, forbidden("only the recipient can respond to a friend request")
	}
	if status != models.StatusAccepted && status != models.StatusRejected {
		return nil, invalid("invalid status %q", status)
	}
	if edge.Status != models.StatusPending {
		return nil, conflict("friend request was already %s", edge.Status)
	}

	res := s.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Update("status", status)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "update friendship status")
	}
	if res.RowsAffected == 0 {
		return nil, conflict("friend request was already answered")
	}

	s.logger.Infow("friend request answered", "friendship_id", id, "status", status)
	return s.load(ctx, id, callerID)
}

// Remove deletes an edge the caller is part of, whatever its status.
func (s *Friendships) Remove(ctx context.Context, callerID, id uint) error {
	edge, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if !edge.Involves(callerID) {
		return forbidden("you are not part of this friendship")
	}

	if err := s.db.WithContext(ctx).Delete(&models.Friendship{}, id).Error; err != nil {
		return errors.Wrap(err, "delete friendship")
	}
	s.logger.Infow("friendship removed", "friendship_id", id, "by", callerID)
	return nil
}

// Friends returns the ids of users with an accepted edge to the caller in either direction.
func (s *Friendships) Friends(ctx context.Context, callerID uint) ([]uint, error) {
	var edges []models.Friendship
	err := s.db.WithContext(ctx).
		Where("(initiator_id = ? OR target_id = ?) AND status = ?", callerID, callerID, models.StatusAccepted).
		Find(&edges).Error
	if err != nil {
		return nil, errors.Wrap(err, "list friends")
	}

	ids := make([]uint, 0, len(edges))
	for _, e := range edges {
		if e.InitiatorID == callerID {
			ids = append(ids, e.TargetID)
		} else {
			ids = append(ids, e.InitiatorID)
		}
	}
	return ids, nil
}

func (s *Friendships) resolve(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", identifier).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !isRecordNotFound(err) {
		return nil, errors.Wrap(err, "find user by username")
	}

	err = s.db.WithContext(ctx).Where("email = ?", identifier).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if isRecordNotFound(err) {
		return nil, notFound("no user with username or email %q", identifier)
	}
	return nil, errors.Wrap(err, "find user by email")
}

func (s *Friendships) find(ctx context.Context, id uint) (*models.Friendship, error) {
	var edge models.Friendship
	if err := s.db.WithContext(ctx).First(&edge, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("friendship not found")
		}
		return nil, errors.Wrap(err, "get friendship")
	}
	return &edge, nil
}

func (s *Friendships) load(ctx context.Context, id, callerID uint) (*FriendshipView, error) {
	var edge models.Friendship
	if err := s.db.WithContext(ctx).Preload("Initiator").Preload("Target").First(&edge, id).Error; err != nil {
		return nil, errors.Wrap(err, "reload friendship")
	}
	v := viewFor(edge, callerID)
	return &v, nil
}
