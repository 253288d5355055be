package service

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fitsocial/backend/internal/models"
)

// PostParams carries the writable post fields.
type PostParams struct {
	Content  string
	Category string
}

// PostView is a post with its like figures as seen by the caller.
type PostView struct {
	models.Post
	LikesCount  int64
	LikedByUser bool
}

type likeStats struct {
	PostID     uint
	LikesCount int64
	Liked      int64
}

// Posts manages posts and likes.
type Posts struct {
	db          *gorm.DB
	friendships *Friendships
	logger      *zap.SugaredLogger
}

func NewPosts(db *gorm.DB, friendships *Friendships, l *zap.SugaredLogger) *Posts {
	return &Posts{
		db:          db,
		friendships: friendships,
		logger:      l,
	}
}

// Feed returns the caller's posts and those of accepted friends, newest first.
func (s *Posts) Feed(ctx context.Context, callerID uint) ([]PostView, error) {
	authors, err := s.friendships.Friends(ctx, callerID)
	if err != nil {
		return nil, err
	}
	authors = append(authors, callerID)

	posts := make([]models.Post, 0)
	err = s.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN ?", authors).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	return s.withStats(ctx, callerID, posts)
}

func (s *Posts) Create(ctx context.Context, callerID uint, p PostParams) (*PostView, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	post := models.Post{
		UserID:   callerID,
		Content:  p.Content,
		Category: strings.TrimSpace(p.Category),
	}
	if err := s.db.WithContext(ctx).Omit("User").Create(&post).Error; err != nil {
		return nil, errors.Wrap(err, "create post")
	}

	s.logger.Infow("post created", "post_id", post.ID, "user_id", callerID)
	return s.Get(ctx, callerID, post.ID)
}

// Get returns one of the caller's own posts.
func (s *Posts) Get(ctx context.Context, callerID, id uint) (*PostView, error) {
	post, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	views, err := s.withStats(ctx, callerID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Update changes content and category. created_at never changes.
func (s *Posts) Update(ctx context.Context, callerID, id uint, p PostParams) (*PostView, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	post, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(post).Updates(map[string]interface{}{
		"content":  p.Content,
		"category": strings.TrimSpace(p.Category),
	}).Error
	if err != nil {
		return nil, errors.Wrap(err, "update post")
	}
	return s.Get(ctx, callerID, id)
}

func (s *Posts) Delete(ctx context.Context, callerID, id uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, callerID).
		Delete(&models.Post{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete post")
	}
	if res.RowsAffected == 0 {
		return notFound("post not found")
	}
	s.logger.Infow("post deleted", "post_id", id, "user_id", callerID)
	return nil
}

// AddLike makes sure the caller likes the post. created is false when the like
// already existed.
func (s *Posts) AddLike(ctx context.Context, callerID, postID uint) (like *models.Like, created bool, err error) {
	if err := s.exists(ctx, postID); err != nil {
		return nil, false, err
	}

	like = &models.Like{UserID: callerID, PostID: postID}
	res := s.db.WithContext(ctx).
		Omit("User", "Post").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(like)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return nil, false, notFound("post not found")
		}
		return nil, false, errors.Wrap(res.Error, "create like")
	}
	if res.RowsAffected == 0 {
		existing := &models.Like{}
		err := s.db.WithContext(ctx).
			Where("user_id = ? AND post_id = ?", callerID, postID).
			First(existing).Error
		if err != nil {
			return nil, false, errors.Wrap(err, "get like")
		}
		return existing, false, nil
	}

	s.logger.Infow("post liked", "post_id", postID, "user_id", callerID)
	return like, true, nil
}

func (s *Posts) RemoveLike(ctx context.Context, callerID, postID uint) error {
	if err := s.exists(ctx, postID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", callerID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete like")
	}
	if res.RowsAffected == 0 {
		return notFound("you have not liked this post")
	}
	s.logger.Infow("post unliked", "post_id", postID, "user_id", callerID)
	return nil
}

func (s *Posts) owned(ctx context.Context, callerID, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("id = ? AND user_id = ?", id, callerID).
		First(&post).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("post not found")
		}
		return nil, errors.Wrap(err, "get post")
	}
	return &post, nil
}

func (s *Posts) exists(ctx context.Context, id uint) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return errors.Wrap(err, "check post")
	}
	if n == 0 {
		return notFound("post not found")
	}
	return nil
}

// withStats attaches like counts and the caller's like flag using one grouped query.
func (s *Posts) withStats(ctx context.Context, callerID uint, posts []models.Post) ([]PostView, error) {
	views := make([]PostView, len(posts))
	if len(posts) == 0 {
		return views, nil
	}

	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		views[i].Post = p
	}

	sql, args, err := squirrel.
		Select(
			"post_id",
			"COUNT(*) AS likes_count",
		).
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN user_id = ? THEN 1 ELSE 0 END), 0) AS liked", callerID)).
		From("likes").
		Where(squirrel.Eq{"post_id": ids}).
		GroupBy("post_id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	stats := make([]likeStats, 0, len(posts))
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&stats).Error; err != nil {
		return nil, errors.Wrap(err, "scan like stats")
	}

	byPost := make(map[uint]likeStats, len(stats))
	for _, st := range stats {
		byPost[st.PostID] = st
	}
	for i := range views {
		st := byPost[views[i].ID]
		views[i].LikesCount = st.LikesCount
		views[i].LikedByUser = st.Liked > 0
	}
	return views, nil
}

func (p PostParams) validate() error {
	if strings.TrimSpace(p.Content) == "" {
		return invalid("content is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return invalid("category is required")
	}
	if len([]rune(p.Category)) > 50 {
		return invalid("category must be at most 50 characters")
	}
	return nil
}
