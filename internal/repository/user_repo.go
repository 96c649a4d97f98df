package repository

import (
	"context"
	"time"

	"tunepost-go/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUser 根据 ID 查询用户
func (r *UserRepository) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// GetUsersByNames 按用户名批量查询（@提及解析）
func (r *UserRepository) GetUsersByNames(ctx context.Context, names []string) ([]model.User, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).Where("user_name IN ?", names).Find(&users).Error
	return users, translate(err)
}

// CreateUser 创建用户（用户资料由外部服务维护，这里只用于初始化数据）
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// AuthorTallies 按人群统计窗口内的推荐数与获赞数，粉丝数不受窗口限制
func (r *UserRepository) AuthorTallies(ctx context.Context, cohort model.Cohort, since time.Time) ([]model.AuthorTally, error) {
	join := "LEFT JOIN recommendations r ON r.author_id = u.id"
	var args []any
	if !since.IsZero() {
		join += " AND r.created_at >= ?"
		args = append(args, since)
	}

	query := r.db.WithContext(ctx).Table("users AS u").
		Select(`u.id AS user_id, u.user_name, u.is_artist, u.follower_count AS followers,
			COUNT(r.id) AS recommendations, COALESCE(SUM(r.upvotes), 0) AS total_votes`).
		Joins(join, args...).
		Group("u.id, u.user_name, u.is_artist, u.follower_count")

	switch cohort {
	case model.CohortArtists:
		query = query.Where("u.is_artist = ?", true)
	case model.CohortCurators:
		query = query.Where("u.is_artist = ?", false).Having("COUNT(r.id) > 0")
	}

	var rows []model.AuthorTally
	if err := query.Scan(&rows).Error; err != nil {
		return nil, translate(err)
	}
	return rows, nil
}
