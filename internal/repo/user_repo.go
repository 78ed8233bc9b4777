package repo

import (
	"context"

	"github.com/iceymoss/go-blog/pkg/db/objects"
	"github.com/iceymoss/go-blog/pkg/transaction"

	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetByID 按 id 查用户
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*objects.User, error) {
	var u objects.User
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername 按用户名查用户，登录用
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*objects.User, error) {
	var u objects.User
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UsernameExists 用户名是否已被占用，注册事务内调用
func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := transaction.GetTransactionOrDB(ctx, r.db).
		Model(&objects.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

// EmailExists 邮箱是否已被占用，注册事务内调用
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := transaction.GetTransactionOrDB(ctx, r.db).
		Model(&objects.User{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// Create 插入用户
func (r *UserRepo) Create(ctx context.Context, u *objects.User) error {
	return transaction.GetTransactionOrDB(ctx, r.db).Create(u).Error
}

// UpdateProfile 更新用户资料字段
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&objects.User{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}
