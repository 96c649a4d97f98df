package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict 唯一约束冲突（并发的相同操作已先提交）
	ErrConflict = errors.New("unique constraint conflict")
	// ErrKeyReused 同一个 request key 已用于另一条推荐或另一个方向的投票
	ErrKeyReused = errors.New("request key already used for a different vote")
)

// translate 把 gorm 错误映射为仓储层错误，其余错误原样返回（视为存储不可用）
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return err
}
