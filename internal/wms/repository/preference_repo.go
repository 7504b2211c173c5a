package repository

import (
	"context"
	"errors"

	"github.com/HuangKst/FYP-sub000/internal/wms/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

type PreferenceRepository struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// FindByUserID 获取用户界面偏好
func (r *PreferenceRepository) FindByUserID(ctx context.Context, userID int64) (*entity.UserPreference, error) {
	var pref entity.UserPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// Upsert 按 user_id 新增或覆盖
func (r *PreferenceRepository) Upsert(ctx context.Context, pref *entity.UserPreference) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"inventory_view", "page_size", "theme", "updated_at"}),
	}).Create(pref).Error
}

// Delete 恢复默认
func (r *PreferenceRepository) Delete(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.UserPreference{}).Error
}
