package entity

import "gorm.io/gorm"

// AutoMigrate 本地仅持久化界面偏好，其余数据都在远端 API
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserPreference{},
	)
}
