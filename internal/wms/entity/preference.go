package entity

import "time"

// InventoryView 库存页展示方式
const (
	InventoryViewList = "list"
	InventoryViewCard = "card"
)

// UserPreference 界面偏好
type UserPreference struct {
	UserID        int64     `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	InventoryView string    `json:"inventory_view" gorm:"size:10;not null;default:list"`
	PageSize      int       `json:"page_size" gorm:"not null;default:20"`
	Theme         string    `json:"theme" gorm:"size:20;not null;default:light"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (UserPreference) TableName() string {
	return "wms_user_preferences"
}

// DefaultPreference 未保存过偏好时的默认值
func DefaultPreference(userID int64) UserPreference {
	return UserPreference{
		UserID:        userID,
		InventoryView: InventoryViewList,
		PageSize:      20,
		Theme:         "light",
	}
}
