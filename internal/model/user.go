package model

import "time"

type UserRole string

const (
	Learner UserRole = "learner"
	Editor  UserRole = "editor"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('learner','editor','admin');default:'learner'" json:"role"`
	Entitled  bool      `gorm:"default:false" json:"entitled"` // 是否可见答案解析（付费/会员）
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
