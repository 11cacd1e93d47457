package model

import "time"

const UserTableName = "users"

// User 用户
type User struct {
	BaseModel
	Name                 string     `gorm:"size:100;not null" json:"name"`
	Email                string     `gorm:"size:191;not null;uniqueIndex" json:"email"`
	Bio                  string     `gorm:"size:500;not null;default:''" json:"bio"`
	Photo                string     `gorm:"size:255;not null;default:'default.jpg'" json:"photo"`
	Password             string     `gorm:"size:255;not null" json:"-"` // bcrypt 哈希，不返回到前端
	PasswordChangedAt    *time.Time `json:"-"`
	PasswordResetToken   *string    `gorm:"size:64;index" json:"-"` // 只保存 SHA-256 摘要
	PasswordResetExpires *time.Time `json:"-"`
}

// TableName 指定表名
func (User) TableName() string {
	return UserTableName
}

// ChangedPasswordAfter 判断密码是否在 token 签发之后修改过（秒级比较）
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}
