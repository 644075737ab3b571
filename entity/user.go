package entity

type User struct {
	ID                 string `json:"id" gorm:"primaryKey;size:64"`
	Username           string `json:"username" gorm:"uniqueIndex;size:191"`
	Email              string `json:"email" gorm:"uniqueIndex;size:191"`
	PasswordHash       string `json:"-" gorm:"size:191"`
	FirstName          string `json:"first_name" gorm:"size:191"`
	LastName           string `json:"last_name" gorm:"size:191"`
	Bio                string `json:"bio" gorm:"type:text"`
	EmailNotifications bool   `json:"email_notifications"`
}

// Follow records that FollowerID follows FolloweeID. The unique index makes
// the relation a set, so toggling is a row insert or delete.
type Follow struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	FollowerID string `json:"follower_id" gorm:"uniqueIndex:idx_follower_followee;size:64"`
	FolloweeID string `json:"followee_id" gorm:"uniqueIndex:idx_follower_followee;size:64"`
}

type SignUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
