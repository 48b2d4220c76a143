package user

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleAIBot  Role = "ai_bot"
	RoleMixed  Role = "mixed"
	RoleMentor Role = "mentor"
	RoleMentee Role = "mentee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleAIBot, RoleMixed, RoleMentor, RoleMentee:
		return true
	}
	return false
}

// AccountStatus is the soft lifecycle flag shared by users and subjects.
type AccountStatus string

const (
	StatusPending  AccountStatus = "pending"
	StatusActive   AccountStatus = "active"
	StatusDisabled AccountStatus = "disabled"
	StatusBlocked  AccountStatus = "blocked"
	StatusDeleted  AccountStatus = "deleted"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusDisabled, StatusBlocked, StatusDeleted:
		return true
	}
	return false
}

type User struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	Username  string        `gorm:"column:username;size:50;not null;uniqueIndex" json:"username"`
	Email     string        `gorm:"column:email;size:100;not null;uniqueIndex" json:"email"`
	Password  string        `gorm:"column:password;not null" json:"-"`
	FirstName string        `gorm:"column:firstname;size:100" json:"firstname,omitempty"`
	LastName  string        `gorm:"column:lastname;size:100" json:"lastname,omitempty"`
	Role      Role          `gorm:"column:role;type:varchar(20);not null;default:'user';index" json:"role"`
	Status    AccountStatus `gorm:"column:status;type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserStatus holds reputation counters, one row per user.
type UserStatus struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	UserID        uint          `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	Status        AccountStatus `gorm:"column:status;type:varchar(20);not null;default:'active'" json:"status"`
	PenaltyPoints int           `gorm:"column:penalty_points;not null;default:0" json:"penalty_points"`
	Rating        float64       `gorm:"column:rating;not null;default:0" json:"rating"`
	SocialPoints  int           `gorm:"column:social_points;not null;default:0" json:"social_points"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserStatus) TableName() string { return "user_status" }

type UserFeedback struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	Feedback      string    `gorm:"column:feedback;type:text;not null" json:"feedback"`
	FeedbackPoint int       `gorm:"column:feedback_point;not null;default:0" json:"feedback_point"`
	CreatedAt     time.Time `gorm:"not null;index" json:"created_at"`
}

func (UserFeedback) TableName() string { return "user_feedback" }
