package models

import "time"

// Member roles within a class.
const (
	MemberRoleInstructor = "instructor"
	MemberRoleStudent    = "student"
)

// Member is a user known to the roster: the class instructor or a student.
type Member struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClassMembership links a member to a class. A member joins a class at most
// once, enforced by the composite unique index.
type ClassMembership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClassID   uint      `gorm:"not null;uniqueIndex:idx_class_memberships_once" json:"class_id"`
	MemberID  uint      `gorm:"not null;uniqueIndex:idx_class_memberships_once" json:"member_id"`
	CreatedAt time.Time `json:"created_at"`
	Member    Member    `gorm:"foreignKey:MemberID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"member"`
}
