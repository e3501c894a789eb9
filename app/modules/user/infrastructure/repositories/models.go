package userdb

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a registered student or admin. The password column exists for
// compatibility with older client payloads; identity is established by the
// external provider and the column is never returned to clients.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	UserID        string    `bun:"user_id,pk" json:"userId"`
	Username      string    `bun:"username" json:"username,omitempty"`
	Email         string    `bun:"email,notnull,unique" json:"email"`
	Password      string    `bun:"password" json:"-"`
	PhoneNumber   string    `bun:"phone_number,notnull" json:"phoneNumber"`
	InstituteName string    `bun:"institute_name,notnull" json:"instituteName"`
	City          string    `bun:"city,notnull" json:"city"`
	State         string    `bun:"state,notnull" json:"state"`
	InstituteType string    `bun:"institute_type,notnull" json:"instituteType"`
	FullName      string    `bun:"full_name,notnull" json:"fullName"`
	Stream        string    `bun:"stream,notnull" json:"stream"`
	PrepExam      string    `bun:"prep_exam,notnull" json:"prepExam"`
	Role          string    `bun:"role,notnull,default:'user'" json:"role"`
	PhotoURL      string    `bun:"photo_url" json:"photoURL,omitempty"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}
