package user

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/dynamiclms/core"
)

// Role is the portal a User belongs to.
type Role string

const (
	RoleProfessor Role = "professor"
	RoleStudent   Role = "student"
)

func (r Role) IsValid() bool {
	return r == RoleProfessor || r == RoleStudent
}

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	StudentID string    `json:"student_id,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

func (u User) IsProfessor() bool { return u.Role == RoleProfessor }

func (u User) IsStudent() bool { return u.Role == RoleStudent }

// Credentials of the login stub. Any non-empty pair is accepted.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"omitempty,oneof=professor student"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	c.Role = Role(core.CleanString(string(c.Role), true /* lower */))
	if c.Role == "" {
		c.Role = RoleProfessor
	}
	return validate.Struct(c)
}
