package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleCustomer Role = "customer"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff || r == RoleCustomer
}

type User struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	Email      string          `db:"email" json:"email"`
	Password   string          `db:"password" json:"-"`
	FirstName  string          `db:"first_name" json:"first_name"`
	LastName   string          `db:"last_name" json:"last_name"`
	Phone      string          `db:"phone" json:"phone"`
	Role       Role            `db:"role" json:"role"`
	StudentID  *string         `db:"student_id" json:"student_id,omitempty"`
	Balance    decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
	ArchivedAt *time.Time      `db:"archived_at" json:"archived_at,omitempty"`
}
