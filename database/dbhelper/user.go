package dbhelper

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/ray-remotestate/smartcafe/database"
	"github.com/ray-remotestate/smartcafe/models"
	"github.com/ray-remotestate/smartcafe/utils"
	"github.com/shopspring/decimal"
)

func CreateUser(tx *sql.Tx, email, hashedPassword, firstName, lastName, phone string, role models.Role) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(`
		INSERT INTO users (email, password, first_name, last_name, phone, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		email, hashedPassword, firstName, lastName, phone, role).Scan(&id)
	return id, err
}

func IsUserExists(email string) (bool, error) {
	var count int
	err := database.Cafe.QueryRow(`
		SELECT COUNT(*) FROM users
		WHERE LOWER(email) = LOWER($1) AND archived_at IS NULL`, email).Scan(&count)
	return count > 0, err
}

func GetUserByPassword(email, password string) (*models.User, error) {
	user := &models.User{}
	err := database.Cafe.QueryRow(`
		SELECT id, email, password, first_name, last_name, phone, role, student_id, balance, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1) AND archived_at IS NULL`, email).
		Scan(&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
			&user.Phone, &user.Role, &user.StudentID, &user.Balance, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, fmt.Errorf("incorrect password")
	}
	return user, nil
}

func GetUserByID(id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	err := database.Cafe.QueryRow(`
		SELECT id, email, password, first_name, last_name, phone, role, student_id, balance, created_at, updated_at
		FROM users
		WHERE id = $1 AND archived_at IS NULL`, id).
		Scan(&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
			&user.Phone, &user.Role, &user.StudentID, &user.Balance, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func ListUsers() ([]models.User, error) {
	rows, err := database.Cafe.Query(`
		SELECT id, email, first_name, last_name, phone, role, student_id, balance, created_at, updated_at
		FROM users
		WHERE archived_at IS NULL
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Phone,
			&u.Role, &u.StudentID, &u.Balance, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func UpdateUser(id uuid.UUID, firstName, lastName, phone string, role models.Role, studentID *string) error {
	res, err := database.Cafe.Exec(`
		UPDATE users
		SET first_name = $2, last_name = $3, phone = $4, role = $5, student_id = $6, updated_at = now()
		WHERE id = $1 AND archived_at IS NULL`,
		id, firstName, lastName, phone, role, studentID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// ArchiveUser soft-deletes so historical orders keep a valid reference.
func ArchiveUser(id uuid.UUID) error {
	res, err := database.Cafe.Exec(`
		UPDATE users SET archived_at = now()
		WHERE id = $1 AND archived_at IS NULL`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func TopUpBalance(studentID string, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := database.Cafe.QueryRow(`
		UPDATE users
		SET balance = balance + $2, updated_at = now()
		WHERE student_id = $1 AND archived_at IS NULL
		RETURNING balance`, studentID, amount).Scan(&balance)
	return balance, err
}

// DebitBalance performs the check-and-debit as a single conditional UPDATE so
// two concurrent settlements cannot both pass with funds for only one. A miss
// is disambiguated: an archived or deleted account reports ErrUserArchived,
// not ErrInsufficientBalance.
func DebitBalance(tx *sql.Tx, userID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRow(`
		UPDATE users
		SET balance = balance - $2, updated_at = now()
		WHERE id = $1 AND balance >= $2 AND archived_at IS NULL
		RETURNING balance`, userID, amount).Scan(&balance)
	if err == sql.ErrNoRows {
		var live bool
		if err := tx.QueryRow(`
			SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND archived_at IS NULL)`, userID).Scan(&live); err != nil {
			return decimal.Zero, err
		}
		if !live {
			return decimal.Zero, ErrUserArchived
		}
		return decimal.Zero, ErrInsufficientBalance
	}
	return balance, err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
