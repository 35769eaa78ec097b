package models

import (
	"context"
	"errors"
	"time"

	"github.com/HoneySecret20/aurex-backend/database"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrNotFound возвращается всеми поисковыми функциями, когда записи нет
var ErrNotFound = errors.New("record not found")

type User struct {
	ID             string    `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Email          string    `json:"email" db:"email"`
	Password       string    `json:"-" db:"password_hash"`
	ReferralCode   string    `json:"referral_code" db:"referral_code"`
	ReferredBy     string    `json:"referred_by,omitempty" db:"referred_by"`
	Paid           bool      `json:"paid" db:"paid"`
	Balance        int64     `json:"balance" db:"balance"`
	ReferralsCount int       `json:"referrals_count" db:"referrals_count"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

const userColumns = `id, username, email, password_hash, referral_code, COALESCE(referred_by, ''), paid, balance, referrals_count, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.ReferralCode, &user.ReferredBy, &user.Paid,
		&user.Balance, &user.ReferralsCount, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(database.Pool.QueryRow(ctx, query, email))
}

func FindUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(database.Pool.QueryRow(ctx, query, username))
}

func FindUserByReferralCode(ctx context.Context, code string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1`
	return scanUser(database.Pool.QueryRow(ctx, query, code))
}

// CreateUser регистрирует пользователя. referredBy – чужой реферальный
// код; он не проверяется при регистрации (код может оказаться битым,
// тогда каскад просто не сработает).
func CreateUser(ctx context.Context, username, email, password, referralCode, referredBy string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO users (username, email, password_hash, referral_code, referred_by)
	  VALUES ($1, $2, $3, $4, NULLIF($5, ''))
	  RETURNING ` + userColumns
	return scanUser(database.Pool.QueryRow(ctx, query, username, email, hash, referralCode, referredBy))
}
