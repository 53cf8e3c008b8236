package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/NaimurRahmanNishat/cdirts-backend/internal/model"
)

const userColumns = "id,name,email,password_hash,role,is_verified,phone,nid,password_reset_token,password_reset_expire,created_at,updated_at"

// UserRepo is the durable credential store. Password values arrive already
// hashed: hashing happens at the two call sites that introduce a password
// (registration and reset), never inside the store.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a verified user created by activation and returns its ID.
// A uniqueness violation on email/phone/nid maps to ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, is_verified, phone, nid) VALUES (?,?,?,?,?,?,?)",
		u.Name, normalizeEmail(u.Email), u.PasswordHash, u.Role, u.IsVerified, u.Phone, u.NID)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrDuplicate
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindByEmail fetches a user by normalized email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", normalizeEmail(email))
}

// FindByID fetches a user by id.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// FindByResetOTP fetches the user whose reset code matches and has not yet
// expired. An expired or unknown code is ErrNotFound; the caller cannot tell
// the two cases apart, by contract.
func (r *UserRepo) FindByResetOTP(ctx context.Context, otp string) (*model.User, error) {
	return r.findOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE password_reset_token=? AND password_reset_expire>? LIMIT 1",
		otp, time.Now().UTC())
}

// UpdateProfile patches name and/or phone, then returns the fresh row.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, phone *string) (*model.User, error) {
	set := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if name != nil {
		set = append(set, "name=?")
		args = append(args, *name)
	}
	if phone != nil {
		set = append(set, "phone=?")
		args = append(args, *phone)
	}
	if len(set) > 0 {
		args = append(args, id)
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE users SET "+strings.Join(set, ", ")+" WHERE id=?", args...); err != nil {
			if isDuplicate(err) {
				return nil, ErrDuplicate
			}
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// UpdatePassword stores a new hash and clears any outstanding reset code in
// the same statement, so a consumed OTP can never be replayed.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, password_reset_token=NULL, password_reset_expire=NULL WHERE id=?",
		hash, id)
	return err
}

// SetResetOTP stores the reset code and its expiry as a pair.
func (r *UserRepo) SetResetOTP(ctx context.Context, id uint64, otp string, expire time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_reset_token=?, password_reset_expire=? WHERE id=?",
		otp, expire.UTC(), id)
	return err
}

// ClearResetOTP removes the reset code pair (rollback after a failed delivery).
func (r *UserRepo) ClearResetOTP(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_reset_token=NULL, password_reset_expire=NULL WHERE id=?", id)
	return err
}

// List returns all users ordered by newest first. Admin-only surface.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepo) findOne(ctx context.Context, query string, args ...interface{}) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u           model.User
		phone, nid  sql.NullString
		resetToken  sql.NullString
		resetExpire sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsVerified,
		&phone, &nid, &resetToken, &resetExpire, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	if nid.Valid {
		u.NID = &nid.String
	}
	if resetToken.Valid {
		u.PasswordResetToken = &resetToken.String
	}
	if resetExpire.Valid {
		u.PasswordResetExpire = &resetExpire.Time
	}
	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
