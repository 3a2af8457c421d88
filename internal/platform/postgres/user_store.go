package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/pvollan/identity-api/internal/domain"
	"github.com/pvollan/identity-api/internal/platform/logger"
	"github.com/pvollan/identity-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.UserStore.Create
// It saves a new user to the database and fills in the store-assigned ID.
// Returns store.ErrUsernameExists if the username is taken and
// store.ErrTokenExists on a token collision.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return err
	}

	query := `
		INSERT INTO users (username, password, token, status, creation_date, birth_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Password,
		user.Token,
		user.Status,
		user.CreationDate,
		user.BirthDate,
	).Scan(&user.ID)

	if err != nil {
		mapped := mapUserError(err)
		if store.IsDuplicateError(mapped) {
			log.Warn("unique constraint violation during user creation",
				slog.String("username", user.Username))
			return mapped
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return mapped
	}

	log.Info("user created successfully",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving user by ID", slog.Int64("user_id", id))

	query := `
		SELECT id, username, password, token, status, creation_date, birth_date
		FROM users
		WHERE id = $1
	`

	return s.scanUser(ctx, log, query, id)
}

// GetByUsername implements store.UserStore.GetByUsername
// The match is exact and case-sensitive.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving user by username", slog.String("username", username))

	query := `
		SELECT id, username, password, token, status, creation_date, birth_date
		FROM users
		WHERE username = $1
	`

	return s.scanUser(ctx, log, query, username)
}

// GetByToken implements store.UserStore.GetByToken
// Returns store.ErrUserNotFound if no user holds the token.
func (s *PostgresUserStore) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving user by token")

	query := `
		SELECT id, username, password, token, status, creation_date, birth_date
		FROM users
		WHERE token = $1
	`

	return s.scanUser(ctx, log, query, token)
}

// scanUser runs a single-row user query and maps the result.
func (s *PostgresUserStore) scanUser(
	ctx context.Context,
	log *slog.Logger,
	query string,
	arg any,
) (*domain.User, error) {
	var user domain.User
	var status string
	var birthDate sql.NullTime

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Password,
		&user.Token,
		&status,
		&user.CreationDate,
		&birthDate,
	)

	if err != nil {
		mapped := mapUserError(err)
		if store.IsNotFoundError(mapped) {
			log.Debug("user not found")
			return nil, mapped
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, mapped
	}

	user.Status = domain.UserStatus(status)
	if birthDate.Valid {
		d := birthDate.Time
		user.BirthDate = &d
	}

	return &user, nil
}

// Update implements store.UserStore.Update
// It writes every mutable column of the user row.
// Returns store.ErrUserNotFound if the user does not exist and
// store.ErrUsernameExists if renaming onto a taken username.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		return err
	}

	query := `
		UPDATE users
		SET username = $1, password = $2, status = $3, birth_date = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		user.Username,
		user.Password,
		user.Status,
		user.BirthDate,
		user.ID,
	)

	if err != nil {
		mapped := mapUserError(err)
		if store.IsDuplicateError(mapped) {
			log.Warn("unique constraint violation during user update",
				slog.Int64("user_id", user.ID),
				slog.String("username", user.Username))
			return mapped
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		return mapped
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("user not found for update", slog.Int64("user_id", user.ID))
		return store.ErrUserNotFound
	}

	log.Info("user updated successfully",
		slog.Int64("user_id", user.ID),
		slog.String("status", string(user.Status)))
	return nil
}

// List implements store.UserStore.List
// It retrieves all users ordered by ID. Returns an empty slice when the
// table is empty.
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, username, password, token, status, creation_date, birth_date
		FROM users
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query users", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		var status string
		var birthDate sql.NullTime

		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Password,
			&user.Token,
			&status,
			&user.CreationDate,
			&birthDate,
		)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, err
		}

		user.Status = domain.UserStatus(status)
		if birthDate.Valid {
			d := birthDate.Time
			user.BirthDate = &d
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if users == nil {
		users = []*domain.User{}
	}

	log.Debug("listed users", slog.Int("count", len(users)))
	return users, nil
}
