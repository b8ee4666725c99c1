package command

import (
	"context"
	"log/slog"

	"github.com/userdesk/user-service/internal/mapper"
	"github.com/userdesk/user-service/internal/repository"
	"github.com/userdesk/user-service/shared/cqrs"
	"github.com/userdesk/user-service/shared/models"
)

// UserCommandService writes user state to the store and keeps the Redis
// view cache from serving stale rows. Each command is one transaction.
type UserCommandService struct {
	store repository.Store
	cache *repository.UserViewCache
	log   *slog.Logger
}

// NewUserCommandService wires the service. cache may be nil.
func NewUserCommandService(store repository.Store, cache *repository.UserViewCache, log *slog.Logger) *UserCommandService {
	if log == nil {
		log = slog.Default()
	}
	return &UserCommandService{store: store, cache: cache, log: log}
}

func (s *UserCommandService) CreateUser(ctx context.Context, cmd cqrs.CreateUserCommand) (*models.UserView, error) {
	s.log.Debug("creating user")
	user := mapper.ToUser(cmd.Form)
	err := s.store.WithinTx(ctx, func(users repository.UserStore) error {
		return users.Save(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	view := mapper.ToView(user)
	s.cache.Fill(ctx, view)
	s.log.Info("user created", "user_id", user.ID)
	return view, nil
}

func (s *UserCommandService) UpdateUser(ctx context.Context, cmd cqrs.UpdateUserCommand) (*models.UserView, error) {
	s.log.Debug("updating user", "user_id", cmd.UserID)
	var user *models.User
	err := s.store.WithinTx(ctx, func(users repository.UserStore) error {
		found, err := users.FindByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		mapper.ApplyUpdate(cmd.Form, found)
		if err := users.Save(ctx, found); err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		s.logFailure("update", cmd.UserID, err)
		return nil, err
	}
	s.cache.Invalidate(ctx, user.ID)
	s.log.Info("user updated", "user_id", user.ID)
	return mapper.ToView(user), nil
}

func (s *UserCommandService) DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
	s.log.Debug("deleting user", "user_id", cmd.UserID)
	err := s.store.WithinTx(ctx, func(users repository.UserStore) error {
		exists, err := users.ExistsByID(ctx, cmd.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return &models.UserNotFoundError{ID: cmd.UserID}
		}
		return users.DeleteByID(ctx, cmd.UserID)
	})
	if err != nil {
		s.logFailure("delete", cmd.UserID, err)
		return err
	}
	s.cache.Invalidate(ctx, cmd.UserID)
	s.log.Info("user deleted", "user_id", cmd.UserID)
	return nil
}

func (s *UserCommandService) logFailure(op string, id int64, err error) {
	if _, ok := models.NotFoundID(err); ok {
		s.log.Error("user not found", "op", op, "user_id", id)
		return
	}
	s.log.Error("user command failed", "op", op, "user_id", id, "error", err)
}
