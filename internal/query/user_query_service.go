package query

import (
	"context"
	"log/slog"
	"sort"

	"github.com/userdesk/user-service/internal/mapper"
	"github.com/userdesk/user-service/internal/repository"
	"github.com/userdesk/user-service/shared/cqrs"
	"github.com/userdesk/user-service/shared/models"
)

// UserQueryService reads users from the store, serving single-user lookups
// from the Redis view cache when it holds them.
type UserQueryService struct {
	store repository.Store
	cache *repository.UserViewCache
	log   *slog.Logger
}

// NewUserQueryService wires the service. cache may be nil.
func NewUserQueryService(store repository.Store, cache *repository.UserViewCache, log *slog.Logger) *UserQueryService {
	if log == nil {
		log = slog.Default()
	}
	return &UserQueryService{store: store, cache: cache, log: log}
}

// ListUsers returns every user ordered by ascending id.
func (s *UserQueryService) ListUsers(ctx context.Context, _ cqrs.ListUsersQuery) ([]models.UserView, error) {
	s.log.Debug("listing users")
	var users []models.User
	err := s.store.WithinTx(ctx, func(store repository.UserStore) error {
		var err error
		users, err = store.FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	views := mapper.ToViews(users)
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	s.log.Info("users listed", "count", len(views))
	return views, nil
}

// GetUser serves from the view cache unless q.BypassCache is set. A row read
// from the store is cached only if no write invalidated it in the meantime.
func (s *UserQueryService) GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.UserView, error) {
	if !q.BypassCache {
		if view, ok := s.cache.Get(ctx, q.UserID); ok {
			return view, nil
		}
	}

	var user *models.User
	err := s.store.WithinTx(ctx, func(store repository.UserStore) error {
		var err error
		user, err = store.FindByID(ctx, q.UserID)
		return err
	})
	if err != nil {
		if _, ok := models.NotFoundID(err); ok {
			s.log.Error("user not found", "user_id", q.UserID)
		}
		return nil, err
	}

	view := mapper.ToView(user)
	s.cache.Fill(ctx, view)
	return view, nil
}
