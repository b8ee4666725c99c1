package query_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdesk/user-service/internal/query"
	"github.com/userdesk/user-service/internal/repository"
	"github.com/userdesk/user-service/internal/storetest"
	"github.com/userdesk/user-service/shared/cqrs"
	"github.com/userdesk/user-service/shared/models"
)

func newTestService(t *testing.T) (*query.UserQueryService, *repository.UserRepository) {
	t.Helper()
	db := storetest.NewDB(t)
	return query.NewUserQueryService(repository.NewSQLStore(db), nil, storetest.Logger()), repository.NewUserRepository(db)
}

func TestListUsers_SortedByID(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	for _, name := range []string{"zed", "amy", "bob"} {
		require.NoError(t, repo.Save(ctx, &models.User{Name: name, Email: name + "@test.com", Age: 20}))
	}

	users, err := svc.ListUsers(ctx, cqrs.ListUsersQuery{})
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []string{"zed", "amy", "bob"}, []string{users[0].Name, users[1].Name, users[2].Name})
	for i := 1; i < len(users); i++ {
		assert.Less(t, users[i-1].ID, users[i].ID)
	}
}

func TestListUsers_Empty(t *testing.T) {
	svc, _ := newTestService(t)

	users, err := svc.ListUsers(context.Background(), cqrs.ListUsersQuery{})
	require.NoError(t, err)
	assert.Empty(t, users)
}

// unorderedStore returns rows in reverse id order to prove the service sorts.
type unorderedStore struct{ users []models.User }

func (s unorderedStore) WithinTx(ctx context.Context, fn func(repository.UserStore) error) error {
	return fn(s)
}
func (s unorderedStore) FindAll(context.Context) ([]models.User, error) { return s.users, nil }
func (s unorderedStore) FindByID(_ context.Context, id int64) (*models.User, error) {
	return nil, &models.UserNotFoundError{ID: id}
}
func (s unorderedStore) ExistsByID(context.Context, int64) (bool, error) { return false, nil }
func (s unorderedStore) Save(context.Context, *models.User) error        { return errors.New("read only") }
func (s unorderedStore) DeleteByID(context.Context, int64) error         { return errors.New("read only") }

func TestListUsers_SortsWhateverTheStoreReturns(t *testing.T) {
	svc := query.NewUserQueryService(unorderedStore{users: []models.User{{ID: 9}, {ID: 2}, {ID: 5}}}, nil, storetest.Logger())

	users, err := svc.ListUsers(context.Background(), cqrs.ListUsersQuery{})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 9}, []int64{users[0].ID, users[1].ID, users[2].ID})
}

func TestGetUser(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	u := &models.User{Name: "Test", Email: "test@test.com", Age: 20}
	require.NoError(t, repo.Save(ctx, u))

	view, err := svc.GetUser(ctx, cqrs.GetUserQuery{UserID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, u.ID, view.ID)
	assert.Equal(t, "test@test.com", view.Email)
	assert.True(t, u.CreatedAt.Equal(view.CreatedAt))
}

func TestGetUser_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetUser(context.Background(), cqrs.GetUserQuery{UserID: -1})

	require.ErrorIs(t, err, models.ErrUserNotFound)
	assert.EqualError(t, err, "User not found by id: -1")
}
