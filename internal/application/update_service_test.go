package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aurangzeb-bilal/update-username/internal/domain/entity"
	repo "github.com/aurangzeb-bilal/update-username/internal/domain/repository"
	"github.com/aurangzeb-bilal/update-username/internal/infrastructure/introspection"
)

// memRepo is an in-memory UserRepository keyed by ID.
type memRepo struct {
	users       map[string]*entity.User
	updateCalls int
	updateErr   error
}

func newMemRepo(users ...*entity.User) *memRepo {
	m := &memRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		cp := *u
		m.users[u.ID] = &cp
	}
	return m
}

func (m *memRepo) FindByAttribute(ctx context.Context, attr, value string) (*entity.User, error) {
	switch attr {
	case repo.AttrID:
		return m.GetByID(ctx, value)
	case repo.AttrUsername:
		return m.GetByUsername(ctx, value)
	case repo.AttrEmail:
		return m.GetByEmail(ctx, value)
	}
	return nil, repo.ErrNotFound
}

func (m *memRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memRepo) Create(_ context.Context, u *entity.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *memRepo) Update(_ context.Context, u *entity.User) error {
	m.updateCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

// recordingNotifier captures every job handed to it.
type recordingNotifier struct {
	jobs []NotificationJob
	err  error
}

func (r *recordingNotifier) NotifyUsernameChanged(_ context.Context, job NotificationJob) error {
	r.jobs = append(r.jobs, job)
	return r.err
}

func acceptingAuthorizer() *Authorizer {
	return NewAuthorizer(&fakeIntrospector{res: &introspection.Result{
		Active:   true,
		Scope:    "profile",
		Username: "admin",
		ClientID: "client-1",
	}}, nil, ScopeAny, nil)
}

func rejectingAuthorizer() *Authorizer {
	return NewAuthorizer(&fakeIntrospector{res: &introspection.Result{Active: false}}, nil, ScopeAny, nil)
}

func alice() *entity.User {
	return &entity.User{
		ID:                "id-alice",
		Username:          "alice",
		Email:             "alice@example.com",
		DisplayName:       "Alice Example",
		PreferredLanguage: "fr",
	}
}

func bob() *entity.User {
	return &entity.User{
		ID:       "id-bob",
		Username: "bob",
		Email:    "bob@example.com",
	}
}

func TestUpdateUsernameSuccess(t *testing.T) {
	t.Parallel()

	r := newMemRepo(alice())
	n := &recordingNotifier{}
	svc := NewService(r, acceptingAuthorizer(), n, nil, nil, nil, "")

	res, err := svc.UpdateUsername(context.Background(), "token", UpdateUsernameInput{
		TargetID: "id-alice",
		Username: "alicia",
	})
	require.NoError(t, err)
	require.Equal(t, "id-alice", res.ID)
	require.Equal(t, "alicia", res.Username)

	stored, err := r.GetByID(context.Background(), "id-alice")
	require.NoError(t, err)
	require.Equal(t, "alicia", stored.Username)

	require.Len(t, n.jobs, 1)
	require.Equal(t, "alice@example.com", n.jobs[0].To)
	require.Equal(t, "fr", n.jobs[0].Language)
	require.Equal(t, "alice", n.jobs[0].OldUsername)
	require.Equal(t, "alicia", n.jobs[0].NewUsername)
}

func TestUpdateUsernamePreservesProtectedFields(t *testing.T) {
	t.Parallel()

	r := newMemRepo(alice())
	svc := NewService(r, acceptingAuthorizer(), nil, nil, nil, nil, "")

	_, err := svc.UpdateUsername(context.Background(), "token", UpdateUsernameInput{
		TargetID:    "id-alice",
		Username:    "alicia",
		DisplayName: "New Display",
		GivenName:   "Alicia",
	})
	require.NoError(t, err)

	stored, err := r.GetByID(context.Background(), "id-alice")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", stored.Email)
	require.Equal(t, "fr", stored.PreferredLanguage)
	require.Equal(t, "New Display", stored.DisplayName)
	require.Equal(t, "Alicia", stored.GivenName)
}

func TestUpdateUsernameRejectedToken(t *testing.T) {
	t.Parallel()

	r := newMemRepo(alice())
	svc := NewService(r, rejectingAuthorizer(), nil, nil, nil, nil, "")

	_, err := svc.UpdateUsername(context.Background(), "token", UpdateUsernameInput{
		TargetID: "id-alice",
		Username: "alicia",
	})
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Zero(t, r.updateCalls)

	stored, _ := r.GetByID(context.Background(), "id-alice")
	require.Equal(t, "alice", stored.Username)
}

func TestUpdateUsernameValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   UpdateUsernameInput
	}{
		{"missing target id", UpdateUsernameInput{Username: "alicia"}},
		{"username with digits", UpdateUsernameInput{TargetID: "id-alice", Username: "alicia1"}},
		{"password without symbol", UpdateUsernameInput{TargetID: "id-alice", Username: "alicia", Password: "abcdef"}},
		{"password too short", UpdateUsernameInput{TargetID: "id-alice", Username: "alicia", Password: "ab!"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			r := newMemRepo(alice())
			svc := NewService(r, acceptingAuthorizer(), nil, nil, nil, nil, "")

			_, err := svc.UpdateUsername(context.Background(), "token", tc.in)
			require.ErrorIs(t, err, ErrValidation)
			require.Zero(t, r.updateCalls)
		})
	}
}

func TestUpdateUsernameTargetNotFound(t *testing.T) {
	t.Parallel()

	r := newMemRepo()
	svc := NewService(r, acceptingAuthorizer(), nil, nil, nil, nil, "")

	_, err := svc.UpdateUsername(context.Background(), "token", UpdateUsernameInput{
		TargetID: "missing",
		Username: "alicia",
	})
	require.ErrorIs(t, err, ErrTargetNotFound)
	require.Zero(t, r.updateCalls)
}

func TestUpdateUsernameConflict(t *testing.T) {
	t.Parallel()

	r := newMemRepo(alice(), bob())
	n := &recordingNotifier{}
	svc := NewService(r, acceptingAuthorizer(), n, nil, nil, nil, "")

	_, err := svc.UpdateUsername(context.Background(), "token", UpdateUsernameInput{
		TargetID: "id-alice",
		Username: "bob",
	})
	require.ErrorIs(t, err, ErrConflict)
	require.Zero(t, r.updateCalls)
	require.Empty(t, n.jobs)

	stored, _ := r.GetByID(context.Background(), "id-alice")
	require.Equal(t, "alice", stored.Username)
}

func TestUpdateUsernameWriteTimeDuplicate(t *testing.T) {
	t.Parallel()

	r := newMemRepo(alice())
	r.updateErr = repo.ErrDuplicate
	svc := NewService(r, acceptingAuthorizer(), nil, nil, nil, nil, "")

	_, err := svc.UpdateUsername(context.Background(), "token", UpdateUsernameInput{
		TargetID: "id-alice",
		Username: "alicia",
	})
	require.ErrorIs(t, err, ErrConflict)
}

func TestUpdateUsernameSameNameSkipsConflictCheck(t *testing.T) {
	t.Parallel()

	r := newMemRepo(alice())
	n := &recordingNotifier{}
	svc := NewService(r, acceptingAuthorizer(), n, nil, nil, nil, "")

	res, err := svc.UpdateUsername(context.Background(), "token", UpdateUsernameInput{
		TargetID: "id-alice",
		Username: "alice",
	})
	require.NoError(t, err)
	require.Equal(t, "alice", res.Username)
	// No rename happened, so nothing to announce.
	require.Empty(t, n.jobs)
}

func TestUpdateUsernameNotificationFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	r := newMemRepo(alice())
	n := &recordingNotifier{err: errors.New("smtp down")}
	svc := NewService(r, acceptingAuthorizer(), n, nil, nil, nil, "")

	res, err := svc.UpdateUsername(context.Background(), "token", UpdateUsernameInput{
		TargetID: "id-alice",
		Username: "alicia",
	})
	require.NoError(t, err)
	require.Equal(t, "alicia", res.Username)

	stored, _ := r.GetByID(context.Background(), "id-alice")
	require.Equal(t, "alicia", stored.Username)
}

func TestUpdateUsernameNoEmailNoNotification(t *testing.T) {
	t.Parallel()

	u := alice()
	u.Email = ""
	r := newMemRepo(u)
	n := &recordingNotifier{}
	svc := NewService(r, acceptingAuthorizer(), n, nil, nil, nil, "")

	_, err := svc.UpdateUsername(context.Background(), "token", UpdateUsernameInput{
		TargetID: "id-alice",
		Username: "alicia",
	})
	require.NoError(t, err)
	require.Empty(t, n.jobs)
}

func TestUpdateUsernamePasswordIsHashed(t *testing.T) {
	t.Parallel()

	r := newMemRepo(alice())
	svc := NewService(r, acceptingAuthorizer(), nil, nil, nil, nil, "")

	_, err := svc.UpdateUsername(context.Background(), "token", UpdateUsernameInput{
		TargetID: "id-alice",
		Username: "alicia",
		Password: "Secret!1",
	})
	require.NoError(t, err)

	stored, _ := r.GetByID(context.Background(), "id-alice")
	require.NotEmpty(t, stored.PasswordHash)
	require.NotEqual(t, "Secret!1", stored.PasswordHash)
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	r := newMemRepo(alice())
	svc := NewService(r, acceptingAuthorizer(), nil, nil, nil, nil, "")

	u, err := svc.GetUser(context.Background(), "token", "id-alice")
	require.NoError(t, err)
	require.Equal(t, "alice", u.Username)

	_, err = svc.GetUser(context.Background(), "token", "nope")
	require.ErrorIs(t, err, ErrTargetNotFound)
}

func TestGetUserRequiresToken(t *testing.T) {
	t.Parallel()

	fake := &fakeIntrospector{res: &introspection.Result{Active: true, Scope: "profile"}}
	auth := NewAuthorizer(fake, nil, ScopeAny, nil)
	svc := NewService(newMemRepo(alice()), auth, nil, nil, nil, nil, "")

	_, err := svc.GetUser(context.Background(), "", "id-alice")
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Zero(t, fake.calls)

	svc = NewService(newMemRepo(alice()), rejectingAuthorizer(), nil, nil, nil, nil, "")
	_, err = svc.GetUser(context.Background(), "revoked", "id-alice")
	require.ErrorIs(t, err, ErrUnauthorized)
}
