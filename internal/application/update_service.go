package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aurangzeb-bilal/update-username/internal/domain/entity"
	repo "github.com/aurangzeb-bilal/update-username/internal/domain/repository"
	"github.com/aurangzeb-bilal/update-username/pkg/helpers"
)

// Service orchestrates the username-change workflow: authorize, validate,
// fetch, mutate with protected fields preserved, persist, notify.
// It holds no mutable state between calls.
type Service struct {
	Repo         repo.UserRepository
	Auth         *Authorizer
	Notifier     Notifier
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewService(r repo.UserRepository, auth *Authorizer, notifier Notifier, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *Service {
	return &Service{
		Repo:         r,
		Auth:         auth,
		Notifier:     notifier,
		Redis:        rdb,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
	}
}

// UpdateUsernameInput is the transient request payload. Email and preferred
// language are deliberately absent: those fields are protected and only ever
// carried through from the stored record.
type UpdateUsernameInput struct {
	TargetID    string
	Username    string
	Password    string
	DisplayName string
	GivenName   string
	Surname     string
}

// UpdateResult is the terminal success value: the record's stable identifier
// and its username after the change.
type UpdateResult struct {
	ID       string
	Username string
}

func cacheKey(userID string) string {
	return "user:profile:" + userID
}

// UpdateUsername runs the whole workflow for one request. The bearer token is
// checked first; no directory access happens on a rejected token. Protected
// fields (email, preferred language) are read from the current record before
// any mutation and re-asserted before persisting, so a batch of extra fields
// riding along with the rename can never alter them.
func (s *Service) UpdateUsername(ctx context.Context, bearerToken string, in UpdateUsernameInput) (*UpdateResult, error) {
	// Authorizing
	verdict := s.Auth.Authorize(ctx, bearerToken)
	if !verdict.Accepted {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, verdict.RejectionReason)
	}

	// Validating
	if strings.TrimSpace(in.TargetID) == "" {
		return nil, fmt.Errorf("%w: target_id is required", ErrValidation)
	}
	if in.Username != "" && !ValidateUsername(in.Username) {
		return nil, fmt.Errorf("%w: username must contain only letters", ErrValidation)
	}
	if in.Password != "" && !ValidatePassword(in.Password) {
		return nil, fmt.Errorf("%w: password must be at least 6 characters and contain one of %s", ErrValidation, passwordSymbols)
	}

	// Fetching
	u, err := s.Repo.GetByID(ctx, in.TargetID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %s", ErrTargetNotFound, in.TargetID)
		}
		return nil, fmt.Errorf("%w: directory lookup failed", ErrPersistence)
	}

	// Mutating: capture protected fields and the old username before any change.
	protectedEmail := u.Email
	protectedLang := u.PreferredLanguage
	oldUsername := u.Username

	if in.Username != "" && in.Username != u.Username {
		existing, err := s.Repo.GetByUsername(ctx, in.Username)
		switch {
		case err == nil && existing.ID != u.ID:
			return nil, fmt.Errorf("%w: %s", ErrConflict, in.Username)
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("%w: directory lookup failed", ErrPersistence)
		}
		u.Username = in.Username
	}
	if in.DisplayName != "" {
		u.DisplayName = in.DisplayName
	}
	if in.GivenName != "" {
		u.GivenName = in.GivenName
	}
	if in.Surname != "" {
		u.Surname = in.Surname
	}
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: password hashing failed", ErrPersistence)
		}
		u.PasswordHash = hash
	}

	// Always re-assert the protected fields, whatever came in.
	u.Email = protectedEmail
	u.PreferredLanguage = protectedLang

	// Persisting. A write-time unique violation is the backstop for the
	// check-then-act race above and still surfaces as a conflict.
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrConflict, u.Username)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Notifying: best-effort, never rolls back the committed change.
	if s.Notifier != nil && u.Username != oldUsername && protectedEmail != "" {
		job := NotificationJob{
			To:            protectedEmail,
			RecipientName: u.Name(),
			Language:      protectedLang,
			OldUsername:   oldUsername,
			NewUsername:   u.Username,
		}
		if nErr := s.Notifier.NotifyUsernameChanged(ctx, job); nErr != nil && s.Logger != nil {
			s.Logger.WithError(nErr).WithFields(logrus.Fields{
				"user_id": u.ID,
				"to":      protectedEmail,
			}).Warn("username change notification failed")
		}
	}

	s.invalidateCache(ctx, u.ID)
	_ = s.indexUser(ctx, u)

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"user_id":      u.ID,
			"old_username": oldUsername,
			"new_username": u.Username,
			"client_id":    verdict.ClientID,
		}).Info("username updated")
	}

	return &UpdateResult{ID: u.ID, Username: u.Username}, nil
}

// GetUser returns the directory record for the read-back endpoint. The same
// bearer check as the update path applies: the record carries email and
// language, so anonymous reads are refused before any directory access.
func (s *Service) GetUser(ctx context.Context, bearerToken, id string) (*entity.User, error) {
	verdict := s.Auth.Authorize(ctx, bearerToken)
	if !verdict.Accepted {
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, verdict.RejectionReason)
	}

	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %s", ErrTargetNotFound, id)
		}
		return nil, fmt.Errorf("%w: directory lookup failed", ErrPersistence)
	}
	return u, nil
}

func (s *Service) invalidateCache(ctx context.Context, userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, cacheKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", cacheKey(userID)).Warn("cache invalidation failed")
	}
}

// indexUser mirrors the latest record into Elasticsearch, best-effort.
func (s *Service) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":                 u.ID,
		"username":           u.Username,
		"email":              u.Email,
		"display_name":       u.DisplayName,
		"preferred_language": u.PreferredLanguage,
		"updated_at":         u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}
