package application

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/prasetyodwi/user-auth-service/internal/domain/entity"
	repo "github.com/prasetyodwi/user-auth-service/internal/domain/repository"
	"github.com/prasetyodwi/user-auth-service/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
)

// Service orchestrates the four account use cases: register, login,
// get profile and update profile. It holds no per-request state; the
// signed token carries all session state.
type Service struct {
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
}

func NewService(r repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *Service {
	return &Service{Repo: r, JWT: jwt, Logger: logger, ES: es, ESUsersIndex: esUsersIndex}
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	DateOfBirth time.Time
	Phone       string
}

// Register creates a new account. The email pre-check is advisory; a
// concurrent insert losing the race against the unique constraint is
// surfaced as the same ErrEmailTaken.
func (s *Service) Register(ctx context.Context, in RegisterInput) (int64, error) {
	_, err := s.Repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return 0, ErrEmailTaken
	case !errors.Is(err, repo.ErrNotFound):
		return 0, err
	}

	id, err := s.Repo.Create(ctx, in.Name, in.Email, in.Password, in.DateOfBirth, in.Phone)
	if errors.Is(err, repo.ErrDuplicateEmail) {
		return 0, ErrEmailTaken
	}
	if err != nil {
		return 0, err
	}

	if s.ES != nil && s.ESUsersIndex != "" {
		if u, gerr := s.Repo.GetByID(ctx, id); gerr == nil {
			s.indexUser(ctx, u)
		}
	}
	return id, nil
}

type LoginResult struct {
	Token       string
	TokenExpiry time.Time
	User        *entity.User
}

// Login verifies credentials and issues a signed token. A missing user
// and a wrong password produce the same error so callers cannot probe
// which emails are registered.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.GenerateToken(u)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, err
	}
	return &LoginResult{Token: token, TokenExpiry: exp, User: u}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name        string
	DateOfBirth time.Time
	Phone       string
}

// UpdateProfile changes the three mutable fields. Role, email and the
// password hash are untouchable through this path.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) error {
	updated, err := s.Repo.UpdateProfile(ctx, userID, in.Name, in.DateOfBirth, in.Phone)
	if err != nil {
		return err
	}
	if !updated {
		return ErrUserNotFound
	}

	if s.ES != nil && s.ESUsersIndex != "" {
		if u, gerr := s.Repo.GetByID(ctx, userID); gerr == nil {
			s.indexUser(ctx, u)
		}
	}
	return nil
}

// indexUser mirrors the public projection into Elasticsearch. Indexing
// is best-effort; the relational table stays the source of record.
func (s *Service) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	b, _ := json.Marshal(u.Public())
	req := esapi.IndexRequest{
		Index:      s.ESUsersIndex,
		DocumentID: strconv.FormatInt(u.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

// SearchUsers performs a simple multi_match search on email and name.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
