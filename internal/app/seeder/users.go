// Package seeder loads user directory entries from a YAML file and upserts
// them into the configured store.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

// userFile is the on-disk seed format:
//
//	users:
//	  - id: 6f1c...   # optional, derived from the name when empty
//	    name: Ada Admin
//	    role: ADMIN
type userFile struct {
	Users []userRecord `yaml:"users"`
}

type userRecord struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Role string `yaml:"role"`
}

// seedNamespace makes ids derived from names stable across runs.
var seedNamespace = uuid.MustParse("5b0c9e2e-7d0a-4c53-9a55-3f1de0b6a2c4")

// ParseUsers decodes a seed document. Unknown keys, duplicate ids and
// invalid roles are rejected.
func ParseUsers(r io.Reader) ([]domain.User, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f userFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	var errs []domain.FieldError
	seen := make(map[uuid.UUID]struct{}, len(f.Users))
	users := make([]domain.User, 0, len(f.Users))
	for i, rec := range f.Users {
		field := fmt.Sprintf("users[%d]", i)

		name := strings.TrimSpace(rec.Name)
		if name == "" {
			errs = append(errs, domain.FieldError{Field: field + ".name", Message: "required"})
			continue
		}
		role := domain.UserRole(strings.ToUpper(strings.TrimSpace(rec.Role)))
		if rec.Role == "" {
			role = domain.UserRoleUser
		}
		if !role.IsValid() {
			errs = append(errs, domain.FieldError{Field: field + ".role", Message: "unknown role " + rec.Role})
			continue
		}

		id := uuid.NewSHA1(seedNamespace, []byte(name))
		if rec.ID != "" {
			parsed, err := uuid.Parse(rec.ID)
			if err != nil {
				errs = append(errs, domain.FieldError{Field: field + ".id", Message: "invalid uuid"})
				continue
			}
			id = parsed
		}
		if _, dup := seen[id]; dup {
			errs = append(errs, domain.FieldError{Field: field + ".id", Message: "duplicate id " + id.String()})
			continue
		}
		seen[id] = struct{}{}

		users = append(users, domain.User{ID: id, Name: name, Role: role})
	}

	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}
	return users, nil
}

// LoadUsers reads and parses the seed file at path.
func LoadUsers(path string) ([]domain.User, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	users, err := ParseUsers(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return users, nil
}

// UserUpserter is implemented by the postgres and memory user repositories.
type UserUpserter interface {
	Upsert(ctx context.Context, u domain.User) (*domain.User, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Result summarizes a seeding run.
type Result struct {
	Upserted int
	Skipped  int
	Batches  int
	Duration time.Duration
}

// Seeder upserts users in batches, one transaction per batch.
type Seeder struct {
	log  *slog.Logger
	repo UserUpserter
	tx   txManager
	cfg  Config
}

// New creates a new Seeder.
func New(log *slog.Logger, repo UserUpserter, tx txManager, cfg Config) *Seeder {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Seeder{log: log.With("component", "seeder"), repo: repo, tx: tx, cfg: cfg}
}

// Run upserts users. With DryRun set nothing is written.
func (s *Seeder) Run(ctx context.Context, users []domain.User) (Result, error) {
	start := time.Now()

	if s.cfg.DryRun {
		s.log.Info("dry run, skipping writes", slog.Int("users", len(users)))
		return Result{Skipped: len(users), Duration: time.Since(start)}, nil
	}

	var res Result
	for from := 0; from < len(users); from += s.cfg.BatchSize {
		batch := users[from:min(from+s.cfg.BatchSize, len(users))]
		err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			for _, u := range batch {
				if _, err := s.repo.Upsert(txCtx, u); err != nil {
					return fmt.Errorf("upsert user %s: %w", u.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return res, fmt.Errorf("batch %d: %w", res.Batches+1, err)
		}
		res.Upserted += len(batch)
		res.Batches++
	}

	res.Duration = time.Since(start)
	s.log.Info("users seeded",
		slog.Int("upserted", res.Upserted),
		slog.Int("batches", res.Batches),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}
