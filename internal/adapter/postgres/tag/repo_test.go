package tag

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	postgres "github.com/heartmarshall/finhistory-backend/internal/adapter/postgres"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

func newRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return New(postgres.Static(mock)), mock
}

func TestRepo_Create(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)

	in := &domain.Tag{ID: uuid.New(), Slug: "banking-crisis", Name: "Banking crisis"}
	mock.ExpectQuery(`INSERT INTO tags`).
		WithArgs(in.ID, in.Slug, in.Name).
		WillReturnRows(pgxmock.NewRows([]string{"id", "slug", "name"}).AddRow(in.ID, in.Slug, in.Name))

	got, err := repo.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if *got != *in {
		t.Errorf("got %+v, want %+v", got, in)
	}
}

func TestRepo_Create_Duplicate(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)

	in := &domain.Tag{ID: uuid.New(), Slug: "banking-crisis", Name: "Banking crisis"}
	mock.ExpectQuery(`INSERT INTO tags`).
		WithArgs(in.ID, in.Slug, in.Name).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), in)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestRepo_List(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT id, slug, name FROM tags`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "slug", "name"}).
			AddRow(uuid.New(), "banking-crisis", "Banking crisis").
			AddRow(uuid.New(), "market-crash", "Market crash"))

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[1].Slug != "market-crash" {
		t.Errorf("tags = %+v", got)
	}
}
