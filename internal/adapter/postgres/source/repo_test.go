package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	postgres "github.com/heartmarshall/finhistory-backend/internal/adapter/postgres"
	"github.com/heartmarshall/finhistory-backend/internal/domain"
)

var sourceCols = []string{
	"id", "name", "url", "source_type", "publisher", "published_date",
	"accessed_date", "rights", "reliability_note", "created_at", "updated_at",
}

func newRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return New(postgres.Static(mock)), mock
}

func sourceRow(id uuid.UUID, url string) *pgxmock.Rows {
	now := time.Now()
	publisher := "Federal Reserve"
	return pgxmock.NewRows(sourceCols).AddRow(id, "Fed History", url, "official", &publisher,
		(*time.Time)(nil), (*time.Time)(nil), (*string)(nil), (*string)(nil), now, now)
}

func TestRepo_GetDetail(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`FROM sources s WHERE s.id = \$1`).
		WithArgs(id).
		WillReturnRows(sourceRow(id, "https://www.federalreservehistory.org/"))

	cols := []string{
		"id", "slug", "title", "event_date", "region", "category", "summary", "impact",
		"importance", "confidence", "status", "published_at", "created_at", "updated_at",
		"relevance_rank", "quote", "citation",
	}
	date := time.Date(1929, 10, 29, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`ORDER BY es.relevance_rank DESC, e.event_date DESC`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(uuid.New(), "crash-of-1929", "Crash", date, "US", "Market crash", "", "",
				5, 5, "published", &now, now, now, 9, (*string)(nil), (*string)(nil)).
			AddRow(uuid.New(), "black-monday", "Black Monday", date.AddDate(58, 0, -10), "US", "Market crash", "", "",
				4, 4, "published", &now, now, now, 2, (*string)(nil), (*string)(nil)))

	got, err := repo.GetDetail(context.Background(), id)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if got.Type != domain.SourceTypeOfficial || got.Publisher == nil {
		t.Errorf("source = %+v", got.Source)
	}
	if len(got.Events) != 2 || got.Events[0].RelevanceRank != 9 || got.Events[1].Slug != "black-monday" {
		t.Errorf("events = %+v", got.Events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_GetDetail_NotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)

	id := uuid.New()
	mock.ExpectQuery(`FROM sources s`).WithArgs(id).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetDetail(context.Background(), id)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRepo_Create_DuplicateURL(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)

	src := &domain.Source{ID: uuid.New(), Name: "BIS", URL: "https://www.bis.org/", Type: domain.SourceTypeResearch}
	mock.ExpectQuery(`INSERT INTO sources`).
		WithArgs(src.ID, "BIS", "https://www.bis.org/", "research", src.Publisher, src.PublishedDate,
			src.AccessedDate, src.Rights, src.ReliabilityNote).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "sources_url_key"})

	_, err := repo.Create(context.Background(), src)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestRepo_UpsertByURL_KeepsExistingID(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)

	existing := uuid.New()
	src := &domain.Source{ID: uuid.New(), Name: "BIS", URL: "https://www.bis.org/", Type: domain.SourceTypeResearch}
	mock.ExpectQuery(`ON CONFLICT \(url\) DO UPDATE`).
		WithArgs(src.ID, "BIS", "https://www.bis.org/", "research", src.Publisher, src.PublishedDate,
			src.AccessedDate, src.Rights, src.ReliabilityNote).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(existing))

	id, err := repo.UpsertByURL(context.Background(), src)
	if err != nil {
		t.Fatalf("UpsertByURL: %v", err)
	}
	if id != existing {
		t.Errorf("id = %s, want existing %s", id, existing)
	}
}

func TestRepo_IDsByURLs(t *testing.T) {
	t.Parallel()
	repo, mock := newRepo(t)

	id := uuid.New()
	urls := []string{"https://a", "https://b"}
	mock.ExpectQuery(`SELECT url, id FROM sources WHERE url = ANY\(\$1\)`).
		WithArgs(urls).
		WillReturnRows(pgxmock.NewRows([]string{"url", "id"}).AddRow("https://a", id))

	got, err := repo.IDsByURLs(context.Background(), urls)
	if err != nil {
		t.Fatalf("IDsByURLs: %v", err)
	}
	if got["https://a"] != id {
		t.Errorf("https://a = %s, want %s", got["https://a"], id)
	}
	if _, ok := got["https://b"]; ok {
		t.Error("unknown URL should be absent")
	}
}
