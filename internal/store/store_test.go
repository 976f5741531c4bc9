package store

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"skillparse/internal/errors"
	"skillparse/internal/types"
)

func newMockStore(t *testing.T) (*CandidateStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db, errors.NewLogger(slog.LevelError)), mock
}

func TestSave(t *testing.T) {
	s, mock := newMockStore(t)

	record := types.CandidateRecord{
		Name:          "Jane Doe",
		Skills:        []string{"React", "TypeScript"},
		FEScore:       40,
		BEScore:       20,
		Seniority:     types.SenioritySenior,
		Qualification: types.QualificationMasters,
	}

	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO candidates").
		WithArgs(sqlmock.AnyArg(), "Jane Doe", []byte(`["React","TypeScript"]`),
			40, 20, "senior", "masters").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))

	stored, err := s.Save(context.Background(), record)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if stored.ID == uuid.Nil {
		t.Error("Save() must assign a non-nil ID")
	}
	if !stored.CreatedAt.Equal(createdAt) {
		t.Errorf("CreatedAt = %v, want %v", stored.CreatedAt, createdAt)
	}
	if stored.Name != record.Name {
		t.Errorf("Name = %q", stored.Name)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSaveInsertFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO candidates").
		WillReturnError(fmt.Errorf("connection reset"))

	_, err := s.Save(context.Background(), types.CandidateRecord{Name: "X", Skills: []string{}})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.HasCode(err, errors.ErrCodeStorageFailed) {
		t.Errorf("error = %v, want STORAGE_FAILED", err)
	}
}

func TestQueryDecodesRows(t *testing.T) {
	s, mock := newMockStore(t)

	id := uuid.New()
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "name", "skills", "fe_score", "be_score", "seniority", "qualification", "created_at",
	}).AddRow(id, "Jane Doe", []byte(`["React","AWS"]`), 40, 10, "senior", "masters", createdAt)

	mock.ExpectQuery("SELECT id, name, skills, fe_score, be_score, seniority, qualification, created_at FROM candidates").
		WillReturnRows(rows)

	candidates, err := s.Query(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
	c := candidates[0]
	if c.ID != id {
		t.Errorf("ID = %v, want %v", c.ID, id)
	}
	if want := []string{"React", "AWS"}; !reflect.DeepEqual(c.Skills, want) {
		t.Errorf("Skills = %v, want %v", c.Skills, want)
	}
	if c.Seniority != types.SenioritySenior {
		t.Errorf("Seniority = %q", c.Seniority)
	}
}

func TestQueryEmptyResultIsNotNil(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, name, skills").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "skills", "fe_score", "be_score", "seniority", "qualification", "created_at",
		}))

	candidates, err := s.Query(context.Background(), Filter{Seniority: "lead"})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if candidates == nil {
		t.Error("empty result must be an empty slice, not nil")
	}
}

func intPtr(v int) *int { return &v }

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "no filter",
			filter:   Filter{},
			wantSQL:  "SELECT id, name, skills, fe_score, be_score, seniority, qualification, created_at FROM candidates ORDER BY created_at DESC",
			wantArgs: nil,
		},
		{
			name:   "seniority normalized to lowercase",
			filter: Filter{Seniority: "Senior"},
			wantSQL: "SELECT id, name, skills, fe_score, be_score, seniority, qualification, created_at FROM candidates" +
				" WHERE seniority = $1 ORDER BY created_at DESC",
			wantArgs: []any{"senior"},
		},
		{
			name:   "skill containment",
			filter: Filter{Skills: []string{"Go", "Redis"}},
			wantSQL: "SELECT id, name, skills, fe_score, be_score, seniority, qualification, created_at FROM candidates" +
				" WHERE EXISTS (SELECT 1 FROM jsonb_array_elements_text(skills) AS s(skill) WHERE lower(s.skill) = lower($1))" +
				" AND EXISTS (SELECT 1 FROM jsonb_array_elements_text(skills) AS s(skill) WHERE lower(s.skill) = lower($2))" +
				" ORDER BY created_at DESC",
			wantArgs: []any{"Go", "Redis"},
		},
		{
			name: "combined filters in stable order",
			filter: Filter{
				Skills:        []string{"Go"},
				Seniority:     "lead",
				Qualification: "phd",
				MinFEScore:    intPtr(30),
				MinBEScore:    intPtr(50),
			},
			wantSQL: "SELECT id, name, skills, fe_score, be_score, seniority, qualification, created_at FROM candidates" +
				" WHERE EXISTS (SELECT 1 FROM jsonb_array_elements_text(skills) AS s(skill) WHERE lower(s.skill) = lower($1))" +
				" AND seniority = $2 AND qualification = $3 AND fe_score >= $4 AND be_score >= $5" +
				" ORDER BY created_at DESC",
			wantArgs: []any{"Go", "lead", "phd", 30, 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotArgs := buildQuery(tt.filter)
			if gotSQL != tt.wantSQL {
				t.Errorf("sql = %q\nwant %q", gotSQL, tt.wantSQL)
			}
			if !reflect.DeepEqual(gotArgs, tt.wantArgs) {
				t.Errorf("args = %v, want %v", gotArgs, tt.wantArgs)
			}
		})
	}
}

func TestCount(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM candidates`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := s.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 42 {
		t.Errorf("Count() = %d, want 42", count)
	}
}
