package integration

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	kaiwadb "github.com/kaiwadb/kaiwadb-go"
)

func usersDocument(t *testing.T) *kaiwadb.Document {
	t.Helper()
	doc, err := kaiwadb.NewDocument("users", "tbl_users_legacy", []kaiwadb.Field{
		kaiwadb.MustField("id", kaiwadb.Int, kaiwadb.WithPhysicalName("cust_id_pk")),
		kaiwadb.MustField("email", kaiwadb.String, kaiwadb.WithPhysicalName("email_addr")),
		kaiwadb.MustField("role", kaiwadb.Enum,
			kaiwadb.WithPhysicalName("role_type"),
			kaiwadb.WithEnum(
				kaiwadb.EnumMember{Name: "CUSTOMER", Value: 1},
				kaiwadb.EnumMember{Name: "ADMIN", Value: 2},
			),
		),
	}, kaiwadb.WithDocDescription("Registered platform users"))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

// openFixtureDB creates an in-memory SQLite database matching the legacy
// physical schema, seeded with a few rows.
func openFixtureDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	stmts := []string{
		`CREATE TABLE tbl_users_legacy (
			cust_id_pk INTEGER PRIMARY KEY,
			email_addr TEXT NOT NULL,
			role_type  INTEGER NOT NULL
		)`,
		`INSERT INTO tbl_users_legacy (cust_id_pk, email_addr, role_type) VALUES
			(1, 'alice@example.com', 2),
			(2, 'bob@example.com', 1),
			(3, 'carol@example.com', 2)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seeding fixture db: %v", err)
		}
	}
	return db
}

func TestRunAgainstLiveService(t *testing.T) {
	session := newSession(t, kaiwadb.SQLite(""), usersDocument(t))
	db := openFixtureDB(t)

	result, err := session.Run(context.Background(), "find all admin users",
		kaiwadb.NewSQLExecutor(db))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// The fixture has exactly two admins (role_type = 2). The remote owns the
	// query shape, so assert on the data, not the SQL text.
	if len(result.Rows) != 2 {
		t.Errorf("got %d rows, want 2 admins: %v", len(result.Rows), result.Rows)
	}
}

func TestTranslateReturnsEngineMatchedArtifact(t *testing.T) {
	session := newSession(t, kaiwadb.SQLite(""), usersDocument(t))

	artifact, err := session.Translate(context.Background(), "count users by role")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if artifact.Family != "sqlite" {
		t.Errorf("artifact family = %q, want sqlite", artifact.Family)
	}
	if artifact.Query == "" {
		t.Error("artifact has no query string")
	}
}

func TestSessionSurvivesTranslationFailure(t *testing.T) {
	session := newSession(t, kaiwadb.SQLite(""), usersDocument(t))
	db := openFixtureDB(t)

	// A deliberately unanswerable prompt. Whatever the remote replies, the
	// session must stay usable afterwards.
	_, err := session.Run(context.Background(), "qwzx frobnicate the blorps",
		kaiwadb.NewSQLExecutor(db))
	if err != nil {
		var translationErr *kaiwadb.QueryTranslationError
		if !errors.As(err, &translationErr) && !kaiwadb.IsRetryableError(err) {
			t.Fatalf("unexpected error type %T: %v", err, err)
		}
	}

	if _, err := session.Run(context.Background(), "list all users",
		kaiwadb.NewSQLExecutor(db)); err != nil {
		t.Errorf("session unusable after failed prompt: %v", err)
	}
}

func TestInvalidKeyFailsLocally(t *testing.T) {
	skipIfNoCredentials(t)

	_, err := kaiwadb.New(
		kaiwadb.WithDocuments(usersDocument(t)),
		kaiwadb.WithEngine(kaiwadb.SQLite("")),
		kaiwadb.WithAPIKey("not a valid key"),
	)
	var authErr *kaiwadb.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("New() error = %T (%v), want *AuthenticationError", err, err)
	}
}
