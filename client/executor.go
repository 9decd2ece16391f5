package client

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Result holds whatever the caller's connection returned, untouched.
//
// SQL executors fill Columns and Rows; the document executor fills
// Documents. Values are exactly what the driver produced: the SDK performs
// no coercion, renaming, or filtering on result data.
type Result struct {
	Columns   []string
	Rows      [][]any
	Documents []map[string]any
}

// Executor runs a translated artifact against a database connection. The
// connection is owned by the caller: the SDK never retains it beyond the
// call and imposes no locking on it, so its concurrency safety is the
// caller's concern (database/sql pools are already safe; a bare session
// handle may not be).
type Executor interface {
	Execute(ctx context.Context, artifact *Artifact) (*Result, error)
}

// SQLExecutor executes SQL artifacts against a *sql.DB.
type SQLExecutor struct {
	db *sql.DB
}

// NewSQLExecutor wraps a database/sql handle. Works with any registered
// driver; see the dbconn package for a pgx-backed opener.
func NewSQLExecutor(db *sql.DB) *SQLExecutor {
	return &SQLExecutor{db: db}
}

// Execute runs the artifact's query string verbatim and scans every row
// generically.
func (e *SQLExecutor) Execute(ctx context.Context, artifact *Artifact) (*Result, error) {
	if !artifact.Family.IsSQL() {
		return nil, fmt.Errorf("SQL executor cannot run %s artifact", artifact.Family)
	}
	if artifact.Query == "" {
		return nil, fmt.Errorf("artifact has no query string")
	}

	rows, err := e.db.QueryContext(ctx, artifact.Query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: columns}
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MongoExecutor executes document-store artifacts against a mongo database.
type MongoExecutor struct {
	db *mongo.Database
}

// NewMongoExecutor wraps a mongo database handle.
func NewMongoExecutor(db *mongo.Database) *MongoExecutor {
	return &MongoExecutor{db: db}
}

// Execute decodes the artifact's extended-JSON command document and runs it
// verbatim via RunCommand. When the response carries a cursor first batch
// (find/aggregate commands), the batch documents are returned; otherwise the
// raw response document is.
func (e *MongoExecutor) Execute(ctx context.Context, artifact *Artifact) (*Result, error) {
	if artifact.Family.IsSQL() {
		return nil, fmt.Errorf("mongo executor cannot run %s artifact", artifact.Family)
	}
	if len(artifact.Command) == 0 {
		return nil, fmt.Errorf("artifact has no command document")
	}

	var cmd bson.D
	if err := bson.UnmarshalExtJSON(artifact.Command, true, &cmd); err != nil {
		return nil, fmt.Errorf("decoding command document: %w", err)
	}

	var response bson.M
	if err := e.db.RunCommand(ctx, cmd).Decode(&response); err != nil {
		return nil, err
	}

	result := &Result{}
	if batch := firstBatch(response); batch != nil {
		for _, doc := range batch {
			result.Documents = append(result.Documents, doc)
		}
		return result, nil
	}
	result.Documents = append(result.Documents, response)
	return result, nil
}

// firstBatch pulls cursor.firstBatch out of a command response, if present.
func firstBatch(response bson.M) []map[string]any {
	cursor, ok := response["cursor"].(bson.M)
	if !ok {
		return nil
	}
	batch, ok := cursor["firstBatch"].(bson.A)
	if !ok {
		return nil
	}
	docs := make([]map[string]any, 0, len(batch))
	for _, item := range batch {
		if doc, ok := item.(bson.M); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}
