package core

import "fmt"

// EngineFamily identifies the database dialect the caller's connection
// speaks. It is pure metadata: the SDK performs no dialect-specific logic
// locally, the family is sent to the remote service so it can target the
// right query language, and it tags the returned artifact.
type EngineFamily string

const (
	FamilyPostgreSQL EngineFamily = "postgresql"
	FamilyMySQL      EngineFamily = "mysql"
	FamilyMariaDB    EngineFamily = "mariadb"
	FamilySQLite     EngineFamily = "sqlite"
	FamilyOracle     EngineFamily = "oracle"
	FamilyMSSQL      EngineFamily = "mssql"
	FamilyMongo      EngineFamily = "mongodb"
)

var knownFamilies = map[EngineFamily]bool{
	FamilyPostgreSQL: true,
	FamilyMySQL:      true,
	FamilyMariaDB:    true,
	FamilySQLite:     true,
	FamilyOracle:     true,
	FamilyMSSQL:      true,
	FamilyMongo:      true,
}

// IsSQL reports whether the family speaks SQL (as opposed to a document
// store command language).
func (f EngineFamily) IsSQL() bool {
	return knownFamilies[f] && f != FamilyMongo
}

// Engine describes the target database dialect and version.
//
// Version is free-form ("16", "8.0.36") and passed through to the remote
// service verbatim; it may be empty.
type Engine struct {
	Family  EngineFamily `json:"family"`
	Version string       `json:"version,omitempty"`
}

// Validate checks that the engine family is one the remote service knows.
func (e Engine) Validate() error {
	if !knownFamilies[e.Family] {
		return NewSchemaDefinitionError("", "", fmt.Sprintf("unknown engine family %q", e.Family))
	}
	return nil
}

func (e Engine) String() string {
	if e.Version == "" {
		return string(e.Family)
	}
	return fmt.Sprintf("%s %s", e.Family, e.Version)
}

// PostgreSQL returns an engine descriptor for PostgreSQL.
func PostgreSQL(version string) Engine { return Engine{Family: FamilyPostgreSQL, Version: version} }

// MySQL returns an engine descriptor for MySQL.
func MySQL(version string) Engine { return Engine{Family: FamilyMySQL, Version: version} }

// MariaDB returns an engine descriptor for MariaDB.
func MariaDB(version string) Engine { return Engine{Family: FamilyMariaDB, Version: version} }

// SQLite returns an engine descriptor for SQLite.
func SQLite(version string) Engine { return Engine{Family: FamilySQLite, Version: version} }

// Oracle returns an engine descriptor for Oracle Database.
func Oracle(version string) Engine { return Engine{Family: FamilyOracle, Version: version} }

// MSSQL returns an engine descriptor for Microsoft SQL Server.
func MSSQL(version string) Engine { return Engine{Family: FamilyMSSQL, Version: version} }

// Mongo returns an engine descriptor for MongoDB.
func Mongo(version string) Engine { return Engine{Family: FamilyMongo, Version: version} }
