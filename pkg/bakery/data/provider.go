package data

import (
	pg "github.com/bakewell-bakery/bakewell-server/pkg/database/postgres"
)

type Provider interface {
	DatabaseData
}

// NewDataProvider returns a data provider backed by a postgres database
func NewDataProvider(dbConfig *pg.Config) (Provider, error) {
	return NewDatabaseProvider(dbConfig)
}

// NewTestDataProvider returns an in memory data provider for tests
func NewTestDataProvider() Provider {
	return NewTestDatabaseProvider()
}
