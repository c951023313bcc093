// BiGAnts: Bi-clustering Results Analysis Library
// Copyright (c) 2022 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/ptra/blob/master/LICENSE.txt>.

package mygene

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Cache stores resolved gene symbols in an SQLite database, so that repeated runs do not query MyGene.info again. IDs
// that the service could not resolve are stored with an empty symbol.
type Cache struct {
	db *sql.DB
}

const cacheSchema = `CREATE TABLE IF NOT EXISTS symbols (
	scope   TEXT NOT NULL,
	species TEXT NOT NULL,
	query   TEXT NOT NULL,
	symbol  TEXT NOT NULL,
	PRIMARY KEY (scope, species, query)
)`

// OpenCache opens or creates a cache database. The path ":memory:" gives a cache that lives as long as the process.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening symbol cache %s: %w", path, err)
	}
	// a single connection keeps in-memory databases shared and serializes writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating symbol cache %s: %w", path, err)
	}
	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Lookup returns the cached symbols for ids. IDs that are not in the cache are absent from the result; IDs that are
// known to have no symbol map to the empty string.
func (c *Cache) Lookup(ctx context.Context, scope, species string, ids []string) (map[string]string, error) {
	stmt, err := c.db.PrepareContext(ctx, `SELECT symbol FROM symbols WHERE scope = ? AND species = ? AND query = ?`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	symbols := map[string]string{}
	for _, id := range ids {
		var symbol string
		err := stmt.QueryRowContext(ctx, scope, species, id).Scan(&symbol)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("looking up %s in symbol cache: %w", id, err)
		}
		symbols[id] = symbol
	}
	return symbols, nil
}

// Store adds or replaces symbols in the cache.
func (c *Cache) Store(ctx context.Context, scope, species string, symbols map[string]string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO symbols (scope, species, query, symbol) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for id, symbol := range symbols {
		if _, err := stmt.ExecContext(ctx, scope, species, id, symbol); err != nil {
			tx.Rollback()
			return fmt.Errorf("storing %s in symbol cache: %w", id, err)
		}
	}
	return tx.Commit()
}
