// Package sqlrepo implements the repositories on database/sql. Queries are
// written with "?" placeholders and rebound for the connection's dialect.
package sqlrepo

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"issue-tracking/internal/database"
	"issue-tracking/internal/models"
	"issue-tracking/internal/query"
)

type base struct {
	db      *sql.DB
	dialect query.Dialect
}

func newBase(db *database.DB) base { return base{db: db.DB, dialect: db.Dialect} }

// rebind rewrites "?" placeholders for the dialect.
func (b base) rebind(sql string) string {
	if b.dialect == query.SQLite {
		return sql
	}
	var sb strings.Builder
	n := 0
	for _, r := range sql {
		if r == '?' {
			n++
			sb.WriteString(b.dialect.Placeholder(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (b base) exec(ctx context.Context, sql string, args ...any) (int64, error) {
	res, err := b.db.ExecContext(ctx, b.rebind(sql), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// inList renders "(?, ?, ...)" for n values.
func inList(n int) string {
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", n), ", ") + ")"
}

func anyArgs(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func now() time.Time { return time.Now().UTC() }

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// people loads minimal person projections for ids. Unknown ids are absent
// from the result.
func (b base) people(ctx context.Context, ids []string) (map[string]models.PersonRef, error) {
	out := make(map[string]models.PersonRef, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := b.db.QueryContext(ctx, b.rebind(`
		SELECT id, first_name, last_name FROM users WHERE id IN `+inList(len(ids))), anyArgs(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p models.PersonRef
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// expand swaps ref for its projection when one was loaded.
func expand(ref *models.PersonRef, people map[string]models.PersonRef) *models.PersonRef {
	if ref == nil {
		return nil
	}
	if p, ok := people[ref.ID]; ok {
		return &p
	}
	return ref
}

// linkSets loads a link table into owner -> values for the given owners.
func (b base) linkSets(ctx context.Context, table, ownerCol, valueCol string, owners []string) (map[string][]string, error) {
	out := make(map[string][]string, len(owners))
	if len(owners) == 0 {
		return out, nil
	}
	rows, err := b.db.QueryContext(ctx, b.rebind(
		"SELECT "+ownerCol+", "+valueCol+" FROM "+table+
			" WHERE "+ownerCol+" IN "+inList(len(owners))+
			" ORDER BY "+ownerCol+", "+valueCol), anyArgs(owners)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var owner, value string
		if err := rows.Scan(&owner, &value); err != nil {
			return nil, err
		}
		out[owner] = append(out[owner], value)
	}
	return out, rows.Err()
}

// replaceLinks rewrites the link rows of one owner.
func (b base) replaceLinks(ctx context.Context, table, ownerCol, valueCol, owner string, values []string) error {
	if _, err := b.exec(ctx, "DELETE FROM "+table+" WHERE "+ownerCol+" = ?", owner); err != nil {
		return err
	}
	for _, v := range dedupe(values) {
		if _, err := b.exec(ctx, "INSERT INTO "+table+" ("+ownerCol+", "+valueCol+") VALUES (?, ?)", owner, v); err != nil {
			return err
		}
	}
	return nil
}

func dedupe(vals []string) []string {
	seen := make(map[string]struct{}, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func nonNil(vals []string) []string {
	if vals == nil {
		return []string{}
	}
	return vals
}
