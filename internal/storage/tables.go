package storage

import (
	"database/sql"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/pable/go-cs-mapviz/internal/table"
)

// RoundColumn is extracted from every stored row so rounds can be selected
// without decoding cells.
const RoundColumn = "round_num"

// AllRounds selects every row in GetTable.
const AllRounds = 0

// InsertTable stores t under (hash, name), replacing any previous copy.
// Cells are kept as JSON arrays in column order.
func (db *DB) InsertTable(hash, name string, t *table.Table) error {
	colsJSON := []byte("[]")
	var err error
	for _, c := range t.Columns() {
		if colsJSON, err = sjson.SetBytes(colsJSON, "-1", c); err != nil {
			return fmt.Errorf("encode columns: %w", err)
		}
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM event_rows WHERE demo_hash = ? AND name = ?", hash, name); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO event_tables(demo_hash, name, columns) VALUES (?, ?, ?)`,
		hash, name, string(colsJSON)); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO event_rows(demo_hash, name, idx, round_num, cells) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < t.Len(); i++ {
		cells, err := encodeRow(t, i)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i, err)
		}
		var round sql.NullInt64
		if f, ok := t.Get(i, RoundColumn).Float(); ok {
			round = sql.NullInt64{Int64: int64(f), Valid: true}
		}
		if _, err := stmt.Exec(hash, name, i, round, string(cells)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func encodeRow(t *table.Table, i int) ([]byte, error) {
	buf := []byte("[]")
	var err error
	for _, c := range t.Columns() {
		v := t.Get(i, c)
		var raw any
		switch v.Kind() {
		case table.KindNumber:
			raw, _ = v.Float()
		case table.KindString:
			raw, _ = v.Text()
		case table.KindBool:
			raw, _ = v.Truth()
		}
		if buf, err = sjson.SetBytes(buf, "-1", raw); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// ListTables returns the names of the tables stored for a demo.
func (db *DB) ListTables(hash string) ([]string, error) {
	rows, err := db.conn.Query("SELECT name FROM event_tables WHERE demo_hash = ? ORDER BY name", hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// GetTable loads a stored table in insertion order. A round of AllRounds
// loads every row. Returns (nil, nil) when the table does not exist.
func (db *DB) GetTable(hash, name string, round int) (*table.Table, error) {
	var colsJSON string
	err := db.conn.QueryRow("SELECT columns FROM event_tables WHERE demo_hash = ? AND name = ?", hash, name).Scan(&colsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cols []string
	for _, c := range gjson.Parse(colsJSON).Array() {
		cols = append(cols, c.String())
	}
	t := table.New(cols...)

	q := "SELECT cells FROM event_rows WHERE demo_hash = ? AND name = ?"
	args := []any{hash, name}
	if round != AllRounds {
		q += " AND round_num = ?"
		args = append(args, round)
	}
	rows, err := db.conn.Query(q+" ORDER BY idx", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, err
		}
		if err := t.Append(decodeRow(cells)...); err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
	}
	return t, rows.Err()
}

func decodeRow(cells string) []table.Value {
	arr := gjson.Parse(cells).Array()
	out := make([]table.Value, len(arr))
	for i, r := range arr {
		switch r.Type {
		case gjson.Number:
			out[i] = table.Number(r.Float())
		case gjson.String:
			out[i] = table.String(r.Str)
		case gjson.True:
			out[i] = table.Bool(true)
		case gjson.False:
			out[i] = table.Bool(false)
		default:
			out[i] = table.Missing
		}
	}
	return out
}

// QueryRaw runs an arbitrary SQL query and returns its column names and
// rows rendered as strings. NULL renders as "".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
