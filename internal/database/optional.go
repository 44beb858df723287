package database

import (
	"encoding/json"
	"strings"
)

// Optional marks a field of an update patch as present or absent.
// A present field is written even when it holds the zero value.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether it is present
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the field is present
func (o Optional[T]) IsSet() bool {
	return o.set
}

// UnmarshalJSON marks the field present whenever its key appears in the
// document, including an explicit null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.value = v
	o.set = true
	return nil
}

// MarshalJSON encodes the held value, or null when absent
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// setClauses accumulates "column = ?" fragments for a partial UPDATE
type setClauses struct {
	columns []string
	args    []any
}

func addSet[T any](s *setClauses, column string, o Optional[T]) {
	if v, ok := o.Get(); ok {
		s.columns = append(s.columns, column+" = ?")
		s.args = append(s.args, v)
	}
}

// addSetNullable writes NULL for an explicit nil
func addSetNullable[T any](s *setClauses, column string, o Optional[*T]) {
	if v, ok := o.Get(); ok {
		s.columns = append(s.columns, column+" = ?")
		s.args = append(s.args, nullable(v))
	}
}

// nullable dereferences p for binding, or returns nil for SQL NULL
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// statement builds the UPDATE for table. updated_at is refreshed when the
// table has the column, even for an empty patch.
func (s *setClauses) statement(table string, touchUpdatedAt bool, id int64) (string, []any) {
	columns := s.columns
	if touchUpdatedAt {
		columns = append(columns, "updated_at = "+nowMillis)
	}
	if len(columns) == 0 {
		// Nothing to write; keep the statement valid so it still acts as an
		// existence-independent no-op.
		columns = append(columns, "id = id")
	}
	args := append(s.args, id)
	return "UPDATE " + table + " SET " + strings.Join(columns, ", ") + " WHERE id = ?", args
}
