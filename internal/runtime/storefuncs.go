package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/risor-io/risor/object"

	"github.com/jward/brackets/internal/store"
)

// Store bridge functions. Rows are returned as maps of primitives since
// scripts cannot use Go struct pointers directly.

func makeIndexedFilesFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("indexed_files", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) > 1 {
			return object.Errorf("indexed_files: expected 0 or 1 arguments, got %d", len(args))
		}
		var (
			files []*store.File
			err   error
		)
		if len(args) == 1 {
			language, convErr := toString(args[0])
			if convErr != nil {
				return object.Errorf("indexed_files: %v", convErr)
			}
			files, err = s.FilesByLanguage(language)
		} else {
			files, err = s.Files()
		}
		if err != nil {
			return object.Errorf("indexed_files: %v", err)
		}

		results := []object.Object{}
		for _, f := range files {
			results = append(results, fileObject(f))
		}
		return object.NewList(results)
	})
}

// fileArg resolves a path or file id argument to a file id.
func fileArg(s *store.Store, obj object.Object) (int64, error) {
	if id, err := toInt64(obj); err == nil {
		return id, nil
	}
	path, err := toString(obj)
	if err != nil {
		return 0, fmt.Errorf("expected file path or id, got %s", obj.Type())
	}
	f, err := s.FileByPath(path)
	if err != nil {
		return 0, err
	}
	if f == nil {
		return 0, fmt.Errorf("file not indexed: %s", path)
	}
	return f.ID, nil
}

// makeIntervalsByFileFn creates "intervals_by_file".
//
// intervals_by_file(file, kind=nil) → [interval]
func makeIntervalsByFileFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("intervals_by_file", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 1 || len(args) > 2 {
			return object.Errorf("intervals_by_file: expected 1 or 2 arguments, got %d", len(args))
		}
		fileID, err := fileArg(s, args[0])
		if err != nil {
			return object.Errorf("intervals_by_file: %v", err)
		}
		var rows []*store.Interval
		if len(args) == 2 {
			kind, convErr := toString(args[1])
			if convErr != nil {
				return object.Errorf("intervals_by_file: %v", convErr)
			}
			rows, err = s.IntervalsByKind(fileID, kind)
		} else {
			rows, err = s.IntervalsByFile(fileID)
		}
		if err != nil {
			return object.Errorf("intervals_by_file: %v", err)
		}
		return intervalRowList(rows)
	})
}

// makeIntervalsAtFn creates "intervals_at".
//
// intervals_at(file, offset) → [interval] strictly containing offset, outermost first
func makeIntervalsAtFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("intervals_at", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("intervals_at", 2, len(args))
		}
		fileID, err := fileArg(s, args[0])
		if err != nil {
			return object.Errorf("intervals_at: %v", err)
		}
		offset, err := toInt64(args[1])
		if err != nil {
			return object.Errorf("intervals_at: %v", err)
		}
		rows, err := s.IntervalsContaining(fileID, int(offset))
		if err != nil {
			return object.Errorf("intervals_at: %v", err)
		}
		return intervalRowList(rows)
	})
}

func intervalRowList(rows []*store.Interval) object.Object {
	results := []object.Object{}
	for _, iv := range rows {
		m := map[string]object.Object{
			"id":         object.NewInt(iv.ID),
			"kind":       object.NewString(iv.Kind),
			"start":      object.NewInt(int64(iv.StartOffset)),
			"end":        object.NewInt(int64(iv.EndOffset)),
			"start_line": object.NewInt(int64(iv.StartLine)),
			"start_col":  object.NewInt(int64(iv.StartCol)),
			"end_line":   object.NewInt(int64(iv.EndLine)),
			"end_col":    object.NewInt(int64(iv.EndCol)),
			"depth":      object.NewInt(int64(iv.Depth)),
		}
		if iv.TagRole != "" {
			m["tag_role"] = object.NewString(iv.TagRole)
			m["tag_name"] = object.NewString(iv.TagName)
		}
		results = append(results, object.NewMap(m))
	}
	return object.NewList(results)
}

// makeFileInfoFn creates "file_info".
//
// file_info(path_or_id) → file map, or nil when not indexed
func makeFileInfoFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("file_info", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("file_info", 1, len(args))
		}
		var (
			f   *store.File
			err error
		)
		if id, idErr := toInt64(args[0]); idErr == nil {
			f, err = s.FileByID(id)
		} else if path, pathErr := toString(args[0]); pathErr == nil {
			f, err = s.FileByPath(path)
		} else {
			return object.Errorf("file_info: expected file path or id, got %s", args[0].Type())
		}
		if err != nil {
			return object.Errorf("file_info: %v", err)
		}
		if f == nil {
			return object.Nil
		}
		return fileObject(f)
	})
}

func fileObject(f *store.File) object.Object {
	return object.NewMap(map[string]object.Object{
		"id":         object.NewInt(f.ID),
		"path":       object.NewString(f.Path),
		"language":   object.NewString(f.Language),
		"hash":       object.NewString(f.Hash),
		"line_count": object.NewInt(int64(f.LineCount)),
		"size":       object.NewInt(f.Size),
	})
}

func makeFindingsByFileFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("findings_by_file", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("findings_by_file", 1, len(args))
		}
		fileID, err := fileArg(s, args[0])
		if err != nil {
			return object.Errorf("findings_by_file: %v", err)
		}
		findings, err := s.FindingsByFile(fileID)
		if err != nil {
			return object.Errorf("findings_by_file: %v", err)
		}
		results := []object.Object{}
		for _, f := range findings {
			results = append(results, object.NewMap(map[string]object.Object{
				"source":  object.NewString(f.Source),
				"kind":    object.NewString(f.Kind),
				"start":   object.NewInt(int64(f.StartOffset)),
				"end":     object.NewInt(int64(f.EndOffset)),
				"message": object.NewString(f.Message),
			}))
		}
		return object.NewList(results)
	})
}

// makeKindCountsFn creates "kind_counts".
//
// kind_counts(file=nil) → {kind: count}
func makeKindCountsFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("kind_counts", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) > 1 {
			return object.Errorf("kind_counts: expected 0 or 1 arguments, got %d", len(args))
		}
		var fileID int64
		if len(args) == 1 {
			id, err := fileArg(s, args[0])
			if err != nil {
				return object.Errorf("kind_counts: %v", err)
			}
			fileID = id
		}
		counts, err := s.KindCounts(fileID)
		if err != nil {
			return object.Errorf("kind_counts: %v", err)
		}
		m := make(map[string]object.Object, len(counts))
		for _, kc := range counts {
			m[kc.Kind] = object.NewInt(int64(kc.Count))
		}
		return object.NewMap(m)
	})
}

func makeDBQueryFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("db_query", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 1 {
			return object.Errorf("db_query: expected at least 1 argument (sql), got %d", len(args))
		}
		sqlStr, err := toString(args[0])
		if err != nil {
			return object.Errorf("db_query: %v", err)
		}
		if !strings.HasPrefix(strings.TrimSpace(strings.ToUpper(sqlStr)), "SELECT") {
			return object.Errorf("db_query: only SELECT queries are allowed")
		}

		var queryArgs []any
		for _, arg := range args[1:] {
			switch v := arg.(type) {
			case *object.Int:
				queryArgs = append(queryArgs, v.Value())
			case *object.Float:
				queryArgs = append(queryArgs, v.Value())
			case *object.String:
				queryArgs = append(queryArgs, v.Value())
			case *object.Bool:
				queryArgs = append(queryArgs, v.Value())
			case *object.NilType:
				queryArgs = append(queryArgs, nil)
			default:
				queryArgs = append(queryArgs, fmt.Sprintf("%v", arg))
			}
		}

		rows, err := s.DB().QueryContext(ctx, sqlStr, queryArgs...)
		if err != nil {
			return object.Errorf("db_query: %v", err)
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return object.Errorf("db_query: columns: %v", err)
		}
		results := []object.Object{}
		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return object.Errorf("db_query: scan: %v", err)
			}
			row := make(map[string]object.Object, len(cols))
			for i, col := range cols {
				row[col] = sqlValueToObject(values[i])
			}
			results = append(results, object.NewMap(row))
		}
		if err := rows.Err(); err != nil {
			return object.Errorf("db_query: rows: %v", err)
		}
		return object.NewList(results)
	})
}

func sqlValueToObject(v any) object.Object {
	if v == nil {
		return object.Nil
	}
	switch val := v.(type) {
	case int64:
		return object.NewInt(val)
	case float64:
		return object.NewFloat(val)
	case string:
		return object.NewString(val)
	case bool:
		return object.NewBool(val)
	case []byte:
		return object.NewString(string(val))
	default:
		return object.NewString(fmt.Sprintf("%v", val))
	}
}

func toInt64(obj object.Object) (int64, error) {
	if i, ok := obj.(*object.Int); ok {
		return i.Value(), nil
	}
	if f, ok := obj.(*object.Float); ok {
		return int64(f.Value()), nil
	}
	return 0, fmt.Errorf("expected int, got %s", obj.Type())
}

func toString(obj object.Object) (string, error) {
	if s, ok := obj.(*object.String); ok {
		return s.Value(), nil
	}
	return "", fmt.Errorf("expected string, got %s", obj.Type())
}

func errKinds(obj object.Object) error {
	return fmt.Errorf("kinds must be a string or list of strings, got %s", obj.Type())
}
