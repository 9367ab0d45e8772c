package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FromEnv builds a layer from BRACKETS_* variables. List variables are
// comma-separated.
func FromEnv(getenv func(string) string) (File, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	var f File
	var errs []error

	setString := func(target **string, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		*target = strPtr(raw)
	}
	setList := func(target **[]string, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		list := SplitList(raw)
		*target = &list
	}
	setBool := func(target **bool, key string) {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid boolean %q", key, raw))
			return
		}
		*target = boolPtr(v)
	}

	setString(&f.DB, "BRACKETS_DB")
	setString(&f.Format, "BRACKETS_FORMAT")
	setString(&f.LogLevel, "BRACKETS_LOG_LEVEL")
	setString(&f.Columns, "BRACKETS_COLUMNS")
	setList(&f.Kinds, "BRACKETS_KINDS")
	setList(&f.Languages, "BRACKETS_LANGUAGES")
	setBool(&f.Parallel, "BRACKETS_PARALLEL")
	setBool(&f.Markdown, "BRACKETS_MARKDOWN")
	setString(&f.Color, "BRACKETS_COLOR")

	if len(errs) > 0 {
		return f, errors.Join(errs...)
	}
	return f, nil
}

// SplitList splits a comma-separated list, dropping empty items.
func SplitList(raw string) []string {
	out := []string{}
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
