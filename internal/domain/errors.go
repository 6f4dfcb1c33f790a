package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrEmailTaken   = errors.New("email has already been taken")
	ErrSelfDestroy  = errors.New("can't destroy yourself")
	ErrSelfFollow   = errors.New("can't follow yourself")
	ErrSelfDemote   = errors.New("can't change your own admin flag")
	ErrNotFollower  = errors.New("relationship belongs to another user")
	ErrNotOwner     = errors.New("micropost belongs to another user")
	ErrDuplicateKey = errors.New("duplicate key")
)

// ValidationError 字段级错误：字段名 -> 提示
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// Add 同一字段只保留第一条提示
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// OrNil 没有字段错误时返回 nil
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}
