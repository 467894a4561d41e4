package inventory

import (
	"slices"

	"github.com/vbonduro/camstock/internal/domain"
)

// Op names a staged operation.
type Op int

const (
	OpInsert Op = iota
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// staging holds entities pending one operation, unique by key, in the order
// they were first staged.
type staging[T domain.Entity] struct {
	items []T
}

func (s *staging[T]) put(e T) {
	for i := range s.items {
		if s.items[i].Key() == e.Key() {
			s.items[i] = e
			return
		}
	}
	s.items = append(s.items, e)
}

func (s *staging[T]) has(id int64) bool {
	return slices.ContainsFunc(s.items, func(e T) bool { return e.Key() == id })
}

func (s *staging[T]) remove(id int64) bool {
	for i := range s.items {
		if s.items[i].Key() == id {
			s.items = slices.Delete(s.items, i, i+1)
			return true
		}
	}
	return false
}

func (s *staging[T]) snapshot() []T {
	return slices.Clone(s.items)
}

func (s *staging[T]) len() int {
	return len(s.items)
}

func (s *staging[T]) clear() {
	s.items = nil
}
