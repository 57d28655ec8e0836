package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate record")
)

// ApplicationFilter narrows an application listing. Empty fields do not filter.
type ApplicationFilter struct {
	// Status is matched exactly.
	Status string
	// Company is a case-insensitive substring.
	Company string
}

// ProgressPatch carries the flags a caller supplied. Nil means leave as is.
type ProgressPatch struct {
	Solved     *bool
	Bookmarked *bool
}

func (p ProgressPatch) Empty() bool {
	return p.Solved == nil && p.Bookmarked == nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input literal inside a LIKE/ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
