package handlers

import (
	"errors"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const dateLayout = "2006-01-02"

const (
	modeCriteria = "criteria"
	modeText     = "text"
)

// EntriesQuery holds the raw query string of GET /entries.
type EntriesQuery struct {
	Description string
	DueDateFrom string
	DueDateTo   string
	Page        string
	Size        string
	Mode        string
}

func (q EntriesQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.DueDateFrom, validation.Date(dateLayout)),
		validation.Field(&q.DueDateTo, validation.Date(dateLayout)),
		validation.Field(&q.Page, is.Digit),
		validation.Field(&q.Size, is.Digit, validation.By(positive)),
		validation.Field(&q.Mode, validation.In(modeCriteria, modeText)),
	)
}

func positive(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}
