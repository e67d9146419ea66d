package store

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/bunchhieng/shelf/internal/model"
)

var validate = validator.New()

type tagRequest struct {
	Name string `validate:"required,max=50"`
}

// TabRequest describes a tab to create. Icon defaults to
// model.DefaultTabIcon.
type TabRequest struct {
	Name        string `json:"name" validate:"required,max=64"`
	Icon        string `json:"icon,omitempty" validate:"omitempty,max=32"`
	Description string `json:"description,omitempty" validate:"max=280"`
}

func check(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidArgument, err)
	}
	return nil
}
