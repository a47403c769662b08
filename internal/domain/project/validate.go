package project

import (
	"fmt"

	"github.com/briefdeck/briefdeck/internal/domain"
)

func errEmptyField(name string) error {
	return fmt.Errorf("%w: %s is required", domain.ErrValidation, name)
}
