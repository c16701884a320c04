// Package services contains stateless domain services for the catalog bounded context.
package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ghuser/stockledger/services/catalog/domain/models"
)

const maxTextLength = 255

// ValidateText enforces the rules shared by names and categories:
//   - Not blank after trimming
//   - At most 255 characters
//   - No control characters
func ValidateText(field, s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("%s is required", field)
	}
	if len([]rune(s)) > maxTextLength {
		return fmt.Errorf("%s must not exceed %d characters", field, maxTextLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("%s must not contain control characters", field)
		}
	}
	return nil
}

// ValidateDraft checks a draft before it becomes a stored product. Stock may
// only go negative through sales, so drafts with negative stock are rejected.
func ValidateDraft(d models.Draft) error {
	var errs []error
	if err := ValidateText("name", d.Name); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateText("category", d.Category); err != nil {
		errs = append(errs, err)
	}
	if d.Price.IsNegative() {
		errs = append(errs, errors.New("price must not be negative"))
	}
	if d.Stock < 0 {
		errs = append(errs, errors.New("stock must not be negative"))
	}
	return errors.Join(errs...)
}

// ValidateProduct is ValidateDraft plus an id check.
func ValidateProduct(p models.Product) error {
	if p.ID <= 0 {
		return errors.Join(errors.New("id must be positive"), ValidateDraft(DraftOf(p)))
	}
	return ValidateDraft(DraftOf(p))
}

// DraftOf strips the id from p.
func DraftOf(p models.Product) models.Draft {
	return models.Draft{Name: p.Name, Category: p.Category, Price: p.Price, Stock: p.Stock, Image: p.Image}
}

// AssignMissingIDs gives every product with a non-positive id a fresh one from
// next, which receives the largest id seen so far. Duplicate ids are
// reassigned too, so the result is always unique.
func AssignMissingIDs(products []models.Product, next func(floor int64) int64) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)

	var floor int64
	for _, p := range out {
		if p.ID > floor {
			floor = p.ID
		}
	}
	seen := make(map[int64]bool, len(out))
	for i := range out {
		if out[i].ID <= 0 || seen[out[i].ID] {
			out[i].ID = next(floor)
			floor = out[i].ID
		}
		seen[out[i].ID] = true
	}
	return out
}
