package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ghuser/stockledger/services/system/domain"
)

// Setting defaults.
const (
	DefaultCompanyName       = "Inventory System"
	DefaultLowStockThreshold = 5
)

// Threshold is a stock level. It decodes from a JSON number or a numeric
// string, the form older settings documents carry, and encodes as a number.
type Threshold int

// UnmarshalJSON implements json.Unmarshaler.
func (t *Threshold) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*t = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("lowStockThreshold %q is not a number", s)
		}
		*t = Threshold(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("lowStockThreshold: %w", err)
	}
	*t = Threshold(n)
	return nil
}

// Settings is the settings document.
type Settings struct {
	CompanyName       string    `json:"companyName"`
	LowStockThreshold Threshold `json:"lowStockThreshold"`
	DarkMode          bool      `json:"darkMode"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		CompanyName:       DefaultCompanyName,
		LowStockThreshold: DefaultLowStockThreshold,
	}
}

// WithDefaults fills the fields a stored document left empty.
func (s Settings) WithDefaults() Settings {
	s.CompanyName = strings.TrimSpace(s.CompanyName)
	if s.CompanyName == "" {
		s.CompanyName = DefaultCompanyName
	}
	if s.LowStockThreshold < 1 {
		s.LowStockThreshold = DefaultLowStockThreshold
	}
	return s
}

// Validate checks settings about to be saved.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.CompanyName) == "" {
		return fmt.Errorf("%w: companyName is required", domain.ErrInvalidSettings)
	}
	if s.LowStockThreshold < 1 {
		return fmt.Errorf("%w: lowStockThreshold must be at least 1", domain.ErrInvalidSettings)
	}
	return nil
}

// Threshold returns the low-stock threshold as an int.
func (s Settings) Threshold() int { return int(s.LowStockThreshold) }
