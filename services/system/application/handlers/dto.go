package handlers

import "github.com/ghuser/stockledger/services/system/domain/models"

// SettingsRequest is the body of PUT /settings. lowStockThreshold accepts a
// number or a numeric string.
type SettingsRequest struct {
	CompanyName       string           `json:"companyName"       validate:"required,max=255"`
	LowStockThreshold models.Threshold `json:"lowStockThreshold" validate:"gte=1"              swaggertype:"integer"`
	DarkMode          bool             `json:"darkMode"`
}

func (r SettingsRequest) settings() models.Settings {
	return models.Settings{
		CompanyName:       r.CompanyName,
		LowStockThreshold: r.LowStockThreshold,
		DarkMode:          r.DarkMode,
	}
}

// SettingsResponse is the stored settings document.
type SettingsResponse struct {
	CompanyName       string `json:"companyName"`
	LowStockThreshold int    `json:"lowStockThreshold"`
	DarkMode          bool   `json:"darkMode"`
} // @name Settings

func toResponse(s models.Settings) SettingsResponse {
	return SettingsResponse{
		CompanyName:       s.CompanyName,
		LowStockThreshold: s.Threshold(),
		DarkMode:          s.DarkMode,
	}
}

// ImportResponse reports what an import replaced.
type ImportResponse struct {
	Kind     string `json:"kind"`
	Products int    `json:"products"`
	Sales    int    `json:"sales"`
	Settings bool   `json:"settings"`
} // @name ImportResult

func toImportResponse(r models.ImportResult) ImportResponse {
	return ImportResponse{Kind: string(r.Kind), Products: r.Products, Sales: r.Sales, Settings: r.Settings}
}
