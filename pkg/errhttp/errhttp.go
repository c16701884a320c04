// Package errhttp maps domain sentinel errors to HTTP status codes.
// Add a case to mapErrorToStatus for each new domain sentinel error.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/pkg/httpx"
	"github.com/ghuser/stockledger/pkg/store"
	catalogdomain "github.com/ghuser/stockledger/services/catalog/domain"
	identitydomain "github.com/ghuser/stockledger/services/identity/domain"
	ledgerdomain "github.com/ghuser/stockledger/services/ledger/domain"
	reportdomain "github.com/ghuser/stockledger/services/report/domain"
	systemdomain "github.com/ghuser/stockledger/services/system/domain"
)

// WriteError maps err to an HTTP status code and writes a JSON error response.
// Uses errors.Is() so wrapped sentinel errors are matched correctly.
// Defaults to 500 Internal Server Error for unrecognized errors, whose
// message is not echoed to the client.
func WriteError(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	httpx.JSONError(w, status, msg)
}

// Status returns the HTTP status WriteError would use for err.
func Status(err error) int { return mapErrorToStatus(err) }

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, catalogdomain.ErrProductNotFound),
		errors.Is(err, ledgerdomain.ErrSaleNotFound),
		errors.Is(err, identitydomain.ErrUserNotFound):
		return http.StatusNotFound // 404

	case errors.Is(err, ledgerdomain.ErrInsufficientStock),
		errors.Is(err, identitydomain.ErrDuplicateUsername),
		errors.Is(err, store.ErrConflict):
		return http.StatusConflict // 409

	case errors.Is(err, catalogdomain.ErrInvalidProduct),
		errors.Is(err, catalogdomain.ErrInvalidImport),
		errors.Is(err, ledgerdomain.ErrEmptySale),
		errors.Is(err, ledgerdomain.ErrInvalidQuantity),
		errors.Is(err, ledgerdomain.ErrUnknownProduct),
		errors.Is(err, ledgerdomain.ErrInvalidSale),
		errors.Is(err, reportdomain.ErrInvalidWindow),
		errors.Is(err, reportdomain.ErrInvalidExport),
		errors.Is(err, systemdomain.ErrInvalidSettings),
		errors.Is(err, systemdomain.ErrInvalidImport),
		errors.Is(err, systemdomain.ErrUnknownImportKind),
		errors.Is(err, identitydomain.ErrInvalidUser):
		return http.StatusUnprocessableEntity // 422

	case errors.Is(err, identitydomain.ErrInvalidCredentials),
		errors.Is(err, identitydomain.ErrNoCurrentUser),
		errors.Is(err, auth.ErrNotAuthenticated):
		return http.StatusUnauthorized // 401

	case errors.Is(err, identitydomain.ErrLastAdmin),
		errors.Is(err, identitydomain.ErrCannotDeleteSelf),
		errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden // 403

	default:
		return http.StatusInternalServerError // 500
	}
}
