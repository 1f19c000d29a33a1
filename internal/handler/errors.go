package handler

import (
	"net/http"

	"github.com/cortexai/datachat/internal/models"
)

// writeUpstreamError maps a failed backend or warehouse call to a response.
func writeUpstreamError(w http.ResponseWriter, what string, err error) {
	switch models.KindOf(err) {
	case models.KindBackend, models.KindWarehouse:
		models.WriteError(w, http.StatusBadGateway, what+": "+err.Error())
	case models.KindIdentity:
		models.WriteError(w, http.StatusBadGateway, what+": identity token unavailable")
	default:
		models.WriteError(w, http.StatusInternalServerError, what+": "+err.Error())
	}
}
