package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-dtos"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

// pathID parses the {id} path variable. A malformed id is answered with
// 400 and ok=false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	return parseIDOrRespond(w, mux.Vars(r)["id"], "id")
}

// queryID parses a numeric query parameter such as ?assetId=1.
func queryID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	return parseIDOrRespond(w, r.URL.Query().Get(name), name)
}

func parseIDOrRespond(w http.ResponseWriter, raw, name string) (int64, bool) {
	id, err := utils.ParseID(raw)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid or missing "+name, nil, err)
		return 0, false
	}
	return id, true
}

func decodeOrRespond(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := utils.DecodeJSONBody(r, dst); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
		return false
	}
	return true
}

func respondDeleted(w http.ResponseWriter, kind string, id int64) {
	utils.RespondWithJSON(w, http.StatusOK, dtos.ConfirmationResponse{Message: kind + " deleted", ID: id})
}
