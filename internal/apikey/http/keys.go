package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/apikey/internal/apikey/domain"
	"github.com/aussiebroadwan/apikey/internal/apikey/service"
	"github.com/aussiebroadwan/apikey/internal/apikey/store"
	"github.com/aussiebroadwan/apikey/pkg/httpx"
	"github.com/aussiebroadwan/apikey/pkg/keysdk"
	"github.com/aussiebroadwan/apikey/pkg/slogx"
)

// OneTimeWarning accompanies every freshly issued key.
const OneTimeWarning = "Please store it somewhere safe: you will not be able to see it again."

// KeysHandler handles the key administration endpoints.
type KeysHandler struct {
	KeyService *service.KeyService
}

// HandleCreate handles POST /v1/keys
//
//	@Summary		Issue API key
//	@Description	Creates a key for a named principal. The plaintext key is in this response only. Any id in the body is ignored.
//	@Tags			Keys
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		keysdk.CreateKeyRequest		true	"name and optional expiry_date"
//	@Success		201		{object}	keysdk.CreateKeyResponse	"key, warning, api_key"
//	@Failure		400		{object}	keysdk.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	keysdk.ErrorResponse		"error, error_description"
//	@Failure		403		{object}	keysdk.ErrorResponse		"error, error_description"
//	@Failure		409		{object}	keysdk.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	keysdk.ErrorResponse		"error, error_description"
//	@Router			/v1/keys [post].
func (h *KeysHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req keysdk.CreateKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, keysdk.ErrorCodeInvalidRequest, "Invalid JSON in request body")
		return
	}

	rec, key, err := h.KeyService.CreateKey(auditContext(r), domain.Attributes{
		ID:         req.ID,
		Name:       req.Name,
		ExpiryDate: req.ExpiryDate,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, keysdk.CreateKeyResponse{
		Key:     key,
		Warning: OneTimeWarning,
		APIKey:  toInfo(rec, time.Now()),
	})
}

// HandleList handles GET /v1/keys
//
//	@Summary		List API keys
//	@Description	Lists keys newest first. usable=true returns every non-revoked key, expired ones included.
//	@Tags			Keys
//	@Produce		json
//	@Security		BearerAuth
//	@Param			usable	query		bool	false	"only non-revoked keys"
//	@Param			search	query		string	false	"substring of name or prefix"
//	@Param			revoked	query		bool	false	"filter by revoked flag"
//	@Param			limit	query		int		false	"page size"
//	@Param			offset	query		int		false	"page offset"
//	@Success		200		{object}	keysdk.ListKeysResponse
//	@Failure		400		{object}	keysdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	keysdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	keysdk.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	keysdk.ErrorResponse	"error, error_description"
//	@Router			/v1/keys [get].
func (h *KeysHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		keys []*domain.APIKey
		err  error
	)
	if usable, _ := strconv.ParseBool(q.Get("usable")); usable {
		keys, err = h.KeyService.UsableKeys(ctx)
	} else {
		var f store.ListFilter
		if f, err = parseListFilter(q.Get("search"), q.Get("revoked"), q.Get("limit"), q.Get("offset")); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, keysdk.ErrorCodeInvalidRequest, err.Error())
			return
		}
		keys, err = h.KeyService.ListKeys(ctx, f)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	now := time.Now()
	out := keysdk.ListKeysResponse{Keys: make([]keysdk.APIKeyInfo, len(keys))}
	for i, k := range keys {
		out.Keys[i] = toInfo(k, now)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /v1/keys/{id}
//
//	@Summary		Get API key
//	@Tags			Keys
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Key ID (prefix.hash)"
//	@Success		200	{object}	keysdk.APIKeyInfo
//	@Failure		401	{object}	keysdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	keysdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	keysdk.ErrorResponse	"error, error_description"
//	@Router			/v1/keys/{id} [get].
func (h *KeysHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.KeyService.GetKey(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInfo(rec, time.Now()))
}

// HandleUpdate handles PATCH /v1/keys/{id}
//
//	@Summary		Update API key
//	@Description	Changes name, expiry or revoked flag. A revoked key cannot be un-revoked, renamed or re-dated.
//	@Tags			Keys
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Key ID (prefix.hash)"
//	@Param			request	body		keysdk.UpdateKeyRequest	true	"fields to change"
//	@Success		200		{object}	keysdk.APIKeyInfo
//	@Failure		400		{object}	keysdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	keysdk.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	keysdk.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	keysdk.ErrorResponse	"error, error_description"
//	@Router			/v1/keys/{id} [patch].
func (h *KeysHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req keysdk.UpdateKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, keysdk.ErrorCodeInvalidRequest, "Invalid JSON in request body")
		return
	}

	rec, err := h.KeyService.UpdateKey(auditContext(r), r.PathValue("id"), service.KeyUpdate{
		Name:        req.Name,
		ExpiryDate:  req.ExpiryDate,
		ClearExpiry: req.ClearExpiry,
		Revoked:     req.Revoked,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInfo(rec, time.Now()))
}

// HandleRevoke handles POST /v1/keys/{id}/revoke
//
//	@Summary		Revoke API key
//	@Description	Permanently revokes a key. Revoking an already revoked key succeeds.
//	@Tags			Keys
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Key ID (prefix.hash)"
//	@Success		200	{object}	keysdk.APIKeyInfo
//	@Failure		401	{object}	keysdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	keysdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	keysdk.ErrorResponse	"error, error_description"
//	@Router			/v1/keys/{id}/revoke [post].
func (h *KeysHandler) HandleRevoke(w http.ResponseWriter, r *http.Request) {
	rec, err := h.KeyService.RevokeKey(auditContext(r), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toInfo(rec, time.Now()))
}

// HandleDelete handles DELETE /v1/keys/{id}
//
//	@Summary		Delete API key
//	@Tags			Keys
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Key ID (prefix.hash)"
//	@Success		204	"Key deleted"
//	@Failure		401	{object}	keysdk.ErrorResponse	"error, error_description"
//	@Failure		403	{object}	keysdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	keysdk.ErrorResponse	"error, error_description"
//	@Router			/v1/keys/{id} [delete].
func (h *KeysHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.KeyService.DeleteKey(auditContext(r), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toInfo(k *domain.APIKey, now time.Time) keysdk.APIKeyInfo {
	return keysdk.APIKeyInfo{
		ID:         k.ID,
		Prefix:     k.Prefix,
		Name:       k.Name,
		CreatedAt:  k.CreatedAt,
		ExpiryDate: k.ExpiryDate,
		HasExpired: k.HasExpired(now),
		Revoked:    k.Revoked,
	}
}

func parseListFilter(search, revoked, limit, offset string) (store.ListFilter, error) {
	f := store.ListFilter{Search: search}
	if revoked != "" {
		b, err := strconv.ParseBool(revoked)
		if err != nil {
			return f, errors.New("revoked must be true or false")
		}
		f.Revoked = &b
	}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return f, errors.New("limit must be a non-negative integer")
		}
		f.Limit = n
	}
	if offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return f, errors.New("offset must be a non-negative integer")
		}
		f.Offset = n
	}
	return f, nil
}

// writeServiceError maps service and domain errors onto HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrKeyRevoked):
		httpx.WriteError(w, http.StatusBadRequest, keysdk.ErrorCodeKeyRevoked, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, keysdk.ErrorCodeValidation, err.Error())
	case errors.Is(err, service.ErrKeyNotFound):
		httpx.WriteError(w, http.StatusNotFound, keysdk.ErrorCodeNotFound, "API key not found")
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, keysdk.ErrorCodeConflict, "A key with this prefix already exists, try again")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, keysdk.ErrorCodeServerError, "Internal server error")
	}
}

// auditContext tags the request logger with the admin token subject.
func auditContext(r *http.Request) context.Context {
	ctx := r.Context()
	return slogx.WithContext(ctx, slogx.FromContext(ctx).With("subject", httpx.SubjectFromContext(ctx)))
}
