package httpserver

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mahaztechenterprise/lunar-auth-provider/internal/common"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/logging"
	"github.com/mahaztechenterprise/lunar-auth-provider/internal/server/models"
)

type handlers struct {
	deps Deps
	log  logging.Logger
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	tok, err := h.deps.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, "login", err, "username", req.Username)
		return
	}

	h.log.Info(r.Context(), "login succeeded",
		"username", req.Username,
		"request_id", requestIDFromContext(r.Context()),
	)
	h.writeJSON(w, r, http.StatusOK, loginResponse{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Scope:        tok.Scope,
		ExpiresAt:    tok.ExpiresAt.Unix(),
	})
}

func (h *handlers) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	// the body is optional while refresh is unsupported
	if !h.decodeOptional(w, r, &req) {
		return
	}

	tok, err := h.deps.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.fail(w, r, "refresh", err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, loginResponse{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Scope:        tok.Scope,
		ExpiresAt:    tok.ExpiresAt.Unix(),
	})
}

func (h *handlers) verify(w http.ResponseWriter, r *http.Request) {
	claims, err := h.deps.Auth.Verify(r.Context(), r.Header.Get(common.AuthorizationHeader))
	if err != nil {
		h.fail(w, r, "verify", err)
		return
	}

	resp := verifyResponse{
		Subject:   claims.Subject,
		UserID:    claims.UserID,
		ExpiresAt: claims.ExpiresAt.Unix(),
	}
	if !claims.IssuedAt.IsZero() {
		resp.IssuedAt = claims.IssuedAt.Unix()
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	u, err := h.deps.Users.Register(r.Context(), req.Name, req.Username, req.Password, req.attributes())
	if err != nil {
		h.fail(w, r, "register", err, "username", req.Username)
		return
	}
	h.writeJSON(w, r, http.StatusCreated, statusResponse{
		Status: "SUCCESS",
		Data:   registeredUser{ID: u.ID, Name: u.Name, Username: u.UserName},
	})
}

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("user_id"))
	if id == "" {
		h.fail(w, r, "get user", fmt.Errorf("%w: empty user id", common.ErrValidation))
		return
	}

	u, err := h.deps.Users.GetActiveUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get user", err, "user_id", id)
		return
	}
	h.writeJSON(w, r, http.StatusOK, u)
}

func (h *handlers) writeAttributes(w http.ResponseWriter, r *http.Request) {
	var req []attributeRequest
	if !h.decode(w, r, &req) {
		return
	}

	rows := make([]models.Attribute, 0, len(req))
	for i, a := range req {
		if err := a.Validate(); err != nil {
			h.fail(w, r, "write attributes", fmt.Errorf("%w: attribute %d: %v", common.ErrValidation, i, err))
			return
		}
		rows = append(rows, models.Attribute{Key: a.Key, Value: a.Value, UserID: a.UserID})
	}

	n, err := h.deps.Attributes.WriteAttributes(r.Context(), rows)
	if err != nil {
		h.fail(w, r, "write attributes", err, "rows", len(rows))
		return
	}
	h.writeJSON(w, r, http.StatusOK, statusResponse{Status: "SUCCESS", Count: &n})
}

type validatable interface {
	Validate() error
}

// decode reads a JSON body into dst and validates it when dst knows how.
// On failure it has already answered with 400.
// decodeOptional accepts a missing body, including a chunked one that turns
// out to be empty, and otherwise behaves like decode.
func (h *handlers) decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.ContentLength == 0 {
		return true
	}
	br := bufio.NewReader(r.Body)
	if _, err := br.Peek(1); errors.Is(err, io.EOF) {
		return true
	}
	r.Body = struct {
		io.Reader
		io.Closer
	}{br, r.Body}
	return h.decode(w, r, dst)
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err == nil && dec.More() {
		err = errors.New("trailing data after JSON value")
	}
	if err == nil {
		if v, ok := dst.(validatable); ok {
			err = v.Validate()
		}
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, io.EOF) {
			err = fmt.Errorf("read body: %w", err)
		}
		h.fail(w, r, "decode request", fmt.Errorf("%w: %w", common.ErrValidation, err))
		return false
	}
	return true
}

// fail logs err with its precise reason and answers with the fixed message
// for its class.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, op string, err error, kv ...any) {
	status, msg := statusFor(err)

	args := append([]any{
		"op", op,
		"status", status,
		"reason", common.Reason(err),
		"error", err.Error(),
		"request_id", requestIDFromContext(r.Context()),
	}, kv...)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		h.log.Error(r.Context(), "request failed", args...)
	} else {
		h.log.Warn(r.Context(), "request failed", args...)
	}

	h.writeJSON(w, r, status, errorResponse{Status: "error", Message: msg})
}

// writeJSON skips the response when the client has gone away.
func (h *handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := r.Context().Err(); err != nil {
		h.log.Info(r.Context(), "client gone, response dropped",
			"path", r.URL.Path,
			"status", status,
			"request_id", requestIDFromContext(r.Context()),
		)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
