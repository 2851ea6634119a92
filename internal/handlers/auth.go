// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	"github.com/skip2/go-qrcode"

	"inkpress/internal/apperror"
	"inkpress/internal/middleware"
	"inkpress/internal/store"
	"inkpress/internal/token"
	"inkpress/internal/validate"
)

// Auth serves registration, login, and profile endpoints.
type Auth struct {
	users  *store.UserStore
	tokens *token.Service
}

func NewAuth(users *store.UserStore, tokens *token.Service) *Auth {
	return &Auth{users: users, tokens: tokens}
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totpCode"`
}

// authResponse is the payload returned by register and login.
type authResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// Register creates a user account and returns a fresh session token.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Validation([]apperror.FieldError{{Field: "body", Message: "invalid request body"}}))
		return
	}
	if fields := validate.Register(req.Name, req.Email, req.Password); len(fields) > 0 {
		writeError(w, apperror.Validation(fields))
		return
	}

	user, err := h.users.Create(r.Context(), strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	tok, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		writeError(w, fmt.Errorf("issue token: %w", err))
		return
	}
	writeData(w, http.StatusCreated, authResponse{Token: tok, User: user.Public()})
}

// Login verifies credentials and returns a session token. Accounts with
// two-factor auth enabled must also supply a valid TOTP code.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Validation([]apperror.FieldError{{Field: "body", Message: "invalid request body"}}))
		return
	}
	if fields := validate.Login(req.Email, req.Password); len(fields) > 0 {
		writeError(w, apperror.Validation(fields))
		return
	}

	user, err := h.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil || !h.users.CheckPassword(user, req.Password) {
		writeError(w, apperror.Unauthorized("invalid email or password"))
		return
	}
	if !user.IsActive {
		writeError(w, apperror.Unauthorized("account is deactivated"))
		return
	}
	if user.TOTPEnabled {
		if user.TOTPSecret == nil || !totp.Validate(req.TOTPCode, *user.TOTPSecret) {
			writeError(w, apperror.Unauthorized("invalid two-factor code"))
			return
		}
	}

	if err := h.users.TouchLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("update last login failed", "user", user.ID.Hex(), "error", err)
	}

	tok, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		writeError(w, fmt.Errorf("issue token: %w", err))
		return
	}
	writeData(w, http.StatusOK, authResponse{Token: tok, User: user.Public()})
}

// Me returns the authenticated user's profile.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	writeData(w, http.StatusOK, user.Public())
}

type profileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
	Password *string `json:"password"`
}

// UpdateProfile applies a partial update to the authenticated user.
func (h *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Validation([]apperror.FieldError{{Field: "body", Message: "invalid request body"}}))
		return
	}

	var fields []validate.Field
	if req.Name != nil {
		fields = append(fields, validate.Field{Name: "name", Value: *req.Name, Checks: []validate.Check{validate.Length(2, 50, "name must be between 2 and 50 characters")}})
	}
	if req.Email != nil {
		fields = append(fields, validate.Field{Name: "email", Value: *req.Email, Checks: []validate.Check{validate.Email()}})
	}
	if req.Password != nil {
		fields = append(fields, validate.Field{Name: "password", Value: *req.Password, Checks: []validate.Check{validate.MinLength(6, "password must be at least 6 characters long")}})
	}
	if violations := validate.Run(fields...); len(violations) > 0 {
		writeError(w, apperror.Validation(violations))
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, store.ProfilePatch{
		Name:     req.Name,
		Email:    req.Email,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if updated == nil {
		writeError(w, apperror.NotFound("user"))
		return
	}
	writeData(w, http.StatusOK, updated.Public())
}

type twoFASetupResponse struct {
	Secret string `json:"secret"`
	QRCode string `json:"qrCode"`
}

// TwoFASetup generates a TOTP secret for the authenticated user and
// returns it together with a provisioning QR code. The secret is stored
// but two-factor auth stays off until Enable confirms a valid code.
func (h *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "inkpress",
		AccountName: user.Email,
	})
	if err != nil {
		writeError(w, fmt.Errorf("generate totp key: %w", err))
		return
	}
	if err := h.users.SetTOTPSecret(r.Context(), user.ID, key.Secret()); err != nil {
		writeError(w, err)
		return
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		writeError(w, fmt.Errorf("encode qr code: %w", err))
		return
	}
	writeData(w, http.StatusOK, twoFASetupResponse{
		Secret: key.Secret(),
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	})
}

type twoFAEnableRequest struct {
	Code string `json:"code"`
}

// TwoFAEnable turns on two-factor auth after verifying a code against the
// secret generated during setup.
func (h *Auth) TwoFAEnable(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())

	var req twoFAEnableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.Validation([]apperror.FieldError{{Field: "body", Message: "invalid request body"}}))
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, apperror.Validation([]apperror.FieldError{{Field: "code", Message: "two-factor setup has not been started"}}))
		return
	}
	if !totp.Validate(req.Code, *user.TOTPSecret) {
		writeError(w, apperror.Validation([]apperror.FieldError{{Field: "code", Message: "invalid two-factor code"}}))
		return
	}
	if err := h.users.EnableTOTP(r.Context(), user.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "two-factor authentication enabled"})
}
