package handler

import (
	"net/http"

	"github.com/msomdec/user-accounts/internal/service"
)

// UserHandler serves the /user API.
type UserHandler struct {
	accounts *service.AccountService
	validate *requestValidator
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(accounts *service.AccountService) *UserHandler {
	return &UserHandler{
		accounts: accounts,
		validate: newRequestValidator(),
	}
}

// decode reads and validates a request body, answering 400 on failure.
func (h *UserHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := readJSON(w, r, dst); err != nil {
		writeRequestError(w, err)
		return false
	}
	if n, ok := dst.(interface{ normalize() }); ok {
		n.normalize()
	}
	if err := h.validate.Struct(dst); err != nil {
		writeRequestError(w, err)
		return false
	}
	return true
}

// HandleCreate registers a new account.
// POST /user/create
// Request:  {"name":"...","email":"...","password":"..."}
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		writeServiceError(w, "register user", err, http.StatusBadRequest)
		return
	}

	writeMessage(w, http.StatusCreated, "User created, check your e-mail to activate your account.")
}

// HandleLogin checks credentials and returns the profile with a bearer token.
// POST /user/loging
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, "login user", err, http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		ID:          result.Profile.ID,
		Name:        result.Profile.Name,
		Email:       result.Profile.Email,
		Phone:       result.Profile.Phone,
		Address:     result.Profile.Address,
		BearerToken: result.Token,
	})
}

// HandleConfirm activates the account holding the confirmation token.
// GET /user/confirm-user/{token}
func (h *UserHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.ConfirmAccount(r.Context(), r.PathValue("token")); err != nil {
		writeServiceError(w, "confirm account", err, http.StatusNotFound)
		return
	}
	writeMessage(w, http.StatusCreated, "Account confirmed.")
}

// HandleRecoverRequest e-mails a password recovery link.
// POST /user/recover-password
func (h *UserHandler) HandleRecoverRequest(w http.ResponseWriter, r *http.Request) {
	var req recoverPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.accounts.RequestPasswordRecovery(r.Context(), req.Email); err != nil {
		writeServiceError(w, "request password recovery", err, http.StatusUnauthorized)
		return
	}
	writeMessage(w, http.StatusCreated, "We sent you an e-mail with the instructions.")
}

// HandleRecoverCheck reports whether a recovery token is still usable.
// GET /user/recover-password/{token}
func (h *UserHandler) HandleRecoverCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.ValidateRecoveryToken(r.Context(), r.PathValue("token")); err != nil {
		writeServiceError(w, "validate recovery token", err, http.StatusNotFound)
		return
	}
	writeMessage(w, http.StatusCreated, "The token is valid.")
}

// HandleRecoverComplete sets a new password using a recovery token.
// POST /user/recover-password/{token}
func (h *UserHandler) HandleRecoverComplete(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.accounts.CompletePasswordRecovery(r.Context(), r.PathValue("token"), req.Password); err != nil {
		writeServiceError(w, "complete password recovery", err, http.StatusNotFound)
		return
	}
	writeMessage(w, http.StatusCreated, "Password changed.")
}

// HandleDashboard returns the authenticated identity.
// GET /user/dashboard
func (h *UserHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	profile, ok := ProfileFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusForbidden, "Bearer token is missing.")
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(profile))
}

// HandleInformation returns the public profile of a user.
// GET /user/information/{id}
func (h *UserHandler) HandleInformation(w http.ResponseWriter, r *http.Request) {
	profile, err := h.accounts.GetProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, "get profile", err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, toInformationDTO(profile))
}

// HandleUpdate replaces name, address and phone.
// PUT /user/update/{id}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := h.accounts.UpdateProfile(r.Context(), r.PathValue("id"), req.Name, req.Address, req.Phone); err != nil {
		writeServiceError(w, "update profile", err, http.StatusBadRequest)
		return
	}
	writeMessage(w, http.StatusOK, "Profile updated.")
}

// HandleVerifyPassword checks the current password before a change.
// POST /user/verify-password/{id}
func (h *UserHandler) HandleVerifyPassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !h.decode(w, r, &req) {
		return
	}

	ok, err := h.accounts.VerifyCurrentPassword(r.Context(), r.PathValue("id"), req.Password)
	if err != nil {
		writeServiceError(w, "verify password", err, http.StatusInternalServerError)
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "The current password is incorrect.")
		return
	}
	writeMessage(w, http.StatusOK, "The current password is correct.")
}

// HandleUpdatePassword stores a new password.
// PUT /user/update-password/{id}
func (h *UserHandler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.accounts.UpdatePassword(r.Context(), r.PathValue("id"), req.Password); err != nil {
		writeServiceError(w, "update password", err, http.StatusBadRequest)
		return
	}
	writeMessage(w, http.StatusOK, "The new password was saved.")
}

// HandleDelete removes the account.
// DELETE /user/delete/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.DeleteAccount(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, "delete account", err, http.StatusBadRequest)
		return
	}
	writeMessage(w, http.StatusOK, "User deleted.")
}
