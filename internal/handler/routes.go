package handler

import (
	"net/http"

	"github.com/msomdec/user-accounts/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, accounts *service.AccountService) {
	users := NewUserHandler(accounts)
	auth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(accounts, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /user/create", users.HandleCreate)
	mux.HandleFunc("POST /user/loging", users.HandleLogin)
	mux.HandleFunc("GET /user/confirm-user/{token}", users.HandleConfirm)
	mux.HandleFunc("POST /user/recover-password", users.HandleRecoverRequest)
	mux.HandleFunc("GET /user/recover-password/{token}", users.HandleRecoverCheck)
	mux.HandleFunc("POST /user/recover-password/{token}", users.HandleRecoverComplete)

	mux.Handle("GET /user/dashboard", auth(users.HandleDashboard))
	mux.Handle("GET /user/information/{id}", auth(users.HandleInformation))
	mux.Handle("PUT /user/update/{id}", auth(users.HandleUpdate))
	mux.Handle("POST /user/verify-password/{id}", auth(users.HandleVerifyPassword))
	mux.Handle("PUT /user/update-password/{id}", auth(users.HandleUpdatePassword))
	mux.Handle("DELETE /user/delete/{id}", auth(users.HandleDelete))
}
