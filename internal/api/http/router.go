package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"classbook-backend/internal/security"
	"classbook-backend/internal/service"
)

type RouterDeps struct {
	Auth         service.AuthService
	Booking      service.BookingService
	Package      service.PackageService
	Member       service.MemberService
	Notification service.NotificationService
	Tokens       security.TokenManager
}

// NewRouter wires every API route. Everything under /api/v1 except signup,
// login and the health probe requires a bearer token.
func NewRouter(deps RouterDeps) *mux.Router {
	authHandler := NewAuthHandler(deps.Auth)
	bookingHandler := NewBookingHandler(deps.Booking)
	packageHandler := NewPackageHandler(deps.Package)
	memberHandler := NewMemberHandler(deps.Member)
	noteHandler := NewNotificationHandler(deps.Notification)

	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(deps.Tokens))

	authed.HandleFunc("/auth/password", authHandler.ChangePassword).Methods("PUT")

	authed.HandleFunc("/me", memberHandler.GetProfile).Methods("GET")
	authed.HandleFunc("/me", memberHandler.UpdateProfile).Methods("PUT")

	authed.HandleFunc("/classes", bookingHandler.ListClasses).Methods("GET")
	authed.HandleFunc("/bookings", bookingHandler.Reserve).Methods("POST")
	authed.HandleFunc("/bookings", bookingHandler.List).Methods("GET")
	authed.HandleFunc("/bookings/{id:[0-9]+}/cancel", bookingHandler.Cancel).Methods("POST")
	authed.HandleFunc("/bookings/{id:[0-9]+}/check-in", bookingHandler.CheckIn).Methods("POST")

	authed.HandleFunc("/packages", packageHandler.ListCatalog).Methods("GET")
	authed.HandleFunc("/packages/purchase", packageHandler.Purchase).Methods("POST")
	authed.HandleFunc("/me/packages", packageHandler.ListMine).Methods("GET")

	authed.HandleFunc("/notifications", noteHandler.List).Methods("GET")
	authed.HandleFunc("/notifications/{id:[0-9]+}/read", noteHandler.MarkAsRead).Methods("POST")

	return r
}
