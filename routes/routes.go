package routes

import (
	"log/slog"
	"net/http"

	"github.com/dcode-github/property_marketplace/controllers"
	"github.com/dcode-github/property_marketplace/middleware"
	"github.com/dcode-github/property_marketplace/models"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
)

// Routes mounts the marketplace API on router.
func Routes(router *mux.Router, d *controllers.Deps, jwtKey []byte, logger *slog.Logger) {
	router.Use(middleware.RequestLogger(logger), chimw.Recoverer)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Public catalogue, with favorite flags for signed-in callers
	public := api.NewRoute().Subrouter()
	public.Use(middleware.OptionalAuth(jwtKey))
	public.HandleFunc("/properties", controllers.ListProperties(d)).Methods("GET")
	public.HandleFunc("/properties/{id}", controllers.GetProperty(d)).Methods("GET")
	public.HandleFunc("/properties/{id}/inquiries", controllers.CreateInquiry(d)).Methods("POST")

	authenticated := api.NewRoute().Subrouter()
	authenticated.Use(middleware.Auth(jwtKey))

	authenticated.HandleFunc("/properties", controllers.CreateProperty(d)).Methods("POST")

	authenticated.HandleFunc("/profile", controllers.GetProfile(d)).Methods("GET")
	authenticated.HandleFunc("/profile", controllers.UpdateProfile(d)).Methods("PUT")
	authenticated.HandleFunc("/profile/properties", controllers.MyProperties(d)).Methods("GET")

	authenticated.HandleFunc("/favorites", controllers.GetFavorites(d)).Methods("GET")
	authenticated.HandleFunc("/favorites", controllers.AddFavorite(d)).Methods("POST")
	authenticated.HandleFunc("/favorites/{propertyId}", controllers.DeleteFavorite(d)).Methods("DELETE")

	authenticated.HandleFunc("/inquiries", controllers.ListInquiries(d)).Methods("GET")

	authenticated.HandleFunc("/verification", controllers.GetVerification(d)).Methods("GET")
	authenticated.HandleFunc("/verification", controllers.SubmitVerification(d)).Methods("POST")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.Auth(jwtKey), middleware.RequireAdmin(d.Profiles))

	admin.HandleFunc("/properties", controllers.AdminListProperties(d)).Methods("GET")
	admin.HandleFunc("/properties/{id}/approve", controllers.ReviewProperty(d, models.StatusActive)).Methods("POST")
	admin.HandleFunc("/properties/{id}/reject", controllers.ReviewProperty(d, models.StatusRejected)).Methods("POST")
	admin.HandleFunc("/properties/{id}", controllers.AdminDeleteProperty(d)).Methods("DELETE")

	admin.HandleFunc("/verifications", controllers.AdminListVerifications(d)).Methods("GET")
	admin.HandleFunc("/verifications/{id}/approve", controllers.DecideVerification(d, models.VerificationApproved)).Methods("POST")
	admin.HandleFunc("/verifications/{id}/reject", controllers.DecideVerification(d, models.VerificationRejected)).Methods("POST")
}
