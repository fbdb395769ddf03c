package httpserver

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// Routes aggregates handlers for the HTTP server.
type Routes struct {
	Signup        httprouter.Handle
	Login         httprouter.Handle
	UpdateProfile httprouter.Handle
	ChangeRole    httprouter.Handle

	ListStations   httprouter.Handle
	SearchStations httprouter.Handle
	StationDetails httprouter.Handle
	CreateStation  httprouter.Handle
	DeleteStation  httprouter.Handle

	CreateCharger     httprouter.Handle
	StationChargers   httprouter.Handle
	AvailableChargers httprouter.Handle
	ChargerStatus     httprouter.Handle
	DeleteCharger     httprouter.Handle
	ChargerCount      httprouter.Handle

	CreateReservation   httprouter.Handle
	ClientReservations  httprouter.Handle
	CancelReservation   httprouter.Handle
	CompleteReservation httprouter.Handle
	StationStats        httprouter.Handle

	ListDiscounts  httprouter.Handle
	CreateDiscount httprouter.Handle
	UpdateDiscount httprouter.Handle
	DeleteDiscount httprouter.Handle

	CreateCheckout httprouter.Handle
	VerifyCheckout httprouter.Handle

	StatusFeed http.HandlerFunc
	Health     httprouter.Handle
}

// NewRouter wires all HTTP routes and applies CORS for the browser SPA.
// httprouter rejects mixing static and wildcard segments at the same level,
// so /api/stations/search and /api/clients/changeRole/{id} are dispatched
// inside the wildcard routes.
func NewRouter(routes Routes) http.Handler {
	router := httprouter.New()

	router.POST("/api/clients/signup", routes.Signup)
	router.POST("/api/clients/login", routes.Login)
	router.PUT("/api/clients/:email", routes.UpdateProfile)
	router.PUT("/api/clients/:email/:id", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if ps.ByName("email") == "changeRole" {
			routes.ChangeRole(w, r, ps)
			return
		}
		notFound(w)
	})

	router.GET("/api/stations", routes.ListStations)
	router.GET("/api/stations/:id", func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if ps.ByName("id") == "search" {
			routes.SearchStations(w, r, ps)
			return
		}
		notFound(w)
	})
	router.GET("/api/stations/:id/details", routes.StationDetails)
	router.POST("/api/stations", routes.CreateStation)
	router.DELETE("/api/stations/:id", routes.DeleteStation)

	router.POST("/api/chargers", routes.CreateCharger)
	router.GET("/api/chargers/station/:id", routes.StationChargers)
	router.GET("/api/chargers/available", routes.AvailableChargers)
	router.GET("/api/chargers/count/:status/total", routes.ChargerCount)
	router.PUT("/api/chargers/:id/status", routes.ChargerStatus)
	router.DELETE("/api/chargers/:id", routes.DeleteCharger)

	router.POST("/api/reservations", routes.CreateReservation)
	router.GET("/api/reservations/client/:id", routes.ClientReservations)
	router.GET("/api/reservations/stats", routes.StationStats)
	router.DELETE("/api/reservations/:id", routes.CancelReservation)
	router.PUT("/api/reservations/:id/complete", routes.CompleteReservation)

	router.GET("/api/discounts", routes.ListDiscounts)
	router.POST("/api/discounts", routes.CreateDiscount)
	router.PUT("/api/discounts/:id", routes.UpdateDiscount)
	router.DELETE("/api/discounts/:id", routes.DeleteDiscount)

	if routes.CreateCheckout != nil {
		router.POST("/api/payment/create-checkout-session", routes.CreateCheckout)
	}
	if routes.VerifyCheckout != nil {
		router.GET("/api/payment/verify-session", routes.VerifyCheckout)
	}

	if routes.StatusFeed != nil {
		router.HandlerFunc(http.MethodGet, "/ws/status", routes.StatusFeed)
	}
	router.GET("/health", routes.Health)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(router)
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"error":"not found"}`))
}
