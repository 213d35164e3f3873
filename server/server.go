package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ray-remotestate/smartcafe/handlers"
	"github.com/ray-remotestate/smartcafe/middlewares"
	"github.com/ray-remotestate/smartcafe/models"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

func SetupRoutes() *Server {
	router := mux.NewRouter()
	authRoutes := router.PathPrefix("/api").Subrouter()
	authRoutes.Use(middlewares.AuthMiddleware)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"alive": true}`)
	}).Methods("GET")
	router.HandleFunc("/register", handlers.Register).Methods("POST")
	router.HandleFunc("/login", handlers.Login).Methods("POST")
	router.HandleFunc("/refresh", handlers.RefreshToken).Methods("POST")
	// consumed by the forecast service, which has no login of its own
	router.HandleFunc("/analytics/sales-history", handlers.GetSalesHistory).Methods("GET")

	authRoutes.HandleFunc("/logout", handlers.Logout).Methods("POST")

	// catalog reads for any authenticated user
	authRoutes.HandleFunc("/categories", handlers.ListCategories).Methods("GET")
	authRoutes.HandleFunc("/categories/{id}", handlers.GetCategory).Methods("GET")
	authRoutes.HandleFunc("/menu-items", handlers.ListMenuItems).Methods("GET")
	authRoutes.HandleFunc("/menu-items/{id}", handlers.GetMenuItem).Methods("GET")
	authRoutes.HandleFunc("/analytics/popular-items", handlers.GetPopularItems).Methods("GET")

	// orders; customers are limited to their own by in-handler checks
	authRoutes.HandleFunc("/orders/user/{userId}", handlers.ListOrdersForUser).Methods("GET")
	authRoutes.HandleFunc("/orders", handlers.CreateOrder).Methods("POST")
	authRoutes.HandleFunc("/orders/{id}", handlers.GetOrder).Methods("GET")
	authRoutes.Handle("/orders/{id}/complete",
		middlewares.RoleBasedMiddleware(models.RoleAdmin, models.RoleStaff)(http.HandlerFunc(handlers.MarkOrderCompleted))).
		Methods("PUT")

	authRoutes.HandleFunc("/payments/create-payment-intent", handlers.CreatePaymentIntent).Methods("POST")
	authRoutes.HandleFunc("/payments/confirm", handlers.ConfirmPayment).Methods("POST")
	authRoutes.HandleFunc("/payments/pay-with-balance", handlers.PayWithBalance).Methods("POST")

	// staff and admin
	staff := authRoutes.PathPrefix("/staff").Subrouter()
	staff.Use(middlewares.RoleBasedMiddleware(models.RoleAdmin, models.RoleStaff))

	staff.HandleFunc("/categories", handlers.CreateCategory).Methods("POST")
	staff.HandleFunc("/categories/{id}", handlers.UpdateCategory).Methods("PUT")
	staff.HandleFunc("/categories/{id}", handlers.DeleteCategory).Methods("DELETE")
	staff.HandleFunc("/menu-items", handlers.CreateMenuItem).Methods("POST")
	staff.HandleFunc("/menu-items/{id}", handlers.UpdateMenuItem).Methods("PUT")
	staff.HandleFunc("/menu-items/{id}", handlers.DeleteMenuItem).Methods("DELETE")
	staff.HandleFunc("/users/topup", handlers.TopUpBalance).Methods("POST")

	// admin only
	admin := authRoutes.PathPrefix("/admin").Subrouter()
	admin.Use(middlewares.RoleBasedMiddleware(models.RoleAdmin))

	admin.HandleFunc("/users", handlers.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}", handlers.GetUser).Methods("GET")
	admin.HandleFunc("/users/{id}", handlers.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id}", handlers.DeleteUser).Methods("DELETE")

	admin.HandleFunc("/analytics/totals", handlers.GetTotals).Methods("GET")
	admin.HandleFunc("/analytics/orders-per-week", handlers.GetOrdersPerWeek).Methods("GET")
	admin.HandleFunc("/analytics/order-type-ratio", handlers.GetOrderTypeRatio).Methods("GET")
	admin.HandleFunc("/forecast/sales", handlers.GetSalesForecast).Methods("GET")

	return &Server{
		Router: router,
	}
}

func (svr *Server) Run(port string) error {
	svr.server = &http.Server{
		Addr:              port,
		Handler:           svr.Router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
