package main

import (
	"log"
	"net/http"

	"vendorflow-backend/internal/auth"
	"vendorflow-backend/internal/config"
	"vendorflow-backend/internal/database"
	"vendorflow-backend/internal/handlers"
	"vendorflow-backend/internal/metrics"
	"vendorflow-backend/internal/middleware"
	"vendorflow-backend/internal/models"
	"vendorflow-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 VENDORFLOW BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	log.Println("📂 Loading environment variables...")
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Invalid configuration")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Configuration loaded")

	// Connect to database
	log.Println("🔌 Connecting to database...")
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Printf("   Error: %v", err)
		log.Println("   This is usually caused by:")
		log.Println("   1. Wrong DATABASE_URL format")
		log.Println("   2. PostgreSQL service is down")
		log.Println("   3. Network connectivity issue")
		log.Println("   4. Invalid credentials")
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	defer db.Close()
	log.Println("✅ Database connection established")

	// Run migrations
	log.Println("🔄 Running database migrations...")
	if err := database.Migrate(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Database migrations failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	log.Println("✅ Database migrations completed")

	// Seed database
	log.Println("🌱 Seeding database with initial data...")
	if err := database.SeedProfiles(db); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Profile seeding failed")
		log.Printf("   Error: %v", err)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
	if cfg.SeedDemoData {
		if err := database.SeedDemoFleet(db); err != nil {
			log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Println("❌ FATAL ERROR: Demo fleet seeding failed")
			log.Printf("   Error: %v", err)
			log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			log.Fatal(err)
		}
	}
	log.Println("✅ Seeding complete")

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Session store and resolver
	store := auth.NewStore(db, cfg.JWTSecret, cfg.TokenTTL)
	resolver := auth.NewResolver(store, cfg.ProfileTimeout, collector)
	resolver.Start(store, nil) // no session exists at server boot
	defer resolver.Close()
	log.Println("✅ Session resolver started")

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Forward published auth snapshots to the affected user's connections
	stateSub := resolver.State().Subscribe()
	defer stateSub.Unsubscribe()
	go func() {
		for snap := range stateSub.C {
			if snap.User != nil {
				wsHub.BroadcastToUser(snap.User.Identity.UserID, map[string]interface{}{
					"type": models.SessionResolved,
					"user": snap.User,
				})
			}
		}
	}()

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Metrics endpoint
	r.Method("GET", "/metrics", metrics.Handler(registry))

	// Authentication routes (no auth required)
	r.Post("/api/auth/login", handlers.Login(store, collector, wsHub))
	r.Post("/api/auth/signup", handlers.Signup(store))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub, store, resolver))

	// Login and signup landing paths, targets of guard redirects
	r.Get("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("VendorFlow login - POST /api/auth/login"))
	})
	r.Get("/signup", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("VendorFlow signup - POST /api/auth/signup"))
	})

	// Root: route by resolved role
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(store, resolver))

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			user, ok := middleware.GetUserFromContext(req)
			if !ok || user.Profile == nil {
				http.Redirect(w, req, "/login", http.StatusFound)
				return
			}
			http.Redirect(w, req, middleware.RoleHome(user.Role()), http.StatusFound)
		})
	})

	// Authenticated session endpoints
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(store, resolver))

		r.Post("/api/auth/logout", handlers.Logout(store, collector, wsHub))
		r.Get("/api/auth/status", handlers.GetAuthStatus())
	})

	// Super vendor routes (read-only fleet-wide views)
	r.Route("/super-vendor", func(r chi.Router) {
		r.Use(middleware.Authenticate(store, resolver))
		r.Use(middleware.Guard(resolver.State(), models.RoleSuperVendor))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("VendorFlow super vendor home"))
		})
		r.Get("/vendors", handlers.ListVendors(db))
		r.Get("/vehicles", handlers.ListVehicles(db))
		r.Get("/drivers", handlers.ListDrivers(db))
	})

	// Sub vendor routes (own fleet CRUD)
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.Authenticate(store, resolver))
		r.Use(middleware.Guard(resolver.State(), models.RoleSubVendor))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("VendorFlow dashboard"))
		})

		r.Get("/vehicles", handlers.ListVehicles(db))
		r.Post("/vehicles", handlers.CreateVehicle(db))
		r.Patch("/vehicles/{id}", handlers.UpdateVehicle(db))
		r.Delete("/vehicles/{id}", handlers.DeleteVehicle(db))

		r.Get("/drivers", handlers.ListDrivers(db))
		r.Post("/drivers", handlers.CreateDriver(db))
		r.Patch("/drivers/{id}", handlers.UpdateDriver(db))
		r.Delete("/drivers/{id}", handlers.DeleteDriver(db))
	})

	// Unknown paths redirect to root
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", cfg.Port)
	log.Println("🔌 Ready to accept requests!")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Start server
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Println("❌ FATAL ERROR: Server failed to start")
		log.Printf("   Error: %v", err)
		log.Printf("   Port: %s", cfg.Port)
		log.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		log.Fatal(err)
	}
}
