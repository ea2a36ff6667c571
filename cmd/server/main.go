package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"bag-delivery-service/internal/adapters/cache"
	"bag-delivery-service/internal/adapters/geocode"
	"bag-delivery-service/internal/adapters/matrix"
	"bag-delivery-service/internal/adapters/repositories"
	"bag-delivery-service/internal/adapters/sessionstore"
	"bag-delivery-service/internal/adapters/solver"
	"bag-delivery-service/internal/api"
	"bag-delivery-service/internal/config"
	"bag-delivery-service/internal/domain"
	"bag-delivery-service/internal/platform/db"
	"bag-delivery-service/internal/ports"
	"bag-delivery-service/internal/schema"
	"bag-delivery-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, OSRM, VROOM, Redis) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", "config.yml"))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	dbPath := config.Get("DB_PATH", "data/app.db")
	sqliteDB, err := db.OpenSQLite(ctx, dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqliteDB.Close()

	if err := repositories.InitSchema(sqliteDB); err != nil {
		log.Fatal(err)
	}
	if seedPath := os.Getenv("SEED_PATH"); strings.TrimSpace(seedPath) != "" {
		if err := repositories.SeedFromJSON(sqliteDB, seedPath); err != nil {
			log.Fatal(err)
		}
		log.Printf("seeded orders and vehicles from %s", seedPath)
	}

	var matrixCache matrix.MatrixCache = cache.NewSqliteMatrixCache(sqliteDB)
	var geocodeCache geocode.GeocodeCache = cache.NewSqliteGeocodeCache(sqliteDB)
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := db.OpenPostgres(ctx, databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		matrixCache = cache.NewSQLMatrixCache(pg)
		geocodeCache = cache.NewSQLGeocodeCache(pg)
		log.Println("using postgres-backed caches")
	}

	endpoints := make(map[domain.Profile]string, len(cfg.Matrix.Endpoints))
	for profile, url := range cfg.Matrix.Endpoints {
		endpoints[domain.Profile(profile)] = url
	}
	provider, err := matrix.NewOSRMProvider(
		endpoints, time.Duration(cfg.Matrix.TimeoutSeconds)*time.Second, matrixCache,
	)
	if err != nil {
		log.Fatal(err)
	}

	vroom, err := solver.NewVroomSolver(
		cfg.Solver.URL, time.Duration(cfg.Solver.TimeoutSeconds)*time.Second,
	)
	if err != nil {
		log.Fatal(err)
	}

	var geocoder ports.Geocoder
	if apiKey := os.Getenv("GOOGLE_API_KEY"); strings.TrimSpace(apiKey) != "" {
		g, err := geocode.NewGoogleGeocoder(
			apiKey,
			10*time.Second,
			geocode.WithRegion(config.Get("GEOCODE_REGION", "nl")),
			geocode.WithCache(geocodeCache),
		)
		if err != nil {
			log.Fatal(err)
		}
		geocoder = g
	} else {
		log.Println("GOOGLE_API_KEY not set; stops without coordinates will be rejected")
	}

	var store ports.SessionStore
	if redisAddr := os.Getenv("REDIS_ADDR"); strings.TrimSpace(redisAddr) != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("verify redis connection: %v", err)
		}
		store = sessionstore.NewRedisStore(client, 24*time.Hour)
		log.Println("using redis-backed sessions")
	} else {
		store = sessionstore.NewMemoryStore()
	}

	mappings := schema.Default()
	if cfg.Planning.SchemaPath != "" {
		mappings, err = schema.Load(cfg.Planning.SchemaPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	dayStart, err := domain.ParseClock(cfg.Planning.DayStart)
	if err != nil {
		log.Fatalf("invalid planning.day_start: %v", err)
	}

	router := api.NewRouter(api.RouterDeps{
		Matrix:   provider,
		Solver:   vroom,
		Geocoder: geocoder,
		Store:    store,
		Repo:     repositories.NewSqliteOrderRepository(sqliteDB),
		Mappings: mappings,
		DayStart: dayStart,
		Options: services.ProblemOptions{
			DefaultServiceSeconds: cfg.Planning.DefaultServiceSeconds,
		},
	})

	// Timeouts are tuned for cold-cache planning (matrix fetch plus solve).
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening addr=%s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
