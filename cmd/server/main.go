package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/luizlzg/itinerary-generator/internal/adapters/cache"
	"github.com/luizlzg/itinerary-generator/internal/adapters/enrich"
	"github.com/luizlzg/itinerary-generator/internal/adapters/geocode"
	"github.com/luizlzg/itinerary-generator/internal/adapters/render"
	"github.com/luizlzg/itinerary-generator/internal/adapters/repositories"
	"github.com/luizlzg/itinerary-generator/internal/api"
	"github.com/luizlzg/itinerary-generator/internal/platform/db"
	"github.com/luizlzg/itinerary-generator/internal/ports"
	"github.com/luizlzg/itinerary-generator/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite, Nominatim, search API) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	dbPath := getEnv("DB_PATH", "data/app.db")
	seedPath := getEnv("SEED_PATH", "data/seeds/attractions.json")
	outputDir := getEnv("OUTPUT_DIR", "data/documents")
	port := getEnv("PORT", "8080")
	nominatimURL := getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org")
	userAgent := getEnv("GEOCODER_USER_AGENT", "itinerary-generator/1.0")
	searchURL := getEnv("SEARCH_API_URL", "https://api.tavily.com")

	searchKey := os.Getenv("SEARCH_API_KEY")
	if strings.TrimSpace(searchKey) == "" {
		log.Fatal("SEARCH_API_KEY is required")
	}

	sqliteDB, err := openDB(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sqliteDB.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(sqliteDB, seedPath); err != nil {
		log.Fatal(err)
	}

	// Geocode results are cached persistently: Postgres when DATABASE_URL is
	// set (shared across instances), local SQLite otherwise.
	var geocodeCache ports.GeocodeCache
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pgDB, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pgDB.Close()
		geocodeCache = cache.NewSQLGeocodeCache(pgDB)
	} else {
		geocodeCache = cache.NewSqliteGeocodeCache(sqliteDB)
	}

	geocoder, err := geocode.NewNominatimGeocoder(nominatimURL, userAgent)
	if err != nil {
		log.Fatal(err)
	}

	enricher, err := enrich.NewSearchEnricher(searchURL, searchKey)
	if err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSqliteAttractionRepository(sqliteDB)

	planner := &services.Planner{
		Geocoder:  geocoder,
		Cache:     geocodeCache,
		Repo:      repo,
		Enricher:  enricher,
		Renderer:  render.NewJSONRenderer(outputDir),
		Proposals: services.NewProposalStore(),
	}

	router := api.NewRouter(planner, repo)

	// Timeouts are tuned for cold-cache planning (external API latency plus
	// per-day enrichment retries).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      300 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return db, nil
}

func initAndSeed(db *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(db); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		log.Printf("No seed file at %q, skipping seeding", seedPath)
		return nil
	}

	if err := repositories.SeedFromJSON(db, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
