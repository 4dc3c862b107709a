/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Wage Watcher server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Create the engine with the frame scheduler and restore saved state
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: wage.db)
           Use ":memory:" for in-memory database
  -tz      IANA time zone for the work schedule (default: local)
  -frame   Tick interval of the live counter (default: 100ms)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the frame loop
  4. Close database connection

EXAMPLES:
  ./server -db="./data/wage.db" -tz="Europe/Berlin"
  ./server -db=":memory:" -frame=1s

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Frame scheduler
  - wage/engine.go: Engine
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/warp/wage-watcher/api"
	"github.com/warp/wage-watcher/store/sqlite"
	"github.com/warp/wage-watcher/wage"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "wage.db", "SQLite database path")
	tz := flag.String("tz", "", "IANA time zone for the work schedule (empty = local)")
	frame := flag.Duration("frame", api.DefaultFrameInterval, "Tick interval of the live counter")
	flag.Parse()

	loc := time.Local
	if *tz != "" {
		var err error
		loc, err = time.LoadLocation(*tz)
		if err != nil {
			log.Fatalf("Invalid time zone %q: %v", *tz, err)
		}
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize engine
	frames := api.NewFrameScheduler(*frame)
	engine := wage.NewEngine(wage.Options{
		Store:    store,
		Clock:    wage.RealClock{},
		Ticks:    frames,
		Location: loc,
	})

	handler := api.NewHandler(engine, store)
	if err := engine.Load(context.Background()); err != nil {
		log.Printf("Warning: Failed to load saved state: %v", err)
	}

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d (schedule time zone %s)", *port, loc)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	frames.Stop()

	log.Println("Server stopped")
}
