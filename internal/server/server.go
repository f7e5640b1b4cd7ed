package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"TalentBridge-backend/internal/database"
	"TalentBridge-backend/internal/storage"
)

// MyServer contain port which server are running on, the database
// instance, and the file storage client.
type MyServer struct {
	port int

	DB      *database.DBinstanceStruct
	Storage storage.StorageClient
}

// NewServer construct new http.Server instance with all routes bound
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	store, err := storage.NewLocalStorageClient()
	if err != nil {
		log.Fatalf("Storage failed to initialize: %s", err)
	}

	s := &MyServer{
		port:    port,
		DB:      db,
		Storage: store,
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}
