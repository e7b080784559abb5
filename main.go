package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"icebreak_server/services"
	"icebreak_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Initialize DynamoDB client and store
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	store := &services.DynamoStore{Dynamo: dynamoService}
	log.Println("DynamoDB client initialized.")

	// Initialize services
	aiService := services.NewAIService(
		os.Getenv("OPENAI_API_KEY"),
		envOr("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		envFloat("SIMILARITY_THRESHOLD", 0.5),
	)
	queueService := services.NewQueueService()
	sessionService := services.NewSessionService(
		store,
		aiService,
		aiService.IsSemanticallySimilar,
		envInt("QUESTION_COUNT", 10),
		envInt("PASS_THRESHOLD", 5),
	)
	chatService := &services.ChatService{Store: store}

	// Initialize the realtime gateway
	resolver := socket.NewJWTResolver([]byte(envOr("JWT_SECRET", "replace-me")))
	gateway := socket.NewGateway(queueService, sessionService, chatService, resolver)
	sessionService.Emitter = gateway

	go func() {
		if err := gateway.Server.Serve(); err != nil {
			log.Fatalf("Socket server failed: %v", err)
		}
	}()
	defer gateway.Server.Close()

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Icebreak")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Mount the socket server
	r.PathPrefix("/socket.io/").Handler(gateway.Server)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	port := envOr("PORT", "8080")
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

func corsOrigins() []string {
	raw := os.Getenv("CORS_ORIGIN")
	if raw == "" {
		return []string{"*"}
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("⚠️ Invalid %s value %q, using %d", name, v, fallback)
	}
	return fallback
}

func envFloat(name string, fallback float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("⚠️ Invalid %s value %q, using %g", name, v, fallback)
	}
	return fallback
}
