package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/Devyalamaddi/CareConnect/internal/adapters/cache"
	"github.com/Devyalamaddi/CareConnect/internal/domain/entities"
	"github.com/Devyalamaddi/CareConnect/internal/infrastructure/clients/redis"
	"github.com/Devyalamaddi/CareConnect/pkg/config"
)

// Seeds the hospital fallback entry so a fresh deployment serves real data
// offline before the first sync trigger ever fires. Reads the dataset from
// SEED_FILE, or seeds a minimal sample when unset.

var sampleHospitals = []map[string]interface{}{
	{"name": "City General Hospital", "address": "12 Hospital Road", "phone": "+91-40-10001000", "emergency": true},
	{"name": "Lakeside Medical Center", "address": "3 Lakeview Drive", "phone": "+91-40-10002000", "emergency": true},
	{"name": "Community Health Clinic", "address": "78 Market Street", "phone": "+91-40-10003000", "emergency": false},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	var data []byte
	if path := os.Getenv("SEED_FILE"); path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read seed file %s: %v", path, err)
		}
		if !json.Valid(data) {
			log.Fatalf("Seed file %s is not valid JSON", path)
		}
		log.Printf("Seeding hospital fallback from %s (%d bytes)", path, len(data))
	} else {
		data, err = json.Marshal(map[string]interface{}{"hospitals": sampleHospitals})
		if err != nil {
			log.Fatalf("Failed to marshal sample dataset: %v", err)
		}
		log.Printf("SEED_FILE not set, seeding %d sample hospitals", len(sampleHospitals))
	}

	ctx := context.Background()
	store := cache.NewRedisPartitionStore(redisClient)
	part, err := store.Open(ctx, cfg.Worker.HospitalPartition)
	if err != nil {
		log.Fatalf("Failed to open partition %s: %v", cfg.Worker.HospitalPartition, err)
	}

	entry := &entities.FetchResponse{
		StatusCode: 200,
		Header:     map[string]string{"Content-Type": "application/json"},
		Body:       data,
	}
	if err := part.Put(ctx, cfg.Worker.HospitalFallbackKey, entry); err != nil {
		log.Fatalf("Failed to seed fallback entry: %v", err)
	}

	log.Printf("Seeded %s in partition %s", cfg.Worker.HospitalFallbackKey, cfg.Worker.HospitalPartition)
}
