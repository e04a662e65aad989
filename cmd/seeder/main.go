package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/synqtra/synqtra-api/internal/config"
	"github.com/synqtra/synqtra-api/internal/models"
	"github.com/synqtra/synqtra-api/internal/repositories/wallet"
)

// Seeds demo wallet records so the leaderboard has something to show at a
// fresh event. Points span all three tiers.
func main() {
	count := flag.Int("count", 30, "number of demo wallets to seed")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to parse redis url: %v", err)
	}
	client := redis.NewClient(opts)
	defer client.Close()

	repo, err := wallet.NewRedis(&wallet.Config{RedisClient: client})
	if err != nil {
		log.Fatalf("failed to create wallet repository: %v", err)
	}

	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < *count; i++ {
		record := &models.WalletRecord{
			Address:     randomAddress(),
			TotalPoints: int64(rand.Intn(150)),
			GamesPlayed: int64(rand.Intn(20) + 1),
			LastUpdated: now,
		}

		if err := repo.Save(ctx, &wallet.SaveInput{Record: record}); err != nil {
			log.Fatalf("failed to save wallet %s: %v", record.Address, err)
		}

		fmt.Printf("seeded %s points=%d games=%d rank=%s\n",
			record.Address, record.TotalPoints, record.GamesPlayed,
			models.RankForPoints(record.TotalPoints))
	}

	fmt.Printf("done: %d wallets\n", *count)
}

const hexChars = "0123456789abcdef"

func randomAddress() string {
	b := make([]byte, 40)
	for i := range b {
		b[i] = hexChars[rand.Intn(len(hexChars))]
	}
	return "0x" + string(b)
}
