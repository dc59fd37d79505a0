// Command seed populates the profile store with synthetic DJ profiles for
// local development and load checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/djelite/matchengine/internal/adapters/profilestore"
	"github.com/djelite/matchengine/internal/config"
	"github.com/djelite/matchengine/pkg/logger"
)

var (
	genrePool = []string{"House", "Techno", "Trance", "Drum & Bass", "Dubstep", "Hip-Hop", "Disco", "Ambient", "Garage", "Hardstyle"}
	skillPool = []string{"beatmatching", "scratching", "harmonic mixing", "crowd reading", "production", "mastering", "live remixing", "vinyl"}
	cityPool  = []string{"Berlin, Germany", "London, UK", "Amsterdam, Netherlands", "Detroit, USA", "Ibiza, Spain", "Tbilisi, Georgia"}
	levels    = []string{"beginner", "intermediate", "advanced", "professional"}
)

func main() {
	count := flag.Int("count", 200, "number of profiles to create")
	mutuals := flag.Int("mutuals", 100, "number of mutual-match rows to create")
	seed := flag.Int64("seed", 42, "rng seed")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		log.Error(ctx, "seed requires MATCH_DATABASE_URL")
		os.Exit(1)
	}

	store, err := profilestore.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error(ctx, "failed to open profile store", logger.Error(err))
		os.Exit(1)
	}
	defer store.Close()

	rng := rand.New(rand.NewSource(*seed)) //nolint:gosec // synthetic data only

	ids := make([]string, 0, *count)
	for i := 0; i < *count; i++ {
		id := uuid.NewString()
		if err := insertProfile(ctx, store, rng, id, i); err != nil {
			log.Error(ctx, "insert failed", logger.String("id", id), logger.Error(err))
			os.Exit(1)
		}
		ids = append(ids, id)
	}
	log.Info(ctx, "profiles created", logger.Int("count", len(ids)))

	created := 0
	for created < *mutuals && len(ids) > 1 {
		a := ids[rng.Intn(len(ids))]
		b := ids[rng.Intn(len(ids))]
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		if err := insertMutual(ctx, store, a, b); err == nil {
			created++
		}
	}
	log.Info(ctx, "mutual matches created", logger.Int("count", created))
}

func insertProfile(ctx context.Context, store *profilestore.PostgresStore, rng *rand.Rand, id string, n int) error {
	genres := pick(rng, genrePool, 1+rng.Intn(3))
	skills := pick(rng, skillPool, rng.Intn(4))
	lastActive := time.Now().Add(-time.Duration(rng.Intn(45*24)) * time.Hour)

	const query = `
		INSERT INTO dj_profiles (id, display_name, genres, skills, experience, location, last_active_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`

	_, err := store.DB().ExecContext(ctx, query,
		id,
		fmt.Sprintf("DJ Test %03d", n),
		pq.Array(genres),
		pq.Array(skills),
		levels[rng.Intn(len(levels))],
		cityPool[rng.Intn(len(cityPool))],
		lastActive,
	)
	return err
}

func insertMutual(ctx context.Context, store *profilestore.PostgresStore, a, b string) error {
	const query = `
		INSERT INTO mutual_matches (profile_a, profile_b)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	_, err := store.DB().ExecContext(ctx, query, a, b)
	return err
}

func pick(rng *rand.Rand, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	perm := rng.Perm(len(pool))
	out := make([]string, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, pool[idx])
	}
	return out
}
