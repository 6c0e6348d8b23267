package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	staticassets "gridstead/internal/adapter/assets/static"
	"gridstead/internal/adapter/audio"
	httpadapter "gridstead/internal/adapter/http"
	metricsinmem "gridstead/internal/adapter/metrics/inmemory"
	gormrepo "gridstead/internal/adapter/repo/gorm"
	"gridstead/internal/adapter/repo/memory"
	"gridstead/internal/app/play"
	"gridstead/internal/app/ports"
	"gridstead/internal/app/scenes"
	"gridstead/internal/app/scenestate"
	"gridstead/internal/app/transition"
	"gridstead/internal/app/worldgen"
	"gridstead/internal/domain/world"

	"github.com/cloudwego/hertz/pkg/app/server"
)

const defaultPlayerID = "local-player"
const originScene = world.SceneID("world_0_0")

func main() {
	sceneStore, playerRepo, eventRepo, txManager := buildReposFromEnv()

	assets := staticassets.NewLibrary()
	terrain := world.DefaultTerrainRegistry()
	items := world.DefaultItemRegistry()
	kpi := metricsinmem.NewRecorder()
	cues := audio.NewRecorder()

	manager := &scenes.Manager{
		Store:   sceneStore,
		Tx:      txManager,
		Metrics: kpi,
		Codec:   scenestate.Codec{Assets: assets, Terrain: terrain, Items: items},
		Gen: worldgen.Generator{
			Assets:  assets,
			Terrain: terrain,
			Items:   items,
			Rand:    rand.New(rand.NewSource(seedFromEnv())),
		},
		Profile:     worldgen.ForestProfile(),
		OutdoorRows: intEnv("GRIDSTEAD_SCENE_ROWS", 15),
		OutdoorCols: intEnv("GRIDSTEAD_SCENE_COLS", 20),
	}

	uc := play.UseCase{
		Manager:     manager,
		Transitions: transition.Controller{Manager: manager},
		PlayerRepo:  playerRepo,
		Events:      eventRepo,
		Audio:       cues,
		Assets:      assets,
		Items:       items,
		Tx:          txManager,
		Now:         time.Now,
	}
	if err := uc.EnsurePlayer(context.Background(), defaultPlayerID, originScene); err != nil {
		log.Fatalf("seed player: %v", err)
	}

	h := httpadapter.Handler{
		PlayUC: uc,
		Scenes: manager,
		Cues:   cues,
		KPI:    kpi,
	}

	addr := envOr("GRIDSTEAD_HTTP_ADDR", ":8080")
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	log.Printf("gridstead server listening on %s (player: %s)", addr, defaultPlayerID)
	s.Spin()
}

// buildReposFromEnv wires postgres persistence when a DSN is configured and
// falls back to in-memory adapters otherwise, so the game runs without a
// database for local development.
func buildReposFromEnv() (ports.SceneStore, ports.PlayerStateRepository, ports.EventRepository, ports.TxManager) {
	dsn := strings.TrimSpace(os.Getenv("GRIDSTEAD_DB_DSN"))
	if dsn == "" {
		log.Println("GRIDSTEAD_DB_DSN not set, world state will not survive restarts")
		store := memory.NewStore()
		return memory.NewSceneRepo(store), memory.NewPlayerStateRepo(store), memory.NewEventRepo(store), memory.NewTxManager()
	}

	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if dir := strings.TrimSpace(os.Getenv("GRIDSTEAD_MIGRATIONS_DIR")); dir != "" {
		if err := gormrepo.ApplyMigrations(context.Background(), db, dir); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
	}
	return gormrepo.NewSceneRepo(db), gormrepo.NewPlayerStateRepo(db), gormrepo.NewEventRepo(db), gormrepo.NewTxManager(db)
}

func seedFromEnv() int64 {
	v := strings.TrimSpace(os.Getenv("GRIDSTEAD_WORLD_SEED"))
	if v == "" {
		return time.Now().UnixNano()
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Now().UnixNano()
	}
	return n
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
