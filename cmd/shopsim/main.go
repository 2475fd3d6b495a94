// Command shopsim runs the shop-keeping customer simulation against a
// demo storefront.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/shopkeep/internal/api"
	"github.com/talgya/shopkeep/internal/persistence"
	"github.com/talgya/shopkeep/internal/shop"
	"github.com/talgya/shopkeep/internal/traffic"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("shopkeep — customer traffic simulation")

	seed := int64(42)
	dbPath := "data/shopkeep.db"
	apiPort := 8080

	// ── Database ──────────────────────────────────────────────────────
	if err := os.MkdirAll("data", 0755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", dbPath)

	// ── Storefront ────────────────────────────────────────────────────
	store, err := shop.New(12, 0.6, seed)
	if err != nil {
		slog.Error("failed to create shop", "error", err)
		os.Exit(1)
	}
	stockDemoInventory(store)
	slog.Info("storefront stocked", "items", len(store.DisplayedItems()))

	// ── Traffic scheduler ─────────────────────────────────────────────
	cfg := traffic.DefaultConfig()
	cfg.Seed = seed
	cfg.TickScale = 0.25 // Demo pace, four times the normal check rate

	sched, err := traffic.New(store, cfg)
	if err != nil {
		slog.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}
	sched.Sink = db

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{
		Scheduler: sched,
		Shop:      store,
		DB:        db,
		Port:      apiPort,
	}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	if err := sched.Start(); err != nil {
		slog.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\nShop is open: %d display slots, API on http://localhost:%d/api/v1/status\n",
		store.SlotCount(), apiPort)
	fmt.Println("Running... (Ctrl+C closes the shop and drains active customers)")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, closing shop", "signal", sig)

	// Stop drains: every customer mid-visit finishes naturally.
	sched.Stop()

	a := sched.Analytics()
	fmt.Printf("\nClosed. %d visits, %d purchases (%.0f%% conversion), %s crowns taken, average visit %s.\n",
		a.TotalVisits, a.Purchases, a.ConversionRate*100,
		humanize.CommafWithDigits(a.TotalRevenue, 2),
		a.AvgDuration.Round(time.Millisecond),
	)
}

// stockDemoInventory fills the shelves with a spread of categories,
// qualities, and price points.
func stockDemoInventory(store *shop.Shop) {
	goods := []struct {
		item  shop.Item
		price float64
	}{
		{shop.Item{Name: "Iron Shortsword", Category: shop.CategoryWeapon, Quality: shop.QualityCommon}, 45},
		{shop.Item{Name: "Steel Longsword", Category: shop.CategoryWeapon, Quality: shop.QualityFine}, 120},
		{shop.Item{Name: "Masterwork Blade", Category: shop.CategoryWeapon, Quality: shop.QualityMasterwork}, 600},
		{shop.Item{Name: "Leather Cuirass", Category: shop.CategoryArmor, Quality: shop.QualityCommon}, 60},
		{shop.Item{Name: "Chainmail Hauberk", Category: shop.CategoryArmor, Quality: shop.QualitySuperior}, 280},
		{shop.Item{Name: "Minor Healing Draught", Category: shop.CategoryPotion, Quality: shop.QualityCrude}, 12},
		{shop.Item{Name: "Healing Potion", Category: shop.CategoryPotion, Quality: shop.QualityFine}, 35},
		{shop.Item{Name: "Elixir of Vigor", Category: shop.CategoryPotion, Quality: shop.QualitySuperior}, 90},
		{shop.Item{Name: "Iron Ingot", Category: shop.CategoryMaterial, Quality: shop.QualityCommon}, 18},
		{shop.Item{Name: "Silver Wire Spool", Category: shop.CategoryMaterial, Quality: shop.QualityFine}, 55},
		{shop.Item{Name: "Carved Bone Charm", Category: shop.CategoryTrinket, Quality: shop.QualityCommon}, 25},
		{shop.Item{Name: "Gilded Locket", Category: shop.CategoryTrinket, Quality: shop.QualitySuperior}, 150},
	}
	for _, g := range goods {
		if _, err := store.Stock(g.item, g.price); err != nil {
			slog.Warn("could not stock item", "item", g.item.Name, "error", err)
		}
	}
}
