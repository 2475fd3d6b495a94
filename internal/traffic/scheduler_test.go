package traffic_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/shopkeep/internal/customer"
	"github.com/talgya/shopkeep/internal/session"
	"github.com/talgya/shopkeep/internal/shop"
	"github.com/talgya/shopkeep/internal/traffic"
)

// testConfig keeps sessions short and pushes the autonomous spawn check
// far beyond the test's lifetime, so only explicit Admit calls matter.
func testConfig(maxConcurrent int) traffic.Config {
	return traffic.Config{
		MaxConcurrent: maxConcurrent,
		TickScale:     100,
		ThinkTime:     50 * time.Millisecond,
		Seed:          7,
	}
}

func newScheduler(t *testing.T, maxConcurrent int) (*traffic.Scheduler, *shop.Shop) {
	t.Helper()
	sh, err := shop.New(4, 0.6, 7)
	require.NoError(t, err)
	sched, err := traffic.New(sh, testConfig(maxConcurrent))
	require.NoError(t, err)
	return sched, sh
}

func TestNewRejectsBadConfig(t *testing.T) {
	sh, err := shop.New(4, 0.6, 7)
	require.NoError(t, err)

	_, err = traffic.New(nil, testConfig(4))
	assert.Error(t, err)

	_, err = traffic.New(sh, traffic.Config{MaxConcurrent: 0})
	assert.Error(t, err)
}

func TestStartTwiceFails(t *testing.T) {
	sched, _ := newScheduler(t, 4)
	require.NoError(t, sched.Start())
	defer sched.Stop()
	assert.Error(t, sched.Start())
}

func TestAdmitRequiresRunning(t *testing.T) {
	sched, _ := newScheduler(t, 4)
	spawner := customer.NewSpawner(1)
	assert.False(t, sched.Admit(spawner.SpawnOf(customer.ArchCasual)))
	assert.Equal(t, 0, sched.ActiveCount())
}

func TestConcurrencyCeilingIsNeverExceeded(t *testing.T) {
	sched, _ := newScheduler(t, 2)
	require.NoError(t, sched.Start())
	defer sched.Stop()

	spawner := customer.NewSpawner(2)
	assert.True(t, sched.Admit(spawner.SpawnOf(customer.ArchCasual)))
	assert.True(t, sched.Admit(spawner.SpawnOf(customer.ArchNovice)))
	assert.False(t, sched.Admit(spawner.SpawnOf(customer.ArchVeteran)), "third admit over a ceiling of two")
	assert.LessOrEqual(t, sched.ActiveCount(), 2)
}

func TestStopDrainsActiveSessions(t *testing.T) {
	sched, _ := newScheduler(t, 8)

	var ended atomic.Int64
	sched.OnEvent = func(ev session.Event) {
		if ev.Kind == session.EventSessionEnded {
			ended.Add(1)
		}
	}
	require.NoError(t, sched.Start())

	spawner := customer.NewSpawner(3)
	for i := 0; i < 3; i++ {
		require.True(t, sched.Admit(spawner.SpawnOf(customer.ArchCasual)))
	}
	require.Equal(t, 3, sched.ActiveCount())

	// Stop must block until every in-flight session has finished
	// naturally and its final notification was delivered.
	sched.Stop()

	assert.Equal(t, int64(3), ended.Load())
	assert.Equal(t, 0, sched.ActiveCount())
	assert.Equal(t, 3, sched.VisitCount())
}

func TestDuplicateIdentityAdmittedOnce(t *testing.T) {
	sched, _ := newScheduler(t, 8)
	require.NoError(t, sched.Start())
	defer sched.Stop()

	c := customer.NewSpawner(4).SpawnOf(customer.ArchMerchant)

	var admitted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sched.Admit(c) {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), admitted.Load(), "same identity must enter exactly once")
	assert.LessOrEqual(t, sched.ActiveCount(), 1)
}

func TestStopDrainsOverlappingAdmit(t *testing.T) {
	// An Admit racing Stop must either be rejected or fully drained;
	// Stop may never return with the admitted session still running.
	for i := 0; i < 100; i++ {
		sh, err := shop.New(2, 0.6, int64(i))
		require.NoError(t, err)
		sched, err := traffic.New(sh, traffic.Config{
			MaxConcurrent: 4,
			TickScale:     100,
			ThinkTime:     2 * time.Millisecond,
			Seed:          int64(i),
		})
		require.NoError(t, err)

		var ended atomic.Int64
		sched.OnEvent = func(ev session.Event) {
			if ev.Kind == session.EventSessionEnded {
				ended.Add(1)
			}
		}
		require.NoError(t, sched.Start())

		spawner := customer.NewSpawner(int64(i))
		admitted := make(chan bool, 1)
		go func() { admitted <- sched.Admit(spawner.SpawnOf(customer.ArchCasual)) }()
		sched.Stop()

		if <-admitted {
			assert.Equal(t, int64(1), ended.Load(), "iteration %d", i)
			assert.Equal(t, 1, sched.VisitCount(), "iteration %d", i)
		}
		assert.Equal(t, 0, sched.ActiveCount(), "iteration %d", i)
	}
}

func TestTickSpawnsAndTracksLevel(t *testing.T) {
	// Top reputation and full shelves score 40 + 30 = 70, so the loop's
	// first recheck must move the level from its Moderate default to Busy.
	// Pricing far beyond any budget keeps the shelves full for the whole
	// test, so the score holds steady while sessions churn through.
	sh, err := shop.New(4, 0.9, 7)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := sh.Stock(shop.Item{
			Name:     "Crown Jewel",
			Category: shop.CategoryTrinket,
			Quality:  shop.QualityMasterwork,
		}, 10000)
		require.NoError(t, err)
	}

	sched, err := traffic.New(sh, traffic.Config{
		MaxConcurrent: 2,
		TickScale:     0.002, // Spawn checks every few milliseconds
		ThinkTime:     time.Millisecond,
		Seed:          7,
	})
	require.NoError(t, err)
	require.NoError(t, sched.Start())
	defer sched.Stop()

	// External arrivals while the loop is ticking share the scheduler's
	// rng and waitgroup with the autonomous path.
	go sched.Admit(customer.NewSpawner(8).SpawnOf(customer.ArchNovice))
	go sched.Admit(customer.NewSpawner(9).SpawnOf(customer.ArchCasual))

	// Two visits can come from the manual admits; a third requires a
	// tick-driven spawn to have passed the occupancy-damped draw.
	deadline := time.After(10 * time.Second)
	for sched.VisitCount() < 3 {
		assert.LessOrEqual(t, sched.ActiveCount(), 2)
		select {
		case <-deadline:
			t.Fatal("no tick-driven arrivals")
		case <-time.After(5 * time.Millisecond):
		}
	}

	assert.Equal(t, traffic.LevelBusy, sched.Level())
}

func TestRecordsCarryTransactionWhenPurchased(t *testing.T) {
	sched, sh := newScheduler(t, 8)
	_, err := sh.Stock(shop.Item{
		Name:     "Minor Healing Draught",
		Category: shop.CategoryPotion,
		Quality:  shop.QualityFine,
	}, 15)
	require.NoError(t, err)
	require.NoError(t, sched.Start())

	spawner := customer.NewSpawner(5)
	require.True(t, sched.Admit(spawner.SpawnOf(customer.ArchNoble)))
	sched.Stop()

	a := sched.Analytics()
	require.Equal(t, 1, a.TotalVisits)
	if a.Purchases == 1 {
		assert.Greater(t, a.TotalRevenue, 0.0)
	} else {
		assert.Zero(t, a.TotalRevenue)
	}
}
