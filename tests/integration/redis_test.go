package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fieldserve/repairline/internal/adapter/cache"
	"github.com/fieldserve/repairline/internal/domain"
)

// TestRedis_CacheAdapter exercises the Redis cache adapter against a real
// instance: the hot path in front of tenant and conversation lookups.
func TestRedis_CacheAdapter(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.RedisURL == "" {
		t.Skip("Redis not available")
	}

	appCache, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to connect to redis: %v", err)
	}
	defer appCache.Close()

	ctx := context.Background()

	t.Run("SetGet", func(t *testing.T) {
		if err := appCache.Set(ctx, "test:key", "test-value", time.Minute); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}

		val, err := appCache.Get(ctx, "test:key")
		if err != nil {
			t.Fatalf("Failed to get key: %v", err)
		}
		if val != "test-value" {
			t.Errorf("Expected 'test-value', got '%s'", val)
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		if err := appCache.Set(ctx, "test:expiring", "value", 100*time.Millisecond); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}

		if _, err := appCache.Get(ctx, "test:expiring"); err != nil {
			t.Fatalf("Key should exist: %v", err)
		}

		time.Sleep(150 * time.Millisecond)

		if _, err := appCache.Get(ctx, "test:expiring"); err == nil {
			t.Error("Key should have expired")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := appCache.Set(ctx, "test:doomed", "value", time.Minute); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}
		if err := appCache.Delete(ctx, "test:doomed"); err != nil {
			t.Fatalf("Failed to delete key: %v", err)
		}
		if _, err := appCache.Get(ctx, "test:doomed"); err == nil {
			t.Error("Deleted key should miss")
		}
	})

	t.Run("Miss", func(t *testing.T) {
		if _, err := appCache.Get(ctx, "test:never-set"); err == nil {
			t.Error("Expected error on cache miss")
		}
	})

	// Tenant records round-trip through the cache as JSON.
	t.Run("TenantRoundTrip", func(t *testing.T) {
		tenant := domain.Tenant{
			ID:         "tenant-1",
			Name:       "Acme Appliance Repair",
			FromNumber: "+15559990000",
			Active:     true,
		}

		payload, err := json.Marshal(tenant)
		if err != nil {
			t.Fatalf("Failed to marshal tenant: %v", err)
		}
		if err := appCache.Set(ctx, "tenant:number:+15559990000", payload, 5*time.Minute); err != nil {
			t.Fatalf("Failed to cache tenant: %v", err)
		}

		raw, err := appCache.Get(ctx, "tenant:number:+15559990000")
		if err != nil {
			t.Fatalf("Failed to read tenant back: %v", err)
		}

		var got domain.Tenant
		if err := json.Unmarshal([]byte(raw), &got); err != nil {
			t.Fatalf("Failed to unmarshal tenant: %v", err)
		}
		if got.Name != "Acme Appliance Repair" {
			t.Errorf("Expected tenant name to survive, got '%s'", got.Name)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := appCache.Ping(); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})
}
