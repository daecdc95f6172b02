package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	pgstore "github.com/fieldserve/repairline/internal/adapter/storage/postgres"
	"github.com/fieldserve/repairline/internal/domain"
)

// TestDatabase_ConversationLifecycle exercises the conversation row store
// against a real Postgres: insert, active lookup, state merge, reaping.
func TestDatabase_ConversationLifecycle(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	ctx := context.Background()
	repo := pgstore.NewConversationRepository(env.DB, env.Logger)

	conv := domain.NewConversation("tenant-1", "+15550001111", domain.ChannelVoice)

	t.Run("InsertAndFindActive", func(t *testing.T) {
		if err := repo.Insert(ctx, conv); err != nil {
			t.Fatalf("Failed to insert conversation: %v", err)
		}

		found, err := repo.FindActive(ctx, "tenant-1", "+15550001111")
		if err != nil {
			t.Fatalf("Failed to find conversation: %v", err)
		}
		if found == nil {
			t.Fatal("Expected an active conversation, got nil")
		}
		if found.ID != conv.ID {
			t.Errorf("Expected conversation %s, got %s", conv.ID, found.ID)
		}
	})

	t.Run("FindActiveMissesOtherContacts", func(t *testing.T) {
		found, err := repo.FindActive(ctx, "tenant-1", "+15559998888")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if found != nil {
			t.Errorf("Expected nil for unknown contact, got %s", found.ID)
		}
	})

	t.Run("UpdateStateMergesAndPersists", func(t *testing.T) {
		slots := domain.SlotSet{
			domain.SlotCustomerName:  "Maria Santos",
			domain.SlotApplianceType: "dishwasher",
		}
		history := []string{"caller: my dishwasher is leaking", "agent: What's your name?"}

		err := repo.UpdateState(ctx, conv.ID, slots, domain.StepCollecting, history)
		if err != nil {
			t.Fatalf("Failed to update state: %v", err)
		}

		found, err := repo.FindActive(ctx, "tenant-1", "+15550001111")
		if err != nil {
			t.Fatalf("Failed to reload conversation: %v", err)
		}
		if found.Slots.Get(domain.SlotCustomerName) != "Maria Santos" {
			t.Errorf("Expected slot to persist, got '%s'", found.Slots.Get(domain.SlotCustomerName))
		}
		if found.Step != domain.StepCollecting {
			t.Errorf("Expected step %s, got %s", domain.StepCollecting, found.Step)
		}
		if len(found.History) != 2 {
			t.Errorf("Expected 2 history lines, got %d", len(found.History))
		}
	})

	t.Run("UpdateStateUnknownID", func(t *testing.T) {
		err := repo.UpdateState(ctx, uuid.NewString(), domain.SlotSet{}, domain.StepCollecting, nil)
		if err == nil {
			t.Error("Expected error for unknown conversation id")
		}
	})

	t.Run("ReapDeactivatesExpired", func(t *testing.T) {
		expired := domain.NewConversation("tenant-1", "+15553334444", domain.ChannelText)
		expired.ExpiresAt = time.Now().UTC().Add(-time.Hour)
		if err := repo.Insert(ctx, expired); err != nil {
			t.Fatalf("Failed to insert expired conversation: %v", err)
		}

		count, err := repo.Reap(ctx, time.Now().UTC())
		if err != nil {
			t.Fatalf("Failed to reap: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 reaped row, got %d", count)
		}

		found, err := repo.FindActive(ctx, "tenant-1", "+15553334444")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if found != nil {
			t.Error("Reaped conversation should no longer be active")
		}

		// The live conversation is untouched.
		live, err := repo.FindActive(ctx, "tenant-1", "+15550001111")
		if err != nil || live == nil {
			t.Errorf("Live conversation should survive the sweep: %v", err)
		}
	})
}

// TestDatabase_FAQUsage verifies FAQ CRUD and that usage increments are
// applied in the database, not read-modify-write in the client.
func TestDatabase_FAQUsage(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	ctx := context.Background()
	repo := pgstore.NewFAQRepository(env.DB, env.Logger)

	faq := &domain.FAQ{
		ID:       uuid.NewString(),
		TenantID: "tenant-1",
		Question: "Do you service my area?",
		Answer:   "We cover the entire metro area.",
		Keywords: "area, service area, coverage",
	}

	if err := repo.Insert(ctx, faq); err != nil {
		t.Fatalf("Failed to insert FAQ: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.IncrementUsage(ctx, faq.ID); err != nil {
			t.Fatalf("Failed to increment usage: %v", err)
		}
	}

	list, err := repo.ListByTenant(ctx, "tenant-1")
	if err != nil {
		t.Fatalf("Failed to list FAQs: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 FAQ, got %d", len(list))
	}
	if list[0].UsageCount != 3 {
		t.Errorf("Expected usage count 3, got %d", list[0].UsageCount)
	}

	if err := repo.Delete(ctx, faq.ID); err != nil {
		t.Fatalf("Failed to delete FAQ: %v", err)
	}
	list, _ = repo.ListByTenant(ctx, "tenant-1")
	if len(list) != 0 {
		t.Errorf("Expected empty list after delete, got %d", len(list))
	}
}

// TestDatabase_AudioTemplateUpsert verifies re-rendering a clip replaces the
// row for the (tenant, key) pair instead of duplicating it.
func TestDatabase_AudioTemplateUpsert(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.DB == nil {
		t.Skip("Database not available")
	}
	CleanDatabase(t, env.DB)

	ctx := context.Background()
	repo := pgstore.NewAudioTemplateRepository(env.DB, env.Logger)

	tpl := &domain.AudioTemplate{
		ID:         uuid.NewString(),
		TenantID:   "tenant-1",
		Key:        domain.AudioKeyGreeting,
		URL:        "https://cdn.example.com/greeting-v1.mp3",
		Transcript: "Thanks for calling!",
	}
	if err := repo.Upsert(ctx, tpl); err != nil {
		t.Fatalf("Failed to upsert template: %v", err)
	}

	tpl.URL = "https://cdn.example.com/greeting-v2.mp3"
	tpl.Transcript = "Thanks for calling, how can we help?"
	if err := repo.Upsert(ctx, tpl); err != nil {
		t.Fatalf("Failed to upsert updated template: %v", err)
	}

	found, err := repo.FindByKey(ctx, "tenant-1", domain.AudioKeyGreeting)
	if err != nil {
		t.Fatalf("Failed to find template: %v", err)
	}
	if found == nil {
		t.Fatal("Expected template, got nil")
	}
	if found.URL != "https://cdn.example.com/greeting-v2.mp3" {
		t.Errorf("Expected updated URL, got %s", found.URL)
	}

	list, err := repo.ListByKeys(ctx, "tenant-1", []string{domain.AudioKeyGreeting})
	if err != nil {
		t.Fatalf("Failed to list templates: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected a single row after re-render, got %d", len(list))
	}
}
