package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	electionservice "ballot/contexts/governance/election-service"
	"ballot/contexts/governance/election-service/application/commands"
	electionhttp "ballot/contexts/governance/election-service/transport/http"
	"ballot/internal/platform/messaging"
	"ballot/internal/shared/events"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{"": ":8080", "9090": ":9090", ":7000": ":7000", " 81 ": ":81"}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Fatalf("normalizeAddr(%q): expected %s, got %s", in, want, got)
		}
	}
}

func TestRelaySchedulerRejectsInvalidSchedule(t *testing.T) {
	module := electionservice.NewInMemoryModule(nil, nil, nil)
	if _, err := newRelayScheduler("every tuesday-ish", module.OutboxRelay, slog.Default()); err == nil {
		t.Fatalf("expected invalid schedule error")
	}
}

func TestRelaySchedulerCycleDrainsOutboxToBus(t *testing.T) {
	bus := messaging.NewBus(8, nil)
	module := electionservice.NewInMemoryModule(nil, bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	created := make(chan events.Envelope, 1)
	if err := bus.Subscribe(ctx, commands.EventElectionCreated, "test-cg", func(_ context.Context, event events.Envelope) error {
		created <- event
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if _, err := module.Handler.CreateElectionHandler(ctx, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", electionhttp.CreateElectionRequest{Title: "scheduled"}); err != nil {
		t.Fatalf("create election failed: %v", err)
	}

	scheduler, err := newRelayScheduler("@every 1m", module.OutboxRelay, slog.Default())
	if err != nil {
		t.Fatalf("build scheduler failed: %v", err)
	}
	scheduler.ctx = ctx
	scheduler.runOnce()

	select {
	case event := <-created:
		if event.EventType != commands.EventElectionCreated {
			t.Fatalf("unexpected event type %s", event.EventType)
		}
	case <-time.After(time.Second):
		t.Fatalf("relay cycle did not publish election.created")
	}
	if module.Store.PendingOutboxCount() != 0 {
		t.Fatalf("expected outbox drained, %d pending", module.Store.PendingOutboxCount())
	}
}

func TestBuildAPIWithMemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("OUTBOX_BATCH_SIZE", "")
	t.Setenv("OUTBOX_RELAY_SCHEDULE", "")

	app, err := BuildAPI(context.Background())
	if err != nil {
		t.Fatalf("build api failed: %v", err)
	}
	if app.scheduler == nil || app.announcer == nil {
		t.Fatalf("memory store api should run the relay in process")
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildWorkerRequiresPostgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("OUTBOX_BATCH_SIZE", "")
	if _, err := BuildWorker(context.Background()); err == nil {
		t.Fatalf("expected worker to require the postgres store")
	}
}

func TestRelayLeavesRowsPendingWhileSubscriberIsBacklogged(t *testing.T) {
	bus := messaging.NewBus(1, nil)
	module := electionservice.NewInMemoryModule(nil, bus, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	release := make(chan struct{})
	delivered := make(chan string, 8)
	if err := bus.Subscribe(ctx, commands.EventElectionCreated, "test-cg", func(_ context.Context, event events.Envelope) error {
		<-release
		delivered <- event.EventID
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := module.Handler.CreateElectionHandler(ctx, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", electionhttp.CreateElectionRequest{}); err != nil {
			t.Fatalf("create election failed: %v", err)
		}
	}

	err := module.OutboxRelay.RunOnce(ctx)
	if !errors.Is(err, messaging.ErrSubscriberBackpressure) {
		t.Fatalf("expected backpressure from relay, got %v", err)
	}
	if module.Store.PendingOutboxCount() == 0 {
		t.Fatalf("undelivered election.created rows were marked published")
	}

	close(release)
	deadline := time.Now().Add(2 * time.Second)
	for module.Store.PendingOutboxCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("outbox not drained after subscriber caught up, %d pending", module.Store.PendingOutboxCount())
		}
		_ = module.OutboxRelay.RunOnce(ctx)
		time.Sleep(5 * time.Millisecond)
	}

	seen := map[string]bool{}
	timeout := time.After(time.Second)
	for len(seen) < 3 {
		select {
		case id := <-delivered:
			seen[id] = true
		case <-timeout:
			t.Fatalf("expected all three events delivered, got %d", len(seen))
		}
	}
}
