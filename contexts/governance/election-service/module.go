package electionservice

import (
	"log/slog"

	httpadapter "ballot/contexts/governance/election-service/adapters/http"
	"ballot/contexts/governance/election-service/adapters/memory"
	"ballot/contexts/governance/election-service/application/commands"
	"ballot/contexts/governance/election-service/application/queries"
	"ballot/contexts/governance/election-service/application/workers"
	"ballot/contexts/governance/election-service/domain/entities"
	"ballot/contexts/governance/election-service/ports"
)

type Module struct {
	Handler     httpadapter.Handler
	OutboxRelay workers.OutboxRelay
	Store       *memory.Store
}

type Dependencies struct {
	Elections       ports.ElectionRepository
	Outbox          ports.OutboxRepository
	Publisher       ports.EventPublisher
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	OutboxBatchSize int
	Logger          *slog.Logger
}

func NewModule(deps Dependencies) Module {
	electionUseCase := commands.ElectionUseCase{
		Elections: deps.Elections,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	queryUseCase := queries.ElectionQueryUseCase{
		Elections: deps.Elections,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Elections: electionUseCase,
			Queries:   queryUseCase,
		},
		OutboxRelay: workers.OutboxRelay{
			Outbox:    deps.Outbox,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			BatchSize: deps.OutboxBatchSize,
			Logger:    deps.Logger,
		},
	}
}

// NewInMemoryModule wires the module to a process-local store. publisher may
// be nil when the caller never runs the outbox relay.
func NewInMemoryModule(seed []entities.Election, publisher ports.EventPublisher, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Elections: store,
		Outbox:    store,
		Publisher: publisher,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
