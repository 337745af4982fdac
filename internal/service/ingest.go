package service

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"RouletteSync/internal/apperr"
	"RouletteSync/internal/model"
	"RouletteSync/internal/repository"
	"RouletteSync/internal/validation"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// statusResolved is the only upstream status admitted into the fact table.
// The match is exact and case-sensitive; anything else is dropped silently.
const statusResolved = "Resolved"

const ingestContext = "roulette ingest"

// EventSource provides the raw upstream batch. Satisfied by upstream.Client;
// tests substitute a stub.
type EventSource interface {
	FetchHistory(ctx context.Context) ([]byte, error)
}

// IngestService runs one fetch → validate → filter → resolve → insert pass.
// Invocations may overlap; dedup correctness rests on the settled_at
// watermark first and the event_id conflict-skip second.
type IngestService struct {
	logger  *logrus.Logger
	source  EventSource
	casinos repository.CasinoRepository
	events  repository.RouletteEventRepository
	errLogs repository.ErrorLogRepository
}

func NewIngestService(db *gorm.DB, logger *logrus.Logger, source EventSource) *IngestService {
	return &IngestService{
		logger:  logger,
		source:  source,
		casinos: repository.NewCasinoRepository(db),
		events:  repository.NewRouletteEventRepository(db),
		errLogs: repository.NewErrorLogRepository(db),
	}
}

// IngestResult reports the size of the to-ingest set, i.e. rows attempted.
// Conflict-skipped duplicates still count, so Processed may exceed the number
// of rows actually written.
type IngestResult struct {
	Processed int
}

// Ingest fetches the upstream batch and ingests it. Every failure is
// recorded to the error log before propagating.
func (s *IngestService) Ingest(ctx context.Context) (*IngestResult, error) {
	runLog := s.logger.WithField("run_id", uuid.NewString())

	raw, err := s.source.FetchHistory(ctx)
	if err != nil {
		s.record(ctx, err)
		return nil, err
	}

	res, err := s.ingest(ctx, runLog, raw)
	if err != nil {
		s.record(ctx, err)
	}
	return res, err
}

// IngestPayload ingests an already-fetched batch. Same recording semantics
// as Ingest.
func (s *IngestService) IngestPayload(ctx context.Context, raw []byte) (*IngestResult, error) {
	runLog := s.logger.WithField("run_id", uuid.NewString())

	res, err := s.ingest(ctx, runLog, raw)
	if err != nil {
		s.record(ctx, err)
	}
	return res, err
}

func (s *IngestService) ingest(ctx context.Context, log *logrus.Entry, raw []byte) (*IngestResult, error) {
	events, err := validation.ParseEvents(raw)
	if err != nil {
		return nil, err
	}
	log.Infof("fetched %d events", len(events))

	watermarks, err := s.resolveWatermarks(ctx, distinctTableIDs(events))
	if err != nil {
		return nil, err
	}

	toIngest := filterEvents(events, watermarks)
	if len(toIngest) == 0 {
		log.Info("no new resolved rounds, nothing to ingest")
		return &IngestResult{Processed: 0}, nil
	}

	casinoIDs, err := s.resolveCasinos(ctx, toIngest)
	if err != nil {
		return nil, err
	}

	rows := make([]*model.RouletteEvent, 0, len(toIngest))
	for _, ev := range toIngest {
		data := ev.Data
		casinoID, ok := casinoIDs[tableKey{id: data.Table.ID, name: data.Table.Name}]
		if !ok {
			return nil, &apperr.IntegrityError{
				Msg: fmt.Sprintf("no casino resolved for table %q (%s)", data.Table.ID, data.Table.Name),
			}
		}
		rows = append(rows, &model.RouletteEvent{
			EventID:       ev.ID,
			StartedAt:     data.StartedAt.Time,
			SettledAt:     data.SettledAt.Time,
			OutcomeNumber: data.Result.Outcome.Number,
			OutcomeType:   data.Result.Outcome.Type,
			OutcomeColor:  data.Result.Outcome.Color,
			Multipliers:   marshalMultipliers(data.Result.BonusMultipliers),
			CasinoID:      casinoID,
		})
	}

	inserted, err := s.events.BulkInsert(ctx, rows)
	if err != nil {
		return nil, err
	}
	log.Infof("ingested %d of %d resolved rounds (%d duplicates skipped)",
		inserted, len(rows), int64(len(rows))-inserted)

	return &IngestResult{Processed: len(rows)}, nil
}

// resolveWatermarks looks up the latest settled_at per table, one independent
// query per table, dispatched together and awaited together.
func (s *IngestService) resolveWatermarks(ctx context.Context, tableIDs []string) (map[string]time.Time, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		out      = make(map[string]time.Time, len(tableIDs))
	)
	for _, tableID := range tableIDs {
		wg.Add(1)
		go func(tableID string) {
			defer wg.Done()
			ts, ok, err := s.events.LatestSettlement(ctx, tableID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			if ok {
				out[tableID] = ts
			}
		}(tableID)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// resolveCasinos get-or-creates every distinct (table id, name) pair in the
// to-ingest set, fan-out/await-all. A pair appearing in the result map is
// guaranteed for every event in the set.
func (s *IngestService) resolveCasinos(ctx context.Context, events []model.GameEvent) (map[tableKey]uint64, error) {
	keys := make(map[tableKey]struct{}, len(events))
	for _, ev := range events {
		keys[tableKey{id: ev.Data.Table.ID, name: ev.Data.Table.Name}] = struct{}{}
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		out      = make(map[tableKey]uint64, len(keys))
	)
	for key := range keys {
		wg.Add(1)
		go func(key tableKey) {
			defer wg.Done()
			casino, err := s.casinos.GetOrCreate(ctx, key.id, key.name)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			out[key] = casino.ID
		}(key)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// record is best-effort: a failure to write the error log never masks the
// pipeline error.
func (s *IngestService) record(ctx context.Context, runErr error) {
	if err := s.errLogs.Record(ctx, runErr.Error(), string(debug.Stack()), ingestContext); err != nil {
		s.logger.WithError(err).Warn("error log write failed")
	}
}

type tableKey struct {
	id   string
	name string
}

func distinctTableIDs(events []model.GameEvent) []string {
	seen := make(map[string]struct{}, len(events))
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		if _, ok := seen[ev.Data.Table.ID]; ok {
			continue
		}
		seen[ev.Data.Table.ID] = struct{}{}
		ids = append(ids, ev.Data.Table.ID)
	}
	return ids
}

// filterEvents admits an event iff its status is exactly statusResolved and
// its settlement is strictly newer than the table's watermark (or the table
// has none). Re-running with an overlapping batch admits nothing twice.
func filterEvents(events []model.GameEvent, watermarks map[string]time.Time) []model.GameEvent {
	out := make([]model.GameEvent, 0, len(events))
	for _, ev := range events {
		if ev.Data.Status != statusResolved {
			continue
		}
		if wm, ok := watermarks[ev.Data.Table.ID]; ok && !ev.Data.SettledAt.After(wm) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func marshalMultipliers(multipliers []model.BonusMultiplier) datatypes.JSON {
	if len(multipliers) == 0 {
		return nil
	}
	b, err := json.Marshal(multipliers)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
