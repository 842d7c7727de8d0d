package deckservice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/flowforgelab/pokemon-full-project-sub006/internal/charts"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/metrics"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/alternatives"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/budget"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/cards"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/catalog"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/coherence"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/deckimport"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/prizes"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/ptcg/probability"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage"
	"github.com/flowforgelab/pokemon-full-project-sub006/internal/storage/repository"
)

// Snapshot kinds.
const (
	KindAnalysis     = "analysis"
	KindOptimization = "optimization"
)

var (
	// ErrInvalidDeck wraps deck entries that break quantity rules.
	ErrInvalidDeck = errors.New("invalid deck")

	// ErrStorageUnavailable is returned by operations that need a database
	// when none is configured.
	ErrStorageUnavailable = errors.New("storage not configured")
)

// OptimizerDefaults fill in optimization requests that leave fields unset.
type OptimizerDefaults struct {
	MaxChanges   int
	PriorityMode string
	Prefetch     int
}

// Dependencies are the collaborators of a Service. Only Catalog is
// required in practice; a nil Catalog serves the built-in tables.
type Dependencies struct {
	Catalog   *catalog.Store
	Storage   *storage.Service
	Metrics   *metrics.AnalysisMetrics
	Logger    *zap.Logger
	Finder    budget.AlternativeFinder // overrides the storage-backed finder
	Optimizer OptimizerDefaults
}

// Service runs deck analyses against the active catalog and records
// metrics and snapshots.
type Service struct {
	catalog  *catalog.Store
	storage  *storage.Service
	metrics  *metrics.AnalysisMetrics
	logger   *zap.Logger
	finder   budget.AlternativeFinder
	defaults OptimizerDefaults
}

// New creates a Service.
func New(deps Dependencies) *Service {
	s := &Service{
		catalog:  deps.Catalog,
		storage:  deps.Storage,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
		finder:   deps.Finder,
		defaults: deps.Optimizer,
	}
	if s.catalog == nil {
		s.catalog = catalog.NewStore(nil)
	}
	if s.metrics == nil {
		s.metrics = metrics.NewAnalysisMetrics()
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.finder == nil && s.storage != nil {
		s.finder = alternatives.NewFinder(s.storage.Cards(), alternatives.DefaultPoolSize)
	}
	if s.defaults.MaxChanges <= 0 {
		s.defaults.MaxChanges = 10
	}
	return s
}

// Catalog returns the catalog store.
func (s *Service) Catalog() *catalog.Store {
	return s.catalog
}

// Metrics returns a snapshot of the collected metrics.
func (s *Service) Metrics() *metrics.Stats {
	return s.metrics.GetStats()
}

func checkEntries(entries []cards.DeckEntry) error {
	if err := cards.ValidateEntries(entries); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDeck, err)
	}
	return nil
}

// Validate runs the coherence validator.
func (s *Service) Validate(ctx context.Context, entries []cards.DeckEntry) (coherence.Report, error) {
	if err := checkEntries(entries); err != nil {
		return coherence.Report{}, err
	}
	return s.validate(entries), nil
}

func (s *Service) validate(entries []cards.DeckEntry) coherence.Report {
	start := time.Now()
	report := coherence.NewValidator(s.catalog.Get()).Validate(entries)
	s.metrics.RecordCoherence(time.Since(start))
	return report
}

// Prizes runs the prize economy analyzer.
func (s *Service) Prizes(ctx context.Context, entries []cards.DeckEntry) (prizes.Report, error) {
	if err := checkEntries(entries); err != nil {
		return prizes.Report{}, err
	}
	return s.prizes(entries), nil
}

func (s *Service) prizes(entries []cards.DeckEntry) prizes.Report {
	start := time.Now()
	report := prizes.NewAnalyzer(s.catalog.Get()).Analyze(entries)
	s.metrics.RecordPrizes(time.Since(start))
	return report
}

// PrizesChart renders the prize economy of entries as an HTML page.
func (s *Service) PrizesChart(ctx context.Context, entries []cards.DeckEntry, w io.Writer) error {
	report, err := s.Prizes(ctx, entries)
	if err != nil {
		return err
	}
	return charts.RenderPrizeEconomy(w, report, charts.DefaultChartConfig())
}

// Analysis bundles every read-only report for one deck.
type Analysis struct {
	DeckHash    string                        `json:"deckHash"`
	SnapshotID  string                        `json:"snapshotId,omitempty"`
	Coherence   coherence.Report              `json:"coherence"`
	Prizes      prizes.Report                 `json:"prizes"`
	OpeningHand probability.OpeningHandReport `json:"openingHand"`
}

// Analyze runs coherence, prize economy and opening hand analysis and
// snapshots the result when storage is configured. A failed snapshot is
// logged and leaves SnapshotID empty.
func (s *Service) Analyze(ctx context.Context, entries []cards.DeckEntry) (*Analysis, error) {
	if err := checkEntries(entries); err != nil {
		return nil, err
	}

	a := &Analysis{
		DeckHash:    cards.Fingerprint(entries),
		Coherence:   s.validate(entries),
		Prizes:      s.prizes(entries),
		OpeningHand: probability.OpeningHand(entries),
	}
	a.SnapshotID = s.snapshot(ctx, KindAnalysis, a.DeckHash, a)
	return a, nil
}

// OptimizeRequest is the caller-facing optimization input. Zero values take
// the configured defaults.
type OptimizeRequest struct {
	Entries      []cards.DeckEntry `json:"entries"`
	Budget       float64           `json:"budget"`
	PriorityMode string            `json:"priorityMode"`
	OwnedCardIDs []string          `json:"ownedCardIds"`
	MaxChanges   *int              `json:"maxChanges,omitempty"`
}

// Optimization is an optimizer report plus its snapshot ID.
type Optimization struct {
	*budget.Report
	DeckHash   string `json:"deckHash"`
	SnapshotID string `json:"snapshotId,omitempty"`
}

// Optimize runs the budget optimizer. onChange, when set, sees every
// change as it is applied.
func (s *Service) Optimize(ctx context.Context, req OptimizeRequest, onChange func(budget.DeckChange)) (*Optimization, error) {
	if err := checkEntries(req.Entries); err != nil {
		return nil, err
	}
	if req.Budget < 0 {
		return nil, fmt.Errorf("%w: budget cannot be negative", ErrInvalidDeck)
	}

	maxChanges := s.defaults.MaxChanges
	if req.MaxChanges != nil {
		maxChanges = max(0, *req.MaxChanges)
	}
	mode := req.PriorityMode
	if mode == "" {
		mode = s.defaults.PriorityMode
	}

	opts := []budget.Option{
		budget.WithLogger(s.logger),
		budget.WithLookupHook(s.metrics.RecordLookup),
		budget.WithPrefetch(s.defaults.Prefetch),
	}
	if onChange != nil {
		opts = append(opts, budget.WithObserver(onChange))
	}

	cat := s.catalog.Get()
	// The prior report only phrases trade-offs; it is not a recorded analysis.
	prior := coherence.NewValidator(cat).Validate(req.Entries)
	optimizer := budget.NewOptimizer(cat, s.finder, opts...)

	start := time.Now()
	report, err := optimizer.Optimize(ctx, budget.Request{
		Entries:      req.Entries,
		Budget:       req.Budget,
		PriorityMode: budget.ParsePriorityMode(mode),
		OwnedCardIDs: req.OwnedCardIDs,
		MaxChanges:   maxChanges,
		PriorReport:  &prior,
	})
	if err != nil {
		return nil, fmt.Errorf("optimize deck: %w", err)
	}
	s.metrics.RecordOptimize(time.Since(start), len(report.Changes))

	s.logger.Info("deck optimized",
		zap.Int("changes", len(report.Changes)),
		zap.Float64("original_cost", report.OriginalCost),
		zap.Float64("total_cost", report.TotalCost))

	out := &Optimization{Report: report, DeckHash: cards.Fingerprint(req.Entries)}
	out.SnapshotID = s.snapshot(ctx, KindOptimization, out.DeckHash, report)
	return out, nil
}

// UpgradePath lists the upgrade tiers the deck has not completed.
func (s *Service) UpgradePath(ctx context.Context, entries []cards.DeckEntry, maxBudget float64, steps int) (budget.UpgradePath, error) {
	if err := checkEntries(entries); err != nil {
		return budget.UpgradePath{}, err
	}
	return budget.GenerateUpgradePath(s.catalog.Get(), entries, maxBudget, steps), nil
}

// Mulligan reports opening hand odds.
func (s *Service) Mulligan(ctx context.Context, entries []cards.DeckEntry) (probability.OpeningHandReport, error) {
	if err := checkEntries(entries); err != nil {
		return probability.OpeningHandReport{}, err
	}
	return probability.OpeningHand(entries), nil
}

// Parse reads a deck list, resolving names against the card database
// when one is configured.
func (s *Service) Parse(ctx context.Context, text string) (*deckimport.Result, error) {
	var resolver deckimport.CardResolver
	if s.storage != nil {
		resolver = s.storage.Cards()
	}
	return deckimport.NewImporter(resolver, s.logger).Import(ctx, text)
}

// Report loads a stored snapshot.
func (s *Service) Report(ctx context.Context, id string) (*repository.Snapshot, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	return s.storage.Reports().Get(ctx, id)
}

// History lists the newest snapshots for a deck fingerprint.
func (s *Service) History(ctx context.Context, deckHash string, limit int) ([]*repository.Snapshot, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if limit <= 0 {
		limit = 20
	}
	return s.storage.Reports().ListByDeck(ctx, deckHash, limit)
}

// Card loads a card by ID.
func (s *Service) Card(ctx context.Context, id string) (cards.Card, error) {
	if s.storage == nil {
		return cards.Card{}, ErrStorageUnavailable
	}
	return s.storage.Cards().GetByID(ctx, id)
}

// SearchCards finds cards whose name contains query.
func (s *Service) SearchCards(ctx context.Context, query string, limit int) ([]cards.Card, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.storage.Cards().Search(ctx, query, limit)
}

// ImportCards loads a JSON card dump into the database.
func (s *Service) ImportCards(ctx context.Context, r io.Reader) (int, error) {
	if s.storage == nil {
		return 0, ErrStorageUnavailable
	}
	n, err := s.storage.ImportCardsJSON(ctx, r)
	if err != nil {
		return 0, err
	}
	s.logger.Info("cards imported", zap.Int("count", n))
	return n, nil
}

func (s *Service) snapshot(ctx context.Context, kind, deckHash string, report any) string {
	if s.storage == nil {
		return ""
	}
	id, err := s.storage.Reports().Save(ctx, kind, deckHash, report)
	if err != nil {
		s.logger.Warn("snapshot failed", zap.String("kind", kind), zap.Error(err))
		return ""
	}
	return id
}
