package services

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/filter"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/pipeline"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/core/protocol"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/modules/dashboard/models"
	"github.com/MuhamadAgungGumelar/chart-pipeline-be/internal/modules/dashboard/repositories"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNoDataSource = errors.New("widget has no data source")
	ErrSuperseded   = errors.New("chart superseded by a newer data source")
)

// widgets of one data source computed at once
const projectConcurrency = 4

type ChartService struct {
	client   *pipeline.Client
	projects repositories.ProjectRepo
	sources  repositories.DataSourceRepo
	widgets  repositories.WidgetRepo
	llm      *llm.Service
	cache    *lru.Cache[uint64, *protocol.ChartResult]
	timeout  time.Duration
	log      zerolog.Logger

	mu           sync.Mutex
	activeSource string
}

func NewChartService(
	client *pipeline.Client,
	projects repositories.ProjectRepo,
	sources repositories.DataSourceRepo,
	widgets repositories.WidgetRepo,
	llmService *llm.Service,
	cacheSize int,
	timeout time.Duration,
	logger zerolog.Logger,
) (*ChartService, error) {
	cache, err := lru.New[uint64, *protocol.ChartResult](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart cache: %w", err)
	}

	return &ChartService{
		client:   client,
		projects: projects,
		sources:  sources,
		widgets:  widgets,
		llm:      llmService,
		cache:    cache,
		timeout:  timeout,
		log:      logger.With().Str("component", "chart_service").Logger(),
	}, nil
}

// ComputeChart computes an ad-hoc chart over one data source
func (s *ChartService) ComputeChart(ctx context.Context, sourceID string, req pipeline.Request) (*models.ChartResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.compute(ctx, sourceID, req)
}

// ComputeWidget computes a stored widget under the given dashboard state
func (s *ChartService) ComputeWidget(ctx context.Context, widgetID string, req models.ComputeWidgetRequest) (*models.ChartResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	w, err := s.widgets.GetByID(widgetID)
	if err != nil {
		return nil, notFound("widget", widgetID, err)
	}
	project, err := s.projects.GetByID(w.ProjectID.String())
	if err != nil {
		return nil, notFound("project", w.ProjectID.String(), err)
	}

	return s.computeWidget(ctx, project, w, req)
}

// ComputeProject computes every widget of a project. Widgets are grouped by data source so that
// switching sources never supersedes charts of the same call. Per-widget failures are reported
// in the result; only pipeline outages fail the whole call.
func (s *ChartService) ComputeProject(ctx context.Context, projectID string, req models.ComputeWidgetRequest) ([]models.ChartResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	project, err := s.projects.GetByID(projectID)
	if err != nil {
		return nil, notFound("project", projectID, err)
	}
	widgets, err := s.widgets.ListByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list widgets: %w", err)
	}

	results := make([]models.ChartResult, len(widgets))
	for _, group := range groupBySource(project, widgets) {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(projectConcurrency)

		for _, i := range group {
			i := i // per-iteration copy; go 1.21 loop variables are shared
			g.Go(func() error {
				w := &widgets[i]
				res, err := s.computeWidget(gctx, project, w, req)
				if err == nil {
					results[i] = *res
					return nil
				}
				if fatal(err) {
					return err
				}
				results[i] = models.ChartResult{
					WidgetID:   w.ID.String(),
					ElementID:  w.ElementID,
					Generation: int64(s.client.Generation()),
					Error:      err.Error(),
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	s.log.Info().Str("project_id", projectID).Int("widgets", len(widgets)).Msg("📊 Project charts computed")
	return results, nil
}

// SummarizeWidget computes a widget and asks the LLM to describe it
func (s *ChartService) SummarizeWidget(ctx context.Context, widgetID string, req models.ComputeWidgetRequest) (*models.ChartSummary, error) {
	if !s.llm.Enabled() {
		return nil, llm.ErrDisabled
	}

	res, err := s.ComputeWidget(ctx, widgetID, req)
	if err != nil {
		return nil, err
	}
	if res.Superseded {
		return nil, ErrSuperseded
	}

	title := ""
	if res.Spec != nil {
		title = res.Spec.Title
	}
	summary, err := s.llm.SummarizeChart(ctx, title, res.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize chart: %w", err)
	}

	return &models.ChartSummary{
		WidgetID:   widgetID,
		Provider:   s.llm.GetProviderName(),
		Summary:    summary,
		Generation: res.Generation,
	}, nil
}

// RefreshActiveSource re-registers the data source last computed against.
// A changed row version pushes the new rows and bumps the generation.
func (s *ChartService) RefreshActiveSource(ctx context.Context) error {
	sourceID := s.active()
	if sourceID == "" {
		sourceRefreshes.WithLabelValues("idle").Inc()
		return nil
	}

	ref, load, err := s.source(sourceID)
	if err != nil {
		sourceRefreshes.WithLabelValues("failed").Inc()
		return err
	}

	before := s.client.Generation()
	after, err := s.client.Ensure(ctx, ref, load)
	if err != nil {
		sourceRefreshes.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to refresh data source %s: %w", sourceID, err)
	}

	if after != before {
		sourceRefreshes.WithLabelValues("pushed").Inc()
		s.log.Info().
			Str("data_source_id", sourceID).
			Str("row_version", ref.RowVersion).
			Int64("generation", int64(after)).
			Msg("🔄 Active data source refreshed")
		return nil
	}
	sourceRefreshes.WithLabelValues("unchanged").Inc()
	return nil
}

// WarmSource pushes a data source to the worker host before any chart asks for it
// and makes it the source scheduled refreshes follow
func (s *ChartService) WarmSource(ctx context.Context, sourceID string) error {
	ref, load, err := s.source(sourceID)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	generation, err := s.client.Ensure(ctx, ref, load)
	if err != nil {
		return fmt.Errorf("failed to warm data source %s: %w", sourceID, err)
	}
	if generation == pipeline.NoPipeline {
		return pipeline.ErrNoPipeline
	}
	s.setActive(sourceID)
	return nil
}

// Generation is the current source generation
func (s *ChartService) Generation() pipeline.Generation {
	return s.client.Generation()
}

// Pending is the number of requests awaiting the worker host
func (s *ChartService) Pending() int {
	return s.client.Pending()
}

func (s *ChartService) computeWidget(ctx context.Context, project *models.Project, w *models.Widget, req models.ComputeWidgetRequest) (*models.ChartResult, error) {
	spec, err := w.DecodeSpec()
	if err != nil {
		return nil, err
	}

	sourceID := pipeline.ResolveSourceID(w.SourceID(), project.DefaultSourceID())
	if sourceID == "" {
		return nil, fmt.Errorf("%w: widget %s", ErrNoDataSource, w.ID)
	}

	global, err := project.Filters()
	if err != nil {
		return nil, err
	}
	filters := make([]filter.Clause, 0, len(global)+len(req.Filters))
	filters = append(filters, global...)
	filters = append(filters, req.Filters...)

	theme := req.Theme
	if theme == nil {
		if theme, err = project.DecodeTheme(); err != nil {
			return nil, err
		}
	}

	res, err := s.compute(ctx, sourceID, pipeline.Request{
		Widget:  spec,
		Filters: filters,
		Theme:   theme,
		Compact: req.Compact,
	})
	if err != nil {
		return nil, err
	}

	res.WidgetID = w.ID.String()
	res.ElementID = w.ElementID
	return res, nil
}

func (s *ChartService) compute(ctx context.Context, sourceID string, req pipeline.Request) (*models.ChartResult, error) {
	ref, load, err := s.source(sourceID)
	if err != nil {
		return nil, err
	}

	generation, err := s.client.Ensure(ctx, ref, load)
	if err != nil {
		return nil, err
	}
	s.setActive(sourceID)

	key, err := cacheKey(generation, sourceID, req)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.cache.Get(key); ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return chartResult(generation, cached, true), nil
	}
	cacheLookups.WithLabelValues("miss").Inc()

	result, err := s.client.ComputeAt(ctx, generation, req)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return &models.ChartResult{Generation: int64(generation), Superseded: true}, nil
	}

	s.cache.Add(key, result)
	return chartResult(generation, result, false), nil
}

// source resolves the reference without reading rows; rows are loaded only when a push is needed
func (s *ChartService) source(sourceID string) (pipeline.SourceRef, pipeline.Loader, error) {
	header, err := s.sources.GetHeader(sourceID)
	if err != nil {
		return pipeline.SourceRef{}, nil, notFound("data source", sourceID, err)
	}

	ref, err := header.Ref()
	if err != nil {
		return pipeline.SourceRef{}, nil, err
	}

	load := func(ctx context.Context) (*pipeline.SourceData, error) {
		full, err := s.sources.GetByID(sourceID)
		if err != nil {
			return nil, notFound("data source", sourceID, err)
		}
		return full.SourceData()
	}
	return ref, load, nil
}

func (s *ChartService) setActive(sourceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeSource = sourceID
}

func (s *ChartService) active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeSource
}

func (s *ChartService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func chartResult(generation pipeline.Generation, result *protocol.ChartResult, cached bool) *models.ChartResult {
	return &models.ChartResult{
		Generation: int64(generation),
		Cached:     cached,
		Payload:    result.Payload,
		Spec:       result.Spec,
	}
}

// cacheKey fingerprints a request under one generation; a bump makes older entries unreachable
func cacheKey(generation pipeline.Generation, sourceID string, req pipeline.Request) (uint64, error) {
	encoded, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("failed to encode chart request: %w", err)
	}

	h := xxhash.New()
	var gen [8]byte
	binary.BigEndian.PutUint64(gen[:], uint64(generation))
	_, _ = h.Write(gen[:])
	_, _ = h.WriteString(sourceID)
	_, _ = h.Write(encoded)
	return h.Sum64(), nil
}

// groupBySource returns widget indexes per resolved data source, in first-seen order
func groupBySource(project *models.Project, widgets []models.Widget) [][]int {
	var order []string
	groups := make(map[string][]int)
	for i := range widgets {
		id := pipeline.ResolveSourceID(widgets[i].SourceID(), project.DefaultSourceID())
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], i)
	}

	out := make([][]int, 0, len(order))
	for _, id := range order {
		out = append(out, groups[id])
	}
	return out
}

func fatal(err error) bool {
	return errors.Is(err, pipeline.ErrNoPipeline) ||
		errors.Is(err, pipeline.ErrHostTerminated) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func notFound(what, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
	}
	return err
}
