package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"irforge/internal/flipper"
	"irforge/internal/irplus"
	"irforge/internal/logger"
	"irforge/internal/models"
	"irforge/internal/repository"
	"irforge/internal/signal"
)

// Run lifecycle status values.
const (
	StatusIdle    = "IDLE"
	StatusRunning = "RUNNING"
	StatusDone    = "DONE"
	StatusFailed  = "FAILED"
)

// Event types recorded to the conversion log.
const (
	EventRunStarted     = "RUN_STARTED"
	EventRunFinished    = "RUN_FINISHED"
	EventRunFailed      = "RUN_FAILED"
	EventFileFailed     = "FILE_FAILED"
	EventDeviceSkipped  = "DEVICE_SKIPPED"
	EventCommandDropped = "COMMAND_DROPPED"
)

// Run triggers.
const (
	TriggerStartup  = "startup"
	TriggerAPI      = "api"
	TriggerSchedule = "schedule"
)

// Defaults applied when the config leaves conversion knobs unset.
const (
	defaultCarrierHz    = 38000
	defaultWorkers      = 4
	defaultMaxLinkDepth = 8
)

var ErrRunInProgress = errors.New("a conversion run is already in progress")

// ConverterService walks the source corpus and produces signal files, the
// catalog rows and the diagnostics trail. File-level failures are recorded
// and skipped; only corpus-level problems fail the run.
type ConverterService struct {
	catalog   repository.CatalogRepo
	events    repository.EventRepo
	runs      repository.RunRepo
	cfg       ConvertConfig
	overrides *Overrides
	log       *logger.Logger

	runCtx  context.Context // bounds background runs started via Start
	mu      sync.Mutex
	running bool
}

func NewConverterService(runCtx context.Context, catalog repository.CatalogRepo, events repository.EventRepo,
	runs repository.RunRepo, cfg ConvertConfig, overrides *Overrides, log *logger.Logger) *ConverterService {
	if runCtx == nil {
		runCtx = context.Background()
	}
	if cfg.DefaultFrequency <= 0 {
		cfg.DefaultFrequency = defaultCarrierHz
	}
	if cfg.Workers < 1 {
		cfg.Workers = defaultWorkers
	}
	if cfg.MaxLinkDepth < 1 {
		cfg.MaxLinkDepth = defaultMaxLinkDepth
	}
	return &ConverterService{
		catalog:   catalog,
		events:    events,
		runs:      runs,
		cfg:       cfg,
		overrides: overrides,
		log:       log,
		runCtx:    runCtx,
	}
}

// Run converts the whole corpus and blocks until it finishes.
func (s *ConverterService) Run(ctx context.Context, trigger string) error {
	if !s.acquire() {
		return ErrRunInProgress
	}
	defer s.release()
	return s.run(ctx, trigger)
}

// Start launches a run in the background. It reports ErrRunInProgress
// immediately instead of queueing, so callers can surface the conflict.
func (s *ConverterService) Start(trigger string) error {
	if !s.acquire() {
		return ErrRunInProgress
	}
	go func() {
		defer s.release()
		if err := s.run(s.runCtx, trigger); err != nil && s.log != nil {
			s.log.Errorw("background conversion run failed", "trigger", trigger, "err", err)
		}
	}()
	return nil
}

func (s *ConverterService) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	return true
}

func (s *ConverterService) release() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

func (s *ConverterService) run(ctx context.Context, trigger string) error {
	started := time.Now().UTC()

	tr := &runTracker{runs: s.runs, log: s.log}
	tr.update(ctx, func(st *models.RunState) {
		st.ID = 1
		st.Status = StatusRunning
		st.Trigger = trigger
		st.StartedAt = started
	})
	s.appendEvent(ctx, EventRunStarted, "Conversion run started",
		map[string]any{"trigger": trigger, "source_dir": s.cfg.SourceDir})
	if s.log != nil {
		s.log.Infow("conversion run started", "trigger", trigger, "source_dir", s.cfg.SourceDir)
	}

	files, err := listSourceFiles(s.cfg.SourceDir)
	if err != nil {
		return s.failRun(ctx, tr, fmt.Errorf("scan source dir: %w", err))
	}
	tr.update(ctx, func(st *models.RunState) { st.FilesScanned = len(files) })

	queue := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range queue {
				s.convertFile(ctx, path, tr)
			}
		}()
	}

feed:
	for _, path := range files {
		select {
		case <-ctx.Done():
			break feed
		case queue <- path:
		}
	}
	close(queue)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return s.failRun(ctx, tr, fmt.Errorf("run interrupted: %w", err))
	}

	tr.update(ctx, func(st *models.RunState) {
		st.Status = StatusDone
		st.FinishedAt = time.Now().UTC()
	})
	final := tr.snapshot()
	s.appendEvent(ctx, EventRunFinished, "Conversion run finished", map[string]any{
		"trigger":            trigger,
		"files_scanned":      final.FilesScanned,
		"files_failed":       final.FilesFailed,
		"devices_converted":  final.DevicesConverted,
		"devices_skipped":    final.DevicesSkipped,
		"commands_converted": final.CommandsConverted,
		"commands_dropped":   final.CommandsDropped,
	})
	if s.log != nil {
		s.log.Infow("conversion run finished",
			"devices", final.DevicesConverted,
			"commands", final.CommandsConverted,
			"files_failed", final.FilesFailed,
			"took", time.Since(started).String())
	}
	return nil
}

func (s *ConverterService) failRun(ctx context.Context, tr *runTracker, err error) error {
	tr.update(ctx, func(st *models.RunState) {
		st.Status = StatusFailed
		st.FinishedAt = time.Now().UTC()
		st.LastError = err.Error()
	})
	s.appendEvent(ctx, EventRunFailed, "Conversion run failed", map[string]any{"reason": err.Error()})
	if s.log != nil {
		s.log.Errorw("conversion run failed", "err", err)
	}
	return err
}

// convertFile turns one source document into a signal file plus catalog rows
// and folds the outcome into the run counters.
func (s *ConverterService) convertFile(ctx context.Context, path string, tr *runTracker) {
	dev, dropped, err := s.processDocument(ctx, path)
	if err != nil {
		if s.log != nil {
			s.log.Warnw("file failed", "file", path, "err", err)
		}
		s.appendEvent(ctx, EventFileFailed, "Failed to convert "+path,
			map[string]any{"file": path, "reason": err.Error()})
		tr.update(ctx, func(st *models.RunState) { st.FilesFailed++ })
		return
	}

	if len(dev.Commands) == 0 {
		if s.log != nil {
			s.log.Infow("device skipped", "file", path, "manufacturer", dev.Manufacturer, "model", dev.Model)
		}
		s.appendEvent(ctx, EventDeviceSkipped,
			fmt.Sprintf("No usable commands in %s %s", dev.Manufacturer, dev.Model),
			map[string]any{"file": path, "format": dev.FormatTag})
		tr.update(ctx, func(st *models.RunState) {
			st.DevicesSkipped++
			st.CommandsDropped += dropped
		})
		return
	}

	outPath := flipper.OutputPath(s.cfg.OutputDir, dev)
	if err := writeSignalFile(outPath, flipper.Render(dev)); err != nil {
		if s.log != nil {
			s.log.Errorw("write signal file failed", "file", path, "output", outPath, "err", err)
		}
		s.appendEvent(ctx, EventFileFailed, "Failed to write output for "+path,
			map[string]any{"file": path, "output": outPath, "reason": err.Error()})
		tr.update(ctx, func(st *models.RunState) { st.FilesFailed++ })
		return
	}

	dev.OutputPath = outPath
	dev.ConvertedAt = time.Now().UTC()
	if _, err := s.catalog.SaveDevice(ctx, dev); err != nil {
		if s.log != nil {
			s.log.Errorw("catalog save failed", "file", path, "err", err)
		}
		s.appendEvent(ctx, EventFileFailed, "Failed to catalog "+path,
			map[string]any{"file": path, "reason": err.Error()})
		tr.update(ctx, func(st *models.RunState) { st.FilesFailed++ })
		return
	}

	if s.log != nil {
		s.log.Debugw("device converted", "file", path, "output", outPath, "commands", len(dev.Commands))
	}
	tr.update(ctx, func(st *models.RunState) {
		st.DevicesConverted++
		st.CommandsConverted += len(dev.Commands)
		st.CommandsDropped += dropped
	})
}

// processDocument resolves links, builds the device record and decodes its
// buttons. The returned drop count tells how many buttons were rejected.
func (s *ConverterService) processDocument(ctx context.Context, path string) (models.Device, int, error) {
	doc, sourceFile, err := s.loadDocument(path)
	if err != nil {
		return models.Device{}, 0, err
	}

	dev, err := s.buildDevice(doc, sourceFile)
	if err != nil {
		return models.Device{}, 0, err
	}

	format := signal.ParseSignalFormat(dev.FormatTag)
	dropped := 0
	for i, btn := range doc.Buttons {
		cmd, err := normalizeCommand(btn, format, dev.Frequency)
		if err != nil {
			dropped++
			if s.log != nil {
				s.log.Debugw("command dropped", "file", sourceFile, "button", i, "err", err)
			}
			s.appendEvent(ctx, EventCommandDropped,
				fmt.Sprintf("Dropped button %d of %s", i, sourceFile),
				map[string]any{"file": sourceFile, "button": i, "format": dev.FormatTag, "reason": err.Error()})
			continue
		}
		cmd.Position = len(dev.Commands)
		dev.Commands = append(dev.Commands, cmd)
	}
	dev.CommandCount = len(dev.Commands)
	return dev, dropped, nil
}

// loadDocument reads path and follows linked elements until it reaches a
// document that carries a device. The returned source path is the file that
// actually held the device, which is what the output records as provenance.
func (s *ConverterService) loadDocument(path string) (*irplus.Document, string, error) {
	visited := make(map[string]struct{})
	for depth := 0; depth <= s.cfg.MaxLinkDepth; depth++ {
		clean := filepath.Clean(path)
		if _, seen := visited[clean]; seen {
			return nil, "", fmt.Errorf("linked documents form a cycle at %s", path)
		}
		visited[clean] = struct{}{}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read document: %w", err)
		}
		doc, err := irplus.Parse(data)
		if err != nil {
			return nil, "", fmt.Errorf("parse %s: %w", path, err)
		}
		if doc.Device != nil {
			return doc, path, nil
		}

		asset := strings.TrimSpace(doc.Linked.Asset)
		if asset == "" {
			return nil, "", fmt.Errorf("linked element in %s has no asset", path)
		}
		path = filepath.Join(s.cfg.SourceDir, filepath.FromSlash(asset))
	}
	return nil, "", fmt.Errorf("linked documents nest deeper than %d", s.cfg.MaxLinkDepth)
}

// buildDevice validates document metadata and applies overrides and the
// frequency fallback.
func (s *ConverterService) buildDevice(doc *irplus.Document, sourceFile string) (models.Device, error) {
	src := doc.Device

	manufacturer := s.overrides.Manufacturer(strings.TrimSpace(src.Manufacturer))
	model := strings.TrimSpace(src.Model)
	if manufacturer == "" || model == "" {
		return models.Device{}, errors.New("device element is missing manufacturer or model")
	}
	// forward slashes in the model would split the output path
	model = strings.ReplaceAll(model, "/", "-")

	formatTag := strings.TrimSpace(src.Format)
	if forced := s.overrides.Format(s.relSource(sourceFile)); forced != "" {
		formatTag = forced
	}

	frequency := s.cfg.DefaultFrequency
	if raw := strings.TrimSpace(src.Frequency); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			if s.log != nil {
				s.log.Warnw("unusable device frequency, using default", "file", sourceFile, "frequency", raw)
			}
		} else {
			frequency = v
		}
	}

	return models.Device{
		Manufacturer: manufacturer,
		Model:        model,
		FormatTag:    formatTag,
		Frequency:    frequency,
		SourceFile:   sourceFile,
	}, nil
}

func (s *ConverterService) relSource(path string) string {
	rel, err := filepath.Rel(s.cfg.SourceDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// appendEvent records a diagnostics entry; a failing event log must never
// abort a run.
func (s *ConverterService) appendEvent(ctx context.Context, typ, description string, meta map[string]any) {
	err := s.events.Append(ctx, models.ConversionEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	})
	if err != nil && s.log != nil {
		s.log.Errorw("append event failed", "type", typ, "err", err)
	}
}

// runTracker serializes counter updates and persists every snapshot so the
// status endpoint and the websocket stream see live progress.
type runTracker struct {
	mu    sync.Mutex
	state models.RunState
	runs  repository.RunRepo
	log   *logger.Logger
}

func (t *runTracker) update(ctx context.Context, mutate func(*models.RunState)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	mutate(&t.state)
	t.state.UpdatedAt = time.Now().UTC()
	if err := t.runs.Save(ctx, t.state); err != nil && t.log != nil {
		t.log.Errorw("persist run state failed", "err", err)
	}
}

func (t *runTracker) snapshot() models.RunState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// listSourceFiles walks root and collects *.xml files in lexical order.
func listSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".xml") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func writeSignalFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
