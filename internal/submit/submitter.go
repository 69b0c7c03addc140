package submit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/drywaters/glimpse/internal/backend"
	"github.com/drywaters/glimpse/internal/enricher"
	"github.com/drywaters/glimpse/internal/events"
	"github.com/drywaters/glimpse/internal/history"
	"github.com/drywaters/glimpse/internal/logrelay"
	"github.com/drywaters/glimpse/internal/model"
	"github.com/drywaters/glimpse/internal/progress"
	"github.com/drywaters/glimpse/internal/result"
	"github.com/drywaters/glimpse/internal/summarizer"
	"github.com/drywaters/glimpse/internal/transcript"
	"github.com/drywaters/glimpse/internal/urlutil"
	"github.com/google/uuid"
)

const (
	// MetadataTimeout bounds the title/thumbnail lookup for the optimistic history item
	MetadataTimeout = 3 * time.Second

	// DefaultProgressRetention is how long a finished submission's progress stays readable
	DefaultProgressRetention = 10 * time.Minute

	trackerBuffer = 64
)

// Backend sends submissions to the summarization service
type Backend interface {
	SummarizeURL(ctx context.Context, videoURL, language string) (*model.SummaryResult, error)
	SummarizeFile(ctx context.Context, file backend.File, language string) (*model.SummaryResult, error)
}

// Metadata looks up a video's title, thumbnail, author and runtime
type Metadata interface {
	Enrich(ctx context.Context, url string) (*enricher.Result, error)
}

// LanguageResolver picks the summary language for a submission
type LanguageResolver interface {
	Resolve(ctx context.Context, owner model.Owner, requested string) model.Language
}

// SummaryArchive keeps a signed-in user's summaries in the hosted database
type SummaryArchive interface {
	Upsert(ctx context.Context, userID uuid.UUID, result *model.SummaryResult) error
}

// LogArchive keeps a signed-in user's processing logs in the hosted database
type LogArchive interface {
	Insert(ctx context.Context, userID uuid.UUID, videoID string, ev model.LogEvent) error
}

// Deps are the collaborators of a Submitter. Metadata, Languages,
// Summaries, Logs and Bus are optional.
type Deps struct {
	Backend   Backend
	History   *history.Store
	Results   *result.Store
	Relay     *logrelay.Relay
	Estimator *progress.Estimator
	Fallback  summarizer.Summarizer
	Metadata  Metadata
	Languages LanguageResolver
	Summaries SummaryArchive
	Logs      LogArchive
	Bus       *events.Bus

	// CreepInterval overrides progress.DefaultCreepInterval
	CreepInterval time.Duration
	// ProgressRetention overrides DefaultProgressRetention
	ProgressRetention time.Duration
}

// Submitter runs submissions end to end: validation, optimistic history,
// the backend call, fallback summaries and publishing the result.
type Submitter struct {
	deps Deps

	mu       sync.Mutex
	trackers map[string]*progress.Tracker
}

// New creates a Submitter
func New(deps Deps) *Submitter {
	if deps.Estimator == nil {
		deps.Estimator = progress.NewEstimator(progress.DefaultStages)
	}
	if deps.Fallback == nil {
		deps.Fallback = summarizer.NewChain()
	}
	if deps.ProgressRetention <= 0 {
		deps.ProgressRetention = DefaultProgressRetention
	}
	return &Submitter{
		deps:     deps,
		trackers: make(map[string]*progress.Tracker),
	}
}

// Submit processes one URL or file for owner. Errors are *ValidationError,
// *backend.TransportError, *backend.APIError or *DataError.
func (s *Submitter) Submit(ctx context.Context, owner model.Owner, in Input, language string) (*model.SummaryResult, error) {
	videoURL, videoID, err := in.validate()
	if err != nil {
		return nil, err
	}
	lang := s.resolveLanguage(ctx, owner, language)

	source := videoURL
	if in.File != nil {
		source = model.FileSourcePrefix + in.File.Name
	}

	run := &submission{s: s, owner: owner}
	run.log(fmt.Sprintf("Starting processing for %s", source))

	tracker, stop := s.startTracker(ctx, owner)
	defer stop()

	succeeded := false
	defer func() {
		if succeeded {
			tracker.Complete()
		} else {
			tracker.Fail()
		}
		s.forgetTracker(owner.Key(), tracker)
	}()

	item, meta := s.appendHistory(ctx, owner, in, source, videoID, lang)
	if videoID == "" {
		videoID = "upload:" + item.ID.String()
	}

	run.log("Sending request to backend")
	var res *model.SummaryResult
	if in.File != nil {
		res, err = s.deps.Backend.SummarizeFile(ctx, *in.File, lang.Name)
	} else {
		res, err = s.deps.Backend.SummarizeURL(ctx, videoURL, lang.Name)
	}
	if err != nil {
		run.log("Error: " + err.Error())
		run.archive(ctx, videoID)
		return nil, err
	}
	run.log("Response received from backend")

	if err := s.ensureSummary(ctx, res, lang); err != nil {
		run.log("Error: " + err.Error())
		run.archive(ctx, videoID)
		return nil, err
	}

	if res.Title == "" {
		res.Title = item.Title
	}
	if res.ThumbnailURL == "" {
		res.ThumbnailURL = item.ThumbnailURL
	}
	if res.Language == "" {
		res.Language = lang.Name
	}
	if meta != nil {
		if res.Author == "" {
			res.Author = meta.Author
		}
		if res.DurationSeconds == 0 && meta.RuntimeSeconds != nil {
			res.DurationSeconds = *meta.RuntimeSeconds
		}
	}
	if len(res.TranscriptSegments) == 0 {
		res.TranscriptSegments = transcript.Segments(res)
	}
	res.VideoID = videoID
	res.SourceURL = source

	s.deps.Results.Publish(ctx, owner, res)
	s.archiveSummary(ctx, owner, res)

	succeeded = true
	run.log("Processing complete")
	run.archive(ctx, videoID)
	return res.Clone(), nil
}

// Reprocess resubmits a history item with the language it was first submitted in
func (s *Submitter) Reprocess(ctx context.Context, owner model.Owner, id uuid.UUID) (*model.SummaryResult, error) {
	item, err := s.deps.History.For(owner).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, &ValidationError{Message: "History item not found"}
	}
	if item.IsUpload() {
		return nil, &ValidationError{Message: "Uploaded files cannot be reprocessed; please upload the file again"}
	}
	return s.Submit(ctx, owner, Input{URL: item.SourceURL}, item.Language)
}

// Progress returns owner's latest progress snapshot. ok is false when
// owner has no submission running or finished within ProgressRetention.
func (s *Submitter) Progress(owner model.Owner) (model.ProgressSnapshot, bool) {
	s.mu.Lock()
	t, ok := s.trackers[owner.Key()]
	s.mu.Unlock()
	if !ok {
		return model.ProgressSnapshot{}, false
	}
	return t.Snapshot(), true
}

func (s *Submitter) resolveLanguage(ctx context.Context, owner model.Owner, requested string) model.Language {
	if s.deps.Languages != nil {
		return s.deps.Languages.Resolve(ctx, owner, requested)
	}
	return model.NormalizeLanguage(requested)
}

// startTracker replaces owner's tracker with a fresh one fed by the relay.
// The returned stop function ends the feed; it does not finish the tracker.
func (s *Submitter) startTracker(ctx context.Context, owner model.Owner) (*progress.Tracker, func()) {
	key := owner.Key()
	tracker := s.deps.Estimator.NewTracker(func(snap model.ProgressSnapshot) {
		if s.deps.Bus != nil {
			s.deps.Bus.Publish(events.Event{Type: events.ProgressUpdated, Owner: key, Progress: &snap})
		}
	})

	s.mu.Lock()
	s.trackers[key] = tracker
	s.mu.Unlock()

	if s.deps.Relay == nil {
		return tracker, func() {}
	}

	logs, unsubscribe := s.deps.Relay.Subscribe(trackerBuffer)
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	go func() {
		defer close(done)
		tracker.Run(runCtx, logs, s.deps.CreepInterval)
	}()

	return tracker, func() {
		cancel()
		unsubscribe()
		<-done
	}
}

// forgetTracker drops a finished tracker after the retention window unless
// a newer submission has replaced it.
func (s *Submitter) forgetTracker(key string, tracker *progress.Tracker) {
	time.AfterFunc(s.deps.ProgressRetention, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.trackers[key] == tracker {
			delete(s.trackers, key)
		}
	})
}

// appendHistory records the submission before the backend is called and
// returns the video metadata found on the way, if any. Failures are
// logged; they never block the submission.
func (s *Submitter) appendHistory(ctx context.Context, owner model.Owner, in Input, source, videoID string, lang model.Language) (model.HistoryItem, *enricher.Result) {
	item := model.HistoryItem{
		ID:        uuid.New(),
		SourceURL: source,
		Language:  lang.Name,
		CreatedAt: time.Now().UTC(),
	}

	var meta *enricher.Result
	if in.File != nil {
		item.Title = in.File.Name
	} else {
		item.Title = "YouTube video " + videoID
		item.ThumbnailURL = urlutil.ThumbnailURL(videoID)
		if meta = s.lookupMetadata(ctx, source); meta != nil {
			if meta.Title != "" {
				item.Title = meta.Title
			}
			if meta.ThumbnailURL != "" {
				item.ThumbnailURL = meta.ThumbnailURL
			}
		}
	}

	if s.deps.History == nil {
		return item, meta
	}
	saved, err := s.deps.History.For(owner).Append(ctx, item)
	if err != nil {
		slog.Error("failed to append history", "owner", owner.Key(), "source", source, "error", err)
		return item, meta
	}
	return saved, meta
}

func (s *Submitter) lookupMetadata(ctx context.Context, videoURL string) *enricher.Result {
	if s.deps.Metadata == nil {
		return nil
	}
	lookupCtx, cancel := context.WithTimeout(ctx, MetadataTimeout)
	defer cancel()

	meta, err := s.deps.Metadata.Enrich(lookupCtx, videoURL)
	if err != nil {
		slog.Debug("metadata lookup failed", "url", videoURL, "error", err)
		return nil
	}
	return meta
}

// ensureSummary fills an empty summary from the transcript. A result with
// neither is a DataError. Non-empty summaries are left untouched.
func (s *Submitter) ensureSummary(ctx context.Context, res *model.SummaryResult, lang model.Language) error {
	if res.Displayable() {
		return nil
	}
	if !res.HasTranscript() {
		return &DataError{Message: "No summary or transcript was returned for this video"}
	}

	out, err := s.deps.Fallback.Summarize(ctx, summarizer.Input{
		Transcript: res.OriginalText,
		Language:   lang.Name,
	})
	if err != nil || strings.TrimSpace(out.Text) == "" {
		// the extractive summarizer never fails on a non-empty transcript
		out = &summarizer.Result{Text: summarizer.Extract(res.OriginalText, summarizer.DefaultSentences)}
	}

	slog.Warn("backend returned an empty summary, using fallback", "provider", out.Provider)
	res.SummaryTranslated = out.Text
	if strings.TrimSpace(res.SummaryEnglish) == "" {
		res.SummaryEnglish = out.Text
	}
	return nil
}

func (s *Submitter) archiveSummary(ctx context.Context, owner model.Owner, res *model.SummaryResult) {
	if !owner.Authenticated() || s.deps.Summaries == nil {
		return
	}
	if err := s.deps.Summaries.Upsert(ctx, owner.UserID, res); err != nil {
		slog.Error("failed to save summary", "owner", owner.Key(), "video_id", res.VideoID, "error", err)
	}
}

// submission collects the lifecycle events of one Submit call
type submission struct {
	s       *Submitter
	owner   model.Owner
	emitted []model.LogEvent
}

func (r *submission) log(message string) {
	var ev model.LogEvent
	if r.s.deps.Relay != nil {
		ev = r.s.deps.Relay.Publish(message)
	} else {
		ev = model.NewLogEvent(message, time.Now())
	}
	r.emitted = append(r.emitted, ev)
}

// archive stores the submission's log events for signed-in users
func (r *submission) archive(ctx context.Context, videoID string) {
	if !r.owner.Authenticated() || r.s.deps.Logs == nil {
		return
	}
	for _, ev := range r.emitted {
		if err := r.s.deps.Logs.Insert(ctx, r.owner.UserID, videoID, ev); err != nil {
			slog.Error("failed to archive processing log", "owner", r.owner.Key(), "error", err)
			return
		}
	}
}
