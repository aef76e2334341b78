package session

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/lexplain/internal/analysis"
	"github.com/dgallion1/lexplain/internal/gateway"
	"github.com/dgallion1/lexplain/internal/parser"
)

// Options tunes the Orchestrator.
type Options struct {
	OriginalLanguage string // language code that selects the canonical analysis
	PreviewChars     int    // runes of local preview text kept per upload
}

// Orchestrator is the sole owner and writer of the review session. The lock
// is never held across a gateway call; responses are applied only when
// their generation still matches.
type Orchestrator struct {
	mu    sync.Mutex
	gw    gateway.Gateway
	log   *slog.Logger
	opts  Options
	seq   uint64
	state *State

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates an orchestrator holding an empty Idle session.
func NewOrchestrator(gw gateway.Gateway, opts Options, log *slog.Logger) (*Orchestrator, error) {
	if opts.OriginalLanguage == "" {
		opts.OriginalLanguage = "en"
	}
	st, err := newState("", "", opts.OriginalLanguage)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		gw:     gw,
		log:    log,
		opts:   opts,
		state:  st,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Stop cancels background analyses and waits for them to return.
func (o *Orchestrator) Stop() {
	o.cancel()
	o.wg.Wait()
}

// Snapshot returns a read-only copy of the current session.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.snapshot()
}

// Stats describes the analysis currently on display.
func (o *Orchestrator) Stats() (analysis.Stats, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state.Display == nil {
		return analysis.Stats{}, ErrNotAnalyzed
	}
	return analysis.ComputeStats(o.state.Display), nil
}

// Upload sends a file to the backend. On success the document replaces the
// current session; on failure the previous results stay visible.
func (o *Orchestrator) Upload(ctx context.Context, fileName string, data []byte) (Snapshot, error) {
	name := sanitizeFileName(fileName)
	if !parser.IsUploadable(name) {
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnsupportedFile, name)
	}
	if len(data) == 0 {
		return Snapshot{}, ErrEmptyFile
	}

	o.mu.Lock()
	st := o.state
	if st.Status() != StatusUploading {
		if err := st.transition(eventUpload); err != nil {
			o.mu.Unlock()
			return Snapshot{}, err
		}
	}
	o.seq++
	seq := o.seq
	st.gen.Seq = seq
	st.analyzing = false
	st.displaySeq++
	o.mu.Unlock()

	log := o.log.With("session_id", st.ID, "file", name, "seq", seq)
	log.Info("upload started", "bytes", len(data))

	doc, err := o.gw.Upload(ctx, name, data)
	var local parser.Inspection
	if err == nil {
		local = o.inspect(log, name, data)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != st || st.gen.Seq != seq {
		log.Info("stale upload discarded", "current", o.state.gen.String())
		return Snapshot{}, ErrSuperseded
	}
	if err != nil {
		o.fail(log, st, err)
		log.Error("upload failed", "error", err)
		return Snapshot{}, err
	}

	next, err := newState(doc.Ref, doc.MimeType, o.opts.OriginalLanguage)
	if err != nil {
		return Snapshot{}, err
	}
	next.FileName = name
	next.ContentHash = ContentHashHex(data)
	next.Preview = local.Preview
	next.Outline = local.Outline
	next.gen.Seq = seq
	o.state = next
	log.Info("upload finished", "doc_ref", doc.Ref, "new_session_id", next.ID)
	return next.snapshot(), nil
}

func (o *Orchestrator) inspect(log *slog.Logger, name string, data []byte) parser.Inspection {
	in, err := parser.Inspect(name, data, o.opts.PreviewChars)
	if err != nil {
		log.Warn("preview extraction failed", "error", err)
		return parser.Inspection{}
	}
	return in
}

// fail records reason on st. A refused fail event is logged, since the
// caller is already returning reason.
func (o *Orchestrator) fail(log *slog.Logger, st *State, reason error) {
	if err := st.fail(reason); err != nil {
		log.Error("status transition failed", "error", err, "status", st.Status())
	}
}

// BeginAnalysis analyzes documentRef. A repeated call for a ref that is
// already in flight, or already analyzed, returns nil without a remote call;
// the canonical analysis of a ref is set once, and a session that failed
// after it was set recovers through SetLanguage. A call for a different ref
// discards the current session.
func (o *Orchestrator) BeginAnalysis(ctx context.Context, documentRef, mimeType string) error {
	ref := strings.TrimSpace(documentRef)
	if ref == "" {
		return ErrNoDocument
	}

	o.mu.Lock()
	st := o.state
	if st.DocumentRef == ref {
		if st.analyzing {
			o.mu.Unlock()
			o.log.Debug("duplicate analysis suppressed", "doc_ref", ref, "gen", st.gen.Seq)
			return nil
		}
		if st.Canonical != nil {
			o.mu.Unlock()
			o.log.Debug("document already analyzed", "doc_ref", ref, "status", st.Status())
			return nil
		}
	} else {
		next, err := newState(ref, mimeType, o.opts.OriginalLanguage)
		if err != nil {
			o.mu.Unlock()
			return err
		}
		o.state = next
		st = next
	}
	if mimeType != "" {
		st.MimeType = mimeType
	}
	if err := st.transition(eventAnalyze); err != nil {
		o.mu.Unlock()
		return err
	}
	o.seq++
	st.gen = Generation{DocumentRef: ref, Seq: o.seq}
	st.analyzing = true
	st.displaySeq++
	gen, mime := st.gen, st.MimeType
	o.mu.Unlock()

	log := o.log.With("session_id", st.ID, "doc_ref", ref, "gen", gen.Seq)
	log.Info("analysis started")
	start := time.Now()

	a, err := o.gw.Analyze(ctx, ref, mime)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != st || st.gen != gen {
		log.Info("stale analysis discarded", "current", o.state.gen.String())
		return ErrSuperseded
	}
	st.analyzing = false
	if err != nil {
		o.fail(log, st, err)
		log.Error("analysis failed", "error", err)
		return err
	}
	st.Canonical = a
	st.Display = a
	st.Language = o.opts.OriginalLanguage
	if err := st.transition(eventSucceed); err != nil {
		return err
	}
	log.Info("analysis finished", "clauses", len(a.Clauses), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// StartAnalysis runs BeginAnalysis in the background. Stop cancels it.
func (o *Orchestrator) StartAnalysis(documentRef, mimeType string) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.BeginAnalysis(o.ctx, documentRef, mimeType)
	}()
}

// Reanalyze retries analysis of the current document.
func (o *Orchestrator) Reanalyze(ctx context.Context) error {
	o.mu.Lock()
	ref, mime := o.state.DocumentRef, o.state.MimeType
	o.mu.Unlock()
	if ref == "" {
		return ErrNoDocument
	}
	return o.BeginAnalysis(ctx, ref, mime)
}

// SetLanguage switches the displayed analysis to lang. The original
// language is restored locally; any other language is translated remotely
// and applied only if no newer language change or analysis started since.
func (o *Orchestrator) SetLanguage(ctx context.Context, lang string) error {
	lang = strings.TrimSpace(lang)

	o.mu.Lock()
	st := o.state
	if st.Canonical == nil {
		o.mu.Unlock()
		return ErrNotAnalyzed
	}
	st.displaySeq++

	if o.isOriginal(lang) {
		st.Display = st.Canonical
		st.Language = o.opts.OriginalLanguage
		st.UpdatedAt = time.Now()
		var err error
		switch st.Status() {
		case StatusTranslating, StatusFailed:
			err = st.transition(eventRevert)
		}
		o.mu.Unlock()
		o.log.Debug("display reverted to original", "session_id", st.ID)
		return err
	}

	switch st.Status() {
	case StatusAnalyzing, StatusUploading:
		o.mu.Unlock()
		return ErrBusy
	case StatusTranslating:
		st.ErrorMessage = ""
	default:
		if err := st.transition(eventTranslate); err != nil {
			o.mu.Unlock()
			return err
		}
	}
	gen, seq, canonical := st.gen, st.displaySeq, st.Canonical
	o.mu.Unlock()

	log := o.log.With("session_id", st.ID, "doc_ref", gen.DocumentRef, "lang", lang, "display_seq", seq)
	log.Info("translation started")

	batch := analysis.Flatten(canonical)
	var out []string
	var err error
	if batch.Layout.Len() > 0 {
		out, err = o.gw.Translate(ctx, batch.Texts, lang)
	} else {
		log.Debug("nothing to translate")
	}
	var display *analysis.DocumentAnalysis
	if err == nil {
		display, err = batch.Rebuild(canonical, out)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != st || st.gen != gen || st.displaySeq != seq {
		log.Info("stale translation discarded")
		return ErrSuperseded
	}
	if err != nil {
		o.fail(log, st, err)
		log.Error("translation failed", "error", err)
		return err
	}
	st.Display = display
	st.Language = lang
	if err := st.transition(eventSucceed); err != nil {
		return err
	}
	log.Info("translation finished", "texts", len(batch.Texts))
	return nil
}

func (o *Orchestrator) isOriginal(lang string) bool {
	return lang == "" || strings.EqualFold(lang, "original") || strings.EqualFold(lang, o.opts.OriginalLanguage)
}

// ExportChecklist fetches the checklist for the canonical document. A
// failure is recorded as the error message without leaving Ready.
func (o *Orchestrator) ExportChecklist(ctx context.Context) ([]byte, error) {
	o.mu.Lock()
	st := o.state
	if st.Canonical == nil {
		o.mu.Unlock()
		return nil, ErrNotAnalyzed
	}
	gen, text := st.gen, st.Canonical.OriginalText
	o.mu.Unlock()

	data, err := o.gw.ExportChecklist(ctx, text)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != st || st.gen != gen {
		return nil, ErrSuperseded
	}
	if err != nil {
		st.ErrorMessage = err.Error()
		st.UpdatedAt = time.Now()
		o.log.Warn("checklist export failed", "session_id", st.ID, "error", err)
		return nil, err
	}
	if st.Status() == StatusReady {
		st.ErrorMessage = ""
	}
	return data, nil
}

// Ask answers a question about the canonical document. Failures are kept
// as the Q&A error and never change the session status.
func (o *Orchestrator) Ask(ctx context.Context, question string) (gateway.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return gateway.Answer{}, ErrEmptyQuestion
	}

	o.mu.Lock()
	st := o.state
	if st.Canonical == nil {
		o.mu.Unlock()
		return gateway.Answer{}, ErrNotAnalyzed
	}
	gen, text := st.gen, st.Canonical.OriginalText
	o.mu.Unlock()

	ans, err := o.gw.Ask(ctx, question, text)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != st || st.gen != gen {
		return gateway.Answer{}, ErrSuperseded
	}
	if err != nil {
		st.QAError = err.Error()
		o.log.Warn("question failed", "session_id", st.ID, "error", err)
		return gateway.Answer{}, err
	}
	st.QAError = ""
	return ans, nil
}

func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
