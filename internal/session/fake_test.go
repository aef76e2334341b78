package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/lexplain/internal/analysis"
	"github.com/dgallion1/lexplain/internal/gateway"
)

// gate holds a fake call until the test releases it.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) pass() {
	close(g.entered)
	<-g.release
}

func (g *gate) waitEntered(t *testing.T) {
	t.Helper()
	select {
	case <-g.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("gated call never started")
	}
}

type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int
	gates map[string]*gate

	uploadErr    error
	analyzeErr   error
	translateErr error
	exportErr    error
	askErr       error
	shortReply   bool
	emptyResult  bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: map[string]int{}, gates: map[string]*gate{}}
}

// gateOn makes the next call whose key matches block until released.
func (f *fakeGateway) gateOn(key string) *gate {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := newGate()
	f.gates[key] = g
	return g
}

func (f *fakeGateway) enter(op, key string) {
	f.mu.Lock()
	f.calls[op]++
	g := f.gates[key]
	delete(f.gates, key)
	f.mu.Unlock()
	if g != nil {
		g.pass()
	}
}

func (f *fakeGateway) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeGateway) Upload(ctx context.Context, fileName string, data []byte) (gateway.Document, error) {
	f.enter("upload", fileName)
	if f.uploadErr != nil {
		return gateway.Document{}, f.uploadErr
	}
	return gateway.Document{Ref: "gs://bucket/" + fileName, MimeType: "text/plain"}, nil
}

func (f *fakeGateway) Analyze(ctx context.Context, documentRef, mimeType string) (*analysis.DocumentAnalysis, error) {
	f.enter("analyze", documentRef)
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	if f.emptyResult {
		return &analysis.DocumentAnalysis{OriginalText: "Full text of " + documentRef, Summary: []string{}, Clauses: []analysis.Clause{}}, nil
	}
	return sampleAnalysis(documentRef), nil
}

func (f *fakeGateway) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	f.enter("translate", targetLang)
	if f.translateErr != nil {
		return nil, f.translateErr
	}
	out := make([]string, len(texts))
	for i, s := range texts {
		out[i] = "[" + targetLang + "] " + s
	}
	if f.shortReply {
		out = out[1:]
	}
	return out, nil
}

func (f *fakeGateway) ExportChecklist(ctx context.Context, originalText string) ([]byte, error) {
	f.enter("export", "")
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return []byte("[ ] " + originalText), nil
}

func (f *fakeGateway) Ask(ctx context.Context, question, originalText string) (gateway.Answer, error) {
	f.enter("ask", question)
	if f.askErr != nil {
		return gateway.Answer{}, f.askErr
	}
	return gateway.Answer{Text: "answer to " + question, Citations: []gateway.Citation{{Text: originalText}}}, nil
}

func sampleAnalysis(ref string) *analysis.DocumentAnalysis {
	return &analysis.DocumentAnalysis{
		OriginalText: "Full text of " + ref,
		Summary:      []string{"Summary of " + ref, "Second point"},
		Clauses: []analysis.Clause{
			{ID: "c1", Title: "Term", Explanation: "Two years", RiskLevel: analysis.RiskHigh, RiskJustification: "Long lock-in"},
			{ID: "c2", Title: "Deposit", Explanation: "One month", RiskLevel: analysis.RiskLow, RiskJustification: "Standard"},
			{ID: "c3", Title: "Pets", Explanation: "Not allowed", RiskLevel: "Severe", RiskJustification: "Unusual"},
		},
	}
}

func newTestOrchestrator(t *testing.T, gw gateway.Gateway) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(gw, Options{OriginalLanguage: "en", PreviewChars: 40}, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	t.Cleanup(o.Stop)
	return o
}

// analyzed returns an orchestrator whose session is Ready for ref.
func analyzed(t *testing.T, gw *fakeGateway, ref string) *Orchestrator {
	t.Helper()
	o := newTestOrchestrator(t, gw)
	if err := o.BeginAnalysis(context.Background(), ref, "application/pdf"); err != nil {
		t.Fatalf("BeginAnalysis: %v", err)
	}
	return o
}

func async(fn func() error) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- fn() }()
	return ch
}

func wait(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("call did not return")
		return nil
	}
}

var errBackend = errors.New("backend unavailable")

func hasPrefixAll(items []string, prefix string) bool {
	for _, s := range items {
		if !strings.HasPrefix(s, prefix) {
			return false
		}
	}
	return true
}
