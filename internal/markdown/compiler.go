package markdown

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/docpage/internal/logfields"
	"git.home.luguber.info/inful/docpage/internal/metrics"
	"git.home.luguber.info/inful/docpage/internal/projectconfig"
)

// Compiler turns markdown into a Result. A Compiler holds no per-compile state
// and is safe for concurrent use.
type Compiler struct {
	stages   []Stage
	md       goldmark.Markdown
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Compiler) { c.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStages replaces the default stages.
func WithStages(stages ...Stage) Option {
	return func(c *Compiler) { c.stages = stages }
}

// NewCompiler builds a Compiler and its goldmark engine.
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		stages:   DefaultStages(),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	extensions := []goldmark.Extender{pageNodes{}}
	for _, s := range c.stages {
		extensions = append(extensions, s.Extensions...)
	}
	c.md = goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return c
}

// Stages returns the names of the compiler's stages in execution order.
func (c *Compiler) Stages() []string {
	names := make([]string, len(c.stages))
	for i, s := range c.stages {
		names[i] = s.Name
	}
	return names
}

var defaultCompiler = sync.OnceValue(func() *Compiler { return NewCompiler() })

// Compile compiles markdown with the default stages.
func Compile(markdown string, cfg projectconfig.Config) Result {
	return defaultCompiler().Compile(markdown, cfg)
}

// Compile runs every stage over markdown and renders the bundle. Any stage
// failure aborts the compilation; no bundle is returned in that case.
func (c *Compiler) Compile(markdown string, cfg projectconfig.Config) Result {
	start := time.Now()
	res := c.compile([]byte(markdown), cfg)
	c.recorder.ObserveCompileDuration(time.Since(start))

	if res.Err != nil {
		c.recorder.IncCompileOutcome(metrics.ResultFailed)
		c.logger.Debug("Compilation failed", logfields.Stage(res.Err.Stage), logfields.Error(res.Err), logfields.Since(start))
		return res
	}
	c.recorder.IncCompileOutcome(metrics.ResultSuccess)
	c.logger.Debug("Compilation succeeded", slog.Int("headings", len(res.Headings)), logfields.Since(start))
	return res
}

func (c *Compiler) compile(src []byte, cfg projectconfig.Config) (res Result) {
	// The accumulator lives for this call only.
	headings := []HeadingNode{}
	st := &State{
		Config:    cfg,
		Source:    src,
		ids:       newSlugger(),
		onHeading: func(h HeadingNode) { headings = append(headings, h) },
	}

	defer func() {
		if r := recover(); r != nil {
			res = failed(&CompileError{Diagnostics: []Diagnostic{{Message: fmt.Sprintf("internal compiler error: %v", r)}}})
		}
	}()

	st.parsed = parser.NewContext(parser.WithIDs(st.ids))
	doc, ok := c.md.Parser().Parse(text.NewReader(src), parser.WithContext(st.parsed)).(*ast.Document)
	if !ok {
		return failed(&CompileError{Diagnostics: []Diagnostic{{Message: "parser did not return a document"}}})
	}

	for _, stage := range c.stages {
		if stage.Transform == nil {
			continue
		}
		if err := c.runStage(stage, doc, st); err != nil {
			return failed(err)
		}
	}

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, src, doc); err != nil {
		return failed(&CompileError{Stage: "render", Diagnostics: []Diagnostic{{Message: err.Error()}}})
	}
	return Result{Bundle: &Bundle{Code: buf.String()}, Headings: headings}
}

func (c *Compiler) runStage(stage Stage, doc *ast.Document, st *State) (cerr *CompileError) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			cerr = &CompileError{Diagnostics: []Diagnostic{{Message: fmt.Sprintf("panic: %v", r)}}}
		}
		c.recorder.ObserveStageDuration(stage.Name, time.Since(start))
		if cerr != nil {
			cerr.Stage = stage.Name
			c.recorder.IncStageResult(stage.Name, metrics.ResultFailed)
			return
		}
		c.recorder.IncStageResult(stage.Name, metrics.ResultSuccess)
	}()

	if err := stage.Transform(doc, st); err != nil {
		return toCompileError(err)
	}
	return nil
}

func toCompileError(err error) *CompileError {
	if ce, ok := err.(*CompileError); ok {
		return ce
	}
	return &CompileError{Diagnostics: []Diagnostic{{Message: err.Error()}}}
}

// pageNodes registers renderers for the node kinds introduced by the stages.
type pageNodes struct{}

func (pageNodes) Extend(m goldmark.Markdown) {
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(&nodeRenderer{}, 500)))
}
