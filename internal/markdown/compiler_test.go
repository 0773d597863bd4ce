package markdown

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/docpage/internal/metrics"
	"git.home.luguber.info/inful/docpage/internal/projectconfig"
)

func compileOK(t *testing.T, src string, cfg projectconfig.Config) Result {
	t.Helper()
	res := Compile(src, cfg)
	require.Nil(t, res.Err)
	require.NotNil(t, res.Bundle)
	return res
}

func TestCompile_SimpleDocument(t *testing.T) {
	res := compileOK(t, "# Title\n\nHello world\n", projectconfig.Default())
	require.Equal(t, "<h1 id=\"title\">Title</h1>\n<p>Hello world</p>\n", res.Bundle.Code)
	require.Equal(t, []HeadingNode{{ID: "title", Title: "Title", Rank: 1}}, res.Headings)
}

func TestCompile_HeaderDepthFiltersRanks(t *testing.T) {
	cfg := projectconfig.Default()
	cfg.HeaderDepth = projectconfig.MaxDepth(2)

	res := compileOK(t, "# One\n\n## Two\n\n### Three\n\n## Two\n", cfg)
	require.Equal(t, []HeadingNode{
		{ID: "one", Title: "One", Rank: 1},
		{ID: "two", Title: "Two", Rank: 2},
		{ID: "two-1", Title: "Two", Rank: 2},
	}, res.Headings)
	// Ids are assigned to every heading, collected or not.
	require.Contains(t, res.Bundle.Code, `<h3 id="three">Three</h3>`)
}

func TestCompile_HeaderDepthAllowList(t *testing.T) {
	cfg := projectconfig.Default()
	cfg.HeaderDepth = projectconfig.RankList(3)

	res := compileOK(t, "# One\n\n## Two\n\n### Three\n", cfg)
	require.Equal(t, []HeadingNode{{ID: "three", Title: "Three", Rank: 3}}, res.Headings)
}

func TestCompile_HeadingIDs(t *testing.T) {
	res := compileOK(t, "## Hello, World! 2.0\n\n## !!!\n\n## snake_case here\n", projectconfig.Default())

	ids := make([]string, 0, len(res.Headings))
	for _, h := range res.Headings {
		ids = append(ids, h.ID)
	}
	require.Equal(t, []string{"hello-world-20", "heading", "snake-case-here"}, ids)
}

func TestCompile_RawHTMLHeadings(t *testing.T) {
	src := "<h2>Raw Title</h2>\n\n## Raw Title\n\n<h3 id=\"custom\">Kept</h3>\n"
	res := compileOK(t, src, projectconfig.Default())

	require.Equal(t, []HeadingNode{
		{ID: "raw-title", Title: "Raw Title", Rank: 2},
		{ID: "raw-title-1", Title: "Raw Title", Rank: 2},
		{ID: "custom", Title: "Kept", Rank: 3},
	}, res.Headings)
	require.Contains(t, res.Bundle.Code, `<h2 id="raw-title">Raw Title</h2>`)
	require.Contains(t, res.Bundle.Code, `<h2 id="raw-title-1">Raw Title</h2>`)
	require.Contains(t, res.Bundle.Code, `<h3 id="custom">Kept</h3>`)
}

func TestCompile_RawHTMLHeadingsKeepSurroundingMarkup(t *testing.T) {
	src := "<div align=\"center\">\n  <h1>Title</h1>\n\n  Some **markdown**\n\n</div>\n"
	res := compileOK(t, src, projectconfig.Default())

	require.Equal(t, "<div align=\"center\">\n  <h1 id=\"title\">Title</h1>\n<p>Some <strong>markdown</strong></p>\n</div>\n", res.Bundle.Code)
	require.Equal(t, 1, strings.Count(res.Bundle.Code, "</div>"))
	require.Equal(t, []HeadingNode{{ID: "title", Title: "Title", Rank: 1}}, res.Headings)
}

func TestCompile_RawHTMLHeadingsSpliceIDIntoStartTag(t *testing.T) {
	src := "<section>\n<H2 class=\"x\">Mixed <em>Case</em></H2><h2>Mixed Case</h2>\n<!-- <h3>hidden</h3> -->\n</section>\n"
	res := compileOK(t, src, projectconfig.Default())

	require.Equal(t, "<section>\n<H2 id=\"mixed-case\" class=\"x\">Mixed <em>Case</em></H2><h2 id=\"mixed-case-1\">Mixed Case</h2>\n<!-- <h3>hidden</h3> -->\n</section>\n", res.Bundle.Code)
	require.Equal(t, []HeadingNode{
		{ID: "mixed-case", Title: "Mixed Case", Rank: 2},
		{ID: "mixed-case-1", Title: "Mixed Case", Rank: 2},
	}, res.Headings)
}

func TestCompile_HeadingTitlesResolveEntitiesAndEscapes(t *testing.T) {
	res := compileOK(t, "# A &amp; B\n\n## a\\_b\n\n## Use `a\\_b`\n", projectconfig.Default())

	require.Equal(t, []HeadingNode{
		{ID: "a--b", Title: "A & B", Rank: 1},
		{ID: "a-b", Title: "a_b", Rank: 2},
		{ID: "use-a-b", Title: "Use a\\_b", Rank: 2},
	}, res.Headings)
}

func TestCompile_UndeclaredVariablesKeepInlineMarkup(t *testing.T) {
	res := compileOK(t, "Value {{foo_bar}} and {{ a *b* }} and {{ x_y z }}.\n", projectconfig.Default())

	assert.Contains(t, res.Bundle.Code, "&#123;&#123;foo_bar&#125;&#125;")
	assert.Contains(t, res.Bundle.Code, "&#123;&#123; a *b* &#125;&#125;")
	assert.Contains(t, res.Bundle.Code, "&#123;&#123; x_y z &#125;&#125;")
	assert.NotContains(t, res.Bundle.Code, "<em>")
}

func TestCompile_ImageDescriptionsStayPlainText(t *testing.T) {
	res := compileOK(t, "![Happy 😄 face](/a.png)\n\n![Value {{x}} here](/b.png)\n\nPlain 😄\n", projectconfig.Default())

	assert.Contains(t, res.Bundle.Code, `<img src="/a.png" alt="Happy 😄 face">`)
	assert.Contains(t, res.Bundle.Code, `<img src="/b.png" alt="Value {{x}} here">`)
	assert.Contains(t, res.Bundle.Code, `<span role="img" aria-label=`)
	assert.NotContains(t, res.Bundle.Code, `alt="Happy <span`)
}

func TestCompile_UndeclaredVariablesRenderLiterally(t *testing.T) {
	res := compileOK(t, "Hello {{ name }} and `{{ code }}`\n", projectconfig.Default())
	require.Contains(t, res.Bundle.Code, "Hello &#123;&#123; name &#125;&#125; and")
	require.Contains(t, res.Bundle.Code, "<code>{{ code }}</code>")
}

func TestCompile_CodeBlocks(t *testing.T) {
	src := "```js title=\"app.js\"\nconst a = 1 < 2;\n```\n\n    indented\n"
	res := compileOK(t, src, projectconfig.Default())

	assert.Contains(t, res.Bundle.Code, `<pre data-language="js" data-title="app.js"><code class="language-js">const a = 1 &lt; 2;`)
	assert.Contains(t, res.Bundle.Code, `<pre data-language="text"><code class="language-text">indented`)
}

func TestCompile_UnwrapsImageOnlyParagraphs(t *testing.T) {
	res := compileOK(t, "![alt](/a.png)\n\n[![b](/b.png)](/link)\n\nText ![c](/c.png)\n", projectconfig.Default())

	assert.NotContains(t, res.Bundle.Code, "<p><img")
	assert.NotContains(t, res.Bundle.Code, `<p><a href="/link">`)
	assert.Contains(t, res.Bundle.Code, `<img src="/a.png" alt="alt">`)
	assert.Contains(t, res.Bundle.Code, `<p>Text <img src="/c.png" alt="c"></p>`)
}

func TestCompile_GFM(t *testing.T) {
	res := compileOK(t, "| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~\n\n- [x] done\n", projectconfig.Default())

	assert.Contains(t, res.Bundle.Code, "<table>")
	assert.Contains(t, res.Bundle.Code, "<del>gone</del>")
	assert.Contains(t, res.Bundle.Code, `type="checkbox"`)
}

func TestCompile_AccessibleEmojis(t *testing.T) {
	res := compileOK(t, "Nice work 😄\n", projectconfig.Default())

	assert.Contains(t, res.Bundle.Code, `<span role="img" aria-label="`)
	assert.Contains(t, res.Bundle.Code, "😄</span>")
}

func TestCompile_InvalidUTF8_FailsWithLocation(t *testing.T) {
	res := Compile("ok\nab\xff", projectconfig.Default())

	require.Nil(t, res.Bundle)
	require.NotNil(t, res.Err)
	require.Empty(t, res.Headings)
	require.Equal(t, "validate", res.Err.Stage)
	require.Len(t, res.Err.Diagnostics, 1)
	require.Equal(t, &Location{Line: 2, Column: 3, Offset: 5}, res.Err.Diagnostics[0].Location)
}

func TestCompile_NulByte_Fails(t *testing.T) {
	res := Compile("a\x00b", projectconfig.Default())
	require.Nil(t, res.Bundle)
	require.NotNil(t, res.Err)
	require.Contains(t, res.Err.Error(), "NUL")
}

func TestCompiler_FailingStage_ReturnsOnlyDiagnostics(t *testing.T) {
	boom := Stage{Name: "boom", Transform: func(*ast.Document, *State) error { return errors.New("exploded") }}
	c := NewCompiler(WithStages(append(DefaultStages(), boom)...))

	res := c.Compile("# Title\n", projectconfig.Default())
	require.Nil(t, res.Bundle)
	require.NotNil(t, res.Err)
	require.Equal(t, "boom", res.Err.Stage)
	require.Equal(t, []Diagnostic{{Message: "exploded"}}, res.Err.Diagnostics)
	require.Empty(t, res.Headings)
	require.False(t, res.OK())
}

func TestCompiler_PanickingStage_IsRecovered(t *testing.T) {
	bad := Stage{Name: "bad", Transform: func(*ast.Document, *State) error { panic("nope") }}
	c := NewCompiler(WithStages(bad))

	res := c.Compile("text", projectconfig.Default())
	require.Nil(t, res.Bundle)
	require.NotNil(t, res.Err)
	require.Equal(t, "bad", res.Err.Stage)
	require.Contains(t, res.Err.Diagnostics[0].Message, "nope")
}

func TestCompiler_ConcurrentCompilationsDoNotShareHeadings(t *testing.T) {
	c := NewCompiler()
	var wg sync.WaitGroup
	results := make([]Result, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Compile("# A\n\n## B\n", projectconfig.Default())
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		require.Equal(t, []HeadingNode{{ID: "a", Title: "A", Rank: 1}, {ID: "b", Title: "B", Rank: 2}}, res.Headings)
	}
}

type countingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	stages   map[string]metrics.ResultLabel
	outcomes map[metrics.ResultLabel]int
}

func (r *countingRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages[stage] = result
}

func (r *countingRecorder) IncCompileOutcome(result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes[result]++
}

func TestCompiler_RecordsMetrics(t *testing.T) {
	rec := &countingRecorder{stages: map[string]metrics.ResultLabel{}, outcomes: map[metrics.ResultLabel]int{}}
	c := NewCompiler(WithRecorder(rec))

	c.Compile("# ok\n", projectconfig.Default())
	c.Compile("\xff", projectconfig.Default())

	require.Equal(t, 1, rec.outcomes[metrics.ResultSuccess])
	require.Equal(t, 1, rec.outcomes[metrics.ResultFailed])
	require.Equal(t, metrics.ResultFailed, rec.stages["validate"])
	require.Equal(t, metrics.ResultSuccess, rec.stages["headings"])
}

func TestStageNames_Order(t *testing.T) {
	require.Equal(t, []string{
		"validate",
		"undeclared-variables",
		"gfm",
		"unwrap-images",
		"code-blocks",
		"heading-ids",
		"headings",
		"accessible-emojis",
	}, StageNames())
	require.Equal(t, StageNames(), NewCompiler().Stages())
}
