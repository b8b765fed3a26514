package processor

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autofill-go/internal/types"
)

// MockExtractor 模拟文档提取器
type MockExtractor struct {
	text     string
	metadata map[string]interface{}
	err      error
	called   bool
}

func (m *MockExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	m.called = true
	return m.text, m.metadata, m.err
}

func (m *MockExtractor) ExtractFromReader(ctx context.Context, reader io.Reader, uri string, extraMeta map[string]interface{}) (string, map[string]interface{}, error) {
	m.called = true
	return m.text, m.metadata, m.err
}

// MockResumeParser 模拟简历结构化解析器
type MockResumeParser struct {
	doc      *types.ResumeDocument
	err      error
	lastText string
}

func (m *MockResumeParser) Parse(ctx context.Context, text string) (*types.ResumeDocument, error) {
	m.lastText = text
	return m.doc, m.err
}

// MockFieldResolver 模拟字段解析器
// panicOn 指定的问题会触发panic，用于验证单字段故障隔离
type MockFieldResolver struct {
	resolutions map[string]types.FieldResolution
	panicOn     string
}

func (m *MockFieldResolver) Resolve(ctx context.Context, field types.FormField, doc *types.ResumeDocument, extraContext string) types.FieldResolution {
	question := field.Question()
	if m.panicOn != "" && question == m.panicOn {
		panic("resolver exploded on " + question)
	}
	if r, ok := m.resolutions[question]; ok {
		return r
	}
	return types.FieldResolution{
		Selector: field.Selector,
		Question: question,
		Source:   types.SourceSkipped,
	}
}

func newTestProcessor(t *testing.T, comp *Components) *AutofillProcessor {
	t.Helper()
	return NewAutofillProcessor(comp, &Settings{
		Logger: log.New(io.Discard, "", 0),
	})
}

func TestExtractorForExt(t *testing.T) {
	pdf := &MockExtractor{text: "pdf text"}
	docx := &MockExtractor{text: "docx text"}
	p := newTestProcessor(t, &Components{
		PDFExtractor:  pdf,
		DocxExtractor: docx,
		ResumeParser:  &MockResumeParser{doc: &types.ResumeDocument{}},
	})

	tests := []struct {
		ext  string
		want DocumentExtractor
	}{
		{".pdf", pdf},
		{".PDF", pdf},
		{".docx", docx},
		{".DOCX", docx},
		{".doc", docx},
	}
	for _, tt := range tests {
		got, err := p.extractorForExt(tt.ext)
		require.NoError(t, err, "扩展名 %s 应该有对应提取器", tt.ext)
		assert.Same(t, tt.want, got, "扩展名 %s 分发错误", tt.ext)
	}
}

func TestExtractorForExt_UnsupportedFormat(t *testing.T) {
	p := newTestProcessor(t, &Components{
		PDFExtractor:  &MockExtractor{},
		DocxExtractor: &MockExtractor{},
		ResumeParser:  &MockResumeParser{doc: &types.ResumeDocument{}},
	})

	for _, ext := range []string{".txt", ".png", "", ".exe"} {
		_, err := p.extractorForExt(ext)
		require.Error(t, err, "扩展名 %q 不应被支持", ext)
		assert.True(t, errors.Is(err, ErrUnsupportedFormat), "错误应能通过 errors.Is 识别为 ErrUnsupportedFormat")
	}
}

func TestProcessResumeFile(t *testing.T) {
	wantDoc := &types.ResumeDocument{
		RawText: "张三 golang工程师",
		Skills:  []string{"Go", "MySQL"},
	}
	parser := &MockResumeParser{doc: wantDoc}
	pdf := &MockExtractor{text: "张三 golang工程师"}
	p := newTestProcessor(t, &Components{
		PDFExtractor:  pdf,
		DocxExtractor: &MockExtractor{},
		ResumeParser:  parser,
	})

	doc, err := p.ProcessResumeFile(context.Background(), "/tmp/resume.pdf")
	require.NoError(t, err)
	assert.Same(t, wantDoc, doc)
	assert.True(t, pdf.called, "应该调用PDF提取器")
	assert.Equal(t, "张三 golang工程师", parser.lastText, "提取出的文本应原样传给解析器")
}

func TestProcessResumeFile_UnsupportedExt(t *testing.T) {
	p := newTestProcessor(t, &Components{
		PDFExtractor:  &MockExtractor{},
		DocxExtractor: &MockExtractor{},
		ResumeParser:  &MockResumeParser{doc: &types.ResumeDocument{}},
	})

	_, err := p.ProcessResumeFile(context.Background(), "/tmp/resume.txt")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestProcessResumeFile_ExtractFailed(t *testing.T) {
	p := newTestProcessor(t, &Components{
		PDFExtractor:  &MockExtractor{err: errors.New("corrupt pdf")},
		DocxExtractor: &MockExtractor{},
		ResumeParser:  &MockResumeParser{doc: &types.ResumeDocument{}},
	})

	_, err := p.ProcessResumeFile(context.Background(), "/tmp/resume.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExtractTextFailed))
	assert.Contains(t, err.Error(), "corrupt pdf")
}

func TestFillForm(t *testing.T) {
	doc := &types.ResumeDocument{}
	resolver := &MockFieldResolver{
		resolutions: map[string]types.FieldResolution{
			"Full Name": {Selector: "#name", Question: "Full Name", Value: "张三", Source: types.SourceDirect},
			"Email":     {Selector: "#email", Question: "Email", Value: "zhangsan@example.com", Source: types.SourceDirect},
			"Why us":    {Selector: "#why", Question: "Why us", Value: "", Source: types.SourceSkipped},
		},
	}
	p := newTestProcessor(t, &Components{
		ResumeParser: &MockResumeParser{doc: doc},
		Resolver:     resolver,
	})

	fields := []types.FormField{
		{Label: "Full Name", Selector: "#name", Visible: true},
		{Label: "Email", Selector: "#email", Visible: true},
		{Label: "Tracking", Selector: "#hidden", Visible: false}, // 不可见，必须跳过
		{Label: "Why us", Selector: "#why", Visible: true},
	}

	report := p.FillForm(context.Background(), doc, fields, "")
	require.NotNil(t, report)
	assert.Equal(t, 4, report.TotalFields, "TotalFields统计所有上报字段")
	assert.Equal(t, 2, report.FilledFields, "只有非空值计入FilledFields")
	assert.Len(t, report.Resolutions, 3, "不可见字段不产生解析记录")
	assert.Empty(t, report.Errors)
	assert.True(t, report.Success)

	for _, r := range report.Resolutions {
		assert.NotEqual(t, "#hidden", r.Selector, "不可见字段不应被解析")
	}
}

func TestFillForm_PanicIsolation(t *testing.T) {
	doc := &types.ResumeDocument{}
	resolver := &MockFieldResolver{
		resolutions: map[string]types.FieldResolution{
			"Full Name": {Selector: "#name", Question: "Full Name", Value: "张三", Source: types.SourceDirect},
			"Email":     {Selector: "#email", Question: "Email", Value: "zhangsan@example.com", Source: types.SourceDirect},
		},
		panicOn: "Salary",
	}
	p := newTestProcessor(t, &Components{
		ResumeParser: &MockResumeParser{doc: doc},
		Resolver:     resolver,
	})

	fields := []types.FormField{
		{Label: "Full Name", Selector: "#name", Visible: true},
		{Label: "Salary", Selector: "#salary", Visible: true}, // 该字段会panic
		{Label: "Email", Selector: "#email", Visible: true},
	}

	report := p.FillForm(context.Background(), doc, fields, "")
	require.NotNil(t, report)

	// panic的字段被折算为错误，后续字段继续处理
	assert.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "Salary")
	assert.Equal(t, 2, report.FilledFields)
	assert.False(t, report.Success, "存在字段错误时整体不算成功")
}

func TestFillForm_NilResolver(t *testing.T) {
	p := newTestProcessor(t, &Components{
		ResumeParser: &MockResumeParser{doc: &types.ResumeDocument{}},
	})

	fields := []types.FormField{
		{Label: "Full Name", Selector: "#name", Visible: true},
	}
	report := p.FillForm(context.Background(), &types.ResumeDocument{}, fields, "")
	require.NotNil(t, report)
	assert.Len(t, report.Errors, 1)
	assert.False(t, report.Success)
}

func TestFillForm_EmptyFields(t *testing.T) {
	p := newTestProcessor(t, &Components{
		ResumeParser: &MockResumeParser{doc: &types.ResumeDocument{}},
		Resolver:     &MockFieldResolver{},
	})

	report := p.FillForm(context.Background(), &types.ResumeDocument{}, nil, "")
	require.NotNil(t, report)
	assert.Equal(t, 0, report.TotalFields)
	assert.Equal(t, 0, report.FilledFields)
	assert.True(t, report.Success, "没有字段也算成功")
}

func TestCreateProcessor_RequiresParser(t *testing.T) {
	_, err := CreateProcessor(context.Background(), []ComponentOpt{
		WithPDFExtractor(&MockExtractor{}),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "简历解析器")
}

func TestCreateProcessor_WithComponents(t *testing.T) {
	parser := &MockResumeParser{doc: &types.ResumeDocument{}}
	p, err := CreateProcessor(context.Background(), []ComponentOpt{
		WithResumeParser(parser),
		WithFieldResolver(&MockFieldResolver{}),
	}, []SettingOpt{
		WithDebug(true),
		WithParserVersion("test-v1"),
	})
	require.NoError(t, err)
	assert.True(t, p.Config.Debug)
	assert.Equal(t, "test-v1", p.Config.ParserVersion)
	assert.NotNil(t, p.Resolver)
}
