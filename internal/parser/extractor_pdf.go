package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"

	"autofill-go/internal/logger"
)

// PDFExtractor 使用 Eino PDF Parser 从 PDF 简历提取纯文本
type PDFExtractor struct {
	parser  *pdf.PDFParser
	timeout time.Duration
}

// PDFExtractorOption PDF提取器的配置选项
type PDFExtractorOption func(*PDFExtractor)

// WithPDFTimeout 配置单次解析的超时时间
func WithPDFTimeout(d time.Duration) PDFExtractorOption {
	return func(e *PDFExtractor) {
		e.timeout = d
	}
}

// NewPDFExtractor 初始化PDF文本提取器
// 默认配置为不按页面分割，以获取整个文档的连续文本
func NewPDFExtractor(ctx context.Context, options ...PDFExtractorOption) (*PDFExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false, // 非常重要：我们希望获取整个PDF的文本作为单个字符串
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF parser: %w", err)
	}

	extractor := &PDFExtractor{
		parser:  p,
		timeout: 30 * time.Second,
	}

	for _, option := range options {
		option(extractor)
	}

	return extractor, nil
}

// ExtractFromFile 实现processor.DocumentExtractor接口，从PDF文件提取文本
func (e *PDFExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	startTime := time.Now()
	logger.Debug().Str("file", filePath).Msg("开始处理PDF文件")

	file, err := os.Open(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open PDF file %s: %w", filePath, err)
	}
	defer file.Close()

	extraMeta := map[string]interface{}{
		"source_file_path": filePath,
		"extraction_time":  time.Now().Format(time.RFC3339),
	}

	text, metadata, err := e.ExtractFromReader(ctx, file, filePath, extraMeta)

	duration := time.Since(startTime)
	if err != nil {
		logger.Error().Err(err).Dur("duration", duration).Msg("PDF处理失败")
		return "", nil, err
	}

	logger.Info().Int("chars", len(text)).Dur("duration", duration).Msg("PDF处理完成")
	return text, metadata, nil
}

// ExtractFromReader 从 io.Reader 中提取文本 (更通用的版本)
// 返回: 提取的文本内容, 解析器元数据, 错误
func (e *PDFExtractor) ExtractFromReader(ctx context.Context, reader io.Reader, uri string, extraMeta map[string]interface{}) (string, map[string]interface{}, error) {
	if extraMeta == nil {
		extraMeta = make(map[string]interface{})
	}

	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
		einoParser.WithExtraMeta(extraMeta),
	)

	duration := time.Since(startTime)
	if err != nil {
		return "", extraMeta, fmt.Errorf("PDF parse failed for URI %s: %w", uri, err)
	}

	if len(docs) == 0 {
		return "", extraMeta, fmt.Errorf("PDF parser returned no documents for URI %s", uri)
	}

	// 合并所有文档的内容（以防万一返回了多个）
	var fullContent string
	for i, doc := range docs {
		fullContent += doc.Content
		if i < len(docs)-1 {
			fullContent += "\n\n"
		}
	}

	// 合并元数据
	var finalMetadata map[string]interface{}
	if docs[0].MetaData != nil {
		finalMetadata = docs[0].MetaData
	} else {
		finalMetadata = make(map[string]interface{})
	}
	for k, v := range extraMeta {
		finalMetadata[k] = v
	}
	finalMetadata["processing_duration_ms"] = duration.Milliseconds()
	finalMetadata["document_count"] = len(docs)
	finalMetadata["text_length"] = len(fullContent)

	return fullContent, finalMetadata, nil
}

// ExtractFromBytes 从字节数组提取文本内容
func (e *PDFExtractor) ExtractFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	return e.ExtractFromReader(ctx, bytes.NewReader(data), uri, nil)
}
