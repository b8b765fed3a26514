package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fumiama/go-docx"

	"autofill-go/internal/logger"
)

// DocxExtractor 从 Word 简历（.docx/.doc）提取纯文本
// 按段落提取，每个段落输出为一行，以保留章节标题的行边界
type DocxExtractor struct{}

// NewDocxExtractor 创建Word文本提取器
func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

// ExtractFromFile 实现processor.DocumentExtractor接口，从Word文件提取文本
func (e *DocxExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	startTime := time.Now()

	file, err := os.Open(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open docx file %s: %w", filePath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", nil, fmt.Errorf("failed to stat docx file %s: %w", filePath, err)
	}

	text, err := e.extract(file, info.Size())
	if err != nil {
		return "", nil, fmt.Errorf("docx parse failed for %s: %w", filePath, err)
	}

	duration := time.Since(startTime)
	logger.Info().Str("file", filePath).Int("chars", len(text)).Dur("duration", duration).Msg("Word文档提取完成")

	metadata := map[string]interface{}{
		"source_file_path":       filePath,
		"extraction_time":        time.Now().Format(time.RFC3339),
		"processing_duration_ms": duration.Milliseconds(),
		"text_length":            len(text),
	}
	return text, metadata, nil
}

// ExtractFromReader 从 io.Reader 中提取文本
// go-docx 需要 ReadSeeker 和文件大小，所以先落到临时文件
func (e *DocxExtractor) ExtractFromReader(ctx context.Context, reader io.Reader, uri string, extraMeta map[string]interface{}) (string, map[string]interface{}, error) {
	startTime := time.Now()

	tmp, err := os.CreateTemp("", "autofill-docx-*.docx")
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, reader)
	if err != nil {
		tmp.Close()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return "", nil, fmt.Errorf("seek temp file: %w", err)
	}

	text, err := e.extract(tmp, size)
	tmp.Close()
	if err != nil {
		return "", nil, fmt.Errorf("docx parse failed for %s: %w", uri, err)
	}

	metadata := map[string]interface{}{
		"source_uri":             uri,
		"extraction_time":        time.Now().Format(time.RFC3339),
		"processing_duration_ms": time.Since(startTime).Milliseconds(),
		"text_length":            len(text),
	}
	for k, v := range extraMeta {
		metadata[k] = v
	}
	return text, metadata, nil
}

func (e *DocxExtractor) extract(r io.ReaderAt, size int64) (string, error) {
	doc, err := docx.Parse(r, size)
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var lines []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if text := paragraphText(para); text != "" {
			lines = append(lines, text)
		}
	}

	return strings.Join(lines, "\n"), nil
}

func paragraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
