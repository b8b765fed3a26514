package processor

import (
	"context"
	"io"

	"autofill-go/internal/types"
)

// DocumentExtractor 文档文本提取接口
// PDF和DOCX提取器都实现此接口，处理器按扩展名选择实现
type DocumentExtractor interface {
	// ExtractFromFile 从本地文件提取文本和元数据
	ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error)

	// ExtractFromReader 从io.Reader提取文本和元数据
	// uri 仅用于日志和元数据标注
	ExtractFromReader(ctx context.Context, reader io.Reader, uri string, extraMeta map[string]interface{}) (string, map[string]interface{}, error)
}

// ResumeParser 简历文本结构化解析接口
type ResumeParser interface {
	// Parse 将纯文本简历解析为结构化文档
	Parse(ctx context.Context, text string) (*types.ResumeDocument, error)
}

// FieldResolver 表单字段解析接口
// 对每个字段给出填入值及其来源
type FieldResolver interface {
	Resolve(ctx context.Context, field types.FormField, doc *types.ResumeDocument, extraContext string) types.FieldResolution
}
