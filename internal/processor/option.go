package processor

import (
	"fmt"
	"io"
	"log"
	"time"

	"autofill-go/internal/storage"
)

// ComponentOpt 组件选项类型，仅改变 Components 结构体内的字段
type ComponentOpt func(*Components)

// SettingOpt 设置选项类型，仅改变 Settings 结构体内的字段
type SettingOpt func(*Settings)

// ----- 组件选项 -----

// WithPDFExtractor 设置PDF提取器组件
func WithPDFExtractor(extractor DocumentExtractor) ComponentOpt {
	return func(c *Components) {
		c.PDFExtractor = extractor
	}
}

// WithDocxExtractor 设置DOCX提取器组件
func WithDocxExtractor(extractor DocumentExtractor) ComponentOpt {
	return func(c *Components) {
		c.DocxExtractor = extractor
	}
}

// WithResumeParser 设置简历解析器组件
func WithResumeParser(parser ResumeParser) ComponentOpt {
	return func(c *Components) {
		c.ResumeParser = parser
	}
}

// WithFieldResolver 设置字段解析器组件
func WithFieldResolver(resolver FieldResolver) ComponentOpt {
	return func(c *Components) {
		c.Resolver = resolver
	}
}

// WithStorage 设置存储组件
func WithStorage(s *storage.Storage) ComponentOpt {
	return func(c *Components) {
		c.Storage = s
	}
}

// ----- 设置选项 -----

// WithDebug 设置调试模式
func WithDebug(debug bool) SettingOpt {
	return func(s *Settings) {
		s.Debug = debug
	}
}

// WithProcessorLogger 设置日志记录器
func WithProcessorLogger(logger *log.Logger) SettingOpt {
	return func(s *Settings) {
		if logger != nil {
			s.Logger = logger
		} else {
			// 传入nil时退回丢弃日志的logger，避免panic
			s.Logger = log.New(io.Discard, "", log.LstdFlags)
		}
	}
}

// WithParserVersion 设置解析器版本标识
func WithParserVersion(version string) SettingOpt {
	return func(s *Settings) {
		s.ParserVersion = version
	}
}

// WithTimeLocation 设置时区
func WithTimeLocation(loc *time.Location) SettingOpt {
	return func(s *Settings) {
		if loc != nil {
			s.TimeLocation = loc
		} else {
			s.TimeLocation = time.Local
		}
	}
}

// ----- 日志辅助方法 -----

// logDebug 记录调试级别日志
func (ap *AutofillProcessor) logDebug(format string, args ...interface{}) {
	if ap.Config.Debug && ap.Config.Logger != nil {
		ap.Config.Logger.Printf(format, args...)
	}
}

// logInfo 记录信息级别日志
func (ap *AutofillProcessor) logInfo(format string, args ...interface{}) {
	if ap.Config.Logger != nil {
		ap.Config.Logger.Printf(format, args...)
	}
}

// logError 记录错误级别日志
func (ap *AutofillProcessor) logError(err error, format string, args ...interface{}) {
	if ap.Config.Logger != nil {
		if err != nil {
			format = fmt.Sprintf("ERROR: %v - %s", err, format)
		} else {
			format = "ERROR: " + format
		}
		ap.Config.Logger.Printf(format, args...)
	}
}
