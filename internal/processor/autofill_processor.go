// Package processor 聚合简历处理与表单填充的核心流程
package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"autofill-go/internal/config"
	"autofill-go/internal/constants"
	"autofill-go/internal/parser"
	"autofill-go/internal/resolver"
	"autofill-go/internal/storage"
	"autofill-go/internal/storage/models"
	"autofill-go/internal/tracing"
	"autofill-go/internal/types"
	"autofill-go/pkg/ratelimit"
	"autofill-go/pkg/utils"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("autofill-go/internal/processor")

// Components 聚合所有功能组件依赖，便于集中管理和测试替换
type Components struct {
	// 核心组件接口
	PDFExtractor  DocumentExtractor // PDF文本提取
	DocxExtractor DocumentExtractor // DOCX文本提取
	ResumeParser  ResumeParser      // 简历结构化解析
	Resolver      FieldResolver     // 表单字段解析

	// 存储层依赖
	Storage *storage.Storage // 聚合的存储服务
}

// Settings 纯配置项，不包含任何业务逻辑组件
type Settings struct {
	Debug         bool           // 是否开启调试模式
	Logger        *log.Logger    // 日志记录器
	ParserVersion string         // 解析器版本标识
	TimeLocation  *time.Location // 时区设置
}

// ComponentConfig 组件配置
type ComponentConfig struct {
	Debug         bool
	Logger        *log.Logger
	ParserVersion string
}

// AutofillProcessor 简历处理与表单填充组件聚合类
type AutofillProcessor struct {
	PDFExtractor  DocumentExtractor
	DocxExtractor DocumentExtractor
	ResumeParser  ResumeParser
	Resolver      FieldResolver

	Storage *storage.Storage

	Config ComponentConfig
}

// NewAutofillProcessor 创建处理器，组件与设置分离注入
func NewAutofillProcessor(comp *Components, set *Settings, opts ...SettingOpt) *AutofillProcessor {
	for _, opt := range opts {
		opt(set)
	}

	if set.Logger == nil {
		set.Logger = log.New(os.Stdout, "[Processor] ", log.LstdFlags)
	}
	if set.TimeLocation == nil {
		set.TimeLocation = time.Local
	}
	if set.ParserVersion == "" {
		set.ParserVersion = constants.DefaultParserVer
	}

	p := &AutofillProcessor{
		PDFExtractor:  comp.PDFExtractor,
		DocxExtractor: comp.DocxExtractor,
		ResumeParser:  comp.ResumeParser,
		Resolver:      comp.Resolver,
		Storage:       comp.Storage,

		Config: ComponentConfig{
			Debug:         set.Debug,
			Logger:        set.Logger,
			ParserVersion: set.ParserVersion,
		},
	}

	if p.Storage == nil {
		p.Config.Logger.Println("警告: AutofillProcessor 的 Storage 依赖未初始化。持久化功能不可用。")
	}

	return p
}

// CreateProcessor 便捷工厂函数，用于创建组件和设置并构造处理器
func CreateProcessor(ctx context.Context, compOpts []ComponentOpt, setOpts []SettingOpt) (*AutofillProcessor, error) {
	components := &Components{}

	settings := &Settings{
		Debug:        false,
		Logger:       log.New(os.Stdout, "[Processor] ", log.LstdFlags),
		TimeLocation: time.Local,
	}

	for _, opt := range compOpts {
		opt(components)
	}
	for _, opt := range setOpts {
		opt(settings)
	}

	if components.ResumeParser == nil {
		return nil, fmt.Errorf("必须提供简历解析器组件")
	}

	return NewAutofillProcessor(components, settings), nil
}

// CreateProcessorFromConfig 从配置创建处理器组件集合
func CreateProcessorFromConfig(ctx context.Context, cfg *config.Config, storageManager *storage.Storage) (*AutofillProcessor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	components := &Components{
		Storage: storageManager,
	}

	settings := &Settings{
		Debug:         cfg.Logger.Level == "debug",
		Logger:        log.New(os.Stdout, "[Processor] ", log.LstdFlags),
		ParserVersion: constants.DefaultParserVer,
		TimeLocation:  time.Local,
	}

	// 1. 文档提取器
	pdfExtractor, err := parser.NewPDFExtractor(ctx)
	if err != nil {
		return nil, fmt.Errorf("创建PDF提取器失败: %w", err)
	}
	components.PDFExtractor = pdfExtractor
	components.DocxExtractor = parser.NewDocxExtractor()

	// 2. 规则解析器
	components.ResumeParser = parser.NewRuleResumeParser()

	// 3. 如果配置了API密钥，配置LLM回答生成；否则解析器直接走模板降级
	var generator resolver.Generator
	if cfg.OpenAI.APIKey != "" {
		settings.Logger.Println("检测到API密钥，配置LLM回答生成...")

		answerModel, err := resolver.NewOpenAIChatModel(
			cfg.OpenAI.APIKey,
			cfg.GetModelForTask("answer_generation"),
			cfg.OpenAI.BaseURL,
			resolver.WithTemperature(cfg.Answerer.Temperature),
			resolver.WithMaxTokens(cfg.Answerer.MaxTokens),
		)
		if err != nil {
			return nil, fmt.Errorf("创建回答生成模型失败: %w", err)
		}

		qpm := cfg.GetQPMForModel(cfg.GetModelForTask("answer_generation"), cfg.Answerer.QPM)
		limiter := ratelimit.NewTokenBucket(qpm, qpm)

		generator = resolver.NewLLMAnswerGenerator(answerModel,
			resolver.WithRateLimiter(limiter),
			resolver.WithRetry(cfg.Answerer.MaxRetries, time.Duration(cfg.Answerer.RetryWaitSeconds)*time.Second),
			resolver.WithCallTimeout(config.GetDuration(cfg.Answerer.GenerationTimeout, 60*time.Second)),
		)
	}

	// 4. 字段解析器，Redis可用时挂上回答缓存
	var resolverOpts []resolver.ResolverOption
	if storageManager != nil && storageManager.Redis != nil {
		resolverOpts = append(resolverOpts, resolver.WithAnswerCache(storageManager.Redis, storageManager.Redis.GetAnswerCacheDuration()))
	}
	components.Resolver = resolver.NewFieldResolver(generator, resolverOpts...)

	return NewAutofillProcessor(components, settings), nil
}

// extractorForExt 按文件扩展名选择文档提取器
func (ap *AutofillProcessor) extractorForExt(ext string) (DocumentExtractor, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		if ap.PDFExtractor == nil {
			return nil, fmt.Errorf("PDF提取器未初始化")
		}
		return ap.PDFExtractor, nil
	case ".docx", ".doc":
		if ap.DocxExtractor == nil {
			return nil, fmt.Errorf("DOCX提取器未初始化")
		}
		return ap.DocxExtractor, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ProcessResumeFile 解析本地简历文件为结构化文档
// 纯本地流程，不依赖任何存储组件，CLI离线模式使用
func (ap *AutofillProcessor) ProcessResumeFile(ctx context.Context, filePath string) (*types.ResumeDocument, error) {
	ctx, span := tracer.Start(ctx, "AutofillProcessor.ProcessResumeFile",
		trace.WithAttributes(attribute.String("resume.file_path", filePath)))
	defer span.End()

	if ap.ResumeParser == nil {
		return nil, fmt.Errorf("简历解析器未初始化")
	}

	ext := filepath.Ext(filePath)
	extractor, err := ap.extractorForExt(ext)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unsupported format")
		return nil, err
	}

	text, _, err := extractor.ExtractFromFile(ctx, filePath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extract failed")
		return nil, fmt.Errorf("%w: %v", ErrExtractTextFailed, err)
	}

	doc, err := ap.ResumeParser.Parse(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("resume.skills_count", len(doc.Skills)),
		attribute.Int("resume.text_length", len(doc.RawText)),
	)
	return doc, nil
}

// ProcessUploadedResume 接收上传消息，完成文本提取、结构化解析、产物上传和落库的完整流程
// 数据库写入在单个事务内执行，解析完成事件经由outbox表投递
func (ap *AutofillProcessor) ProcessUploadedResume(ctx context.Context, message storage.ResumeUploadMessage, cfg *config.Config) error {
	ctx, span := tracer.Start(ctx, "AutofillProcessor.ProcessUploadedResume",
		trace.WithAttributes(attribute.String("submission_uuid", message.SubmissionUUID)))
	defer span.End()

	if ap.Storage == nil || ap.Storage.MySQL == nil || ap.Storage.MinIO == nil {
		return fmt.Errorf("AutofillProcessor: Storage 未初始化")
	}
	if ap.ResumeParser == nil {
		return fmt.Errorf("AutofillProcessor: ResumeParser 未初始化")
	}

	// 1. 标记开始解析
	if err := ap.Storage.MySQL.UpdateProcessingStatus(ctx, message.SubmissionUUID, models.StatusParsing); err != nil {
		ap.logDebug("更新简历 %s 状态为 %s 失败: %v", message.SubmissionUUID, models.StatusParsing, err)
		return NewUpdateError(message.SubmissionUUID, fmt.Sprintf("更新状态为%s失败", models.StatusParsing))
	}

	// 2. 提取并解析
	doc, text, err := ap.extractAndParse(ctx, message)
	if err != nil {
		ap.markParseFailed(ctx, message.SubmissionUUID)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	// 3. 上传解析产物到MinIO
	textObjectKey, err := ap.Storage.MinIO.UploadParsedText(ctx, message.SubmissionUUID, text)
	if err != nil {
		ap.markParseFailed(ctx, message.SubmissionUUID)
		return NewStoreError(message.SubmissionUUID, err.Error())
	}

	structuredJSON, err := json.Marshal(doc)
	if err != nil {
		ap.markParseFailed(ctx, message.SubmissionUUID)
		return NewStoreError(message.SubmissionUUID, fmt.Sprintf("序列化结构化数据失败: %v", err))
	}
	structuredObjectKey, err := ap.Storage.MinIO.UploadStructuredJSON(ctx, message.SubmissionUUID, structuredJSON)
	if err != nil {
		ap.markParseFailed(ctx, message.SubmissionUUID)
		return NewStoreError(message.SubmissionUUID, err.Error())
	}
	ap.logDebug("简历 %s 解析产物已上传: text=%s structured=%s", message.SubmissionUUID, textObjectKey, structuredObjectKey)

	// 4. 缓存原文，供后续回答生成使用
	if ap.Storage.Redis != nil {
		if err := ap.Storage.Redis.SetResumeRawText(ctx, message.SubmissionUUID, text, ap.Storage.Redis.GetAnswerCacheDuration()); err != nil {
			ap.logDebug("缓存简历原文失败 for %s: %v", message.SubmissionUUID, err)
		}
	}

	// 5. 事务写库：候选人关联、字段更新、outbox事件
	var candidateID string
	err = ap.Storage.MySQL.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if doc.PersonalInfo.Email != "" || doc.PersonalInfo.Phone != "" {
			basicInfo := map[string]string{
				"name":     doc.PersonalInfo.Name,
				"email":    doc.PersonalInfo.Email,
				"phone":    doc.PersonalInfo.Phone,
				"linkedin": doc.PersonalInfo.LinkedIn,
				"github":   doc.PersonalInfo.GitHub,
			}
			candidate, err := ap.Storage.MySQL.FindOrCreateCandidate(ctx, tx, basicInfo)
			if err != nil {
				return fmt.Errorf("查找或创建候选人失败: %w", err)
			}
			if candidate != nil {
				candidateID = candidate.CandidateID
			}
		}

		updates := map[string]interface{}{
			"parsed_text_path_oss": textObjectKey,
			"raw_text_md5":         utils.CalculateMD5([]byte(text)),
			"structured_data_json": models.StringToJSON(string(structuredJSON)),
			"processing_status":    models.StatusParsed,
			"parser_version":       ap.Config.ParserVersion,
		}
		if candidateID != "" {
			updates["candidate_id"] = candidateID
		}
		if err := ap.Storage.MySQL.SaveStructuredData(tx, message.SubmissionUUID, updates); err != nil {
			return NewUpdateError(message.SubmissionUUID, "更新数据库失败")
		}

		// 解析完成事件写入outbox，由中继异步发布
		parsedMessage := storage.ResumeParsedMessage{
			SubmissionUUID:    message.SubmissionUUID,
			CandidateID:       candidateID,
			ParsedTextPathOSS: textObjectKey,
			StructuredPathOSS: structuredObjectKey,
			ParserVersion:     ap.Config.ParserVersion,
			SkillCount:        len(doc.Skills),
			HasEducation:      len(doc.Education) > 0,
			HasExperience:     len(doc.WorkExperience) > 0,
			ParsedAtTimestamp: time.Now(),
		}
		payloadBytes, err := json.Marshal(parsedMessage)
		if err != nil {
			return NewUpdateError(message.SubmissionUUID, "序列化 outbox payload 失败")
		}
		outboxEntry := models.OutboxMessage{
			AggregateID:      message.SubmissionUUID,
			EventType:        storage.EventTypeResumeParsed,
			Payload:          string(payloadBytes),
			TargetExchange:   cfg.RabbitMQ.ResumeEventsExchange,
			TargetRoutingKey: cfg.RabbitMQ.ParsedRoutingKey,
		}
		if err := ap.Storage.MySQL.EnqueueOutboxMessage(tx, &outboxEntry); err != nil {
			return NewUpdateError(message.SubmissionUUID, "插入 outbox 记录失败")
		}

		return nil
	})

	if err != nil {
		ap.markParseFailed(ctx, message.SubmissionUUID)
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return err
	}

	ap.logDebug("上传任务 (简历 %s) 的处理已成功完成。", message.SubmissionUUID)
	span.SetStatus(codes.Ok, "")
	return nil
}

// extractAndParse 下载原始文件，按扩展名提取文本并做结构化解析
func (ap *AutofillProcessor) extractAndParse(ctx context.Context, message storage.ResumeUploadMessage) (*types.ResumeDocument, string, error) {
	ctx, span := tracer.Start(ctx, "AutofillProcessor.extractAndParse")
	defer span.End()

	originalFileBytes, err := ap.Storage.MinIO.GetResumeFile(ctx, message.OriginalFilePathOSS)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeObjectStorage)
		return nil, "", NewDownloadError(message.SubmissionUUID, err.Error())
	}
	span.AddEvent("file content downloaded")
	ap.logDebug("简历 %s 从MinIO下载成功，大小: %d bytes", message.SubmissionUUID, len(originalFileBytes))

	ext := filepath.Ext(message.OriginalFilename)
	if ext == "" {
		ext = filepath.Ext(message.OriginalFilePathOSS)
	}
	extractor, err := ap.extractorForExt(ext)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unsupported format")
		return nil, "", NewUnsupportedFormatError(message.SubmissionUUID, ext)
	}

	text, _, err := extractor.ExtractFromReader(ctx, bytes.NewReader(originalFileBytes), message.OriginalFilePathOSS, nil)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, "", NewExtractError(message.SubmissionUUID, err.Error())
	}
	span.AddEvent("text extracted")
	span.SetAttributes(attribute.String("resume.text_preview", tracing.SafeResumeContent(text)))
	ap.logDebug("成功提取文本 for %s, 长度: %d", message.SubmissionUUID, len(text))

	doc, err := ap.ResumeParser.Parse(ctx, text)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, "", fmt.Errorf("结构化解析失败: %w", err)
	}
	span.AddEvent("resume parsed")

	return doc, text, nil
}

// markParseFailed 失败路径的状态更新，更新失败只记日志
func (ap *AutofillProcessor) markParseFailed(ctx context.Context, submissionUUID string) {
	if err := ap.Storage.MySQL.UpdateProcessingStatus(ctx, submissionUUID, models.StatusParseFailed); err != nil {
		ap.logDebug("在失败后更新状态为 %s 时出错 (简历 %s): %v", models.StatusParseFailed, submissionUUID, err)
	}
}

// FillForm 为一组表单字段逐个解析填充值
// 不可见字段直接跳过；单个字段出错记入报告，不中断后续字段
func (ap *AutofillProcessor) FillForm(ctx context.Context, doc *types.ResumeDocument, fields []types.FormField, extraContext string) *types.FillReport {
	ctx, span := tracer.Start(ctx, "AutofillProcessor.FillForm",
		trace.WithAttributes(attribute.Int("form.field_count", len(fields))))
	defer span.End()

	report := &types.FillReport{
		TotalFields: len(fields),
	}

	for i := range fields {
		field := fields[i]
		if !field.Visible {
			continue
		}

		resolution, err := ap.resolveField(ctx, field, doc, extraContext)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("字段 %q: %v", field.Question(), err))
			continue
		}

		report.Resolutions = append(report.Resolutions, resolution)
		if resolution.Value != "" {
			report.FilledFields++
		}
	}

	report.Success = len(report.Errors) == 0
	span.SetAttributes(
		attribute.Int("form.filled_fields", report.FilledFields),
		attribute.Int("form.error_count", len(report.Errors)),
		attribute.Bool("form.success", report.Success),
	)
	return report
}

// resolveField 单字段解析，panic也折算为该字段的错误
func (ap *AutofillProcessor) resolveField(ctx context.Context, field types.FormField, doc *types.ResumeDocument, extraContext string) (resolution types.FieldResolution, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("解析字段时panic: %v", r)
		}
	}()

	if ap.Resolver == nil {
		return types.FieldResolution{}, fmt.Errorf("字段解析器未初始化")
	}

	return ap.Resolver.Resolve(ctx, field, doc, extraContext), nil
}

// PersistFillReport 将一次填充结果落库：会话 + 逐字段审计记录
func (ap *AutofillProcessor) PersistFillReport(ctx context.Context, submissionUUID, targetURL string, report *types.FillReport) (string, error) {
	if ap.Storage == nil || ap.Storage.MySQL == nil {
		return "", fmt.Errorf("Storage 未初始化，无法持久化填充结果")
	}

	sessionUUID, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("生成会话UUID失败: %w", err)
	}

	errorsJSON, err := models.SliceToJSON(report.Errors)
	if err != nil {
		return "", fmt.Errorf("序列化错误列表失败: %w", err)
	}

	session := &models.FillSession{
		SessionUUID:    sessionUUID.String(),
		SubmissionUUID: submissionUUID,
		TargetURL:      targetURL,
		TotalFields:    report.TotalFields,
		FilledFields:   report.FilledFields,
		Success:        report.Success,
		ErrorsJSON:     errorsJSON,
	}

	resolutions := make([]models.FieldResolutionRecord, 0, len(report.Resolutions))
	for _, r := range report.Resolutions {
		resolutions = append(resolutions, models.FieldResolutionRecord{
			Selector: r.Selector,
			Question: r.Question,
			Value:    r.Value,
			Source:   string(r.Source),
		})
	}

	if err := ap.Storage.MySQL.CreateFillSession(ctx, session, resolutions); err != nil {
		return "", NewDatabaseError(submissionUUID, err.Error())
	}

	return session.SessionUUID, nil
}
