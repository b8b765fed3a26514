package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"autofill-go/internal/config"
	"autofill-go/internal/logger"
	"autofill-go/internal/processor"
	"autofill-go/internal/storage"
	"autofill-go/internal/storage/models"
	"autofill-go/pkg/utils"
)

// ResumeHandler 简历处理器，负责协调简历上传、查询和解析消费的流程
type ResumeHandler struct {
	cfg             *config.Config
	storage         *storage.Storage
	processorModule *processor.AutofillProcessor
}

// NewResumeHandler 创建一个新的简历处理器
func NewResumeHandler(
	cfg *config.Config,
	storage *storage.Storage,
	processorModule *processor.AutofillProcessor,
) *ResumeHandler {
	return &ResumeHandler{
		cfg:             cfg,
		storage:         storage,
		processorModule: processorModule,
	}
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
}

// ResumeDetailResponse 简历详情响应
type ResumeDetailResponse struct {
	SubmissionUUID   string          `json:"submission_uuid"`
	OriginalFilename string          `json:"original_filename"`
	ProcessingStatus string          `json:"processing_status"`
	ParserVersion    string          `json:"parser_version,omitempty"`
	SubmittedAt      time.Time       `json:"submitted_at"`
	StructuredData   json.RawMessage `json:"structured_data,omitempty"`
}

// supportedUploadExts 上传接口接受的文件扩展名
var supportedUploadExts = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
}

// HandleResumeUpload 处理简历上传请求
// 流程：扩展名校验 → 文件MD5去重 → 上传MinIO → 发布resume.uploaded事件
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, fileSize int64, filename string) (*ResumeUploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !supportedUploadExts[ext] {
		return nil, fmt.Errorf("%w: %s", processor.ErrUnsupportedFormat, ext)
	}

	// 读取文件内容并计算MD5 (需要在上传MinIO前，且reader只能读一次)
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	fileMD5Hex := utils.CalculateMD5(fileBytes)

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	// 文件级去重：相同MD5的文件直接返回已有提交，不触发后续流程
	if h.storage.Redis != nil {
		exists, existingUUID, err := h.storage.Redis.CheckAndSetFileMD5(ctx, fileMD5Hex, submissionUUID)
		if err != nil {
			logger.Error().
				Err(err).
				Str("md5", fileMD5Hex).
				Msg("查询Redis文件MD5记录失败")
			return nil, fmt.Errorf("检查文件MD5重复性时Redis查询失败: %w", err)
		}
		if exists {
			logger.Info().
				Str("md5", fileMD5Hex).
				Str("filename", filename).
				Str("existing_uuid", existingUUID).
				Msg("检测到重复的文件MD5，跳过处理")
			return &ResumeUploadResponse{
				SubmissionUUID: existingUUID,
				Status:         "DUPLICATE_FILE_SKIPPED",
			}, nil
		}
	}

	// 上传原始文件到MinIO
	originalObjectKey, err := h.storage.MinIO.UploadResumeFile(ctx, submissionUUID, ext, bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		h.rollbackFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	// 发布上传事件，解析消费者异步处理
	message := storage.ResumeUploadMessage{
		SubmissionUUID:      submissionUUID,
		OriginalFilename:    filename,
		OriginalFilePathOSS: originalObjectKey,
		RawFileMD5:          fileMD5Hex,
		SubmissionTimestamp: time.Now(),
	}
	if err := h.storage.RabbitMQ.PublishResumeUploaded(ctx, &message); err != nil {
		// 事件没发出去，回滚MD5记录，让用户重传时不被误判为重复
		h.rollbackFileMD5(ctx, fileMD5Hex)
		return nil, fmt.Errorf("发布消息到RabbitMQ失败: %w", err)
	}

	logger.Info().
		Str("submission_uuid", submissionUUID).
		Str("filename", filename).
		Str("object_key", originalObjectKey).
		Msg("简历已提交处理")

	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         "SUBMITTED_FOR_PROCESSING",
	}, nil
}

func (h *ResumeHandler) rollbackFileMD5(ctx context.Context, fileMD5Hex string) {
	if h.storage.Redis == nil {
		return
	}
	if err := h.storage.Redis.RemoveRawFileMD5(ctx, fileMD5Hex); err != nil {
		logger.Warn().Err(err).Str("md5", fileMD5Hex).Msg("回滚文件MD5记录失败")
	}
}

// HandleGetResume 查询简历提交的处理状态和结构化结果
func (h *ResumeHandler) HandleGetResume(ctx context.Context, submissionUUID string) (*ResumeDetailResponse, error) {
	submission, err := h.storage.MySQL.GetResumeSubmission(ctx, submissionUUID)
	if err != nil {
		return nil, err
	}

	resp := &ResumeDetailResponse{
		SubmissionUUID:   submission.SubmissionUUID,
		OriginalFilename: submission.OriginalFilename,
		ProcessingStatus: submission.ProcessingStatus,
		ParserVersion:    submission.ParserVersion,
		SubmittedAt:      submission.SubmissionTimestamp,
	}
	if len(submission.StructuredDataJSON) > 0 {
		resp.StructuredData = json.RawMessage(submission.StructuredDataJSON)
	}
	return resp, nil
}

// StartResumeParseConsumer 启动简历解析消费者
// 消费resume.uploaded事件：建提交记录，然后交给处理器完成提取、解析和落库
func (h *ResumeHandler) StartResumeParseConsumer(ctx context.Context, prefetchCount int) error {
	logger.Info().
		Str("exchange", h.cfg.RabbitMQ.ResumeEventsExchange).
		Str("routing_key", h.cfg.RabbitMQ.UploadedRoutingKey).
		Msg("初始化RabbitMQ配置")

	if err := h.storage.RabbitMQ.SetupResumeEventTopology(); err != nil {
		return fmt.Errorf("初始化简历事件拓扑失败: %w", err)
	}

	logger.Info().
		Str("queue", h.cfg.RabbitMQ.RawResumeQueue).
		Int("prefetch_count", prefetchCount).
		Msg("简历解析消费者就绪")

	_, err := h.storage.RabbitMQ.StartConsumer(h.cfg.RabbitMQ.RawResumeQueue, prefetchCount, func(data []byte) bool {
		var message storage.ResumeUploadMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Error().Err(err).Msg("解析消息失败")
			return false
		}

		// 建立提交记录，重复投递时按submission_uuid幂等
		submission := models.ResumeSubmission{
			SubmissionUUID:      message.SubmissionUUID,
			OriginalFilename:    message.OriginalFilename,
			OriginalFilePathOSS: message.OriginalFilePathOSS,
			RawFileMD5:          message.RawFileMD5,
			SubmissionTimestamp: message.SubmissionTimestamp,
			ProcessingStatus:    models.StatusPendingParsing,
		}
		if err := h.storage.MySQL.CreateResumeSubmission(ctx, &submission); err != nil {
			logger.Error().Err(err).Str("submission_uuid", message.SubmissionUUID).Msg("插入简历提交记录失败")
			return false
		}

		if err := h.processorModule.ProcessUploadedResume(ctx, message, h.cfg); err != nil {
			logger.Error().
				Err(err).
				Str("submission_uuid", message.SubmissionUUID).
				Msg("处理上传简历失败")
			return false
		}

		return true
	})

	if err != nil {
		return fmt.Errorf("启动消费者失败: %w", err)
	}
	return nil
}
