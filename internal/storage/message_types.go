package storage

import "time"

// 简历事件类型
const (
	EventTypeResumeUploaded = "resume.uploaded"
	EventTypeResumeParsed   = "resume.parsed"
)

// ResumeUploadMessage 简历上传事件消息
// 上传入口写入MinIO后发布，由解析消费者处理
type ResumeUploadMessage struct {
	SubmissionUUID      string    `json:"submission_uuid"`
	OriginalFilename    string    `json:"original_filename"`
	OriginalFilePathOSS string    `json:"original_file_path_oss"`
	RawFileMD5          string    `json:"raw_file_md5,omitempty"`
	SubmissionTimestamp time.Time `json:"submission_timestamp"`
}

// ResumeParsedMessage 简历解析完成事件消息
type ResumeParsedMessage struct {
	SubmissionUUID     string    `json:"submission_uuid"`
	CandidateID        string    `json:"candidate_id,omitempty"`
	ParsedTextPathOSS  string    `json:"parsed_text_path_oss"`
	StructuredPathOSS  string    `json:"structured_path_oss"`
	ParserVersion      string    `json:"parser_version"`
	SkillCount         int       `json:"skill_count"`
	HasEducation       bool      `json:"has_education"`
	HasExperience      bool      `json:"has_experience"`
	ParsedAtTimestamp  time.Time `json:"parsed_at_timestamp"`
}
