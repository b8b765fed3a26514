package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Candidate 候选人主表
// 同一个人多次上传简历时按邮箱/电话归一到同一条记录
type Candidate struct {
	CandidateID  string    `gorm:"type:char(36);primaryKey"`
	PrimaryName  string    `gorm:"type:varchar(255)"`
	PrimaryPhone string    `gorm:"type:varchar(50);uniqueIndex:idx_candidates_primary_phone_unique"`
	PrimaryEmail string    `gorm:"type:varchar(255);uniqueIndex:idx_candidates_primary_email_unique"`
	LinkedInURL  string    `gorm:"type:varchar(512)"`
	GitHubURL    string    `gorm:"type:varchar(512)"`
	CreatedAt    time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt    time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// ResumeSubmission 简历提交/快照表
// 每次上传产生一条记录，结构化解析结果以JSON冗余一份便于查询
type ResumeSubmission struct {
	SubmissionUUID      string         `gorm:"type:char(36);primaryKey"`
	CandidateID         *string        `gorm:"type:char(36);index:idx_rs_candidate_id"`
	SubmissionTimestamp time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_rs_submission_timestamp"`
	OriginalFilename    string         `gorm:"type:varchar(255)"`
	OriginalFilePathOSS string         `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS   string         `gorm:"type:varchar(1024)"`
	RawFileMD5          string         `gorm:"type:char(32);index:idx_rs_raw_file_md5"`
	RawTextMD5          string         `gorm:"type:char(32);index:idx_rs_raw_text_md5"`
	StructuredDataJSON  datatypes.JSON `gorm:"type:json"`
	ProcessingStatus    string         `gorm:"type:varchar(50);default:'PENDING_PARSING';index:idx_rs_processing_status"`
	ParserVersion       string         `gorm:"type:varchar(50)"`
	CreatedAt           time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt           time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	Candidate *Candidate `gorm:"foreignKey:CandidateID;references:CandidateID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}

// 简历处理状态常量
const (
	StatusPendingParsing = "PENDING_PARSING"
	StatusParsing        = "PARSING"
	StatusParsed         = "PARSED"
	StatusParseFailed    = "PARSE_FAILED"
)

// FillSession 表单填充会话表
// 一次填充请求（一份简历 × 一组表单字段）对应一条记录
type FillSession struct {
	SessionUUID    string         `gorm:"type:char(36);primaryKey"`
	SubmissionUUID string         `gorm:"type:char(36);not null;index:idx_fs_submission_uuid"`
	TargetURL      string         `gorm:"type:varchar(1024)"`
	TotalFields    int            `gorm:"not null"`
	FilledFields   int            `gorm:"not null"`
	Success        bool           `gorm:"default:true"`
	ErrorsJSON     datatypes.JSON `gorm:"type:json"`
	CreatedAt      time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	ResumeSubmission *ResumeSubmission `gorm:"foreignKey:SubmissionUUID;references:SubmissionUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (FillSession) TableName() string {
	return "fill_sessions"
}

// FieldResolutionRecord 字段解析审计表
// 记录每个字段最终填入的值及其来源，便于回溯生成内容
type FieldResolutionRecord struct {
	ResolutionID uint64    `gorm:"primaryKey;autoIncrement"`
	SessionUUID  string    `gorm:"type:char(36);not null;index:idx_frr_session_uuid"`
	Selector     string    `gorm:"type:varchar(512)"`
	Question     string    `gorm:"type:text"`
	Value        string    `gorm:"type:text"`
	Source       string    `gorm:"type:varchar(20);not null;index:idx_frr_source"`
	CreatedAt    time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`

	FillSession *FillSession `gorm:"foreignKey:SessionUUID;references:SessionUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (FieldResolutionRecord) TableName() string {
	return "field_resolutions"
}

// StringToJSON Helper function to convert string to datatypes.JSON
func StringToJSON(s string) datatypes.JSON {
	return datatypes.JSON(s)
}

// MapToJSON Helper function to convert map[string]interface{} to datatypes.JSON
func MapToJSON(m map[string]interface{}) (datatypes.JSON, error) {
	bytes, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}

// SliceToJSON Helper function to convert a string slice to datatypes.JSON
func SliceToJSON(s []string) (datatypes.JSON, error) {
	bytes, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}
