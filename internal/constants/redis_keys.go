package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// FileModulePrefix 文件模块
	FileModulePrefix = "file"
	// ResumeModulePrefix 简历模块
	ResumeModulePrefix = "resume"
	// AnswerModulePrefix 回答模块
	AnswerModulePrefix = "answer"

	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityMD5ToUUID MD5到UUID的映射实体
	EntityMD5ToUUID = "md5_to_uuid"
	// EntityText 文本实体
	EntityText = "text"
	// EntityCache 缓存实体
	EntityCache = "cache"

	// KeyFileMD5Set 原始文件MD5集合，用于快速去重 (SET)
	// 格式: app:file:dedup_set
	KeyFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet

	// KeyFileMD5ToResumeUUID MD5到简历UUID的映射 (STRING)
	// 格式: app:file:md5_to_uuid:{md5}
	KeyFileMD5ToResumeUUID = AppPrefix + ":" + FileModulePrefix + ":" + EntityMD5ToUUID + ":%s"

	// KeyResumeRawText 简历原文缓存 (STRING)
	// 格式: app:resume:text:{resumeUUID}
	KeyResumeRawText = AppPrefix + ":" + ResumeModulePrefix + ":" + EntityText + ":%s"

	// KeyGeneratedAnswer 生成回答的缓存 (STRING)
	// 格式: app:answer:cache:{digest}
	KeyGeneratedAnswer = AppPrefix + ":" + AnswerModulePrefix + ":" + EntityCache + ":%s"
)
