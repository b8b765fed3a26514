package constants

const (
	// DefaultParserVer 当前规则解析器版本，写入简历快照记录
	DefaultParserVer = "rule-v1"

	// ParsedObjectSuffix 解析结果对象在MinIO中的文件后缀
	ParsedObjectSuffix = ".json"
)
