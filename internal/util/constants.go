package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimeImage    = "image/"
	MimeSVG      = "image/svg+xml"
	MaxImageSize = 2 << 20
)

// 前端视图路径，变更后需要通知客户端刷新
const (
	ViewCourses     = "/courses"
	ViewLearn       = "/learn"
	ViewLesson      = "/lesson"
	ViewQuests      = "/quests"
	ViewLeaderboard = "/leaderboard"
	ViewShop        = "/shop"
)

// 答题结果中的结构化错误码
const (
	ResultErrorHearts = "hearts"
)
