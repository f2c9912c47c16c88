package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	PersistenceRedis  = "redis"
	PersistenceSQL    = "sql"
	PersistenceMemory = "memory"
)

// 凭证上传相关常量
const (
	MimeImage        = "image/"
	MimePDF          = "application/pdf"
	MaxVoucherSize   = 10 << 20
	VoucherObjectDir = "vouchers"
)

var (
	AllowedVoucherExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".pdf"}
)
