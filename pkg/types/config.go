package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	SiteURL         string `envconfig:"PUBLIC_SITE_URL" default:"http://localhost:8080"`

	// Primary store. MONGODB_URI wins when both are set; with neither set the
	// service runs against the local file store only.
	MongoURI        string `envconfig:"MONGODB_URI"`
	MongoDatabase   string `envconfig:"MONGODB_DATABASE" default:"selam"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	QueryTimeoutSec uint   `envconfig:"QUERY_TIMEOUT_SEC" default:"5"`

	// Local fallback store
	DataDir string `envconfig:"DATA_DIR" default:"data"`

	// Document binary storage: "disk" or "s3"
	StorageBackend  string `envconfig:"STORAGE_BACKEND" default:"disk"`
	UploadsDir      string `envconfig:"UPLOADS_DIR" default:"public/uploads"`
	S3Bucket        string `envconfig:"S3_BUCKET"`
	S3PublicBaseURL string `envconfig:"S3_PUBLIC_BASE_URL"`

	// Cloudinary media uploads
	CloudinaryCloudName string `envconfig:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `envconfig:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `envconfig:"CLOUDINARY_API_SECRET"`
	UploadTimeoutSec    uint   `envconfig:"UPLOAD_TIMEOUT_SEC" default:"30"`

	// Admin auth
	AdminEmail      string `envconfig:"ADMIN_EMAIL"`
	AdminPassword   string `envconfig:"ADMIN_PASSWORD"`
	AuthTokenSecret string `envconfig:"AUTH_TOKEN_SECRET"`
	TokenTTLSec     uint   `envconfig:"TOKEN_TTL_SEC" default:"86400"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	// Outbound mail. Leaving SMTP_USER/SMTP_PASS unset disables notifications.
	SMTPHost string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort uint   `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser string `envconfig:"SMTP_USER"`
	SMTPPass string `envconfig:"SMTP_PASS"`
	SMTPFrom string `envconfig:"SMTP_FROM" default:"SELAM <noreply@selam.co.ke>"`
}
