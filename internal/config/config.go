package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/filedrophq/filedrop/pkg/objstore"
)

// Required environment keys. All five must be set for the service to
// start; there are no defaults for store credentials.
const (
	EnvAccessKey = "STORAGE_ACCESS_KEY"
	EnvSecretKey = "STORAGE_SECRET_KEY"
	EnvRegion    = "STORAGE_REGION"
	EnvEndpoint  = "STORAGE_ENDPOINT"
	EnvBucket    = "STORAGE_BUCKET"
)

// Config is everything the service reads from its environment.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Storage targets one bucket on one S3-compatible store.
	Storage Storage

	// PresignTTL is how long issued download links stay valid.
	PresignTTL time.Duration

	// AppEnv tags logs and Sentry events, e.g. "production".
	AppEnv string

	// SentryDSN enables error forwarding when non-empty.
	SentryDSN string
}

// Storage holds the object store settings.
type Storage struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
	Bucket    string
}

// LogValue renders the storage settings safe for logs: the access key is
// masked and the secret key never appears.
func (s Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", s.Endpoint),
		slog.String("region", s.Region),
		slog.String("bucket", s.Bucket),
		slog.String("access_key", objstore.MaskKey(s.AccessKey)),
	)
}

// Error reports every required key that was absent, so one failed start
// names all of them instead of one per restart.
type Error struct {
	Missing []string
}

func (e *Error) Error() string {
	return "config: missing required settings: " + strings.Join(e.Missing, ", ")
}

// Load reads settings through lookup, usually os.Getenv. Values are
// trimmed of whitespace and surrounding quotes before use; .env files
// frequently carry both.
func Load(lookup func(string) string) (*Config, error) {
	get := func(key string) string { return clean(lookup(key)) }

	var missing []string
	require := func(key string) string {
		v := get(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		Addr: ":8080",
		Storage: Storage{
			AccessKey: require(EnvAccessKey),
			SecretKey: require(EnvSecretKey),
			Region:    require(EnvRegion),
			Endpoint:  normalizeEndpoint(require(EnvEndpoint)),
			Bucket:    require(EnvBucket),
		},
		PresignTTL: objstore.DefaultPresignTTL,
		AppEnv:     "development",
	}

	if len(missing) > 0 {
		return nil, &Error{Missing: missing}
	}

	if addr := get("ADDR"); addr != "" {
		if !strings.Contains(addr, ":") {
			addr = ":" + addr
		}
		cfg.Addr = addr
	}

	if env := get("APP_ENV"); env != "" {
		cfg.AppEnv = env
	}
	cfg.SentryDSN = get("SENTRY_DSN")

	if raw := get("PRESIGN_TTL"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("config: PRESIGN_TTL must be a positive number of seconds, got %q", raw)
		}
		ttl := time.Duration(secs) * time.Second
		if ttl > objstore.MaxPresignTTL {
			ttl = objstore.MaxPresignTTL
		}
		cfg.PresignTTL = ttl
	}

	return cfg, nil
}

// clean trims whitespace and one layer of surrounding quotes.
func clean(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Trim(v, `"'`)
	return strings.TrimSpace(v)
}

// normalizeEndpoint makes a bare host usable: https is assumed when no
// scheme is given and trailing slashes are dropped.
func normalizeEndpoint(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return strings.TrimRight(raw, "/")
}
