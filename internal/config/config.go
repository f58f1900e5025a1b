package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	ProviderOneSignal = "onesignal"
	ProviderFCM       = "fcm"

	// Channel configured in the OneSignal dashboard that forces heads-up presentation on Android.
	defaultAndroidChannelID = "3f48d051-1c97-4dcb-83fb-190b74c3983f"
)

var ErrMissingCredentials = errors.New("missing required credentials")

type NotificationServer struct {
	Port              int
	Provider          string
	HTTPClientTimeout time.Duration
	CORSAllowOrigins  []string
	OneSignal         OneSignalConfig
	Firebase          FirebaseConfig
	Log               LogConfig
}

type OneSignalConfig struct {
	AppID            string
	RestAPIKey       string
	APIURL           string
	AuthScheme       string
	AndroidChannelID string
}

type FirebaseConfig struct {
	CredentialsPath  string
	ProjectID        string
	AndroidChannelID string
}

type LogConfig struct {
	Level string
	Dir   string
}

// Load reads .env style files into the process environment. Missing files are ignored
// and variables that are already set win over the file contents.
func Load(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		_ = godotenv.Load(f)
	}
}

// New builds the server configuration from the environment and fails when the
// credentials of the selected provider are absent.
func New() (*NotificationServer, error) {
	port, err := cast.ToIntE(getEnvOrDefault("PORT", "3000"))
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", os.Getenv("PORT"))
	}

	timeout, err := cast.ToDurationE(getEnvOrDefault("HTTP_CLIENT_TIMEOUT", "30s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_CLIENT_TIMEOUT %q", os.Getenv("HTTP_CLIENT_TIMEOUT"))
	}

	cfg := &NotificationServer{
		Port:              port,
		Provider:          strings.ToLower(getEnvOrDefault("NOTIFICATION_PROVIDER", ProviderOneSignal)),
		HTTPClientTimeout: timeout,
		CORSAllowOrigins:  splitList(getEnvOrDefault("CORS_ALLOW_ORIGINS", "*")),
		OneSignal: OneSignalConfig{
			AppID:            getEnvOrDefault("ONESIGNAL_APP_ID", ""),
			RestAPIKey:       getEnvOrDefault("ONESIGNAL_REST_API_KEY", ""),
			APIURL:           getEnvOrDefault("ONESIGNAL_API_URL", "https://api.onesignal.com/notifications"),
			AuthScheme:       getEnvOrDefault("ONESIGNAL_AUTH_SCHEME", "Basic"),
			AndroidChannelID: getEnvOrDefault("ONESIGNAL_ANDROID_CHANNEL_ID", defaultAndroidChannelID),
		},
		Firebase: FirebaseConfig{
			CredentialsPath:  getEnvOrDefault("FIREBASE_SERVICE_ACCOUNT_KEY", ""),
			ProjectID:        getEnvOrDefault("FIREBASE_PROJECT_ID", ""),
			AndroidChannelID: getEnvOrDefault("FCM_ANDROID_CHANNEL_ID", defaultAndroidChannelID),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
			Dir:   getEnvOrDefault("LOG_DIR", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *NotificationServer) validate() error {
	var missing []string
	switch c.Provider {
	case ProviderOneSignal:
		if c.OneSignal.AppID == "" {
			missing = append(missing, "ONESIGNAL_APP_ID")
		}
		if c.OneSignal.RestAPIKey == "" {
			missing = append(missing, "ONESIGNAL_REST_API_KEY")
		}
	case ProviderFCM:
		if c.Firebase.CredentialsPath == "" {
			missing = append(missing, "FIREBASE_SERVICE_ACCOUNT_KEY")
		}
		if c.Firebase.ProjectID == "" {
			missing = append(missing, "FIREBASE_PROJECT_ID")
		}
	default:
		return fmt.Errorf("unknown NOTIFICATION_PROVIDER %q", c.Provider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s must be set in environment variables", ErrMissingCredentials, strings.Join(missing, " and "))
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *NotificationServer) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
