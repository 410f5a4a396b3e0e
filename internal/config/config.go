package config

import (
	"fmt"
	"net"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel     string       `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort     string       `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort   string       `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Redis        Redis        `yaml:"redis"`
	Rooms        Rooms        `yaml:"rooms"`
	MatchHistory MatchHistory `yaml:"match-history"`
	WebSocket    WebSocket    `yaml:"websocket"`
	CORS         CORS         `yaml:"cors"`
	Diagnostics  Diagnostics  `yaml:"diagnostics"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Rooms struct {
	CodeLength    int           `yaml:"code-length" env:"ROOM_CODE_LENGTH" env-default:"6"`
	FinishedTTL   time.Duration `yaml:"finished-ttl" env:"ROOM_FINISHED_TTL" env-default:"10m"`
	SweepInterval time.Duration `yaml:"sweep-interval" env:"ROOM_SWEEP_INTERVAL" env-default:"1m"`
}

type MatchHistory struct {
	TTL           time.Duration `yaml:"ttl" env:"MATCH_HISTORY_TTL" env-default:"168h"`
	RecentLimit   int           `yaml:"recent-limit" env:"MATCH_HISTORY_RECENT_LIMIT" env-default:"50"`
	RecordTimeout time.Duration `yaml:"record-timeout" env:"MATCH_HISTORY_RECORD_TIMEOUT" env-default:"5s"`
}

type WebSocket struct {
	ReadLimit  int64         `yaml:"read-limit" env:"WS_READ_LIMIT" env-default:"4096"`
	PingPeriod time.Duration `yaml:"ping-period" env:"WS_PING_PERIOD" env-default:"54s"`
	PongWait   time.Duration `yaml:"pong-wait" env:"WS_PONG_WAIT" env-default:"60s"`
	WriteWait  time.Duration `yaml:"write-wait" env:"WS_WRITE_WAIT" env-default:"10s"`
	SendBuffer int           `yaml:"send-buffer" env:"WS_SEND_BUFFER" env-default:"64"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed-origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

type Diagnostics struct {
	Dir   string `yaml:"dir" env:"DIAGNOSTICS_DIR" env-default:"errorlog"`
	Queue int    `yaml:"queue" env:"DIAGNOSTICS_QUEUE" env-default:"64"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}
