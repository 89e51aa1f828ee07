package serverconfig

type Config struct {
	Server    ServerConfig  `yaml:"server" mapstructure:"server"`
	MySQL     MySQLConfig   `yaml:"mysql" mapstructure:"mysql"`
	MongoDB   MongoDBConfig `yaml:"mongodb" mapstructure:"mongodb"`
	Game      GameConfig    `yaml:"game" mapstructure:"game"`
	Chat      ChatConfig    `yaml:"chat" mapstructure:"chat"`
	Log       LogConfig     `yaml:"log" mapstructure:"log"`
	JWTSecret string        `yaml:"jwt_secret" mapstructure:"jwt_secret"`
}

// ServerConfig describes the public facing endpoint of this server.
type ServerConfig struct {
	// ServerID distinguishes servers of the same domain.
	ServerID int    `yaml:"server_id" mapstructure:"server_id"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	// Domain is the domain clients connect to, e.g. "kiomet.com".
	Domain string `yaml:"domain" mapstructure:"domain"`
	// IPAddress is the advertised public address, if known.
	IPAddress string `yaml:"ip_address" mapstructure:"ip_address"`
	// TLS certificate and key paths. Empty means plain HTTP.
	CertificatePath string `yaml:"certificate_path" mapstructure:"certificate_path"`
	PrivateKeyPath  string `yaml:"private_key_path" mapstructure:"private_key_path"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

// GameConfig tunes the simulation.
type GameConfig struct {
	// MinBots is how many bots to keep even with many real players.
	MinBots int `yaml:"min_bots" mapstructure:"min_bots"`
	// BotPercent is the target percentage of bot players.
	BotPercent int `yaml:"bot_percent" mapstructure:"bot_percent"`
	// LeaderboardMinPlayers gates leaderboard persistence.
	LeaderboardMinPlayers int `yaml:"leaderboard_min_players" mapstructure:"leaderboard_min_players"`
	// MaxPlayers caps concurrent humans. Zero means unlimited.
	MaxPlayers int `yaml:"max_players" mapstructure:"max_players"`
	// SnapshotEveryS is the world snapshot flush interval in seconds.
	SnapshotEveryS int `yaml:"snapshot_every_s" mapstructure:"snapshot_every_s"`
}

type ChatConfig struct {
	// LogFile receives a copy of all chat for moderation. Empty disables it.
	LogFile    string `yaml:"log_file" mapstructure:"log_file"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
	// TraceFile receives the request access log. Empty keeps it on the
	// main logger.
	TraceFile string `yaml:"trace_file" mapstructure:"trace_file"`
}
