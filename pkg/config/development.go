package config

func loadDevelopmentConfig(cfg *Config) {
	cfg.CoverUploadDir = "./tmp/uploads/covers"
	cfg.DatabaseDebug = true
	cfg.DatabaseFilePath = "./tmp/data.sqlite"
	cfg.JWTSecret = "shelfdesk-development-secret"
	cfg.ServerHost = "127.0.0.1"
}
