package config

func loadTestConfig(cfg *Config) {
	cfg.CoverUploadDir = "./tmp/test/uploads/covers"
	cfg.DatabaseFilePath = ":memory:"
	cfg.JWTSecret = "shelfdesk-test-secret"
	cfg.ServerHost = "127.0.0.1"
	cfg.ServerPort = 0
}
