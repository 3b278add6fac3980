package config

func loadProductionConfig(cfg *Config) {
	cfg.CoverUploadDir = "/data/uploads/covers"
	cfg.DatabaseFilePath = "/data/data.sqlite"
	cfg.ServerHost = "0.0.0.0"
}
