package models

type EnvConfig struct {
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	HTTPSProxy string
	HTTPProxy  string
	NoProxy    string

	CookiesDirectory string

	FunimationEmail    string
	FunimationPassword string

	LogLevel string
	LogFile  bool
	Caching  bool
}

type ExtractorConfig struct {
	HTTPProxy    string `yaml:"http_proxy"`
	HTTPSProxy   string `yaml:"https_proxy"`
	NoProxy      string `yaml:"no_proxy"`
	EdgeProxyURL string `yaml:"edge_proxy_url"`

	IsDisabled bool `yaml:"disabled"`
}
