package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	JWTSecret string `env:"JWT_SECRET"`

	// Revenue split applied to the gross order amount at session-creation
	// time. The remainder goes to the platform.
	CreatorSharePercent int64 `env:"CREATOR_SHARE_PERCENT" envDefault:"60"`

	Stripe   Stripe   `envPrefix:"STRIPE_"`
	Printful Printful `envPrefix:"PRINTFUL_"`
}

type Stripe struct {
	BaseApiURL    string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Printful struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://api.printful.com"`
	APIKey     string `env:"API_KEY"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
