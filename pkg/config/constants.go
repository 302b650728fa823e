package config

const (
	// EnvPrefix namespaces every environment variable consumed by the service.
	EnvPrefix = "AGENDA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
