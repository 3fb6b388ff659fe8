package env

const (
	// Prefix is the env var prefix for all commands
	Prefix = "KURSY"

	// DBURLSuffix holds the Postgres DSN env var suffix
	DBURLSuffix = "_DB_URL"
)
