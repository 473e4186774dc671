package config

// Supported database engines.
const (
	DBEngineMySQL    = "mysql"
	DBEnginePostgres = "postgres"
	DBEngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	// Engine selects the GORM driver: mysql, postgres or sqlite.
	Engine string
	// Path is the database file path (sqlite only).
	Path     string
	Extras   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}
