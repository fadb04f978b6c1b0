package storage

// MinIOConfig holds MinIO connection configuration
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Configured reports whether an endpoint was set. Snapshot export is only
// offered when it was.
func (c *MinIOConfig) Configured() bool {
	return c != nil && c.Endpoint != ""
}
