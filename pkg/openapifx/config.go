package openapifx

type Config struct {
	Enabled bool
	// PublicHost and PublicPath override the host and base path advertised
	// in the document, e.g. behind a reverse proxy.
	PublicHost string
	PublicPath string
}
