package resumerank

import "go.uber.org/zap"

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	principal string
	embedder  Embedder

	maxDocumentBytes int64
	maxBatchFiles    int
	embedWorkers     int

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithPrincipal sets the owner under which all documents, jobs and
// analyses are stored. Defaults to "local".
func WithPrincipal(principal string) Option {
	return optionFunc(func(c *clientConfig) {
		c.principal = principal
	})
}

// WithEmbedder sets the text embedding provider.
// Required for running analyses; uploads and listing work without it.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithUploadLimits overrides the per-file size ceiling and the number of
// files accepted per batch. Defaults: 10 MiB and 20 files.
func WithUploadLimits(maxDocumentBytes int64, maxBatchFiles int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxDocumentBytes = maxDocumentBytes
		c.maxBatchFiles = maxBatchFiles
	})
}

// WithEmbedWorkers bounds concurrent embedding provider calls. Default: 4.
func WithEmbedWorkers(workers int) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedWorkers = workers
	})
}

// WithLogger enables structured logging for client operations.
// Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
