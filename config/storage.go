package config

import "strings"

// StorageConfig contains settings for the document and logo object store.
type StorageConfig struct {
	// Root is the filesystem directory holding uploaded objects.
	Root string `env:"ROOT" envDefault:"./data/storage"`

	// PublicURL is the URL prefix under which stored objects are served.
	PublicURL string `env:"PUBLIC_URL" envDefault:"/files"`
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	s.Root = strings.TrimSpace(s.Root)
	if s.Root == "" {
		s.Root = "./data/storage"
	}
	s.PublicURL = strings.TrimRight(strings.TrimSpace(s.PublicURL), "/")
	if s.PublicURL == "" {
		s.PublicURL = "/files"
	}
}
