package hosting

import "context"

// Namespace is a user's public publishing root. The handle is the stable,
// globally unique name the provider serves the user's files under.
type Namespace struct {
	Handle string `json:"subdomain"`
}

// Asset is one durably hosted file.
type Asset struct {
	URL string `json:"url"`
}

// Provider abstracts the public file hosting backend.
type Provider interface {
	// CreateNamespace provisions a new publishing root serving files from
	// rootPath. Fails if the handle is already taken.
	CreateNamespace(ctx context.Context, handle, rootPath string) (*Namespace, error)

	// MkdirAll ensures dir exists inside the namespace, parents included.
	// Never fails because the directory already exists.
	MkdirAll(ctx context.Context, ns *Namespace, dir string) error

	// Write stores blob at path inside the namespace, overwriting any
	// previous content.
	Write(ctx context.Context, ns *Namespace, path string, blob []byte, contentType string) error

	// PublicURL returns the publicly resolvable URL for path under the
	// namespace.
	PublicURL(ns *Namespace, path string) string

	// IsHostedURL reports whether rawURL already points into a namespace
	// served by this provider.
	IsHostedURL(rawURL string) bool
}
