// Package media turns stored image references into URLs clients can load.
package media

import (
	"context"
	"net/url"
	"strings"

	"storefront/domain"
)

type baseURLKey struct{}

// WithBaseURL stores the origin of the incoming request (scheme://host) so
// serializers further down can build absolute URLs.
func WithBaseURL(ctx context.Context, baseURL string) context.Context {
	return context.WithValue(ctx, baseURLKey{}, strings.TrimRight(baseURL, "/"))
}

// BaseURLFrom returns the request origin, or "" when the call did not come
// through an HTTP request.
func BaseURLFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	base, _ := ctx.Value(baseURLKey{}).(string)
	return base
}

type Resolver struct {
	MediaURL    string
	Placeholder string
}

func NewResolver(mediaURL, placeholder string) Resolver {
	if mediaURL == "" {
		mediaURL = "/media/"
	}
	if placeholder == "" {
		placeholder = "placeholder.jpg"
	}
	return Resolver{MediaURL: mediaURL, Placeholder: placeholder}
}

// Resolve returns the URL of the product image, falling back to the
// placeholder. It never fails.
func (r Resolver) Resolve(p domain.Product, baseURL string) string {
	return r.ImageURL(p.Image, baseURL)
}

func (r Resolver) ImageURL(image *string, baseURL string) string {
	if image != nil {
		key := strings.TrimSpace(*image)
		if isAbsolute(key) {
			return key
		}
		if key != "" {
			return absolute(baseURL, r.Path(key))
		}
	}
	return absolute(baseURL, r.Path(r.Placeholder))
}

// Path is the URL of a stored object: site-relative, or absolute when
// MediaURL points at another host.
func (r Resolver) Path(key string) string {
	return r.root() + strings.TrimLeft(key, "/")
}

// Key is the inverse of Path for request paths; ok is false for paths outside
// the media root.
func (r Resolver) Key(path string) (string, bool) {
	prefix := r.root()
	if isAbsolute(prefix) {
		u, err := url.Parse(prefix)
		if err != nil {
			return "", false
		}
		prefix = rootPath(u.Path)
	}
	if !strings.HasPrefix(path, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(path, prefix)
	return key, key != ""
}

// root is MediaURL normalised to end in exactly one slash.
func (r Resolver) root() string {
	if isAbsolute(r.MediaURL) {
		return strings.TrimRight(r.MediaURL, "/") + "/"
	}
	return rootPath(r.MediaURL)
}

func rootPath(prefix string) string {
	trimmed := strings.Trim(prefix, "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed + "/"
}

func absolute(baseURL, path string) string {
	if baseURL == "" || isAbsolute(path) {
		return path
	}
	return strings.TrimRight(baseURL, "/") + path
}

func isAbsolute(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
