// Package i18n renders user-facing messages for domain error codes.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	apperrors "github.com/louisbranch/creature-arena/internal/platform/errors"
	i18ncatalog "github.com/louisbranch/creature-arena/internal/platform/i18n/catalog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const namespace = "errors"

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[apperrors.Code]*template.Template
	raw      map[apperrors.Code]string
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{}
)

// GetCatalog returns the catalog for the given locale, falling back to the
// base locale when the requested one has no error messages.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = i18ncatalog.BaseLocale
	}
	if c, ok := lookupCatalog(requested); ok {
		return c
	}

	resolved, messages := i18ncatalog.Default().NamespaceMessagesWithFallback(requested, namespace)
	if c, ok := lookupCatalog(resolved); ok {
		return c
	}
	codes := make(map[apperrors.Code]string, len(messages))
	for key, value := range messages {
		codes[apperrors.Code(key)] = value
	}
	return storeCatalogIfAbsent(resolved, NewCatalog(resolved, codes))
}

// NewCatalog creates a catalog for locale. Templates that fail to parse are
// kept as literal text.
func NewCatalog(locale string, messages map[apperrors.Code]string) *Catalog {
	c := &Catalog{
		locale:   locale,
		messages: make(map[apperrors.Code]*template.Template, len(messages)),
		raw:      make(map[apperrors.Code]string, len(messages)),
	}
	for code, text := range messages {
		c.raw[code] = text
		if tmpl, err := template.New(string(code)).Parse(text); err == nil {
			c.messages[code] = tmpl
		}
	}
	return c
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for code with metadata. Unknown codes render as
// the code itself; templates that fail render their raw text.
func (c *Catalog) Format(code apperrors.Code, metadata map[string]string) string {
	text, ok := c.raw[code]
	if !ok {
		return string(code)
	}
	tmpl, ok := c.messages[code]
	if !ok {
		return text
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return text
	}
	return buf.String()
}

// Message localizes err. Errors without a domain code render as CodeUnknown
// so internal details never reach the caller.
func (c *Catalog) Message(err error) string {
	if domainErr, ok := apperrors.As(err); ok {
		return c.Format(domainErr.Code, domainErr.Metadata)
	}
	return c.Format(apperrors.CodeUnknown, nil)
}

// HandleError converts err to a gRPC status whose LocalizedMessage is
// rendered for locale. Errors without a domain code become Internal with the
// generic message.
func HandleError(err error, locale string) error {
	if err == nil {
		return nil
	}
	cat := GetCatalog(locale)
	domainErr, ok := apperrors.As(err)
	if !ok {
		return status.Error(codes.Internal, cat.Format(apperrors.CodeUnknown, nil))
	}
	return domainErr.ToGRPCStatus(cat.Locale(), cat.Format(domainErr.Code, domainErr.Metadata))
}

// RegisterCatalog installs cat for locale. Intended for tests and init.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}

func storeCatalogIfAbsent(locale string, candidate *Catalog) *Catalog {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	if existing, ok := catalogs[locale]; ok {
		return existing
	}
	catalogs[locale] = candidate
	return candidate
}
