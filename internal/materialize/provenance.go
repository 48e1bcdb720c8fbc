package materialize

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// DefaultScheme is the locator scheme used in provenance headers unless
// the configuration overrides it.
const DefaultScheme = "logseq"

// Provenance controls the metadata lines prepended to a copied page,
// recording that the page originated in another graph.
type Provenance struct {
	Enabled bool
	Scheme  string
}

// Header renders the provenance block for a page copied out of graphName.
// fileName is the source filename; the page name is derived from it by
// stripping the extension and replacing the hierarchy separator with "/",
// then percent-encoding the result for the locator query.
func (p Provenance) Header(graphName, fileName string) []byte {
	scheme := p.Scheme
	if scheme == "" {
		scheme = DefaultScheme
	}
	page := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	page = strings.ReplaceAll(page, NamespaceSep, "/")

	var b strings.Builder
	b.WriteString("logseq-remote-page:: true\n")
	fmt.Fprintf(&b, "logseq-remote-page-link:: %s://graph/%s?page=%s\n", scheme, graphName, url.PathEscape(page))
	b.WriteString("\n")
	return []byte(b.String())
}
