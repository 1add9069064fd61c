package phabricator

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/em-/dumph/internal/dump/repository"
	pkgLog "github.com/em-/dumph/pkg/log"
	pkgPhab "github.com/em-/dumph/pkg/phabricator"
)

type implSource struct {
	client  *pkgPhab.Client
	baseURL string // for building task web URIs
	names   *expirable.LRU[string, string]
	l       pkgLog.Logger
}

// New creates a TaskSource backed by the Conduit API. Resolved PHID names
// are cached so repeated owners and projects across pages cost one lookup.
func New(client *pkgPhab.Client, baseURL string, l pkgLog.Logger) repository.TaskSource {
	return &implSource{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		names:   expirable.NewLRU[string, string](4096, nil, 10*time.Minute),
		l:       l,
	}
}
