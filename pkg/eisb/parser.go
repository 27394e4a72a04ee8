package eisb

import (
	"go.uber.org/zap"

	"github.com/coolbeans/actsetl/pkg/pattern"
)

// DefaultPrincipalActURI is the fallback destination for amendment
// instructions whose target text cannot be decomposed.
const DefaultPrincipalActURI = "#principal_act"

// Parser converts eISB section content into classified provisions and
// assembled Akoma Ntoso fragments. A Parser is safe for reuse across
// sections; all per-section state lives in values created per call.
type Parser struct {
	patterns        *pattern.Library
	log             *zap.Logger
	principalActURI string
	workers         int
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for recoverable parse anomalies.
func WithLogger(log *zap.Logger) Option {
	return func(p *Parser) { p.log = log }
}

// WithPatterns injects a pattern library, e.g. a test double.
func WithPatterns(lib *pattern.Library) Option {
	return func(p *Parser) { p.patterns = lib }
}

// WithPrincipalActURI overrides the fallback amendment destination URI.
func WithPrincipalActURI(uri string) Option {
	return func(p *Parser) { p.principalActURI = uri }
}

// WithWorkers enables parsing up to n sibling sections concurrently.
// Amendment metadata is still returned in source document order.
func WithWorkers(n int) Option {
	return func(p *Parser) { p.workers = n }
}

// NewParser builds a Parser with a freshly compiled pattern library and a
// no-op logger unless overridden.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		patterns:        pattern.NewLibrary(),
		log:             zap.NewNop(),
		principalActURI: DefaultPrincipalActURI,
		workers:         1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = 1
	}
	return p
}
