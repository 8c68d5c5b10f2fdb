// Package validate checks a parsed Internet-Draft against the rules an
// author is expected to follow before submission.
//
// A Validator runs an ordered table of rules over a *document.Result. Each
// rule is a simple predicate over the parsed model that adds typed
// messages to a report. Rules that need the remote lookup service are
// skipped when no service is configured or the service is offline.
package validate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coolbeans/draftcheck/pkg/document"
	"github.com/coolbeans/draftcheck/pkg/extract"
	"github.com/coolbeans/draftcheck/pkg/lookup"
	"github.com/coolbeans/draftcheck/pkg/report"
)

// Mode selects how strictly findings are reported.
type Mode string

const (
	// ModeNormal reports findings with their default severity.
	ModeNormal Mode = "normal"

	// ModeForgiving downgrades every warning to info.
	ModeForgiving Mode = "forgiving"

	// ModeSubmission upgrades missing-section warnings to errors.
	ModeSubmission Mode = "submission"
)

// ParseMode returns the Mode named s. The empty string is ModeNormal.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeNormal:
		return ModeNormal, nil
	case ModeForgiving:
		return ModeForgiving, nil
	case ModeSubmission:
		return ModeSubmission, nil
	}
	return "", fmt.Errorf("unknown mode %q (want normal, forgiving or submission)", s)
}

// submissionErrors are the checks raised to errors in submission mode.
var submissionErrors = map[string]bool{
	CheckSectionMissing: true,
}

// Config holds user-configurable settings for a Validator.
type Config struct {
	Mode Mode

	// Skip lists rule IDs or check IDs that are not reported.
	Skip []string
}

// DefaultConfig returns a config with no skipped rules in normal mode.
func DefaultConfig() Config {
	return Config{Mode: ModeNormal}
}

// Context is the data available to a rule while it runs.
type Context struct {
	// Ctx bounds remote lookups.
	Ctx context.Context

	Result *document.Result

	// Lookup is nil when remote rules are disabled.
	Lookup lookup.Service

	extractor *extract.Extractor
	report    *report.Report
}

// Doc returns the parsed document under validation.
func (c *Context) Doc() *document.ParsedDocument {
	return c.Result.Data
}

func (c *Context) add(sev report.Severity, checkID string, line int, format string, args ...any) {
	c.report.AddAtLine(sev, checkID, fmt.Sprintf(format, args...), line)
}

func (c *Context) errorf(checkID string, line int, format string, args ...any) {
	c.add(report.Error, checkID, line, format, args...)
}

func (c *Context) warnf(checkID string, line int, format string, args ...any) {
	c.add(report.Warning, checkID, line, format, args...)
}

func (c *Context) infof(checkID string, line int, format string, args ...any) {
	c.add(report.Info, checkID, line, format, args...)
}

// Rule is one entry of the rule table.
type Rule struct {
	ID string

	// Remote rules run only with an online lookup service.
	Remote bool

	Run func(c *Context)
}

// DefaultRules returns the built-in rule table in execution order.
func DefaultRules() []Rule {
	return []Rule{
		{ID: "header", Run: checkHeader},
		{ID: "sections", Run: checkSections},
		{ID: "keywords", Run: checkKeywords},
		{ID: "inline-code", Run: checkInlineCode},
		{ID: "domains", Run: checkDomains},
		{ID: "addresses", Run: checkAddresses},
		{ID: "references", Run: checkReferences},
		{ID: "obsoletes-updates", Run: checkObsoletesUpdates},
		{ID: "reference-status", Remote: true, Run: checkReferenceStatus},
		{ID: "downrefs", Remote: true, Run: checkDownrefs},
	}
}

// Validator runs a rule table over parsed documents. It holds no
// per-document state and may be shared between goroutines.
type Validator struct {
	rules     []Rule
	config    Config
	lookup    lookup.Service
	extractor *extract.Extractor
}

// NewValidator creates a validator with the default rules. svc may be nil,
// in which case remote rules never run.
func NewValidator(config Config, svc lookup.Service) *Validator {
	if config.Mode == "" {
		config.Mode = ModeNormal
	}
	return &Validator{
		rules:     DefaultRules(),
		config:    config,
		lookup:    svc,
		extractor: extract.NewExtractor(),
	}
}

// RegisterRule appends a rule. Rules execute in registration order.
func (v *Validator) RegisterRule(rule Rule) {
	v.rules = append(v.rules, rule)
}

// Rules returns the rule table.
func (v *Validator) Rules() []Rule {
	return v.rules
}

// Validate runs every rule over res and returns the report.
func (v *Validator) Validate(ctx context.Context, res *document.Result) *report.Report {
	rep := report.NewReport(res.Filename)
	c := &Context{
		Ctx:       ctx,
		Result:    res,
		Lookup:    v.remote(),
		extractor: v.extractor,
		report:    rep,
	}

	for _, rule := range v.rules {
		if v.isSkipped(rule.ID) {
			continue
		}
		if rule.Remote && c.Lookup == nil {
			log.Debug().Str("rule", rule.ID).Str("file", res.Filename).Msg("remote rule skipped")
			continue
		}
		start := time.Now()
		rule.Run(c)
		log.Trace().Str("rule", rule.ID).Dur("elapsed", time.Since(start)).Msg("rule finished")
	}

	v.filter(rep)
	v.applyMode(rep)
	return rep
}

// remote returns the lookup service when remote rules may run.
func (v *Validator) remote() lookup.Service {
	if v.lookup == nil {
		return nil
	}
	if offline, ok := v.lookup.(interface{ Offline() bool }); ok && offline.Offline() {
		return nil
	}
	return v.lookup
}

func (v *Validator) filter(rep *report.Report) {
	if len(v.config.Skip) == 0 {
		return
	}
	kept := rep.Messages[:0]
	for _, m := range rep.Messages {
		if !v.isSkipped(m.CheckID) {
			kept = append(kept, m)
		}
	}
	rep.Messages = kept
}

func (v *Validator) applyMode(rep *report.Report) {
	switch v.config.Mode {
	case ModeForgiving:
		rep.Downgrade(nil)
	case ModeSubmission:
		rep.Upgrade(submissionErrors)
	}
}

func (v *Validator) isSkipped(id string) bool {
	for _, skip := range v.config.Skip {
		if strings.EqualFold(skip, id) {
			return true
		}
	}
	return false
}
