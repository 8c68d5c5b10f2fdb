package validate

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coolbeans/draftcheck/pkg/parse"
	"github.com/coolbeans/draftcheck/pkg/report"
)

// Check parses text with p and validates the result. A document that
// cannot be read or parsed yields a report holding one FATAL message.
func (v *Validator) Check(ctx context.Context, p *parse.Parser, filename, text string) *report.Report {
	start := time.Now()
	log.Debug().Str("file", filename).Msg("check started")

	rep := v.check(ctx, p, filename, text)

	log.Debug().
		Str("file", filename).
		Dur("elapsed", time.Since(start)).
		Int("errors", rep.ErrorCount()+rep.FatalCount()).
		Int("warnings", rep.WarningCount()).
		Msg("check finished")
	return rep
}

func (v *Validator) check(ctx context.Context, p *parse.Parser, filename, text string) *report.Report {
	if strings.EqualFold(filepath.Ext(filename), ".xml") {
		rep := report.NewReport(filename)
		rep.Add(report.Fatal, report.CheckUnsupportedFormat, "RFCXML input is not supported; check the plain-text rendering")
		return rep
	}

	res, err := p.Parse(text, filename)
	if err != nil {
		rep := report.NewReport(filename)
		var parseErr *parse.ParseError
		if errors.As(err, &parseErr) {
			rep.AddAtLine(report.Fatal, report.CheckParseError, parseErr.Err.Error(), parseErr.Line)
		} else {
			rep.Add(report.Fatal, report.CheckParseError, err.Error())
		}
		return rep
	}

	return v.Validate(ctx, res)
}
