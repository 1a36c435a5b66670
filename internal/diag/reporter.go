package diag

import "tagcopy/internal/source"

// Reporter receives diagnostics from the lexer, parser and checker.
// Implementations: BagReporter, DedupReporter, NopReporter.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix)
}

// ReportBuilder collects notes and fixes for one diagnostic and hands it to
// a Reporter on Emit. A nil builder is inert.
type ReportBuilder struct {
	to      Reporter
	d       Diagnostic
	emitted bool
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{to: r, d: New(sev, code, primary, msg)}
}

// ReportError starts an error; lexical problems are always errors.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.d = b.d.WithNote(sp, msg)
	}
	return b
}

// WithNotes appends already built notes, e.g. instantiation sites.
func (b *ReportBuilder) WithNotes(notes ...Note) *ReportBuilder {
	if b != nil {
		b.d.Notes = append(b.d.Notes, notes...)
	}
	return b
}

// WithFixes attaches fix-its; an empty list is a no-op.
func (b *ReportBuilder) WithFixes(fixes ...Fix) *ReportBuilder {
	if b != nil {
		b.d.Fixes = append(b.d.Fixes, fixes...)
	}
	return b
}

// Emit отдаёт диагностику репортеру ровно один раз.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	b.emitted = true
	if b.to == nil {
		return
	}
	d := b.d
	b.to.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
}

// BagReporter пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Message: msg,
		Primary: primary, Notes: notes, Fixes: fixes,
	})
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note, []Fix) {}
